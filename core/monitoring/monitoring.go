// Package monitoring reports errors and panics to an external service.
package monitoring

import (
	"fmt"
	"sync"
	"time"

	"github.com/kilianp07/brigade/core/logger"
)

// Monitor defines methods used for error reporting.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	// CapturePanic reports a value obtained from recover.
	CapturePanic(v any)
	Flush(timeout time.Duration)
}

type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) CapturePanic(any)                          {}
func (NopMonitor) Flush(time.Duration)                       {}

var (
	mu      sync.RWMutex
	current Monitor = NopMonitor{}
)

// Init sets the global monitor implementation. A nil monitor restores the
// no-op one.
func Init(m Monitor) {
	mu.Lock()
	defer mu.Unlock()
	if m == nil {
		m = NopMonitor{}
	}
	current = m
}

func get() Monitor {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// CaptureException records the error with optional tags.
func CaptureException(err error, tags map[string]string) {
	if err != nil {
		get().CaptureException(err, tags)
	}
}

// CapturePanic records a recovered panic value.
func CapturePanic(v any) {
	if v != nil {
		get().CapturePanic(v)
	}
}

// Flush flushes buffered events.
func Flush(d time.Duration) {
	get().Flush(d)
}

// reportingLogger forwards Errorf calls to the global monitor.
type reportingLogger struct {
	logger.Logger
	component string
}

// NewReportingLogger wraps l so that every Errorf is also captured as an
// exception tagged with the component.
func NewReportingLogger(l logger.Logger, component string) logger.Logger {
	return reportingLogger{Logger: l, component: component}
}

func (r reportingLogger) Errorf(format string, args ...any) {
	r.Logger.Errorf(format, args...)
	CaptureException(fmt.Errorf(format, args...), map[string]string{"component": r.component})
}
