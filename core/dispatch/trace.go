package dispatch

import (
	"fmt"
	"io"
	"sync"

	"github.com/kilianp07/brigade/core/events"
)

// Tracer receives the batch trace synchronously, in emission order.
type Tracer interface {
	Trace(ev events.TraceEvent)
}

// TracerFunc adapts a function to Tracer.
type TracerFunc func(events.TraceEvent)

func (f TracerFunc) Trace(ev events.TraceEvent) { f(ev) }

// WriterTracer prints one trace line per event.
type WriterTracer struct {
	W io.Writer
}

func (t WriterTracer) Trace(ev events.TraceEvent) {
	_, _ = fmt.Fprintln(t.W, ev.String())
}

// RecordingTracer keeps every event in memory.
type RecordingTracer struct {
	mu     sync.Mutex
	events []events.TraceEvent
}

func (r *RecordingTracer) Trace(ev events.TraceEvent) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

// Events returns a copy of the recorded events.
func (r *RecordingTracer) Events() []events.TraceEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.TraceEvent(nil), r.events...)
}

// Lines renders the recorded events as trace lines.
func (r *RecordingTracer) Lines() []string {
	evs := r.Events()
	out := make([]string, len(evs))
	for i, ev := range evs {
		out[i] = ev.String()
	}
	return out
}
