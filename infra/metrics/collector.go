package metrics

import (
	"context"

	"github.com/kilianp07/brigade/core/events"
	"github.com/kilianp07/brigade/core/logger"
	coremetrics "github.com/kilianp07/brigade/core/metrics"
	inflogger "github.com/kilianp07/brigade/infra/logger"
	"github.com/kilianp07/brigade/internal/eventbus"
)

// StartTraceCollector subscribes to the trace bus and counts events by kind
// on sinks that implement TraceRecorder. It stops when the context is
// canceled or the bus is closed; the returned channel is closed on exit.
// Sink errors are logged and do not stop the collector.
func StartTraceCollector(ctx context.Context, bus *eventbus.TypedBus[events.TraceEvent], sink coremetrics.MetricsSink, log logger.Logger) <-chan struct{} {
	if log == nil {
		log = inflogger.NopLogger{}
	}
	done := make(chan struct{})
	rec, ok := sink.(coremetrics.TraceRecorder)
	if bus == nil || !ok {
		close(done)
		return done
	}
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if err := rec.RecordTraceEvent(ev.Kind.String()); err != nil {
					log.Errorf("trace metrics error: %v", err)
				}
			}
		}
	}()
	return done
}
