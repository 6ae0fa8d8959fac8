package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/kilianp07/brigade/api/journal"
	"github.com/kilianp07/brigade/api/kitchen"
	"github.com/kilianp07/brigade/config"
	"github.com/kilianp07/brigade/core/dispatch"
	"github.com/kilianp07/brigade/core/dispatch/logging"
	"github.com/kilianp07/brigade/core/events"
	coremetrics "github.com/kilianp07/brigade/core/metrics"
	coremon "github.com/kilianp07/brigade/core/monitoring"
	coremqtt "github.com/kilianp07/brigade/core/mqtt"
	"github.com/kilianp07/brigade/infra/logger"
	"github.com/kilianp07/brigade/infra/metrics"
	"github.com/kilianp07/brigade/infra/monitoring"
	"github.com/kilianp07/brigade/infra/mqtt"
	"github.com/kilianp07/brigade/internal/eventbus"
)

// Service builds the kitchen described by the configuration and wires the
// dispatch engine to its journal, metrics sinks and pass notifier.
type Service struct {
	Engine *dispatch.Engine

	journal logging.LogStore
	sink    coremetrics.MetricsSink
	bus     *eventbus.TypedBus[events.TraceEvent]
	closers []io.Closer
	log     logger.Logger
	http    config.HTTPConfig

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option customises a Service.
type Option func(*options)

type options struct {
	notifier coremqtt.Notifier
	journal  logging.LogStore
}

// WithNotifier replaces the notifier built from the mqtt section.
func WithNotifier(n coremqtt.Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// WithJournal replaces the store built from the journal section.
func WithJournal(s logging.LogStore) Option {
	return func(o *options) { o.journal = s }
}

// New creates a Service from the configuration.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	logger.SetLevel(cfg.Log.Level)
	logg := logger.New("service")
	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(mon)

	reg, err := cfg.Kitchen.BuildRegistry()
	if err != nil {
		return nil, fmt.Errorf("stations: %w", err)
	}
	q, err := cfg.Kitchen.BuildQueue()
	if err != nil {
		return nil, fmt.Errorf("orders: %w", err)
	}
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	engine, err := dispatch.NewEngine(reg, cfg.Kitchen.BuildBackup(), q, coremon.NewReportingLogger(logger.New("dispatch"), "dispatch"), sink)
	if err != nil {
		return nil, fmt.Errorf("dispatch engine: %w", err)
	}
	engine.SetHistoryLimit(cfg.Dispatch.HistoryLimit)

	svc := &Service{Engine: engine, sink: sink, log: logg, http: cfg.HTTP}
	if c, ok := sink.(io.Closer); ok {
		svc.closers = append(svc.closers, c)
	}

	store := o.journal
	if store == nil {
		if store, err = OpenJournal(cfg.Journal); err != nil {
			svc.closeAll()
			return nil, fmt.Errorf("journal: %w", err)
		}
		svc.closers = append(svc.closers, store)
	}
	svc.journal = store
	engine.SetLogStore(store)

	notifier := o.notifier
	if notifier == nil && cfg.MQTT.Enabled {
		pn, err := mqtt.NewPahoNotifier(cfg.MQTT)
		if err != nil {
			svc.closeAll()
			return nil, fmt.Errorf("mqtt notifier: %w", err)
		}
		svc.closers = append(svc.closers, pn)
		notifier = pn
	}
	if notifier != nil {
		engine.SetNotifier(notifier)
	}

	svc.bus = eventbus.NewTyped[events.TraceEvent]()
	engine.SetBus(svc.bus)
	ctx, cancel := context.WithCancel(context.Background())
	svc.cancel = cancel
	svc.watchTrace(ctx)
	return svc, nil
}

// watchTrace logs trace events and counts them on the metrics sinks.
func (s *Service) watchTrace(ctx context.Context) {
	sub := s.bus.Subscribe()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for ev := range sub {
			s.log.Debugw(ev.String(), map[string]any{
				"batch":   ev.BatchID,
				"kind":    ev.Kind.String(),
				"dish":    ev.Dish,
				"station": ev.Station,
			})
		}
	}()
	done := metrics.StartTraceCollector(ctx, s.bus, s.sink, s.log)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		<-done
	}()
}

// RunBatch dispatches the whole queue once.
func (s *Service) RunBatch() dispatch.BatchResult {
	res := s.Engine.ProcessAll()
	s.log.Infof("batch %s done in %s", res.ID, res.Duration())
	return res
}

// Step prepares up to n orders from the head of the queue without using the
// backup stock. It stops at the first order no station can complete and
// returns the names of the prepared dishes.
func (s *Service) Step(n int) []string {
	var prepared []string
	for i := 0; i < n; i++ {
		d, ok := s.Engine.Queue().Front()
		if !ok || !s.Engine.PrepareNext() {
			break
		}
		prepared = append(prepared, d.Name)
	}
	return prepared
}

// Journal queries the batch journal.
func (s *Service) Journal(ctx context.Context, q logging.LogQuery) ([]logging.LogRecord, error) {
	return s.journal.Query(ctx, q)
}

// Handler returns the HTTP routes of the service: Prometheus metrics, the
// kitchen snapshot and the batch journal.
func (s *Service) Handler() http.Handler {
	mux := metrics.NewPromMux(nil)
	mux.Handle("/api/kitchen", kitchen.NewStatusHandler(s.Engine))
	mux.Handle("/api/batches", journal.NewHandler(s.journal, s.http.Token))
	return mux
}

// Serve exposes Handler until ctx is canceled. It returns immediately when
// no address is configured.
func (s *Service) Serve(ctx context.Context) error {
	if s.http.Addr == "" {
		return nil
	}
	return metrics.StartServer(ctx, s.http.Addr, s.Handler())
}

// Close stops the trace watchers and releases the journal, sinks and
// notifier.
func (s *Service) Close() error {
	s.cancel()
	s.bus.Close()
	s.wg.Wait()
	coremon.Flush(2 * time.Second)
	return s.closeAll()
}

func (s *Service) closeAll() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
