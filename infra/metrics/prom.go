package metrics

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/brigade/core/metrics"
)

// PromSink records dispatch outcomes in Prometheus metrics.
type PromSink struct {
	dishes   *prometheus.CounterVec
	attempts prometheus.Histogram
	transfer *prometheus.CounterVec
	units    *prometheus.CounterVec
	batches  *prometheus.CounterVec
	backup   *prometheus.GaugeVec
	trace    *prometheus.CounterVec
}

// NewPromSink registers the sink metrics on the default Prometheus registerer.
// The HTTP endpoint is served by NewPromMux and StartServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// already registered under the same name are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		dishes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "brigade_dish_outcomes_total",
			Help: "Dish outcomes by dish, station and result",
		}, []string{"dish", "station", "prepared"}),
		attempts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "brigade_station_attempts",
			Help:    "Stations tried per dish",
			Buckets: prometheus.LinearBuckets(1, 1, 8),
		}),
		transfer: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "brigade_backup_transfers_total",
			Help: "Backup stock transfers by station, ingredient and result",
		}, []string{"station", "ingredient", "succeeded"}),
		units: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "brigade_backup_units_transferred_total",
			Help: "Units moved from the backup stock, by ingredient",
		}, []string{"ingredient"}),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "brigade_batch_dishes_total",
			Help: "Dishes handled by full batches, by result",
		}, []string{"result"}),
		backup: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "brigade_backup_stock_level",
			Help: "Backup stock quantity after the last batch",
		}, []string{"ingredient"}),
		trace: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "brigade_trace_events_total",
			Help: "Dispatch trace events by kind",
		}, []string{"kind"}),
	}
	var err error
	if s.dishes, err = register(reg, s.dishes); err != nil {
		return nil, err
	}
	if s.attempts, err = register(reg, s.attempts); err != nil {
		return nil, err
	}
	if s.transfer, err = register(reg, s.transfer); err != nil {
		return nil, err
	}
	if s.units, err = register(reg, s.units); err != nil {
		return nil, err
	}
	if s.batches, err = register(reg, s.batches); err != nil {
		return nil, err
	}
	if s.backup, err = register(reg, s.backup); err != nil {
		return nil, err
	}
	if s.trace, err = register(reg, s.trace); err != nil {
		return nil, err
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordDishOutcomes counts each outcome and observes its attempts.
func (s *PromSink) RecordDishOutcomes(out []coremetrics.DishOutcome) error {
	for _, o := range out {
		s.dishes.WithLabelValues(o.Dish, o.Station, strconv.FormatBool(o.Prepared)).Inc()
		s.attempts.Observe(float64(o.Attempts))
	}
	return nil
}

// RecordReplenishment counts the transfer and, when it succeeded, its units.
func (s *PromSink) RecordReplenishment(ev coremetrics.ReplenishmentEvent) error {
	s.transfer.WithLabelValues(ev.Station, ev.Ingredient, strconv.FormatBool(ev.Succeeded)).Inc()
	if ev.Succeeded {
		s.units.WithLabelValues(ev.Ingredient).Add(float64(ev.Quantity))
	}
	return nil
}

func (s *PromSink) RecordBatch(ev coremetrics.BatchEvent) error {
	s.batches.WithLabelValues("prepared").Add(float64(ev.Prepared))
	s.batches.WithLabelValues("failed").Add(float64(ev.Failed))
	return nil
}

// RecordBackupLevels replaces the backup gauges. Ingredients no longer in
// the backup stock are dropped from the vector.
func (s *PromSink) RecordBackupLevels(levels []coremetrics.BackupLevel) error {
	s.backup.Reset()
	for _, l := range levels {
		s.backup.WithLabelValues(l.Ingredient).Set(float64(l.Quantity))
	}
	return nil
}

func (s *PromSink) RecordTraceEvent(kind string) error {
	s.trace.WithLabelValues(kind).Inc()
	return nil
}
