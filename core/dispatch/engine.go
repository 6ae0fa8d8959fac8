package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/brigade/core/backup"
	"github.com/kilianp07/brigade/core/dispatch/logging"
	"github.com/kilianp07/brigade/core/events"
	"github.com/kilianp07/brigade/core/logger"
	"github.com/kilianp07/brigade/core/metrics"
	"github.com/kilianp07/brigade/core/model"
	coremqtt "github.com/kilianp07/brigade/core/mqtt"
	"github.com/kilianp07/brigade/core/queue"
	"github.com/kilianp07/brigade/core/registry"
	"github.com/kilianp07/brigade/internal/eventbus"
)

// Engine dispatches queued orders to the registered stations. Entry points
// are serialised; the engine borrows stations and dishes for the duration of
// a call and never takes ownership.
type Engine struct {
	mu           sync.Mutex
	registry     *registry.Registry
	backup       *backup.Stock
	queue        *queue.Queue
	logger       logger.Logger
	metrics      metrics.MetricsSink
	tracer       Tracer
	bus          *eventbus.TypedBus[events.TraceEvent]
	notifier     coremqtt.Notifier
	store        logging.LogStore
	history      []BatchResult
	historyLimit int
	now          func() time.Time
}

// NewEngine creates an engine over the given registry, backup stock and
// queue. A nil logger or sink is replaced by a no-op implementation.
func NewEngine(reg *registry.Registry, stock *backup.Stock, q *queue.Queue, log logger.Logger, sink metrics.MetricsSink) (*Engine, error) {
	if reg == nil || stock == nil || q == nil {
		return nil, fmt.Errorf("dispatch: nil parameter provided to NewEngine")
	}
	if log == nil {
		log = nopLogger{}
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Engine{
		registry:     reg,
		backup:       stock,
		queue:        q,
		logger:       log,
		metrics:      sink,
		historyLimit: 100,
		now:          time.Now,
	}, nil
}

// SetTracer configures the receiver of the batch trace.
func (e *Engine) SetTracer(t Tracer) {
	e.mu.Lock()
	e.tracer = t
	e.mu.Unlock()
}

// SetBus configures the bus trace events are published on.
func (e *Engine) SetBus(bus *eventbus.TypedBus[events.TraceEvent]) {
	e.mu.Lock()
	e.bus = bus
	e.mu.Unlock()
}

// SetNotifier configures the notifier told about prepared dishes.
func (e *Engine) SetNotifier(n coremqtt.Notifier) {
	e.mu.Lock()
	e.notifier = n
	e.mu.Unlock()
}

// SetLogStore configures the store used to journal batches.
func (e *Engine) SetLogStore(store logging.LogStore) {
	e.mu.Lock()
	e.store = store
	e.mu.Unlock()
}

// SetClock overrides the time source, for tests.
func (e *Engine) SetClock(now func() time.Time) {
	e.mu.Lock()
	e.now = now
	e.mu.Unlock()
}

// SetHistoryLimit caps the number of batch results kept by History.
func (e *Engine) SetHistoryLimit(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if n > 0 {
		e.historyLimit = n
	}
	e.trimHistory()
}

// History returns the most recent batch results, oldest first.
func (e *Engine) History() []BatchResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]BatchResult(nil), e.history...)
}

// Registry returns the station registry. Mutations that must not race a
// running batch go through Engine methods such as Merge.
func (e *Engine) Registry() *registry.Registry { return e.registry }

// Backup returns the backup stock shared by all stations.
func (e *Engine) Backup() *backup.Stock { return e.backup }

// Queue returns the pending orders.
func (e *Engine) Queue() *queue.Queue { return e.queue }

// Merge folds station b into station a under the engine lock.
func (e *Engine) Merge(a, b string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.Merge(a, b)
}

// PrepareNext prepares the order at the head of the queue at the first
// station able to complete it right now. The order stays at the head when no
// station can; the backup stock is never used here.
func (e *Engine) PrepareNext() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	dish, ok := e.queue.Front()
	if !ok {
		return false
	}
	for _, st := range e.registry.Stations() {
		if !st.CanCompleteOrder(dish) {
			continue
		}
		if !st.PrepareOrder(dish) {
			continue
		}
		e.queue.Pop()
		e.logger.Infof("prepared %s at %s", dish.Name, st.Name())
		out := Outcome{Dish: dish.Name, Station: st.Name(), Prepared: true, Attempts: 1}
		e.recordOutcomes("", []Outcome{out})
		e.notify("", out)
		queueDepth.Set(float64(e.queue.Len()))
		return true
	}
	e.logger.Debugf("no station can prepare %s yet", dish.Name)
	return false
}

// ReplenishFromBackup moves exactly qty of the ingredient from the backup
// stock to the station. It fails without changing anything when the station
// is unknown or the backup holds less than qty.
func (e *Engine) ReplenishFromBackup(station, ingredient string, qty int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.replenish("", station, ingredient, qty)
}

func (e *Engine) replenish(batchID, station, ingredient string, qty int) bool {
	ok := e.transfer(station, ingredient, qty)
	replenishments.WithLabelValues(ingredient, resultLabel(ok)).Inc()
	if rec, isRec := e.metrics.(metrics.ReplenishmentRecorder); isRec {
		ev := metrics.ReplenishmentEvent{
			BatchID:    batchID,
			Station:    station,
			Ingredient: ingredient,
			Quantity:   qty,
			Succeeded:  ok,
			Time:       e.now(),
		}
		if err := rec.RecordReplenishment(ev); err != nil {
			e.logger.Errorf("replenishment metrics error: %v", err)
		}
	}
	return ok
}

func (e *Engine) transfer(station, ingredient string, qty int) bool {
	st, ok := e.registry.Find(station)
	if !ok {
		return false
	}
	unit, ok := e.backup.Withdraw(ingredient, qty)
	if !ok {
		return false
	}
	st.Replenish(unit)
	e.logger.Debugw("replenished from backup", map[string]any{
		"station":    station,
		"ingredient": ingredient,
		"quantity":   qty,
		"remaining":  e.backup.Quantity(ingredient),
	})
	return true
}

func (e *Engine) trace(ev events.TraceEvent) {
	if e.tracer != nil {
		e.tracer.Trace(ev)
	}
	if e.bus != nil {
		e.bus.Publish(ev)
	}
}

func (e *Engine) notify(batchID string, out Outcome) {
	if e.notifier == nil {
		return
	}
	t := coremqtt.Ticket{
		ID:          uuid.NewString(),
		BatchID:     batchID,
		Dish:        out.Dish,
		Station:     out.Station,
		Replenished: out.Replenished,
		PreparedAt:  e.now(),
	}
	if err := e.notifier.NotifyPrepared(t); err != nil {
		e.logger.Warnf("ticket for %s not published: %v", out.Dish, err)
	}
}

func (e *Engine) recordOutcomes(batchID string, outs []Outcome) {
	recs := make([]metrics.DishOutcome, len(outs))
	now := e.now()
	for i, o := range outs {
		if o.Prepared {
			dishesPrepared.WithLabelValues(o.Station).Inc()
		} else {
			dishesFailed.Inc()
		}
		recs[i] = metrics.DishOutcome{
			BatchID:     batchID,
			Dish:        o.Dish,
			Station:     o.Station,
			Prepared:    o.Prepared,
			Replenished: o.Replenished,
			Attempts:    o.Attempts,
			Time:        now,
		}
	}
	if err := e.metrics.RecordDishOutcomes(recs); err != nil {
		e.logger.Errorf("dish metrics error: %v", err)
	}
}

func (e *Engine) recordBatch(res BatchResult) {
	e.recordOutcomes(res.ID, res.Outcomes)
	batchDuration.Observe(res.Duration().Seconds())
	queueDepth.Set(float64(len(res.Remaining)))
	if br, ok := e.metrics.(metrics.BatchRecorder); ok {
		ev := metrics.BatchEvent{
			BatchID:  res.ID,
			Prepared: len(res.Prepared()),
			Failed:   len(res.Failed()),
			Duration: res.Duration(),
			Time:     res.FinishedAt,
		}
		if err := br.RecordBatch(ev); err != nil {
			e.logger.Errorf("batch metrics error: %v", err)
		}
	}
	if lr, ok := e.metrics.(metrics.BackupLevelRecorder); ok {
		items := e.backup.Items()
		levels := make([]metrics.BackupLevel, len(items))
		for i, ing := range items {
			levels[i] = metrics.BackupLevel{Ingredient: ing.Name, Quantity: ing.Quantity}
		}
		if err := lr.RecordBackupLevels(levels); err != nil {
			e.logger.Errorf("backup level metrics error: %v", err)
		}
	}
	if e.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := e.store.Append(ctx, res.LogRecord()); err != nil {
			e.logger.Errorf("journal append: %v", err)
		}
	}
	e.history = append(e.history, res)
	e.trimHistory()
}

func (e *Engine) trimHistory() {
	if over := len(e.history) - e.historyLimit; over > 0 {
		e.history = append([]BatchResult(nil), e.history[over:]...)
	}
}

// shortfall finds the first ingredient of the order, in listed order, that
// the station stocks in a smaller quantity than required. Ingredients the
// station does not stock at all are never replenished.
func shortfall(st *model.Station, order *model.Dish) (string, int, bool) {
	for _, req := range order.Ingredients {
		have, stocked := st.StockOf(req.Name)
		if !stocked {
			continue
		}
		if missing := req.Shortfall(have); missing > 0 {
			return req.Name, missing, true
		}
	}
	return "", 0, false
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Warnw(string, map[string]any)  {}
func (nopLogger) Errorf(string, ...any)         {}
