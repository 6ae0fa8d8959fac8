package dispatch

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/kilianp07/brigade/core/backup"
	"github.com/kilianp07/brigade/core/dispatch/logging"
	"github.com/kilianp07/brigade/core/events"
	"github.com/kilianp07/brigade/core/metrics"
	"github.com/kilianp07/brigade/core/model"
	"github.com/kilianp07/brigade/core/queue"
	"github.com/kilianp07/brigade/core/registry"
	"github.com/kilianp07/brigade/infra/mqtt"
	"github.com/kilianp07/brigade/internal/eventbus"
)

func soup() *model.Dish {
	return &model.Dish{
		Name:        "Soup",
		Course:      model.CourseAppetizer,
		Ingredients: []model.Ingredient{{Name: "soup-base", RequiredQuantity: 5}},
	}
}

func salad() *model.Dish {
	return &model.Dish{
		Name:        "Salad",
		Course:      model.CourseAppetizer,
		Ingredients: []model.Ingredient{{Name: "lettuce", RequiredQuantity: 1}},
	}
}

// kitchen builds the reference setup: B cannot cook soup, A can but holds
// only 2 of the 5 soup-base it needs.
func kitchen(t *testing.T, backupSoupBase int) (*Engine, *model.Station) {
	t.Helper()
	ResetMetrics(prometheus.NewRegistry())

	b := model.NewStation("B")
	b.AssignDish(salad())
	a := model.NewStation("A")
	a.AssignDish(soup())
	a.Replenish(model.Ingredient{Name: "soup-base", Quantity: 2})

	reg := registry.New()
	require.True(t, reg.Add(b))
	require.True(t, reg.Add(a))

	e, err := NewEngine(reg, backup.New(model.Ingredient{Name: "soup-base", Quantity: backupSoupBase}), queue.New(soup()), nil, nil)
	require.NoError(t, err)
	return e, a
}

func TestNewEngineRejectsNil(t *testing.T) {
	_, err := NewEngine(nil, backup.New(), queue.New(), nil, nil)
	assert.Error(t, err)
	_, err = NewEngine(registry.New(), nil, queue.New(), nil, nil)
	assert.Error(t, err)
	_, err = NewEngine(registry.New(), backup.New(), nil, nil, nil)
	assert.Error(t, err)
}

func TestProcessAllReplenishesAndRetries(t *testing.T) {
	e, a := kitchen(t, 10)
	rec := &RecordingTracer{}
	e.SetTracer(rec)

	res := e.ProcessAll()

	assert.True(t, e.Queue().IsEmpty())
	assert.Equal(t, 7, e.Backup().Quantity("soup-base"))
	have, ok := a.StockOf("soup-base")
	require.True(t, ok)
	assert.Equal(t, 0, have)

	require.Len(t, res.Outcomes, 1)
	assert.Equal(t, Outcome{Dish: "Soup", Station: "A", Prepared: true, Replenished: true, Attempts: 2}, res.Outcomes[0])
	assert.Equal(t, []Transfer{{Station: "A", Ingredient: "soup-base", Quantity: 3, Succeeded: true}}, res.Transfers)
	assert.Empty(t, res.Remaining)

	assert.Equal(t, []string{
		"PREPARING DISH: Soup",
		"B attempting to prepare Soup...",
		"B: Dish not available. Moving to next station...",
		"A attempting to prepare Soup...",
		"A: Insufficient ingredients. Replenishing ingredients...",
		"A: Ingredients replenished.",
		"A: Successfully prepared Soup.",
		"All dishes have been processed.",
	}, rec.Lines())

	evs := rec.Events()
	assert.Equal(t, "soup-base", evs[4].Ingredient)
	assert.Equal(t, 3, evs[4].Quantity)
	for _, ev := range evs {
		assert.Equal(t, res.ID, ev.BatchID)
	}
}

func TestProcessAllInsufficientBackupLeavesStateUnchanged(t *testing.T) {
	e, a := kitchen(t, 1)
	rec := &RecordingTracer{}
	e.SetTracer(rec)

	res := e.ProcessAll()

	assert.Equal(t, []string{"Soup"}, e.Queue().DrainToDisplay())
	assert.Equal(t, 1, e.Backup().Quantity("soup-base"))
	have, _ := a.StockOf("soup-base")
	assert.Equal(t, 2, have)

	assert.Equal(t, []string{"Soup"}, res.Failed())
	assert.Equal(t, []string{"Soup"}, res.Remaining)
	assert.Equal(t, []Transfer{{Station: "A", Ingredient: "soup-base", Quantity: 3}}, res.Transfers)
	assert.Contains(t, rec.Lines(), "A: Unable to replenish ingredients. Failed to prepare Soup.")
	assert.Contains(t, rec.Lines(), "Soup was not prepared.")
	assert.Equal(t, 1.0, testutil.ToFloat64(dishesFailed))
	assert.Equal(t, 1.0, testutil.ToFloat64(replenishments.WithLabelValues("soup-base", "failure")))
}

func TestProcessAllPreservesFailedOrder(t *testing.T) {
	ResetMetrics(prometheus.NewRegistry())
	st := model.NewStation("Grill")
	st.AssignDish(soup())
	st.AssignDish(salad())
	st.Replenish(model.Ingredient{Name: "lettuce", Quantity: 1})
	reg := registry.New()
	reg.Add(st)

	unknown := &model.Dish{Name: "Curry"}
	q := queue.New(soup(), salad(), unknown, soup(), salad())
	e, err := NewEngine(reg, backup.New(), q, nil, nil)
	require.NoError(t, err)

	res := e.ProcessAll()

	assert.Equal(t, []string{"Soup", "Curry", "Soup", "Salad"}, e.Queue().DrainToDisplay())
	assert.Equal(t, []string{"Soup", "Curry", "Soup", "Salad"}, res.Failed())
	assert.Len(t, res.Prepared(), 1)
}

func TestProcessAllPrepareFailureMovesOn(t *testing.T) {
	ResetMetrics(prometheus.NewRegistry())
	// Each listed requirement is covered on its own but not their sum, so the
	// shortfall scan finds nothing to replenish at A.
	a := model.NewStation("A")
	a.AssignDish(soup())
	a.Replenish(model.Ingredient{Name: "soup-base", Quantity: 4})
	b := model.NewStation("B")
	b.AssignDish(soup())
	b.Replenish(model.Ingredient{Name: "soup-base", Quantity: 6})
	reg := registry.New()
	reg.Add(a)
	reg.Add(b)

	order := soup()
	order.Ingredients = []model.Ingredient{{Name: "soup-base", RequiredQuantity: 3}, {Name: "soup-base", RequiredQuantity: 3}}
	stock := backup.New(model.Ingredient{Name: "soup-base", Quantity: 5})

	e, err := NewEngine(reg, stock, queue.New(order), nil, nil)
	require.NoError(t, err)
	rec := &RecordingTracer{}
	e.SetTracer(rec)

	res := e.ProcessAll()
	require.Len(t, res.Outcomes, 1)
	assert.Equal(t, "B", res.Outcomes[0].Station)
	assert.Empty(t, res.Transfers)
	assert.Equal(t, 5, stock.Quantity("soup-base"))
	assert.Contains(t, rec.Lines(), "A: Unable to prepare Soup. Moving to next station...")
	have, _ := a.StockOf("soup-base")
	assert.Equal(t, 4, have)
}

func TestProcessAllSkipsUnstockedIngredient(t *testing.T) {
	ResetMetrics(prometheus.NewRegistry())
	a := model.NewStation("A")
	a.AssignDish(salad())
	reg := registry.New()
	reg.Add(a)
	stock := backup.New(model.Ingredient{Name: "lettuce", Quantity: 3})
	e, err := NewEngine(reg, stock, queue.New(salad()), nil, nil)
	require.NoError(t, err)
	rec := &RecordingTracer{}
	e.SetTracer(rec)

	res := e.ProcessAll()

	assert.Empty(t, res.Prepared())
	assert.Empty(t, res.Transfers)
	assert.Equal(t, 3, stock.Quantity("lettuce"))
	assert.Equal(t, []string{"Salad"}, e.Queue().DrainToDisplay())
	_, stocked := a.StockOf("lettuce")
	assert.False(t, stocked)
	assert.NotContains(t, rec.Lines(), "A: Insufficient ingredients. Replenishing ingredients...")
	assert.Contains(t, rec.Lines(), "Salad was not prepared.")
}

func stew() *model.Dish {
	return &model.Dish{Name: "Stew", Ingredients: []model.Ingredient{
		{Name: "beef", RequiredQuantity: 2},
		{Name: "carrot", RequiredQuantity: 2},
	}}
}

func TestProcessAllRetryFailureFallsThrough(t *testing.T) {
	ResetMetrics(prometheus.NewRegistry())
	a := model.NewStation("A")
	a.AssignDish(stew())
	a.AssignDish(salad())
	a.Replenish(model.Ingredient{Name: "beef", Quantity: 1})
	a.Replenish(model.Ingredient{Name: "carrot", Quantity: 0})
	a.Replenish(model.Ingredient{Name: "lettuce", Quantity: 1})
	b := model.NewStation("B")
	b.AssignDish(stew())
	b.Replenish(model.Ingredient{Name: "beef", Quantity: 2})
	b.Replenish(model.Ingredient{Name: "carrot", Quantity: 2})
	reg := registry.New()
	reg.Add(a)
	reg.Add(b)
	stock := backup.New(model.Ingredient{Name: "beef", Quantity: 5})

	e, err := NewEngine(reg, stock, queue.New(stew(), salad()), nil, nil)
	require.NoError(t, err)
	rec := &RecordingTracer{}
	e.SetTracer(rec)

	res := e.ProcessAll()

	assert.Equal(t, []string{
		"PREPARING DISH: Stew",
		"A attempting to prepare Stew...",
		"A: Insufficient ingredients. Replenishing ingredients...",
		"A: Ingredients replenished.",
		"A: Dish not available. Moving to next station...",
		"B attempting to prepare Stew...",
		"B: Successfully prepared Stew.",
		"PREPARING DISH: Salad",
		"A attempting to prepare Salad...",
		"A: Successfully prepared Salad.",
		"All dishes have been processed.",
	}, rec.Lines())
	assert.Equal(t, events.RetryFailed, rec.Events()[4].Kind)

	assert.Equal(t, 4, stock.Quantity("beef"))
	beef, _ := a.StockOf("beef")
	assert.Equal(t, 2, beef, "transferred units stay at A")
	carrot, _ := a.StockOf("carrot")
	assert.Equal(t, 0, carrot)
	for _, ing := range b.Stock() {
		assert.Zero(t, ing.Quantity, ing.Name)
	}

	require.Len(t, res.Outcomes, 2)
	assert.Equal(t, Outcome{Dish: "Stew", Station: "B", Prepared: true, Attempts: 2}, res.Outcomes[0])
	assert.Equal(t, []Transfer{{Station: "A", Ingredient: "beef", Quantity: 1, Succeeded: true}}, res.Transfers)
	assert.True(t, e.Queue().IsEmpty())
}

func TestEngineMerge(t *testing.T) {
	e, _ := kitchen(t, 10)
	assert.False(t, e.Merge("A", "missing"))
	assert.True(t, e.Merge("A", "B"))
	assert.Equal(t, []string{"A"}, e.Registry().Names())
	a, ok := e.Registry().Find("A")
	require.True(t, ok)
	assert.True(t, a.HasDish("Salad"))
}

func TestProcessAllEmptyQueue(t *testing.T) {
	ResetMetrics(prometheus.NewRegistry())
	e, err := NewEngine(registry.New(), backup.New(), queue.New(), nil, nil)
	require.NoError(t, err)
	rec := &RecordingTracer{}
	e.SetTracer(rec)

	res := e.ProcessAll()
	assert.Empty(t, res.Outcomes)
	assert.Equal(t, []string{"All dishes have been processed."}, rec.Lines())
}

func TestProcessAllNoStations(t *testing.T) {
	ResetMetrics(prometheus.NewRegistry())
	e, err := NewEngine(registry.New(), backup.New(), queue.New(soup(), salad()), nil, nil)
	require.NoError(t, err)

	res := e.ProcessAll()
	assert.Equal(t, []string{"Soup", "Salad"}, res.Remaining)
	for _, o := range res.Outcomes {
		assert.Zero(t, o.Attempts)
	}
}

func TestProcessAllRecordsMetrics(t *testing.T) {
	e, _ := kitchen(t, 10)
	// B knows salad and stocks lettuce, but none is left here or in the backup.
	b, ok := e.Registry().Find("B")
	require.True(t, ok)
	b.Replenish(model.Ingredient{Name: "lettuce", Quantity: 0})
	e.Queue().Push(salad())

	e.ProcessAll()

	assert.Equal(t, 1.0, testutil.ToFloat64(dishesPrepared.WithLabelValues("A")))
	assert.Equal(t, 1.0, testutil.ToFloat64(dishesFailed))
	assert.Equal(t, 1.0, testutil.ToFloat64(replenishments.WithLabelValues("soup-base", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(replenishments.WithLabelValues("lettuce", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(queueDepth))
	assert.Equal(t, 1, testutil.CollectAndCount(batchDuration))
}

type recordingSink struct {
	metrics.NopSink
	outcomes []metrics.DishOutcome
	batches  []metrics.BatchEvent
	levels   []metrics.BackupLevel
	fail     bool
}

func (s *recordingSink) RecordDishOutcomes(o []metrics.DishOutcome) error {
	s.outcomes = append(s.outcomes, o...)
	if s.fail {
		return errors.New("sink down")
	}
	return nil
}

func (s *recordingSink) RecordBatch(ev metrics.BatchEvent) error {
	s.batches = append(s.batches, ev)
	return nil
}

func (s *recordingSink) RecordBackupLevels(l []metrics.BackupLevel) error {
	s.levels = l
	return nil
}

func TestProcessAllFeedsSink(t *testing.T) {
	e, _ := kitchen(t, 10)
	sink := &recordingSink{fail: true}
	e.metrics = sink

	res := e.ProcessAll()

	require.Len(t, sink.outcomes, 1)
	assert.Equal(t, res.ID, sink.outcomes[0].BatchID)
	assert.True(t, sink.outcomes[0].Replenished)
	require.Len(t, sink.batches, 1)
	assert.Equal(t, 1, sink.batches[0].Prepared)
	assert.Equal(t, []metrics.BackupLevel{{Ingredient: "soup-base", Quantity: 7}}, sink.levels)
}

func TestProcessAllJournalsAndNotifies(t *testing.T) {
	e, _ := kitchen(t, 10)
	store, err := logging.NewJSONLStore(filepath.Join(t.TempDir(), "journal.jsonl"))
	require.NoError(t, err)
	e.SetLogStore(store)
	n := mqtt.NewMockNotifier()
	e.SetNotifier(n)
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	e.SetClock(func() time.Time { return fixed })

	res := e.ProcessAll()

	assert.Equal(t, []string{"Soup"}, n.Dishes())
	assert.Equal(t, res.ID, n.Tickets[0].BatchID)
	assert.Equal(t, "A", n.Tickets[0].Station)
	assert.True(t, n.Tickets[0].Replenished)
	assert.Equal(t, fixed, n.Tickets[0].PreparedAt)

	recs, err := store.Query(context.Background(), logging.LogQuery{BatchID: res.ID})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, []logging.PreparedDish{{Dish: "Soup", Station: "A", Replenished: true}}, recs[0].Prepared)
}

func TestNotifierErrorDoesNotFailBatch(t *testing.T) {
	e, _ := kitchen(t, 10)
	n := mqtt.NewMockNotifier()
	n.FailDish["Soup"] = true
	e.SetNotifier(n)

	res := e.ProcessAll()
	assert.Len(t, res.Prepared(), 1)
	assert.Empty(t, n.Tickets)
}

func TestProcessAllPublishesOnBus(t *testing.T) {
	e, _ := kitchen(t, 10)
	bus := eventbus.NewTypedWithBuffer[events.TraceEvent](32)
	defer bus.Close()
	ch := bus.Subscribe()
	e.SetBus(bus)

	e.ProcessAll()

	var kinds []events.Kind
	for len(ch) > 0 {
		kinds = append(kinds, (<-ch).Kind)
	}
	require.NotEmpty(t, kinds)
	assert.Equal(t, events.DishStarted, kinds[0])
	assert.Equal(t, events.BatchDone, kinds[len(kinds)-1])
}

func TestHistoryIsCapped(t *testing.T) {
	ResetMetrics(prometheus.NewRegistry())
	e, err := NewEngine(registry.New(), backup.New(), queue.New(), nil, nil)
	require.NoError(t, err)
	e.SetHistoryLimit(2)
	var ids []string
	for i := 0; i < 3; i++ {
		ids = append(ids, e.ProcessAll().ID)
	}
	h := e.History()
	require.Len(t, h, 2)
	assert.Equal(t, ids[1], h[0].ID)
	assert.Equal(t, ids[2], h[1].ID)
}

func TestPrepareNext(t *testing.T) {
	e, a := kitchen(t, 10)

	assert.False(t, e.PrepareNext(), "A lacks soup-base and PrepareNext never replenishes")
	assert.Equal(t, 1, e.Queue().Len())
	assert.Equal(t, 10, e.Backup().Quantity("soup-base"))

	a.Replenish(model.Ingredient{Name: "soup-base", Quantity: 3})
	assert.True(t, e.PrepareNext())
	assert.True(t, e.Queue().IsEmpty())
	assert.False(t, e.PrepareNext())
}

func TestReplenishFromBackup(t *testing.T) {
	e, a := kitchen(t, 10)

	assert.False(t, e.ReplenishFromBackup("nowhere", "soup-base", 3))
	assert.Equal(t, 10, e.Backup().Quantity("soup-base"))

	assert.False(t, e.ReplenishFromBackup("A", "soup-base", 11))
	assert.False(t, e.ReplenishFromBackup("A", "cream", 1))

	assert.True(t, e.ReplenishFromBackup("A", "soup-base", 10))
	assert.Equal(t, 0, e.Backup().Quantity("soup-base"))
	have, _ := a.StockOf("soup-base")
	assert.Equal(t, 12, have)
}

func TestWriterTracer(t *testing.T) {
	e, _ := kitchen(t, 10)
	var buf bytes.Buffer
	e.SetTracer(WriterTracer{W: &buf})
	e.ProcessAll()
	assert.Contains(t, buf.String(), "A: Successfully prepared Soup.\n")
}

// Failed orders keep their relative order whatever the stock looks like.
func TestProcessAllOrderPreservationProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ResetMetrics(nil)
		names := []string{"Soup", "Salad", "Stew", "Tart"}
		st := model.NewStation("Line")
		for _, n := range names[:3] {
			st.AssignDish(&model.Dish{Name: n, Ingredients: []model.Ingredient{{Name: n + "-base", RequiredQuantity: 2}}})
			st.Replenish(model.Ingredient{Name: n + "-base", Quantity: rapid.IntRange(0, 6).Draw(rt, n)})
		}
		reg := registry.New()
		reg.Add(st)
		stock := backup.New(model.Ingredient{Name: "Soup-base", Quantity: rapid.IntRange(0, 4).Draw(rt, "backup")})

		order := rapid.SliceOfN(rapid.SampledFrom(names), 0, 12).Draw(rt, "orders")
		q := queue.New()
		pos := make(map[*model.Dish]int, len(order))
		for i, n := range order {
			d := &model.Dish{Name: n, Ingredients: []model.Ingredient{{Name: n + "-base", RequiredQuantity: 2}}}
			pos[d] = i
			q.Push(d)
		}
		e, err := NewEngine(reg, stock, q, nil, nil)
		if err != nil {
			rt.Fatal(err)
		}
		res := e.ProcessAll()

		failed := res.Failed()
		left := e.Queue().Items()
		if len(left) != len(failed) {
			rt.Fatalf("queue has %d dishes, %d failed", len(left), len(failed))
		}
		prev := -1
		for i, d := range left {
			if d.Name != failed[i] {
				rt.Fatalf("position %d: %s, want %s", i, d.Name, failed[i])
			}
			if pos[d] <= prev {
				rt.Fatalf("order %d requeued after %d", pos[d], prev)
			}
			prev = pos[d]
		}
	})
}
