package dispatch

import (
	"github.com/google/uuid"

	"github.com/kilianp07/brigade/core/events"
	"github.com/kilianp07/brigade/core/model"
)

// ProcessAll drains the queue once. Each order is offered to the stations in
// registry order; a station that knows the dish but runs short gets exactly
// the missing amount of the first short ingredient from the backup stock and
// one retry. Orders that every station failed are put back in the queue in
// the order they failed, after the whole queue has been walked.
func (e *Engine) ProcessAll() BatchResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	res := BatchResult{ID: uuid.NewString(), StartedAt: e.now()}
	e.logger.Infof("batch %s: dispatching %d orders to %d stations", res.ID, e.queue.Len(), e.registry.Len())

	var overflow []*model.Dish
	for {
		dish, ok := e.queue.Pop()
		if !ok {
			break
		}
		e.trace(events.TraceEvent{BatchID: res.ID, Kind: events.DishStarted, Dish: dish.Name})
		out := e.dispatchOrder(&res, dish)
		res.Outcomes = append(res.Outcomes, out)
		if out.Prepared {
			e.notify(res.ID, out)
			continue
		}
		e.trace(events.TraceEvent{BatchID: res.ID, Kind: events.NotPrepared, Dish: dish.Name})
		e.logger.Warnw("order not prepared", map[string]any{"batch": res.ID, "dish": dish.Name, "attempts": out.Attempts})
		overflow = append(overflow, dish)
	}
	e.queue.Replace(overflow)
	res.Remaining = e.queue.DrainToDisplay()
	e.trace(events.TraceEvent{BatchID: res.ID, Kind: events.BatchDone})
	res.FinishedAt = e.now()

	e.recordBatch(res)
	e.logger.Infof("batch %s: %d prepared, %d requeued", res.ID, len(res.Prepared()), len(overflow))
	return res
}

func (e *Engine) dispatchOrder(res *BatchResult, dish *model.Dish) Outcome {
	out := Outcome{Dish: dish.Name}
	for _, st := range e.registry.Stations() {
		name := st.Name()
		ev := events.TraceEvent{BatchID: res.ID, Dish: dish.Name, Station: name}
		out.Attempts++
		e.trace(with(ev, events.StationAttempt))

		if !st.HasDish(dish.Name) {
			e.trace(with(ev, events.DishUnavailable))
			continue
		}
		if st.PrepareOrder(dish) {
			e.trace(with(ev, events.Prepared))
			out.Station, out.Prepared = name, true
			return out
		}

		ingredient, missing, short := shortfall(st, dish)
		if !short {
			e.trace(with(ev, events.PrepareFailed))
			continue
		}
		ev.Ingredient, ev.Quantity = ingredient, missing
		e.trace(with(ev, events.Shortage))

		ok := e.replenish(res.ID, name, ingredient, missing)
		res.Transfers = append(res.Transfers, Transfer{Station: name, Ingredient: ingredient, Quantity: missing, Succeeded: ok})
		if !ok {
			e.trace(with(ev, events.ReplenishFailed))
			continue
		}
		e.trace(with(ev, events.Replenished))
		if st.PrepareOrder(dish) {
			e.trace(with(ev, events.Prepared))
			out.Station, out.Prepared, out.Replenished = name, true, true
			return out
		}
		e.trace(with(ev, events.RetryFailed))
	}
	return out
}

func with(ev events.TraceEvent, k events.Kind) events.TraceEvent {
	ev.Kind = k
	return ev
}
