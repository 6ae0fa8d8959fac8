package dispatch

import (
	"time"

	"github.com/kilianp07/brigade/core/dispatch/logging"
)

// Outcome describes what happened to one order during a batch.
type Outcome struct {
	Dish        string `json:"dish"`
	Station     string `json:"station,omitempty"`
	Prepared    bool   `json:"prepared"`
	Replenished bool   `json:"replenished"`
	Attempts    int    `json:"attempts"`
}

// Transfer is one replenishment attempt from the backup stock.
type Transfer struct {
	Station    string `json:"station"`
	Ingredient string `json:"ingredient"`
	Quantity   int    `json:"quantity"`
	Succeeded  bool   `json:"succeeded"`
}

// BatchResult is the report of a ProcessAll run.
type BatchResult struct {
	ID         string     `json:"id"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt time.Time  `json:"finished_at"`
	Outcomes   []Outcome  `json:"outcomes"`
	Transfers  []Transfer `json:"transfers"`
	// Remaining is the queue after the batch, in order.
	Remaining []string `json:"remaining"`
}

// Duration returns the wall time of the batch.
func (r BatchResult) Duration() time.Duration { return r.FinishedAt.Sub(r.StartedAt) }

// Prepared returns the outcomes of the orders that were prepared.
func (r BatchResult) Prepared() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Prepared {
			out = append(out, o)
		}
	}
	return out
}

// Failed returns the names of the orders that were not prepared, in queue
// order.
func (r BatchResult) Failed() []string {
	var out []string
	for _, o := range r.Outcomes {
		if !o.Prepared {
			out = append(out, o.Dish)
		}
	}
	return out
}

// LogRecord converts the result into a journal record.
func (r BatchResult) LogRecord() logging.LogRecord {
	rec := logging.LogRecord{
		Timestamp:  r.StartedAt,
		BatchID:    r.ID,
		DurationMS: r.Duration().Milliseconds(),
		Failed:     r.Failed(),
		Remaining:  append([]string(nil), r.Remaining...),
	}
	for _, o := range r.Prepared() {
		rec.Prepared = append(rec.Prepared, logging.PreparedDish{Dish: o.Dish, Station: o.Station, Replenished: o.Replenished})
	}
	for _, t := range r.Transfers {
		rec.Replenishments = append(rec.Replenishments, logging.Transfer(t))
	}
	return rec
}
