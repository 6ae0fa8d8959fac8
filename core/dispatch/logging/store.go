// Package logging journals dispatch batches so that past runs can be
// inspected after the fact.
package logging

import (
	"context"
	"time"
)

// LogRecord captures one dispatch batch.
type LogRecord struct {
	Timestamp      time.Time      `json:"timestamp"`
	BatchID        string         `json:"batch_id"`
	DurationMS     int64          `json:"duration_ms"`
	Prepared       []PreparedDish `json:"prepared"`
	Failed         []string       `json:"failed"`
	Replenishments []Transfer     `json:"replenishments"`
	Remaining      []string       `json:"remaining"`
}

// PreparedDish records where a dish was prepared.
type PreparedDish struct {
	Dish        string `json:"dish"`
	Station     string `json:"station"`
	Replenished bool   `json:"replenished"`
}

// Transfer records one backup stock withdrawal attempt.
type Transfer struct {
	Station    string `json:"station"`
	Ingredient string `json:"ingredient"`
	Quantity   int    `json:"quantity"`
	Succeeded  bool   `json:"succeeded"`
}

// LogQuery defines filters for retrieving records. Zero values match all.
type LogQuery struct {
	Start   time.Time
	End     time.Time
	BatchID string
	Dish    string
	Station string
}

// LogStore persists LogRecords and supports querying.
type LogStore interface {
	Append(ctx context.Context, rec LogRecord) error
	Query(ctx context.Context, q LogQuery) ([]LogRecord, error)
	Close() error
}

// Matches reports whether the record satisfies every filter of q.
func (q LogQuery) Matches(r LogRecord) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.BatchID != "" && r.BatchID != q.BatchID {
		return false
	}
	if q.Dish != "" && !r.mentionsDish(q.Dish) {
		return false
	}
	if q.Station != "" && !r.mentionsStation(q.Station) {
		return false
	}
	return true
}

func (r LogRecord) mentionsDish(name string) bool {
	for _, p := range r.Prepared {
		if p.Dish == name {
			return true
		}
	}
	for _, f := range r.Failed {
		if f == name {
			return true
		}
	}
	return false
}

func (r LogRecord) mentionsStation(name string) bool {
	for _, p := range r.Prepared {
		if p.Station == name {
			return true
		}
	}
	for _, t := range r.Replenishments {
		if t.Station == name {
			return true
		}
	}
	return false
}

// NopStore discards records.
type NopStore struct{}

func (NopStore) Append(context.Context, LogRecord) error              { return nil }
func (NopStore) Query(context.Context, LogQuery) ([]LogRecord, error) { return nil, nil }
func (NopStore) Close() error                                         { return nil }
