package metrics

import "time"

// DishOutcome is recorded once per dish handled by a batch or a single step.
type DishOutcome struct {
	BatchID     string
	Dish        string
	Station     string // empty when no station prepared the dish
	Prepared    bool
	Replenished bool
	Attempts    int
	Time        time.Time
}

// MetricsSink records dispatch outcomes for observability purposes.
type MetricsSink interface {
	RecordDishOutcomes(outcomes []DishOutcome) error
}

// ReplenishmentEvent captures one transfer attempt from the backup stock.
type ReplenishmentEvent struct {
	BatchID    string
	Station    string
	Ingredient string
	Quantity   int
	Succeeded  bool
	Time       time.Time
}

// ReplenishmentRecorder records backup stock transfers.
type ReplenishmentRecorder interface {
	RecordReplenishment(ev ReplenishmentEvent) error
}

// BatchEvent summarises a full batch run.
type BatchEvent struct {
	BatchID  string
	Prepared int
	Failed   int
	Duration time.Duration
	Time     time.Time
}

// BatchRecorder records batch summaries.
type BatchRecorder interface {
	RecordBatch(ev BatchEvent) error
}

// BackupLevel is the remaining quantity of one backup ingredient.
type BackupLevel struct {
	Ingredient string
	Quantity   int
}

// BackupLevelRecorder records the backup stock after a batch.
type BackupLevelRecorder interface {
	RecordBackupLevels(levels []BackupLevel) error
}

// TraceRecorder counts dispatch trace events by kind.
type TraceRecorder interface {
	RecordTraceEvent(kind string) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordDishOutcomes([]DishOutcome) error       { return nil }
func (NopSink) RecordReplenishment(ReplenishmentEvent) error { return nil }
func (NopSink) RecordBatch(BatchEvent) error                 { return nil }
func (NopSink) RecordBackupLevels([]BackupLevel) error       { return nil }
func (NopSink) RecordTraceEvent(string) error                { return nil }
