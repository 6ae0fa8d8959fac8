package metrics

// MultiSink fans records out to several sinks. Optional recorders are only
// forwarded to sinks that implement them.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordDishOutcomes forwards to all sinks, returning the first error.
func (m *MultiSink) RecordDishOutcomes(out []DishOutcome) error {
	for _, s := range m.Sinks {
		if err := s.RecordDishOutcomes(out); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiSink) RecordReplenishment(ev ReplenishmentEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(ReplenishmentRecorder); ok {
			if err := rec.RecordReplenishment(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *MultiSink) RecordBatch(ev BatchEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(BatchRecorder); ok {
			if err := rec.RecordBatch(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *MultiSink) RecordBackupLevels(levels []BackupLevel) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(BackupLevelRecorder); ok {
			if err := rec.RecordBackupLevels(levels); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *MultiSink) RecordTraceEvent(kind string) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(TraceRecorder); ok {
			if err := rec.RecordTraceEvent(kind); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close closes the sinks that hold resources.
func (m *MultiSink) Close() error { return closeSinks(m.Sinks) }
