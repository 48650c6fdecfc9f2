package metrics

import coremetrics "github.com/Cesliva/quant-sub005/core/metrics"

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordForecastRun forwards the event to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordForecastRun(ev coremetrics.ForecastRunEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordForecastRun(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordWeeklyUtilization forwards weekly points to capable sinks.
func (m *MultiSink) RecordWeeklyUtilization(weeks []coremetrics.WeeklyUtilization) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.WeeklyUtilizationRecorder); ok {
			if err := rec.RecordWeeklyUtilization(weeks); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordOverrideEdit forwards override edits to capable sinks.
func (m *MultiSink) RecordOverrideEdit(ev coremetrics.OverrideEditEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.OverrideEditRecorder); ok {
			if err := rec.RecordOverrideEdit(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
