// Package metrics defines the observability events the service records and
// the sink interfaces infra backends implement.
package metrics

import "time"

// ForecastRunEvent summarizes one full recomputation of the schedule and
// weekly forecast.
type ForecastRunEvent struct {
	LoadsIn        int
	LoadsExcluded  int
	Unreconciled   int
	CeilingHits    int
	ScheduledHours float64
	GapWeeks       int
	OverloadWeeks  int
	Duration       time.Duration
	Time           time.Time
}

// MetricsSink records forecast runs for observability purposes.
type MetricsSink interface {
	RecordForecastRun(ev ForecastRunEvent) error
}

// WeeklyUtilization is a per-week utilization point for time-series sinks.
type WeeklyUtilization struct {
	WeekStart     string
	UsedHours     float64
	CapacityHours float64
	Status        string
	Time          time.Time
}

// WeeklyUtilizationRecorder is implemented by sinks able to store the
// per-week breakdown.
type WeeklyUtilizationRecorder interface {
	RecordWeeklyUtilization(weeks []WeeklyUtilization) error
}

// OverrideEditEvent captures a user editing or clearing a per-day override.
type OverrideEditEvent struct {
	LoadID  string
	Date    string
	Hours   float64
	Cleared bool
	Time    time.Time
}

// OverrideEditRecorder records override edits.
type OverrideEditRecorder interface {
	RecordOverrideEdit(ev OverrideEditEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordForecastRun(ForecastRunEvent) error          { return nil }
func (NopSink) RecordWeeklyUtilization([]WeeklyUtilization) error { return nil }
func (NopSink) RecordOverrideEdit(OverrideEditEvent) error        { return nil }
