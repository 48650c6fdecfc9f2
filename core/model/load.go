package model

import (
	"math"
	"time"
)

// DateLayout is the ISO day format used for all engine-facing date keys.
const DateLayout = "2006-01-02"

// LoadSource identifies where a production load came from. Project-derived
// loads are managed by the project sync and cannot be deleted through the
// scheduling API; manual loads can.
type LoadSource string

const (
	SourceProject LoadSource = "project"
	SourceManual  LoadSource = "manual"
)

// Load is a unit of committed work: a total labor-hour budget anchored at a
// start date, optionally bounded by an end date, with sparse per-day
// user corrections.
type Load struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Source     LoadSource         `json:"source"`
	TotalHours float64            `json:"total_hours"`
	StartDate  string             `json:"start_date"`
	EndDate    string             `json:"end_date,omitempty"`
	// Overrides maps ISO dates to exact hour values entered by the user.
	// Wherever present and valid they take precedence over automatic
	// distribution.
	Overrides map[string]float64 `json:"overrides,omitempty"`
}

// Bounded reports whether the load carries an end date and therefore must be
// spread across a fixed window instead of consumed open-endedly.
func (l Load) Bounded() bool { return l.EndDate != "" }

// Deletable reports whether the load may be removed through the API.
func (l Load) Deletable() bool { return l.Source == SourceManual }

// Start parses the anchor date. An error here excludes the load from
// scheduling entirely.
func (l Load) Start() (time.Time, error) {
	return time.ParseInLocation(DateLayout, l.StartDate, time.UTC)
}

// End parses the optional end date.
func (l Load) End() (time.Time, error) {
	return time.ParseInLocation(DateLayout, l.EndDate, time.UTC)
}

// OverrideFor returns the override for the given day key if one exists and
// is usable. Negative, NaN and infinite values count as absent so a bad edit
// falls back to automatic distribution instead of poisoning the schedule.
func (l Load) OverrideFor(date string) (float64, bool) {
	v, ok := l.Overrides[date]
	if !ok || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Clone returns a deep copy so callers can hand loads to the engine without
// sharing the override map.
func (l Load) Clone() Load {
	cp := l
	if l.Overrides != nil {
		cp.Overrides = make(map[string]float64, len(l.Overrides))
		for k, v := range l.Overrides {
			cp.Overrides[k] = v
		}
	}
	return cp
}

// Contribution itemizes one load's share of a single day's total.
type Contribution struct {
	LoadID string  `json:"load_id"`
	Name   string  `json:"name"`
	Hours  float64 `json:"hours"`
}

// WeekStatus classifies a forecast week against capacity.
type WeekStatus string

const (
	WeekGap      WeekStatus = "gap"
	WeekNormal   WeekStatus = "normal"
	WeekOverload WeekStatus = "overload"
	// WeekUnclassified marks weeks with no configured capacity; they are
	// excluded from gap/overload counting.
	WeekUnclassified WeekStatus = "unclassified"
)

// WeeklySummary is the derived utilization figure for one forecast week.
// It is recomputed on every call and never persisted.
type WeeklySummary struct {
	WeekStart     string     `json:"week_start"`
	UsedHours     float64    `json:"used_hours"`
	CapacityHours float64    `json:"capacity_hours"`
	Status        WeekStatus `json:"status"`
}
