// Package allocation turns production loads into per-day hour allocations
// and merges them into a single schedule.
package allocation

import (
	"math"
	"time"

	"github.com/Cesliva/quant-sub005/core/calendar"
	"github.com/Cesliva/quant-sub005/core/model"
)

const (
	// maxDaySteps bounds the open-ended walk against pathological
	// configurations such as a zero daily capacity.
	maxDaySteps = 5000
	// maxLookaheadDays bounds the search for a synthetic working day when a
	// bounded window contains none.
	maxLookaheadDays = 730
	// epsilon below which a residual is considered floating-point noise.
	epsilon = 1e-9
)

// Report carries diagnostics about a single load's allocation. The engine
// degrades gracefully on bad input, so problems surface here instead of as
// errors.
type Report struct {
	// Excluded is set when the load produced no allocation at all.
	Excluded bool
	// Reason explains an exclusion: "no-hours", "bad-start-date",
	// "bad-end-date" or "no-working-days".
	Reason string
	// Unreconciled is set when the residual correction on the last day of a
	// bounded window would have driven it negative and was clamped at zero,
	// meaning overrides and the total could not be fully reconciled.
	Unreconciled bool
	// CeilingHit is set when the open-ended walk stopped at the step
	// ceiling before exhausting the budget or pending overrides.
	CeilingHit bool
}

// Allocate distributes one load's total hours over working days and returns
// the per-day mapping. Only days with nonzero hours appear in the result.
func Allocate(l model.Load, cal calendar.Calendar, dailyCapacity float64) map[string]float64 {
	alloc, _ := AllocateDetailed(l, cal, dailyCapacity)
	return alloc
}

// AllocateDetailed is Allocate plus a Report for logging and metrics.
func AllocateDetailed(l model.Load, cal calendar.Calendar, dailyCapacity float64) (map[string]float64, Report) {
	if l.TotalHours <= 0 {
		return map[string]float64{}, Report{Excluded: true, Reason: "no-hours"}
	}
	start, err := l.Start()
	if err != nil {
		return map[string]float64{}, Report{Excluded: true, Reason: "bad-start-date"}
	}
	if l.Bounded() {
		end, err := l.End()
		if err != nil {
			return map[string]float64{}, Report{Excluded: true, Reason: "bad-end-date"}
		}
		return allocateBounded(l, cal, start, end)
	}
	return allocateOpenEnded(l, cal, start, dailyCapacity)
}

// allocateBounded spreads the total evenly over the window's working days
// while honoring overrides exactly. A backward pass precomputes, for each
// position, the override demand still ahead and the number of auto days
// left, so the forward walk never starves an auto day below zero.
func allocateBounded(l model.Load, cal calendar.Calendar, start, end time.Time) (map[string]float64, Report) {
	dates := cal.WorkingDatesBetween(start, end)
	if len(dates) == 0 {
		// Degenerate window: park everything on the nearest working day.
		d, ok := cal.NextWorkingDate(start, maxLookaheadDays)
		if !ok {
			return map[string]float64{}, Report{Excluded: true, Reason: "no-working-days"}
		}
		dates = []time.Time{d}
	}

	n := len(dates)
	keys := make([]string, n)
	override := make([]float64, n)
	hasOverride := make([]bool, n)
	for i, d := range dates {
		keys[i] = calendar.Key(d)
		override[i], hasOverride[i] = l.OverrideFor(keys[i])
	}

	// futureOverrides[i]: override hours strictly after position i.
	// autoAhead[i]: auto (non-override) days at position i or later.
	futureOverrides := make([]float64, n+1)
	autoAhead := make([]int, n+1)
	for i := n - 1; i >= 0; i-- {
		futureOverrides[i] = futureOverrides[i+1]
		autoAhead[i] = autoAhead[i+1]
		if hasOverride[i] {
			futureOverrides[i] += override[i]
		} else {
			autoAhead[i]++
		}
	}

	var rep Report
	out := make(map[string]float64, n)
	remaining := l.TotalHours
	for i := 0; i < n; i++ {
		var give float64
		if hasOverride[i] {
			give = math.Min(math.Max(override[i], 0), math.Max(remaining, 0))
		} else {
			give = (remaining - futureOverrides[i+1]) / float64(autoAhead[i])
			if give < 0 {
				give = 0
			}
		}
		if give > 0 {
			out[keys[i]] = give
		}
		remaining -= give
	}

	// Residual from drift or overrides that under/overshot the total lands
	// on the last day, clamped so the published value never goes negative.
	if math.Abs(remaining) > epsilon {
		last := keys[n-1]
		v := out[last] + remaining
		if v < 0 {
			v = 0
			rep.Unreconciled = true
		}
		if v > 0 {
			out[last] = v
		} else {
			delete(out, last)
		}
	}
	return out, rep
}

// allocateOpenEnded consumes the budget day by day at up to the daily
// capacity. Overrides are honored exactly even after the budget is
// exhausted, which is how a user deliberately overbooks a load.
func allocateOpenEnded(l model.Load, cal calendar.Calendar, start time.Time, dailyCapacity float64) (map[string]float64, Report) {
	pending := make(map[string]struct{})
	for k := range l.Overrides {
		if _, ok := l.OverrideFor(k); !ok {
			continue
		}
		if t, err := time.ParseInLocation(model.DateLayout, k, time.UTC); err != nil || t.Before(calendar.Day(start)) {
			continue
		}
		pending[k] = struct{}{}
	}

	var rep Report
	out := make(map[string]float64)
	remaining := l.TotalHours
	days := cal.Days(start)
	for steps := 0; remaining > epsilon || len(pending) > 0; steps++ {
		if steps >= maxDaySteps {
			rep.CeilingHit = true
			break
		}
		day, working := days.Next()
		key := calendar.Key(day)
		if !working {
			// An override placed on a non-working day is ignored.
			delete(pending, key)
			continue
		}
		if v, ok := l.OverrideFor(key); ok {
			if v > 0 {
				out[key] = v
			}
			remaining -= v
			delete(pending, key)
			continue
		}
		give := math.Min(dailyCapacity, math.Max(remaining, 0))
		if give > 0 {
			out[key] = give
		}
		remaining -= give
	}
	return out, rep
}
