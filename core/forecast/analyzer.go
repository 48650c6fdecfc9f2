// Package forecast rolls daily schedule totals up into weekly utilization
// summaries and flags under- and over-booked weeks.
package forecast

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/Cesliva/quant-sub005/core/allocation"
	"github.com/Cesliva/quant-sub005/core/calendar"
	"github.com/Cesliva/quant-sub005/core/model"
)

// Config holds the forecast horizon and the classification threshold.
type Config struct {
	// Weeks is the number of calendar weeks to analyze, starting with the
	// week containing the reference date.
	Weeks int
	// UnderUtilizedThreshold is the used/capacity fraction below which a
	// week counts as a gap.
	UnderUtilizedThreshold float64
}

// Result is the weekly rollup over the forecast horizon.
type Result struct {
	Weeks         []model.WeeklySummary `json:"weeks"`
	GapWeeks      int                   `json:"gap_weeks"`
	OverloadWeeks int                   `json:"overload_weeks"`
	// MeanUtilization is the average used/capacity ratio over classified
	// weeks; zero when no week has configured capacity.
	MeanUtilization float64 `json:"mean_utilization"`
	// PeakWeek is the week start with the highest used hours, empty when
	// the horizon is empty.
	PeakWeek string `json:"peak_week,omitempty"`
}

// Analyze walks the forecast horizon week by week, sums the schedule's
// daily totals over each week's working days and classifies the week
// against weekly capacity. Weeks without configured capacity stay
// unclassified so a missing setting never reads as fully available or
// fully booked.
func Analyze(sched allocation.Schedule, cal calendar.Calendar, cfg Config, today time.Time) Result {
	var res Result
	if cfg.Weeks <= 0 {
		return res
	}

	capacity := cal.WeeklyCapacityHours()
	start := calendar.WeekStart(today)
	var ratios []float64
	peakUsed := -1.0

	for w := 0; w < cfg.Weeks; w++ {
		weekStart := start.AddDate(0, 0, 7*w)
		used := 0.0
		for d := 0; d < 7; d++ {
			day := weekStart.AddDate(0, 0, d)
			if cal.IsWorkingDay(day) {
				used += sched.Total(calendar.Key(day))
			}
		}

		status := model.WeekUnclassified
		if capacity > 0 {
			ratio := used / capacity
			ratios = append(ratios, ratio)
			switch {
			case ratio < cfg.UnderUtilizedThreshold:
				status = model.WeekGap
				res.GapWeeks++
			case used > capacity:
				status = model.WeekOverload
				res.OverloadWeeks++
			default:
				status = model.WeekNormal
			}
		}

		summary := model.WeeklySummary{
			WeekStart:     calendar.Key(weekStart),
			UsedHours:     used,
			CapacityHours: capacity,
			Status:        status,
		}
		res.Weeks = append(res.Weeks, summary)
		if used > peakUsed {
			peakUsed = used
			res.PeakWeek = summary.WeekStart
		}
	}

	if len(ratios) > 0 {
		res.MeanUtilization = stat.Mean(ratios, nil)
	}
	return res
}
