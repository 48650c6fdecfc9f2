package allocation

import (
	"github.com/Cesliva/quant-sub005/core/calendar"
	"github.com/Cesliva/quant-sub005/core/model"
)

// Schedule is the merged view over all loads: per-day totals for the
// calendar heat-map and per-day itemized contributions for the editable
// week breakdown.
type Schedule struct {
	Totals        map[string]float64
	Contributions map[string][]model.Contribution
}

// Stats summarizes an aggregation run for observability.
type Stats struct {
	LoadsIn        int
	LoadsExcluded  int
	Unreconciled   int
	CeilingHits    int
	ScheduledHours float64
}

// Aggregate allocates every load and merges the results by summing hours
// per day. Loads never interact beyond addition.
func Aggregate(loads []model.Load, cal calendar.Calendar, dailyCapacity float64) Schedule {
	sched, _ := AggregateDetailed(loads, cal, dailyCapacity)
	return sched
}

// AggregateDetailed is Aggregate plus run statistics.
func AggregateDetailed(loads []model.Load, cal calendar.Calendar, dailyCapacity float64) (Schedule, Stats) {
	sched := Schedule{
		Totals:        make(map[string]float64),
		Contributions: make(map[string][]model.Contribution),
	}
	stats := Stats{LoadsIn: len(loads)}
	for _, l := range loads {
		alloc, rep := AllocateDetailed(l, cal, dailyCapacity)
		if rep.Excluded {
			stats.LoadsExcluded++
		}
		if rep.Unreconciled {
			stats.Unreconciled++
		}
		if rep.CeilingHit {
			stats.CeilingHits++
		}
		for date, hours := range alloc {
			sched.Totals[date] += hours
			sched.Contributions[date] = append(sched.Contributions[date], model.Contribution{
				LoadID: l.ID,
				Name:   l.Name,
				Hours:  hours,
			})
			stats.ScheduledHours += hours
		}
	}
	return sched, stats
}

// Total returns the scheduled hours for a day key, zero when absent.
func (s Schedule) Total(date string) float64 { return s.Totals[date] }
