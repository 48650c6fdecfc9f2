package allocation

import (
	"math"
	"reflect"
	"testing"

	"github.com/Cesliva/quant-sub005/core/model"
)

func TestAggregateMergesLoads(t *testing.T) {
	loads := []model.Load{
		{ID: "a", Name: "Frame A", TotalHours: 50, StartDate: "2025-06-02", EndDate: "2025-06-06"},
		{ID: "b", Name: "Frame B", TotalHours: 25, StartDate: "2025-06-02", EndDate: "2025-06-06"},
	}
	sched := Aggregate(loads, workCal(), 8)
	for _, day := range []string{"2025-06-02", "2025-06-03", "2025-06-04", "2025-06-05", "2025-06-06"} {
		if math.Abs(sched.Total(day)-15) > 1e-9 {
			t.Errorf("%s: expected 15 (10+5), got %v", day, sched.Total(day))
		}
		contribs := sched.Contributions[day]
		if len(contribs) != 2 {
			t.Fatalf("%s: expected 2 contributions, got %d", day, len(contribs))
		}
		if contribs[0].LoadID != "a" || contribs[1].LoadID != "b" {
			t.Errorf("%s: contributions out of load order: %+v", day, contribs)
		}
	}
	if sched.Total("2025-06-07") != 0 {
		t.Fatalf("absent day should read as zero")
	}
}

func TestAggregateStats(t *testing.T) {
	loads := []model.Load{
		{ID: "a", TotalHours: 40, StartDate: "2025-06-02", EndDate: "2025-06-06"},
		{ID: "bad", TotalHours: 10, StartDate: "not-a-date"},
	}
	_, stats := AggregateDetailed(loads, workCal(), 8)
	if stats.LoadsIn != 2 || stats.LoadsExcluded != 1 {
		t.Fatalf("stats %+v", stats)
	}
	if math.Abs(stats.ScheduledHours-40) > 1e-6 {
		t.Fatalf("scheduled hours %v", stats.ScheduledHours)
	}
}

func TestAggregateIdempotent(t *testing.T) {
	loads := []model.Load{
		{ID: "a", TotalHours: 33, StartDate: "2025-06-02", EndDate: "2025-06-10",
			Overrides: map[string]float64{"2025-06-03": 4}},
		{ID: "b", TotalHours: 120, StartDate: "2025-06-04"},
	}
	first := Aggregate(loads, workCal(), 8)
	second := Aggregate(loads, workCal(), 8)
	if !reflect.DeepEqual(first.Totals, second.Totals) {
		t.Fatalf("totals differ across identical runs")
	}
	if !reflect.DeepEqual(first.Contributions, second.Contributions) {
		t.Fatalf("contributions differ across identical runs")
	}
}
