package forecast

import (
	"math"
	"testing"
	"time"

	"github.com/Cesliva/quant-sub005/core/allocation"
	"github.com/Cesliva/quant-sub005/core/calendar"
	"github.com/Cesliva/quant-sub005/core/model"
)

var weekdays = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}

// monday is the reference "today" used across the tests: 2025-06-02.
var monday = time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)

func schedWith(totals map[string]float64) allocation.Schedule {
	return allocation.Schedule{Totals: totals, Contributions: map[string][]model.Contribution{}}
}

func TestGapWeek(t *testing.T) {
	cal := calendar.New(weekdays, nil, 0, 200)
	sched := schedWith(map[string]float64{"2025-06-03": 100})
	res := Analyze(sched, cal, Config{Weeks: 1, UnderUtilizedThreshold: 0.7}, monday)
	if len(res.Weeks) != 1 {
		t.Fatalf("expected 1 week, got %d", len(res.Weeks))
	}
	w := res.Weeks[0]
	if w.Status != model.WeekGap || res.GapWeeks != 1 {
		t.Fatalf("expected gap week (0.5 < 0.7), got %+v", w)
	}
	if w.UsedHours != 100 || w.CapacityHours != 200 {
		t.Fatalf("unexpected figures %+v", w)
	}
	if math.Abs(res.MeanUtilization-0.5) > 1e-9 {
		t.Fatalf("mean utilization %v", res.MeanUtilization)
	}
}

func TestOverloadWeek(t *testing.T) {
	cal := calendar.New(weekdays, nil, 0, 200)
	sched := schedWith(map[string]float64{"2025-06-03": 250})
	res := Analyze(sched, cal, Config{Weeks: 1, UnderUtilizedThreshold: 0.7}, monday)
	if res.Weeks[0].Status != model.WeekOverload || res.OverloadWeeks != 1 {
		t.Fatalf("expected overload week, got %+v", res.Weeks[0])
	}
}

func TestNormalWeekAtFullCapacity(t *testing.T) {
	cal := calendar.New(weekdays, nil, 0, 200)
	sched := schedWith(map[string]float64{"2025-06-03": 200})
	res := Analyze(sched, cal, Config{Weeks: 1, UnderUtilizedThreshold: 0.7}, monday)
	if res.Weeks[0].Status != model.WeekNormal {
		t.Fatalf("used == capacity should be normal, got %s", res.Weeks[0].Status)
	}
}

func TestZeroCapacityUnclassified(t *testing.T) {
	// No working days means no derivable weekly capacity: the week must not
	// read as a gap or an overload.
	cal := calendar.New(nil, nil, 0, 0)
	sched := schedWith(map[string]float64{"2025-06-03": 100})
	res := Analyze(sched, cal, Config{Weeks: 2, UnderUtilizedThreshold: 0.7}, monday)
	for _, w := range res.Weeks {
		if w.Status != model.WeekUnclassified {
			t.Errorf("expected unclassified, got %s", w.Status)
		}
	}
	if res.GapWeeks != 0 || res.OverloadWeeks != 0 {
		t.Fatalf("unclassified weeks must not be counted")
	}
	if res.MeanUtilization != 0 {
		t.Fatalf("mean utilization should stay zero, got %v", res.MeanUtilization)
	}
}

func TestNonWorkingDaysExcluded(t *testing.T) {
	cal := calendar.New(weekdays, nil, 0, 200)
	sched := schedWith(map[string]float64{
		"2025-06-03": 100,
		"2025-06-07": 500, // Saturday: must not count
	})
	res := Analyze(sched, cal, Config{Weeks: 1, UnderUtilizedThreshold: 0.7}, monday)
	if res.Weeks[0].UsedHours != 100 {
		t.Fatalf("saturday hours leaked into the week: %v", res.Weeks[0].UsedHours)
	}
}

func TestHorizonWalksConsecutiveWeeks(t *testing.T) {
	cal := calendar.New(weekdays, nil, 0, 100)
	sched := schedWith(map[string]float64{
		"2025-06-03": 80,  // week 1
		"2025-06-11": 150, // week 2
	})
	// A mid-week reference date anchors to its Monday.
	wednesday := time.Date(2025, time.June, 4, 15, 30, 0, 0, time.UTC)
	res := Analyze(sched, cal, Config{Weeks: 3, UnderUtilizedThreshold: 0.7}, wednesday)
	if len(res.Weeks) != 3 {
		t.Fatalf("expected 3 weeks, got %d", len(res.Weeks))
	}
	wantStarts := []string{"2025-06-02", "2025-06-09", "2025-06-16"}
	for i, w := range res.Weeks {
		if w.WeekStart != wantStarts[i] {
			t.Errorf("week %d start %s, want %s", i, w.WeekStart, wantStarts[i])
		}
	}
	if res.Weeks[0].Status != model.WeekNormal {
		t.Errorf("week 1: %s", res.Weeks[0].Status)
	}
	if res.Weeks[1].Status != model.WeekOverload {
		t.Errorf("week 2: %s", res.Weeks[1].Status)
	}
	if res.Weeks[2].Status != model.WeekGap {
		t.Errorf("empty week 3 should be a gap: %s", res.Weeks[2].Status)
	}
	if res.PeakWeek != "2025-06-09" {
		t.Errorf("peak week %s", res.PeakWeek)
	}
}

func TestEmptyHorizon(t *testing.T) {
	cal := calendar.New(weekdays, nil, 0, 100)
	res := Analyze(schedWith(map[string]float64{}), cal, Config{Weeks: 0, UnderUtilizedThreshold: 0.7}, monday)
	if len(res.Weeks) != 0 || res.PeakWeek != "" {
		t.Fatalf("expected empty result, got %+v", res)
	}
}
