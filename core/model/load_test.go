package model

import (
	"math"
	"testing"
)

func TestOverrideFor(t *testing.T) {
	l := Load{Overrides: map[string]float64{
		"2025-06-02": 4,
		"2025-06-03": 0,
		"2025-06-04": -1,
		"2025-06-05": math.NaN(),
	}}
	if v, ok := l.OverrideFor("2025-06-02"); !ok || v != 4 {
		t.Fatalf("valid override rejected: %v %v", v, ok)
	}
	if v, ok := l.OverrideFor("2025-06-03"); !ok || v != 0 {
		t.Fatalf("zero override is an explicit value: %v %v", v, ok)
	}
	if _, ok := l.OverrideFor("2025-06-04"); ok {
		t.Fatalf("negative override must read as absent")
	}
	if _, ok := l.OverrideFor("2025-06-05"); ok {
		t.Fatalf("NaN override must read as absent")
	}
	if _, ok := l.OverrideFor("2025-06-06"); ok {
		t.Fatalf("missing override must read as absent")
	}
}

func TestBoundedAndDeletable(t *testing.T) {
	if (Load{EndDate: "2025-06-06"}).Bounded() == false {
		t.Fatalf("end date should make the load bounded")
	}
	if (Load{}).Bounded() {
		t.Fatalf("missing end date should be open-ended")
	}
	if (Load{Source: SourceProject}).Deletable() {
		t.Fatalf("project loads are not deletable")
	}
	if !(Load{Source: SourceManual}).Deletable() {
		t.Fatalf("manual loads are deletable")
	}
}

func TestDateParsing(t *testing.T) {
	l := Load{StartDate: "2025-06-02", EndDate: "02.06.2025"}
	if _, err := l.Start(); err != nil {
		t.Fatalf("start parse: %v", err)
	}
	if _, err := l.End(); err == nil {
		t.Fatalf("expected error for malformed end date")
	}
}

func TestCloneIsolatesOverrides(t *testing.T) {
	l := Load{ID: "a", Overrides: map[string]float64{"2025-06-02": 4}}
	cp := l.Clone()
	cp.Overrides["2025-06-02"] = 9
	if l.Overrides["2025-06-02"] != 4 {
		t.Fatalf("clone shares the override map")
	}
}
