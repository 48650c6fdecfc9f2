// Package calendar answers working-day questions for the scheduling engine:
// which dates carry work, where the next working day is, and how much
// capacity a day or week holds.
package calendar

import (
	"time"

	"github.com/Cesliva/quant-sub005/core/model"
)

// DefaultDailyCapacityHours is the floor applied when neither a daily nor a
// weekly capacity figure is configured.
const DefaultDailyCapacityHours = 8

// Calendar is the immutable working-day policy: a weekday set, a holiday
// list and the company capacity figures. The zero value has no working days.
type Calendar struct {
	working  [7]bool
	holidays map[string]struct{}
	daily    float64
	weekly   float64
}

// New builds a Calendar from a weekday set, ISO holiday dates and the
// configured capacity figures. When only one of daily/weekly is set the
// other is derived from the working-day count; when neither is set the
// daily floor applies.
func New(days []time.Weekday, holidays []string, dailyHours, weeklyHours float64) Calendar {
	c := Calendar{holidays: make(map[string]struct{}, len(holidays))}
	for _, d := range days {
		c.working[int(d)%7] = true
	}
	for _, h := range holidays {
		if t, err := time.ParseInLocation(model.DateLayout, h, time.UTC); err == nil {
			c.holidays[Key(t)] = struct{}{}
		}
	}
	n := float64(c.WorkingDayCount())
	daily, weekly := dailyHours, weeklyHours
	switch {
	case daily > 0 && weekly <= 0:
		weekly = daily * n
	case weekly > 0 && daily <= 0:
		if n > 0 {
			daily = weekly / n
		}
	case daily <= 0 && weekly <= 0:
		daily = DefaultDailyCapacityHours
		weekly = daily * n
	}
	c.daily, c.weekly = daily, weekly
	return c
}

// Key formats a time as the ISO day key used throughout the engine.
func Key(t time.Time) string { return t.Format(model.DateLayout) }

// Day truncates a time to midnight UTC so day arithmetic is stable across
// DST transitions.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WorkingDayCount returns the number of weekdays in the working set.
func (c Calendar) WorkingDayCount() int {
	n := 0
	for _, w := range c.working {
		if w {
			n++
		}
	}
	return n
}

// DailyCapacityHours returns the resolved per-day capacity.
func (c Calendar) DailyCapacityHours() float64 { return c.daily }

// WeeklyCapacityHours returns the resolved per-week capacity.
func (c Calendar) WeeklyCapacityHours() float64 { return c.weekly }

// IsWorkingDay reports whether the date's weekday is in the working set and
// the date is not a holiday.
func (c Calendar) IsWorkingDay(t time.Time) bool {
	if !c.working[int(t.Weekday())] {
		return false
	}
	_, holiday := c.holidays[Key(t)]
	return !holiday
}

// WorkingDatesBetween returns every working date in [start, end] inclusive,
// in order. The result is empty when end precedes start or the calendar has
// no working days in the window.
func (c Calendar) WorkingDatesBetween(start, end time.Time) []time.Time {
	var dates []time.Time
	for cur := Day(start); !cur.After(Day(end)); cur = cur.AddDate(0, 0, 1) {
		if c.IsWorkingDay(cur) {
			dates = append(dates, cur)
		}
	}
	return dates
}

// NextWorkingDate scans forward from the given date (inclusive) for the
// first working day. The lookahead bound guarantees termination on a
// misconfigured calendar; ok is false when no working day is found.
func (c Calendar) NextWorkingDate(from time.Time, maxLookaheadDays int) (time.Time, bool) {
	cur := Day(from)
	for i := 0; i <= maxLookaheadDays; i++ {
		if c.IsWorkingDay(cur) {
			return cur, true
		}
		cur = cur.AddDate(0, 0, 1)
	}
	return time.Time{}, false
}

// Days returns a cursor stepping one calendar day at a time from the given
// date. Both allocation modes consume it so the date-stepping logic lives in
// one place. The cursor is cheap; build a new one to rewind.
func (c Calendar) Days(from time.Time) *DayCursor {
	return &DayCursor{cal: c, cur: Day(from)}
}

// DayCursor walks calendar days in order, reporting working-day status.
type DayCursor struct {
	cal Calendar
	cur time.Time
}

// Next returns the current day and whether it is a working day, then
// advances the cursor.
func (d *DayCursor) Next() (time.Time, bool) {
	day := d.cur
	d.cur = d.cur.AddDate(0, 0, 1)
	return day, d.cal.IsWorkingDay(day)
}

// WeekStart returns the Monday of the calendar week containing t.
func WeekStart(t time.Time) time.Time {
	day := Day(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
