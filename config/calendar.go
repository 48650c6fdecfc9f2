package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Cesliva/quant-sub005/core/calendar"
	"github.com/Cesliva/quant-sub005/core/model"
)

// CalendarConfig defines the working-day policy and capacity figures.
type CalendarConfig struct {
	// WorkingDays lists weekday names, e.g. ["monday", ..., "friday"].
	WorkingDays []string `json:"working_days"`
	// Holidays lists ISO dates excluded even on working weekdays.
	Holidays []string `json:"holidays"`
	// DailyCapacityHours and WeeklyCapacityHours come from company
	// settings. When only one is set the other is derived from the
	// working-day count.
	DailyCapacityHours  float64 `json:"daily_capacity_hours"`
	WeeklyCapacityHours float64 `json:"weekly_capacity_hours"`
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// SetDefaults applies the Monday-to-Friday default week.
func (c *CalendarConfig) SetDefaults() {
	if len(c.WorkingDays) == 0 {
		c.WorkingDays = []string{"monday", "tuesday", "wednesday", "thursday", "friday"}
	}
}

// Validate checks weekday names, holiday dates and capacity signs.
func (c CalendarConfig) Validate() error {
	for _, d := range c.WorkingDays {
		if _, ok := weekdayNames[strings.ToLower(d)]; !ok {
			return fmt.Errorf("unknown weekday %q", d)
		}
	}
	for _, h := range c.Holidays {
		if _, err := time.ParseInLocation(model.DateLayout, h, time.UTC); err != nil {
			return fmt.Errorf("invalid holiday date %q", h)
		}
	}
	if c.DailyCapacityHours < 0 || c.WeeklyCapacityHours < 0 {
		return fmt.Errorf("capacity hours must be non-negative")
	}
	return nil
}

// Build resolves the config into an immutable Calendar.
func (c CalendarConfig) Build() calendar.Calendar {
	days := make([]time.Weekday, 0, len(c.WorkingDays))
	for _, d := range c.WorkingDays {
		if wd, ok := weekdayNames[strings.ToLower(d)]; ok {
			days = append(days, wd)
		}
	}
	return calendar.New(days, c.Holidays, c.DailyCapacityHours, c.WeeklyCapacityHours)
}
