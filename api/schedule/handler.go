// Package schedule exposes the computed daily schedule and weekly forecast
// over JSON endpoints consumed by the dashboard calendar and timeline.
package schedule

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/Cesliva/quant-sub005/core/allocation"
	"github.com/Cesliva/quant-sub005/core/forecast"
	"github.com/Cesliva/quant-sub005/core/model"
)

// Provider supplies the latest computed results. Implemented by app.Service.
type Provider interface {
	DailySchedule() allocation.Schedule
	WeeklyForecast() forecast.Result
}

// Day is one calendar cell: the total plus the per-load breakdown the
// editable week grid needs.
type Day struct {
	Date          string               `json:"date"`
	TotalHours    float64              `json:"total_hours"`
	Contributions []model.Contribution `json:"contributions,omitempty"`
}

// NewDailyHandler returns a handler for GET /api/schedule/daily. The
// optional from/to query parameters (ISO dates) bound the returned range.
func NewDailyHandler(p Provider) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		from := r.URL.Query().Get("from")
		to := r.URL.Query().Get("to")

		sched := p.DailySchedule()
		days := make([]Day, 0, len(sched.Totals))
		for date, total := range sched.Totals {
			if from != "" && date < from {
				continue
			}
			if to != "" && date > to {
				continue
			}
			days = append(days, Day{
				Date:          date,
				TotalHours:    total,
				Contributions: sched.Contributions[date],
			})
		}
		// ISO day keys sort chronologically as strings.
		sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(days); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

// NewWeeksHandler returns a handler for GET /api/schedule/weeks exposing the
// weekly summaries and gap/overload counts.
func NewWeeksHandler(p Provider) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(p.WeeklyForecast()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}
