package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/Cesliva/quant-sub005/config"
	"github.com/Cesliva/quant-sub005/core/allocation"
	"github.com/Cesliva/quant-sub005/core/forecast"
	"github.com/Cesliva/quant-sub005/core/model"
)

var loadsPath string

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Run the capacity forecast once and print the result",
	RunE:  runForecast,
}

func init() {
	forecastCmd.Flags().StringVarP(&loadsPath, "loads", "l", "loads.json", "JSON file with production loads")
	rootCmd.AddCommand(forecastCmd)
}

type forecastOutput struct {
	Days   []dayOutput     `json:"days"`
	Result forecast.Result `json:"forecast"`
}

type dayOutput struct {
	Date          string               `json:"date"`
	TotalHours    float64              `json:"total_hours"`
	Contributions []model.Contribution `json:"contributions,omitempty"`
}

func runForecast(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	raw, err := os.ReadFile(loadsPath)
	if err != nil {
		return fmt.Errorf("read loads: %w", err)
	}
	var loads []model.Load
	if err := json.Unmarshal(raw, &loads); err != nil {
		return fmt.Errorf("parse loads: %w", err)
	}

	cal := cfg.Calendar.Build()
	sched := allocation.Aggregate(loads, cal, cal.DailyCapacityHours())
	result := forecast.Analyze(sched, cal, cfg.Forecast.Build(), time.Now())

	out := forecastOutput{Result: result}
	for date, total := range sched.Totals {
		out.Days = append(out.Days, dayOutput{Date: date, TotalHours: total, Contributions: sched.Contributions[date]})
	}
	// ISO day keys sort chronologically as strings.
	sort.Slice(out.Days, func(i, j int) bool { return out.Days[i].Date < out.Days[j].Date })

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
