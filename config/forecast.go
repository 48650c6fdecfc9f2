package config

import (
	"fmt"

	"github.com/Cesliva/quant-sub005/core/forecast"
)

// ForecastConfig defines the horizon and classification threshold for the
// weekly utilization analysis.
type ForecastConfig struct {
	Weeks                  int     `json:"weeks"`
	UnderUtilizedThreshold float64 `json:"under_utilized_threshold"`
}

// SetDefaults applies a twelve-week horizon and the 70% gap threshold.
func (c *ForecastConfig) SetDefaults() {
	if c.Weeks == 0 {
		c.Weeks = 12
	}
	if c.UnderUtilizedThreshold == 0 {
		c.UnderUtilizedThreshold = 0.7
	}
}

// Validate checks mandatory fields.
func (c ForecastConfig) Validate() error {
	if c.Weeks < 1 {
		return fmt.Errorf("forecast weeks must be at least 1")
	}
	if c.UnderUtilizedThreshold < 0 || c.UnderUtilizedThreshold > 1 {
		return fmt.Errorf("under_utilized_threshold must be within [0, 1]")
	}
	return nil
}

// Build returns the engine-facing forecast parameters.
func (c ForecastConfig) Build() forecast.Config {
	return forecast.Config{Weeks: c.Weeks, UnderUtilizedThreshold: c.UnderUtilizedThreshold}
}
