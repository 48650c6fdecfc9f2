package metrics

import (
	coremetrics "github.com/Cesliva/quant-sub005/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records forecast runs in Prometheus metrics.
type PromSink struct {
	runs           prometheus.Counter
	excluded       prometheus.Counter
	overrideEdits  *prometheus.CounterVec
	gapWeeks       prometheus.Gauge
	overloadWeeks  prometheus.Gauge
	scheduledHours prometheus.Gauge
	duration       prometheus.Histogram
}

// NewPromSink registers forecast metrics on the default Prometheus
// registerer. The Prometheus server is started separately on the
// configured port.
func NewPromSink(cfg coremetrics.Config) (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(cfg coremetrics.Config, reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "forecast_runs_total",
			Help: "Total number of schedule forecast recomputations",
		}),
		excluded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "forecast_loads_excluded_total",
			Help: "Loads skipped because of missing hours or unparsable dates",
		}),
		overrideEdits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "forecast_override_edits_total",
			Help: "Per-day override edits by action",
		}, []string{"action"}),
		gapWeeks: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "forecast_gap_weeks",
			Help: "Number of under-utilized weeks in the current forecast",
		}),
		overloadWeeks: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "forecast_overload_weeks",
			Help: "Number of overloaded weeks in the current forecast",
		}),
		scheduledHours: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "forecast_scheduled_hours",
			Help: "Total hours allocated across all loads in the current schedule",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "forecast_compute_duration_seconds",
			Help:    "Time taken to recompute the schedule and weekly forecast",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
	}

	collectors := []prometheus.Collector{
		s.runs, s.excluded, s.overrideEdits, s.gapWeeks, s.overloadWeeks, s.scheduledHours, s.duration,
	}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			are, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				return nil, err
			}
			switch i {
			case 0:
				s.runs = are.ExistingCollector.(prometheus.Counter)
			case 1:
				s.excluded = are.ExistingCollector.(prometheus.Counter)
			case 2:
				s.overrideEdits = are.ExistingCollector.(*prometheus.CounterVec)
			case 3:
				s.gapWeeks = are.ExistingCollector.(prometheus.Gauge)
			case 4:
				s.overloadWeeks = are.ExistingCollector.(prometheus.Gauge)
			case 5:
				s.scheduledHours = are.ExistingCollector.(prometheus.Gauge)
			case 6:
				s.duration = are.ExistingCollector.(prometheus.Histogram)
			}
		}
	}
	return s, nil
}

// RecordForecastRun updates the run counters and current-forecast gauges.
func (s *PromSink) RecordForecastRun(ev coremetrics.ForecastRunEvent) error {
	s.runs.Inc()
	s.excluded.Add(float64(ev.LoadsExcluded))
	s.gapWeeks.Set(float64(ev.GapWeeks))
	s.overloadWeeks.Set(float64(ev.OverloadWeeks))
	s.scheduledHours.Set(ev.ScheduledHours)
	s.duration.Observe(ev.Duration.Seconds())
	return nil
}

// RecordOverrideEdit counts override mutations by action.
func (s *PromSink) RecordOverrideEdit(ev coremetrics.OverrideEditEvent) error {
	action := "set"
	if ev.Cleared {
		action = "clear"
	}
	s.overrideEdits.WithLabelValues(action).Inc()
	return nil
}
