// Package app wires configuration, the load store and the pure scheduling
// pipeline into a running service.
package app

import (
	"context"
	"net/http"
	"sync"
	"time"

	apiloads "github.com/Cesliva/quant-sub005/api/loads"
	apischedule "github.com/Cesliva/quant-sub005/api/schedule"
	"github.com/Cesliva/quant-sub005/config"
	"github.com/Cesliva/quant-sub005/core/allocation"
	"github.com/Cesliva/quant-sub005/core/calendar"
	"github.com/Cesliva/quant-sub005/core/forecast"
	coremetrics "github.com/Cesliva/quant-sub005/core/metrics"
	"github.com/Cesliva/quant-sub005/infra/logger"
	"github.com/Cesliva/quant-sub005/infra/metrics"
	"github.com/Cesliva/quant-sub005/internal/eventbus"
	"github.com/Cesliva/quant-sub005/internal/loadstore"
)

// Service holds the only mutable state in the process: the load store and
// the latest computed schedule. Every store change triggers a full
// recomputation of the pure pipeline.
type Service struct {
	cfg   *config.Config
	cal   calendar.Calendar
	fcfg  forecast.Config
	store *loadstore.Store
	bus   *eventbus.Bus[loadstore.ChangeEvent]
	sink  coremetrics.MetricsSink
	log   logger.Logger

	mu     sync.RWMutex
	sched  allocation.Schedule
	result forecast.Result
}

// New creates a Service from the configuration and computes the initial
// schedule.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	var sinks []coremetrics.MetricsSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sink := metrics.NewInfluxSinkWithFallback(
			cfg.Metrics.InfluxURL, cfg.Metrics.InfluxToken, cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket)
		sinks = append(sinks, sink)
	}
	var sink coremetrics.MetricsSink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	bus := eventbus.New[loadstore.ChangeEvent]()
	store := loadstore.New(bus)
	if cfg.Loads.Path != "" {
		n, err := store.Seed(cfg.Loads.Path)
		if err != nil {
			return nil, err
		}
		logg.Infof("seeded %d loads from %s", n, cfg.Loads.Path)
	}

	svc := &Service{
		cfg:   cfg,
		cal:   cfg.Calendar.Build(),
		fcfg:  cfg.Forecast.Build(),
		store: store,
		bus:   bus,
		sink:  sink,
		log:   logg,
	}
	svc.recompute()
	return svc, nil
}

// Store exposes the load store for the API handlers.
func (s *Service) Store() *loadstore.Store { return s.store }

// DailySchedule returns the latest computed schedule snapshot.
func (s *Service) DailySchedule() allocation.Schedule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sched
}

// WeeklyForecast returns the latest weekly rollup.
func (s *Service) WeeklyForecast() forecast.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

// recompute reruns the pure pipeline against the current loads and swaps in
// the result. The maps inside a published snapshot are never mutated again,
// so readers can hold them without locking.
func (s *Service) recompute() {
	loads := s.store.List()
	start := time.Now()
	sched, stats := allocation.AggregateDetailed(loads, s.cal, s.cal.DailyCapacityHours())
	result := forecast.Analyze(sched, s.cal, s.fcfg, start)
	elapsed := time.Since(start)

	s.mu.Lock()
	s.sched = sched
	s.result = result
	s.mu.Unlock()

	if err := s.sink.RecordForecastRun(coremetrics.ForecastRunEvent{
		LoadsIn:        stats.LoadsIn,
		LoadsExcluded:  stats.LoadsExcluded,
		Unreconciled:   stats.Unreconciled,
		CeilingHits:    stats.CeilingHits,
		ScheduledHours: stats.ScheduledHours,
		GapWeeks:       result.GapWeeks,
		OverloadWeeks:  result.OverloadWeeks,
		Duration:       elapsed,
		Time:           start,
	}); err != nil {
		s.log.Warnf("record forecast run: %v", err)
	}
	if rec, ok := s.sink.(coremetrics.WeeklyUtilizationRecorder); ok {
		weeks := make([]coremetrics.WeeklyUtilization, 0, len(result.Weeks))
		for _, w := range result.Weeks {
			weeks = append(weeks, coremetrics.WeeklyUtilization{
				WeekStart:     w.WeekStart,
				UsedHours:     w.UsedHours,
				CapacityHours: w.CapacityHours,
				Status:        string(w.Status),
				Time:          start,
			})
		}
		if err := rec.RecordWeeklyUtilization(weeks); err != nil {
			s.log.Warnf("record weekly utilization: %v", err)
		}
	}
	if stats.CeilingHits > 0 {
		s.log.Errorf("open-ended allocation hit the step ceiling for %d loads; check calendar and capacity settings", stats.CeilingHits)
	}
}

func (s *Service) onChange(ev loadstore.ChangeEvent) {
	if ev.Kind == loadstore.ChangeOverrideSet || ev.Kind == loadstore.ChangeOverrideClear {
		if rec, ok := s.sink.(coremetrics.OverrideEditRecorder); ok {
			if err := rec.RecordOverrideEdit(coremetrics.OverrideEditEvent{
				LoadID:  ev.LoadID,
				Date:    ev.Date,
				Hours:   ev.Hours,
				Cleared: ev.Kind == loadstore.ChangeOverrideClear,
				Time:    time.Now(),
			}); err != nil {
				s.log.Warnf("record override edit: %v", err)
			}
		}
	}
	s.recompute()
}

// Run starts the API and metrics servers and blocks until the context is
// cancelled.
func (s *Service) Run(ctx context.Context) error {
	sub := s.bus.Subscribe()
	defer s.bus.Unsubscribe(sub)
	go func() {
		for ev := range sub {
			s.onChange(ev)
		}
	}()

	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	mux := http.NewServeMux()
	mux.Handle("/api/schedule/daily", apischedule.NewDailyHandler(s))
	mux.Handle("/api/schedule/weeks", apischedule.NewWeeksHandler(s))
	loadsHandler := apiloads.NewHandler(s.store, s.log)
	mux.Handle("/api/loads", loadsHandler)
	mux.Handle("/api/loads/", loadsHandler)

	srv := &http.Server{Addr: s.cfg.API.Address, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("api shutdown: %v", err)
		}
	}()
	s.log.Infof("api listening on %s", s.cfg.API.Address)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	return nil
}
