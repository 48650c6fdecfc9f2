package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/Cesliva/quant-sub005/core/metrics"
	"github.com/Cesliva/quant-sub005/infra/logger"
)

// InfluxSink writes forecast results to an InfluxDB instance using the
// official client. Dashboards plot the weekly utilization series directly
// from the bucket.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and returns
// a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordForecastRun writes the run summary as a single point.
func (s *InfluxSink) RecordForecastRun(ev coremetrics.ForecastRunEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("forecast_run").
		AddTag("component", "capacity_engine").
		AddField("loads_in", ev.LoadsIn).
		AddField("loads_excluded", ev.LoadsExcluded).
		AddField("unreconciled", ev.Unreconciled).
		AddField("scheduled_hours", round3(ev.ScheduledHours)).
		AddField("gap_weeks", ev.GapWeeks).
		AddField("overload_weeks", ev.OverloadWeeks).
		AddField("duration_ms", round3(ev.Duration.Seconds()*1000)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordWeeklyUtilization writes one point per forecast week.
func (s *InfluxSink) RecordWeeklyUtilization(weeks []coremetrics.WeeklyUtilization) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, w := range weeks {
		p := write.NewPointWithMeasurement("weekly_utilization").
			AddTag("week_start", w.WeekStart).
			AddTag("status", w.Status).
			AddTag("component", "capacity_engine").
			AddField("used_hours", round3(w.UsedHours)).
			AddField("capacity_hours", round3(w.CapacityHours)).
			SetTime(w.Time)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// RecordOverrideEdit writes a point per override mutation.
func (s *InfluxSink) RecordOverrideEdit(ev coremetrics.OverrideEditEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("override_edit").
		AddTag("load_id", ev.LoadID).
		AddTag("date", ev.Date).
		AddTag("component", "capacity_engine").
		AddField("hours", round3(ev.Hours)).
		AddField("cleared", ev.Cleared).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
