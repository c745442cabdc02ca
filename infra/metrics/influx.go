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

	coremetrics "github.com/kilianp07/soilmatch/core/metrics"
	"github.com/kilianp07/soilmatch/infra/logger"
)

const writeTimeout = 5 * time.Second

// InfluxSink writes engine events to an InfluxDB v2 bucket as line protocol.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a sink for the given endpoint. A trailing
// /api/v2/write on url is accepted.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(strings.TrimSuffix(url, "/"), "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: writeTimeout}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the instance first and returns a NopSink
// when the health check fails.
func NewInfluxSinkWithFallback(cfg coremetrics.Config) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg.InfluxURL, cfg.InfluxToken, cfg.InfluxOrg, cfg.InfluxBucket)
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
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

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }

func (s *InfluxSink) write(points ...*write.Point) error {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, points...)
}

func (s *InfluxSink) RecordMatchRun(ev coremetrics.MatchRunEvent) error {
	p := write.NewPointWithMeasurement("match_run").
		AddTag("component", "matcher").
		AddField("export_sites", ev.ExportSites).
		AddField("import_sites", ev.ImportSites).
		AddField("pairs_evaluated", ev.PairsEvaluated).
		AddField("matches_emitted", ev.MatchesEmitted).
		AddField("duration_ms", round3(float64(ev.Duration)/float64(time.Millisecond))).
		SetTime(ev.Time)
	return s.write(p)
}

// RecordScheduleBuild writes one point per schedule and a batch summary.
func (s *InfluxSink) RecordScheduleBuild(ev coremetrics.ScheduleBuildEvent) error {
	points := make([]*write.Point, 0, len(ev.Schedules)+1)
	for _, sc := range ev.Schedules {
		p := write.NewPointWithMeasurement("schedule").
			AddTag("schedule_id", sc.ID).
			AddTag("match_id", sc.MatchID).
			AddTag("status", string(sc.Status))
		if sc.HaulerID != "" {
			p = p.AddTag("hauler_id", sc.HaulerID)
		}
		points = append(points, p.
			AddField("trucks_needed", sc.TrucksNeeded).
			AddField("volume", round3(sc.VolumeScheduled)).
			AddField("route_cost", round3(sc.Route.Cost)).
			AddField("alerts", len(sc.Alerts)).
			SetTime(ev.Time))
	}
	points = append(points, write.NewPointWithMeasurement("schedule_build").
		AddTag("component", "scheduler").
		AddField("schedules", len(ev.Schedules)).
		AddField("skipped", ev.Skipped).
		AddField("duration_ms", round3(float64(ev.Duration)/float64(time.Millisecond))).
		SetTime(ev.Time))
	return s.write(points...)
}

func (s *InfluxSink) RecordSimulation(ev coremetrics.SimulationEvent) error {
	overrides := "none"
	if len(ev.Overrides) > 0 {
		overrides = strings.Join(ev.Overrides, "+")
	}
	p := write.NewPointWithMeasurement("simulation").
		AddTag("schedule_id", ev.ScheduleID).
		AddTag("overrides", overrides).
		AddField("cost_delta", round3(ev.CostDelta)).
		SetTime(ev.Time)
	return s.write(p)
}

func (s *InfluxSink) RecordDispatchRecommendation(ev coremetrics.DispatchRecommendationEvent) error {
	p := write.NewPointWithMeasurement("dispatch_recommendation").
		AddTag("site_id", ev.SiteID)
	if ev.BestDriverID != "" {
		p = p.AddTag("best_driver_id", ev.BestDriverID)
	}
	p = p.AddField("candidates", ev.Candidates).
		AddField("feasible", ev.Feasible).
		AddField("best_score", round3(ev.BestScore)).
		SetTime(ev.Time)
	return s.write(p)
}

func (s *InfluxSink) RecordPermitScore(ev coremetrics.PermitScoreEvent) error {
	p := write.NewPointWithMeasurement("permit_score").
		AddTag("permit_id", ev.PermitID).
		AddTag("confidence", string(ev.Confidence)).
		AddField("score", ev.Score).
		SetTime(ev.Time)
	return s.write(p)
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
