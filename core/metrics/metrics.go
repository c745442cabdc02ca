package metrics

import (
	"time"

	"github.com/kilianp07/soilmatch/core/model"
)

// MatchRunEvent summarises one run of the site matcher.
type MatchRunEvent struct {
	ExportSites    int
	ImportSites    int
	PairsEvaluated int
	MatchesEmitted int
	Duration       time.Duration
	Time           time.Time
}

// MetricsSink records engine activity for observability purposes.
type MetricsSink interface {
	RecordMatchRun(ev MatchRunEvent) error
}

// ScheduleBuildEvent captures the output of one schedule build batch.
type ScheduleBuildEvent struct {
	Schedules []model.Schedule
	Skipped   int
	Duration  time.Duration
	Time      time.Time
}

// ScheduleRecorder records schedule builds.
type ScheduleRecorder interface {
	RecordScheduleBuild(ev ScheduleBuildEvent) error
}

// SimulationEvent captures a what-if simulation.
type SimulationEvent struct {
	ScheduleID string
	CostDelta  float64
	Overrides  []string
	Time       time.Time
}

// SimulationRecorder records what-if simulations.
type SimulationRecorder interface {
	RecordSimulation(ev SimulationEvent) error
}

// DispatchRecommendationEvent captures a driver ranking for one pickup.
type DispatchRecommendationEvent struct {
	SiteID       string
	Candidates   int
	Feasible     int
	BestDriverID string
	BestScore    float64
	Time         time.Time
}

// DispatchRecorder records driver recommendations.
type DispatchRecorder interface {
	RecordDispatchRecommendation(ev DispatchRecommendationEvent) error
}

// PermitScoreEvent captures one permit classification.
type PermitScoreEvent struct {
	PermitID   string
	Score      int
	Confidence model.Confidence
	Time       time.Time
}

// PermitRecorder records permit scores.
type PermitRecorder interface {
	RecordPermitScore(ev PermitScoreEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordMatchRun(MatchRunEvent) error                             { return nil }
func (NopSink) RecordScheduleBuild(ScheduleBuildEvent) error                   { return nil }
func (NopSink) RecordSimulation(SimulationEvent) error                         { return nil }
func (NopSink) RecordDispatchRecommendation(DispatchRecommendationEvent) error { return nil }
func (NopSink) RecordPermitScore(PermitScoreEvent) error                       { return nil }
