package metrics

import (
	"github.com/kilianp07/soilmatch/core/logger"
	coremetrics "github.com/kilianp07/soilmatch/core/metrics"
)

// LogSink writes every event to a logger at debug level.
type LogSink struct {
	log logger.Logger
}

// NewLogSink returns a LogSink. A nil logger discards events.
func NewLogSink(l logger.Logger) *LogSink { return &LogSink{log: logger.OrNop(l)} }

func (s *LogSink) RecordMatchRun(ev coremetrics.MatchRunEvent) error {
	s.log.Debugw("match run", map[string]any{
		"export_sites": ev.ExportSites,
		"import_sites": ev.ImportSites,
		"pairs":        ev.PairsEvaluated,
		"matches":      ev.MatchesEmitted,
		"duration_ms":  ev.Duration.Milliseconds(),
	})
	return nil
}

func (s *LogSink) RecordScheduleBuild(ev coremetrics.ScheduleBuildEvent) error {
	conflicts := 0
	for _, sc := range ev.Schedules {
		if len(sc.Alerts) > 0 {
			conflicts++
		}
	}
	s.log.Debugw("schedule build", map[string]any{
		"schedules":   len(ev.Schedules),
		"with_alerts": conflicts,
		"skipped":     ev.Skipped,
	})
	return nil
}

func (s *LogSink) RecordSimulation(ev coremetrics.SimulationEvent) error {
	s.log.Debugw("simulation", map[string]any{
		"schedule_id": ev.ScheduleID,
		"cost_delta":  ev.CostDelta,
		"overrides":   ev.Overrides,
	})
	return nil
}

func (s *LogSink) RecordDispatchRecommendation(ev coremetrics.DispatchRecommendationEvent) error {
	s.log.Debugw("dispatch recommendation", map[string]any{
		"site_id":    ev.SiteID,
		"candidates": ev.Candidates,
		"feasible":   ev.Feasible,
		"best":       ev.BestDriverID,
		"best_score": ev.BestScore,
	})
	return nil
}

func (s *LogSink) RecordPermitScore(ev coremetrics.PermitScoreEvent) error {
	s.log.Debugw("permit score", map[string]any{
		"permit_id":  ev.PermitID,
		"score":      ev.Score,
		"confidence": ev.Confidence,
	})
	return nil
}
