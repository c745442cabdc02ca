package metrics

import coremetrics "github.com/kilianp07/soilmatch/core/metrics"

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordMatchRun forwards the event to all sinks, returning the first error encountered.
func (m *MultiSink) RecordMatchRun(ev coremetrics.MatchRunEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordMatchRun(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordScheduleBuild forwards schedule builds.
func (m *MultiSink) RecordScheduleBuild(ev coremetrics.ScheduleBuildEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.ScheduleRecorder); ok {
			if err := rec.RecordScheduleBuild(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordSimulation forwards simulations.
func (m *MultiSink) RecordSimulation(ev coremetrics.SimulationEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.SimulationRecorder); ok {
			if err := rec.RecordSimulation(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordDispatchRecommendation forwards driver rankings.
func (m *MultiSink) RecordDispatchRecommendation(ev coremetrics.DispatchRecommendationEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.DispatchRecorder); ok {
			if err := rec.RecordDispatchRecommendation(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordPermitScore forwards permit scores.
func (m *MultiSink) RecordPermitScore(ev coremetrics.PermitScoreEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.PermitRecorder); ok {
			if err := rec.RecordPermitScore(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
