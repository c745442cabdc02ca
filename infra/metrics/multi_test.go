package metrics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/soilmatch/core/metrics"
)

type recordSink struct {
	count int
}

func (r *recordSink) RecordMatchRun(coremetrics.MatchRunEvent) error {
	r.count++
	return nil
}

func (r *recordSink) RecordPermitScore(coremetrics.PermitScoreEvent) error {
	r.count++
	return nil
}

type failSink struct{}

func (failSink) RecordMatchRun(coremetrics.MatchRunEvent) error { return errors.New("boom") }

func TestMultiSink(t *testing.T) {
	s1 := &recordSink{}
	s2 := &recordSink{}
	m := NewMultiSink(s1, s2, coremetrics.NopSink{})
	require.NoError(t, m.RecordMatchRun(coremetrics.MatchRunEvent{}))
	require.NoError(t, m.RecordPermitScore(coremetrics.PermitScoreEvent{}))
	// Sinks without the optional recorder are skipped.
	require.NoError(t, m.RecordScheduleBuild(coremetrics.ScheduleBuildEvent{}))
	require.NoError(t, m.RecordSimulation(coremetrics.SimulationEvent{}))
	require.NoError(t, m.RecordDispatchRecommendation(coremetrics.DispatchRecommendationEvent{}))
	assert.Equal(t, 2, s1.count)
	assert.Equal(t, 2, s2.count)
}

func TestMultiSink_FirstError(t *testing.T) {
	s := &recordSink{}
	m := NewMultiSink(failSink{}, s)
	assert.EqualError(t, m.RecordMatchRun(coremetrics.MatchRunEvent{}), "boom")
	assert.Equal(t, 0, s.count)
}

type captureLogger struct{ msgs []string }

func (c *captureLogger) Debugf(string, ...any)               {}
func (c *captureLogger) Debugw(msg string, _ map[string]any) { c.msgs = append(c.msgs, msg) }
func (c *captureLogger) Infof(string, ...any)                {}
func (c *captureLogger) Warnf(string, ...any)                {}
func (c *captureLogger) Errorf(string, ...any)               {}

func TestMultiSink_WithLogSink(t *testing.T) {
	l := &captureLogger{}
	m := NewMultiSink(NewLogSink(l))
	require.NoError(t, m.RecordMatchRun(coremetrics.MatchRunEvent{}))
	require.NoError(t, m.RecordScheduleBuild(coremetrics.ScheduleBuildEvent{}))
	require.NoError(t, m.RecordSimulation(coremetrics.SimulationEvent{}))
	require.NoError(t, m.RecordDispatchRecommendation(coremetrics.DispatchRecommendationEvent{}))
	require.NoError(t, m.RecordPermitScore(coremetrics.PermitScoreEvent{}))
	assert.Equal(t, []string{"match run", "schedule build", "simulation", "dispatch recommendation", "permit score"}, l.msgs)
}
