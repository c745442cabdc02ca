package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/soilmatch/core/metrics"
	"github.com/kilianp07/soilmatch/core/model"
)

func newSink(t *testing.T) (*PromSink, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{Namespace: "test"}, reg)
	require.NoError(t, err)
	return sink, reg
}

func TestPromSink_RecordMatchRun(t *testing.T) {
	sink, _ := newSink(t)
	require.NoError(t, sink.RecordMatchRun(coremetrics.MatchRunEvent{PairsEvaluated: 6, MatchesEmitted: 4, Duration: time.Millisecond}))
	require.NoError(t, sink.RecordMatchRun(coremetrics.MatchRunEvent{PairsEvaluated: 2}))
	assert.Equal(t, 2.0, testutil.ToFloat64(sink.matchRuns))
	assert.Equal(t, 8.0, testutil.ToFloat64(sink.pairs))
	assert.Equal(t, 4.0, testutil.ToFloat64(sink.matches))
	assert.Equal(t, 1, testutil.CollectAndCount(sink.matchDuration))
}

func TestPromSink_RecordScheduleBuild(t *testing.T) {
	sink, _ := newSink(t)
	ev := coremetrics.ScheduleBuildEvent{
		Schedules: []model.Schedule{
			{Status: model.ScheduleScheduled},
			{Status: model.ScheduleConflict, Alerts: []model.Alert{
				{Type: model.AlertInsufficientTrucks, Severity: model.SeverityHigh},
				{Type: model.AlertWeather, Severity: model.SeverityMedium},
			}},
		},
		Skipped: 1,
	}
	require.NoError(t, sink.RecordScheduleBuild(ev))

	expected := `
# HELP test_schedules_built_total Schedules produced by the builder
# TYPE test_schedules_built_total counter
test_schedules_built_total{status="conflict"} 1
test_schedules_built_total{status="scheduled"} 1
`
	assert.NoError(t, testutil.CollectAndCompare(sink.schedules, strings.NewReader(expected)))
	assert.Equal(t, 2, testutil.CollectAndCount(sink.alerts))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.skipped))
}

func TestPromSink_OtherRecorders(t *testing.T) {
	sink, _ := newSink(t)
	require.NoError(t, sink.RecordSimulation(coremetrics.SimulationEvent{Overrides: []string{"hauler", "volume"}, CostDelta: -13}))
	require.NoError(t, sink.RecordSimulation(coremetrics.SimulationEvent{}))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.simulations.WithLabelValues("hauler")))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.simulations.WithLabelValues("none")))

	require.NoError(t, sink.RecordDispatchRecommendation(coremetrics.DispatchRecommendationEvent{BestDriverID: "d1", Feasible: 3}))
	require.NoError(t, sink.RecordDispatchRecommendation(coremetrics.DispatchRecommendationEvent{}))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.recommendations.WithLabelValues("assigned")))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.recommendations.WithLabelValues("none")))

	require.NoError(t, sink.RecordPermitScore(coremetrics.PermitScoreEvent{Score: 95, Confidence: model.ConfidenceHigh}))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.permits.WithLabelValues("high")))
}

func TestPromSink_ReusesRegisteredCollectors(t *testing.T) {
	sink, reg := newSink(t)
	again, err := NewPromSinkWithRegistry(coremetrics.Config{Namespace: "test"}, reg)
	require.NoError(t, err)
	require.NoError(t, again.RecordMatchRun(coremetrics.MatchRunEvent{}))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.matchRuns))
}

func TestHandler_ServesRegistry(t *testing.T) {
	sink, reg := newSink(t)
	require.NoError(t, sink.RecordMatchRun(coremetrics.MatchRunEvent{PairsEvaluated: 3}))

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "test_match_pairs_evaluated_total 3")
}
