package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/soilmatch/core/metrics"
)

// PromSink records engine events in Prometheus metrics.
type PromSink struct {
	matchRuns     prometheus.Counter
	pairs         prometheus.Counter
	matches       prometheus.Counter
	matchDuration prometheus.Histogram

	schedules     *prometheus.CounterVec
	skipped       prometheus.Counter
	alerts        *prometheus.CounterVec
	buildDuration prometheus.Histogram

	simulations *prometheus.CounterVec
	costDelta   prometheus.Histogram

	recommendations *prometheus.CounterVec
	candidates      prometheus.Histogram

	permits      *prometheus.CounterVec
	permitScores prometheus.Histogram
}

// NewPromSink registers metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using cfg.PrometheusAddr.
func NewPromSink(cfg coremetrics.Config) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// already registered by an earlier sink are reused.
func NewPromSinkWithRegistry(cfg coremetrics.Config, reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	cfg.SetDefaults()
	ns := cfg.Namespace

	s := &PromSink{
		matchRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Name: "match_runs_total",
			Help: "Number of site matcher runs",
		}),
		pairs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Name: "match_pairs_evaluated_total",
			Help: "Export/import pairs scored by the matcher",
		}),
		matches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Name: "matches_emitted_total",
			Help: "Matches above the minimum score",
		}),
		matchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns, Name: "match_run_duration_seconds",
			Help:    "Wall time of one matcher run",
			Buckets: prometheus.DefBuckets,
		}),
		schedules: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "schedules_built_total",
			Help: "Schedules produced by the builder",
		}, []string{"status"}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Name: "schedules_skipped_total",
			Help: "Approved matches skipped for missing sites",
		}),
		alerts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "schedule_alerts_total",
			Help: "Alerts attached to built schedules",
		}, []string{"type", "severity"}),
		buildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns, Name: "schedule_build_duration_seconds",
			Help:    "Wall time of one schedule build batch",
			Buckets: prometheus.DefBuckets,
		}),
		simulations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "simulations_total",
			Help: "What-if simulations by override",
		}, []string{"override"}),
		costDelta: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns, Name: "simulation_cost_delta_dollars",
			Help:    "Route cost difference between simulated and baseline schedules",
			Buckets: []float64{-500, -100, -25, 0, 25, 100, 500},
		}),
		recommendations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "dispatch_recommendations_total",
			Help: "Driver recommendation requests by outcome",
		}, []string{"outcome"}),
		candidates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns, Name: "dispatch_feasible_drivers",
			Help:    "Feasible drivers per recommendation request",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50},
		}),
		permits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "permit_scores_total",
			Help: "Permits scored by confidence",
		}, []string{"confidence"}),
		permitScores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns, Name: "permit_earthwork_score",
			Help:    "Distribution of permit earthwork scores",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		}),
	}

	var err error
	reuse := func(c prometheus.Collector) prometheus.Collector {
		if err != nil {
			return c
		}
		var existing prometheus.Collector
		existing, err = register(reg, c)
		return existing
	}
	s.matchRuns = reuse(s.matchRuns).(prometheus.Counter)
	s.pairs = reuse(s.pairs).(prometheus.Counter)
	s.matches = reuse(s.matches).(prometheus.Counter)
	s.matchDuration = reuse(s.matchDuration).(prometheus.Histogram)
	s.schedules = reuse(s.schedules).(*prometheus.CounterVec)
	s.skipped = reuse(s.skipped).(prometheus.Counter)
	s.alerts = reuse(s.alerts).(*prometheus.CounterVec)
	s.buildDuration = reuse(s.buildDuration).(prometheus.Histogram)
	s.simulations = reuse(s.simulations).(*prometheus.CounterVec)
	s.costDelta = reuse(s.costDelta).(prometheus.Histogram)
	s.recommendations = reuse(s.recommendations).(*prometheus.CounterVec)
	s.candidates = reuse(s.candidates).(prometheus.Histogram)
	s.permits = reuse(s.permits).(*prometheus.CounterVec)
	s.permitScores = reuse(s.permitScores).(prometheus.Histogram)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func register(reg prometheus.Registerer, c prometheus.Collector) (prometheus.Collector, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector, nil
		}
		return c, err
	}
	return c, nil
}

// RecordMatchRun counts pairs and emitted matches.
func (s *PromSink) RecordMatchRun(ev coremetrics.MatchRunEvent) error {
	s.matchRuns.Inc()
	s.pairs.Add(float64(ev.PairsEvaluated))
	s.matches.Add(float64(ev.MatchesEmitted))
	s.matchDuration.Observe(ev.Duration.Seconds())
	return nil
}

// RecordScheduleBuild counts schedules by status and their alerts.
func (s *PromSink) RecordScheduleBuild(ev coremetrics.ScheduleBuildEvent) error {
	for _, sc := range ev.Schedules {
		s.schedules.WithLabelValues(string(sc.Status)).Inc()
		for _, a := range sc.Alerts {
			s.alerts.WithLabelValues(string(a.Type), string(a.Severity)).Inc()
		}
	}
	s.skipped.Add(float64(ev.Skipped))
	s.buildDuration.Observe(ev.Duration.Seconds())
	return nil
}

// RecordSimulation counts the simulation once per applied override.
func (s *PromSink) RecordSimulation(ev coremetrics.SimulationEvent) error {
	if len(ev.Overrides) == 0 {
		s.simulations.WithLabelValues("none").Inc()
	}
	for _, o := range ev.Overrides {
		s.simulations.WithLabelValues(o).Inc()
	}
	s.costDelta.Observe(ev.CostDelta)
	return nil
}

// RecordDispatchRecommendation counts requests by whether a driver was found.
func (s *PromSink) RecordDispatchRecommendation(ev coremetrics.DispatchRecommendationEvent) error {
	outcome := "assigned"
	if ev.BestDriverID == "" {
		outcome = "none"
	}
	s.recommendations.WithLabelValues(outcome).Inc()
	s.candidates.Observe(float64(ev.Feasible))
	return nil
}

// RecordPermitScore tracks the score distribution.
func (s *PromSink) RecordPermitScore(ev coremetrics.PermitScoreEvent) error {
	s.permits.WithLabelValues(string(ev.Confidence)).Inc()
	s.permitScores.Observe(float64(ev.Score))
	return nil
}
