// Package app wires the engine components to the record store, metrics and
// logging.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/soilmatch/config"
	"github.com/kilianp07/soilmatch/core/dispatch"
	"github.com/kilianp07/soilmatch/core/events"
	"github.com/kilianp07/soilmatch/core/ids"
	"github.com/kilianp07/soilmatch/core/logger"
	"github.com/kilianp07/soilmatch/core/matching"
	coremetrics "github.com/kilianp07/soilmatch/core/metrics"
	"github.com/kilianp07/soilmatch/core/model"
	"github.com/kilianp07/soilmatch/core/performance"
	"github.com/kilianp07/soilmatch/core/permit"
	"github.com/kilianp07/soilmatch/core/prediction"
	"github.com/kilianp07/soilmatch/core/routing"
	"github.com/kilianp07/soilmatch/core/scheduler"
	"github.com/kilianp07/soilmatch/core/store"
)

// Engine runs the matching, scheduling and scoring components against the
// collections held in a record store.
type Engine struct {
	store     store.Store
	matcher   *matching.Matcher
	builder   *scheduler.Builder
	simulator *scheduler.Simulator
	drivers   *dispatch.DriverScorer
	perf      *performance.Aggregator
	permits   *permit.Scorer
	alerts    scheduler.AlertThresholds
	sink      coremetrics.MetricsSink
	events    events.Publisher
	now       func() time.Time
	log       logger.Logger
}

type options struct {
	ids       ids.Generator
	predictor prediction.DelayPredictor
	sink      coremetrics.MetricsSink
	events    events.Publisher
	now       func() time.Time
	log       logger.Logger
}

// Option customises an Engine.
type Option func(*options)

// WithIDs injects the id generator used for matches, routes and schedules.
func WithIDs(g ids.Generator) Option { return func(o *options) { o.ids = g } }

// WithPredictor injects the weather and traffic predictor.
func WithPredictor(p prediction.DelayPredictor) Option { return func(o *options) { o.predictor = p } }

// WithSink sets the metrics sink.
func WithSink(s coremetrics.MetricsSink) Option { return func(o *options) { o.sink = s } }

// WithPublisher sets where run notifications are published.
func WithPublisher(p events.Publisher) Option { return func(o *options) { o.events = p } }

// WithClock injects the time source.
func WithClock(now func() time.Time) Option { return func(o *options) { o.now = now } }

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option { return func(o *options) { o.log = l } }

// NewEngine builds every component from cfg.
func NewEngine(cfg *config.Config, st store.Store, opts ...Option) (*Engine, error) {
	if st == nil {
		return nil, fmt.Errorf("engine: nil store")
	}
	o := options{sink: coremetrics.NopSink{}, events: events.NopPublisher{}, now: time.Now}
	for _, fn := range opts {
		fn(&o)
	}
	if o.ids == nil {
		o.ids = ids.NewUUIDGenerator()
	}
	if o.predictor == nil {
		o.predictor = prediction.NewHeuristicPredictor(cfg.Scheduling.Prediction)
	}
	log := logger.OrNop(o.log)

	routes := routing.NewGenerator(cfg.Routing, o.now)
	builder, err := scheduler.NewBuilder(cfg.Scheduling, routes,
		scheduler.WithPredictor(o.predictor),
		scheduler.WithIDs(o.ids),
		scheduler.WithClock(o.now),
		scheduler.WithLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("schedule builder: %w", err)
	}
	drivers, err := dispatch.NewDriverScorer(cfg.Dispatch, log)
	if err != nil {
		return nil, fmt.Errorf("driver scorer: %w", err)
	}
	perf, err := performance.NewAggregator(cfg.Performance, o.now, log)
	if err != nil {
		return nil, fmt.Errorf("performance aggregator: %w", err)
	}
	permits, err := permit.NewScorer(cfg.Permit, log)
	if err != nil {
		return nil, fmt.Errorf("permit scorer: %w", err)
	}
	alerts := cfg.Scheduling.Alerts
	alerts.SetDefaults()

	return &Engine{
		store:     st,
		matcher:   matching.NewMatcher(cfg.Matching, o.ids, log),
		builder:   builder,
		simulator: scheduler.NewSimulator(o.predictor, log),
		drivers:   drivers,
		perf:      perf,
		permits:   permits,
		alerts:    alerts,
		sink:      o.sink,
		events:    o.events,
		now:       o.now,
		log:       log,
	}, nil
}

// RunMatching scores all pending sites. The new suggestions replace the
// stored suggested matches; approved and rejected matches are kept.
func (e *Engine) RunMatching(ctx context.Context) (matching.Result, error) {
	sites, err := store.Load[model.Site](ctx, e.store, store.Sites)
	if err != nil {
		return matching.Result{}, err
	}
	existing, err := store.Load[model.Match](ctx, e.store, store.Matches)
	if err != nil {
		return matching.Result{}, err
	}

	start := time.Now()
	res := e.matcher.Match(sites)
	elapsed := time.Since(start)

	kept := make([]model.Match, 0, len(existing)+len(res.Matches))
	for _, m := range existing {
		if m.Status != model.MatchSuggested {
			kept = append(kept, m)
		}
	}
	kept = append(kept, res.Matches...)
	if err := store.Save(ctx, e.store, store.Matches, kept); err != nil {
		return matching.Result{}, err
	}

	e.log.Infof("matching: %d pairs scored, %d matches suggested", res.PairsEvaluated, len(res.Matches))
	if err := e.sink.RecordMatchRun(coremetrics.MatchRunEvent{
		ExportSites:    res.ExportSites,
		ImportSites:    res.ImportSites,
		PairsEvaluated: res.PairsEvaluated,
		MatchesEmitted: len(res.Matches),
		Duration:       elapsed,
		Time:           e.now(),
	}); err != nil {
		e.log.Warnf("record match run: %v", err)
	}
	ev := events.MatchesSuggested{MatchIDs: make([]string, 0, len(res.Matches)), At: e.now()}
	for _, m := range res.Matches {
		ev.MatchIDs = append(ev.MatchIDs, m.ID)
	}
	e.events.Publish(ev)
	return res, nil
}

// BuildSchedules turns approved matches into schedules starting on the day
// of start and appends them to the stored schedules. Matches that already
// have a stored schedule which is not cancelled are left alone.
func (e *Engine) BuildSchedules(ctx context.Context, start time.Time) (scheduler.Result, error) {
	snap, err := e.snapshot(ctx, store.Matches, store.Sites, store.Haulers, store.Schedules)
	if err != nil {
		return scheduler.Result{}, err
	}
	pending := unscheduled(snap.Matches, snap.Schedules)
	if n := len(snap.Matches) - len(pending); n > 0 {
		e.log.Debugf("scheduling: %d matches already scheduled", n)
	}
	t0 := time.Now()
	res := e.builder.Build(scheduler.Input{
		Matches:   pending,
		Sites:     snap.Sites,
		Haulers:   snap.Haulers,
		Existing:  snap.Schedules,
		StartDate: start,
	})
	elapsed := time.Since(t0)

	all := append(snap.Schedules, res.Schedules...)
	if err := store.Save(ctx, e.store, store.Schedules, all); err != nil {
		return scheduler.Result{}, err
	}
	e.log.Infof("scheduling: %d schedules built, %d skipped", len(res.Schedules), len(res.Skipped))
	if rec, ok := e.sink.(coremetrics.ScheduleRecorder); ok {
		if err := rec.RecordScheduleBuild(coremetrics.ScheduleBuildEvent{
			Schedules: res.Schedules,
			Skipped:   len(res.Skipped),
			Duration:  elapsed,
			Time:      e.now(),
		}); err != nil {
			e.log.Warnf("record schedule build: %v", err)
		}
	}
	e.publishBuild(res)
	return res, nil
}

func (e *Engine) publishBuild(res scheduler.Result) {
	built := events.SchedulesBuilt{ScheduleIDs: make([]string, 0, len(res.Schedules)), Skipped: len(res.Skipped), At: e.now()}
	for _, s := range res.Schedules {
		built.ScheduleIDs = append(built.ScheduleIDs, s.ID)
		if high := events.HighSeverity(s); len(high) > 0 {
			e.events.Publish(events.ScheduleAlerted{ScheduleID: s.ID, MatchID: s.MatchID, Date: s.Date, Alerts: high})
		}
	}
	e.events.Publish(built)
}

// Simulate applies what-if overrides to a stored schedule. Nothing is
// persisted.
func (e *Engine) Simulate(ctx context.Context, scheduleID string, o scheduler.Overrides) (scheduler.Scenario, error) {
	snap, err := e.snapshot(ctx, store.Schedules, store.Haulers, store.Sites, store.Matches)
	if err != nil {
		return scheduler.Scenario{}, err
	}
	base, ok := findSchedule(snap.Schedules, scheduleID)
	if !ok {
		return scheduler.Scenario{}, fmt.Errorf("schedule %s: %w", scheduleID, model.ErrNotFound)
	}
	sc, err := e.simulator.Simulate(base, o, scheduler.Catalog{
		Haulers: snap.Haulers,
		Sites:   snap.Sites,
		Matches: snap.Matches,
	})
	if err != nil {
		return scheduler.Scenario{}, err
	}
	if rec, ok := e.sink.(coremetrics.SimulationRecorder); ok {
		if err := rec.RecordSimulation(coremetrics.SimulationEvent{
			ScheduleID: scheduleID,
			CostDelta:  sc.Comparison.CostDelta,
			Overrides:  sc.Comparison.Applied,
			Time:       e.now(),
		}); err != nil {
			e.log.Warnf("record simulation: %v", err)
		}
	}
	return sc, nil
}

// CheckConflicts re-runs the schedule alert checks for s against the stored
// haulers and schedules.
func (e *Engine) CheckConflicts(ctx context.Context, s model.Schedule) ([]model.Alert, error) {
	snap, err := e.snapshot(ctx, store.Haulers, store.Schedules)
	if err != nil {
		return nil, err
	}
	return scheduler.DetectAlerts(s, snap.Haulers, snap.Schedules, e.alerts, e.now()), nil
}

// RecommendDrivers ranks drivers for a pickup at siteID. A non-positive
// limit uses the configured default.
func (e *Engine) RecommendDrivers(ctx context.Context, siteID string, volume float64, limit int) ([]dispatch.Recommendation, error) {
	req, drivers, err := e.dispatchRequest(ctx, siteID, volume)
	if err != nil {
		return nil, err
	}
	recs, err := e.drivers.Rank(drivers, req, limit)
	if err != nil {
		return nil, err
	}
	ev := coremetrics.DispatchRecommendationEvent{
		SiteID:     siteID,
		Candidates: len(drivers),
		Feasible:   len(recs),
		Time:       e.now(),
	}
	if len(recs) > 0 {
		ev.BestDriverID, ev.BestScore = recs[0].Driver.ID, recs[0].Score
	}
	e.recordDispatch(ev)
	return recs, nil
}

// BestDriver returns the single best driver for a pickup at siteID.
func (e *Engine) BestDriver(ctx context.Context, siteID string, volume float64) (dispatch.Recommendation, bool, error) {
	req, drivers, err := e.dispatchRequest(ctx, siteID, volume)
	if err != nil {
		return dispatch.Recommendation{}, false, err
	}
	best, ok, err := e.drivers.Best(drivers, req)
	if err != nil {
		return dispatch.Recommendation{}, false, err
	}
	ev := coremetrics.DispatchRecommendationEvent{SiteID: siteID, Candidates: len(drivers), Time: e.now()}
	if ok {
		ev.Feasible = 1
		ev.BestDriverID, ev.BestScore = best.Driver.ID, best.Score
	}
	e.recordDispatch(ev)
	return best, ok, nil
}

func (e *Engine) dispatchRequest(ctx context.Context, siteID string, volume float64) (dispatch.Request, []model.Driver, error) {
	snap, err := e.snapshot(ctx, store.Sites, store.Drivers, store.Tickets)
	if err != nil {
		return dispatch.Request{}, nil, err
	}
	site, ok := model.IndexSites(snap.Sites)[siteID]
	if !ok {
		return dispatch.Request{}, nil, fmt.Errorf("site %s: %w", siteID, model.ErrNotFound)
	}
	return dispatch.Request{Site: site, RequiredVolume: volume, Tickets: snap.Tickets}, snap.Drivers, nil
}

func (e *Engine) recordDispatch(ev coremetrics.DispatchRecommendationEvent) {
	if rec, ok := e.sink.(coremetrics.DispatchRecorder); ok {
		if err := rec.RecordDispatchRecommendation(ev); err != nil {
			e.log.Warnf("record dispatch recommendation: %v", err)
		}
	}
}

// DriverPerformance aggregates the stored tickets of driverID.
func (e *Engine) DriverPerformance(ctx context.Context, driverID string) (performance.DriverPerformance, error) {
	snap, err := e.snapshot(ctx, store.Drivers, store.Tickets, store.Sites)
	if err != nil {
		return performance.DriverPerformance{}, err
	}
	for _, d := range snap.Drivers {
		if d.ID == driverID {
			return e.perf.Aggregate(d, snap.Tickets, snap.Sites), nil
		}
	}
	return performance.DriverPerformance{}, fmt.Errorf("driver %s: %w", driverID, model.ErrNotFound)
}

// PerformanceTrends reports daily deliveries for driverID, or for the
// whole fleet when driverID is empty.
func (e *Engine) PerformanceTrends(ctx context.Context, driverID string, days int) ([]performance.DailyTrend, error) {
	tickets, err := store.Load[model.DispatchTicket](ctx, e.store, store.Tickets)
	if err != nil {
		return nil, err
	}
	return e.perf.Trends(driverID, tickets, days)
}

// ScorePermit scores one stored permit.
func (e *Engine) ScorePermit(ctx context.Context, permitID string) (permit.Score, error) {
	permits, err := store.Load[model.Permit](ctx, e.store, store.Permits)
	if err != nil {
		return permit.Score{}, err
	}
	for _, p := range permits {
		if p.ID == permitID {
			s := e.permits.Score(p)
			e.recordPermit(s)
			return s, nil
		}
	}
	return permit.Score{}, fmt.Errorf("permit %s: %w", permitID, model.ErrNotFound)
}

// ScorePermits scores every stored permit, highest first.
func (e *Engine) ScorePermits(ctx context.Context) ([]permit.Score, error) {
	permits, err := store.Load[model.Permit](ctx, e.store, store.Permits)
	if err != nil {
		return nil, err
	}
	out := e.permits.ScoreAll(permits)
	for _, s := range out {
		e.recordPermit(s)
	}
	return out, nil
}

func (e *Engine) recordPermit(s permit.Score) {
	if rec, ok := e.sink.(coremetrics.PermitRecorder); ok {
		if err := rec.RecordPermitScore(coremetrics.PermitScoreEvent{
			PermitID:   s.PermitID,
			Score:      s.Score,
			Confidence: s.Confidence,
			Time:       e.now(),
		}); err != nil {
			e.log.Warnf("record permit score: %v", err)
		}
	}
}

// Matches returns the stored matches.
func (e *Engine) Matches(ctx context.Context) ([]model.Match, error) {
	return store.Load[model.Match](ctx, e.store, store.Matches)
}

// Schedules returns the stored schedules.
func (e *Engine) Schedules(ctx context.Context) ([]model.Schedule, error) {
	return store.Load[model.Schedule](ctx, e.store, store.Schedules)
}

// snapshot loads only the named collections.
func (e *Engine) snapshot(ctx context.Context, cols ...store.Collection) (store.Snapshot, error) {
	var (
		snap store.Snapshot
		err  error
	)
	for _, c := range cols {
		switch c {
		case store.Sites:
			snap.Sites, err = store.Load[model.Site](ctx, e.store, c)
		case store.Matches:
			snap.Matches, err = store.Load[model.Match](ctx, e.store, c)
		case store.Schedules:
			snap.Schedules, err = store.Load[model.Schedule](ctx, e.store, c)
		case store.Haulers:
			snap.Haulers, err = store.Load[model.Hauler](ctx, e.store, c)
		case store.Drivers:
			snap.Drivers, err = store.Load[model.Driver](ctx, e.store, c)
		case store.Tickets:
			snap.Tickets, err = store.Load[model.DispatchTicket](ctx, e.store, c)
		case store.Permits:
			snap.Permits, err = store.Load[model.Permit](ctx, e.store, c)
		}
		if err != nil {
			return snap, err
		}
	}
	return snap, nil
}

// unscheduled drops the matches referenced by a live stored schedule.
func unscheduled(matches []model.Match, schedules []model.Schedule) []model.Match {
	taken := make(map[string]bool, len(schedules))
	for _, s := range schedules {
		if s.Status != model.ScheduleCancelled {
			taken[s.MatchID] = true
		}
	}
	out := make([]model.Match, 0, len(matches))
	for _, m := range matches {
		if !taken[m.ID] {
			out = append(out, m)
		}
	}
	return out
}

func findSchedule(list []model.Schedule, id string) (model.Schedule, bool) {
	for _, s := range list {
		if s.ID == id {
			return s, true
		}
	}
	return model.Schedule{}, false
}
