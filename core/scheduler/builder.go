package scheduler

import (
	"fmt"
	"math"
	"time"

	"github.com/kilianp07/soilmatch/core/geo"
	"github.com/kilianp07/soilmatch/core/ids"
	"github.com/kilianp07/soilmatch/core/logger"
	"github.com/kilianp07/soilmatch/core/model"
	"github.com/kilianp07/soilmatch/core/prediction"
	"github.com/kilianp07/soilmatch/core/routing"
)

// Input is the snapshot a schedule batch is built from.
type Input struct {
	Matches []model.Match
	Sites   []model.Site
	Haulers []model.Hauler
	// Existing schedules take part in overlap detection only.
	Existing  []model.Schedule
	StartDate time.Time
}

// Result is the output of one build batch.
type Result struct {
	Schedules []model.Schedule `json:"schedules"`
	// Skipped lists approved matches whose sites could not be resolved.
	Skipped []string `json:"skipped"`
}

// Builder creates schedules from approved matches.
type Builder struct {
	cfg       Config
	policy    HaulerPolicy
	routes    *routing.Generator
	predictor prediction.DelayPredictor
	ids       ids.Generator
	now       func() time.Time
	log       logger.Logger
}

// Option customises a Builder.
type Option func(*Builder)

// WithPolicy overrides the policy named in the configuration.
func WithPolicy(p HaulerPolicy) Option { return func(b *Builder) { b.policy = p } }

// WithPredictor injects the delay predictor.
func WithPredictor(p prediction.DelayPredictor) Option { return func(b *Builder) { b.predictor = p } }

// WithIDs injects the id generator.
func WithIDs(g ids.Generator) Option { return func(b *Builder) { b.ids = g } }

// WithClock injects the time source used for alert timestamps.
func WithClock(now func() time.Time) Option { return func(b *Builder) { b.now = now } }

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option { return func(b *Builder) { b.log = logger.OrNop(l) } }

// NewBuilder returns a Builder using routes for route generation.
func NewBuilder(cfg Config, routes *routing.Generator, opts ...Option) (*Builder, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	policy, err := PolicyByName(cfg.Policy)
	if err != nil {
		return nil, err
	}
	b := &Builder{cfg: cfg, policy: policy, routes: routes, log: logger.NopLogger{}, now: time.Now}
	for _, o := range opts {
		o(b)
	}
	if b.routes == nil {
		b.routes = routing.NewGenerator(routing.Config{}, b.now)
	}
	if b.predictor == nil {
		b.predictor = prediction.NewHeuristicPredictor(cfg.Prediction)
	}
	if b.ids == nil {
		b.ids = ids.NewUUIDGenerator()
	}
	return b, nil
}

// Build processes the approved matches strictly in list order so that each
// schedule's overlap check sees the schedules built before it in the batch.
// The input slices are not modified.
func (b *Builder) Build(in Input) Result {
	sites := model.IndexSites(in.Sites)
	anchor := startOfDay(in.StartDate)
	others := make([]model.Schedule, len(in.Existing), len(in.Existing)+len(in.Matches))
	copy(others, in.Existing)

	var res Result
	i := 0
	for _, m := range in.Matches {
		if m.Status != model.MatchApproved {
			continue
		}
		idx := i
		i++
		exp, okE := sites[m.ExportSiteID]
		imp, okI := sites[m.ImportSiteID]
		if !okE || !okI {
			b.log.Warnf("match %s references a missing site, skipped", m.ID)
			res.Skipped = append(res.Skipped, m.ID)
			continue
		}
		s := b.buildOne(idx, m, exp, imp, anchor, in.Haulers, others)
		others = append(others, s)
		res.Schedules = append(res.Schedules, s)
	}
	b.log.Debugw("schedule batch built", map[string]any{
		"schedules": len(res.Schedules),
		"skipped":   len(res.Skipped),
	})
	return res
}

func (b *Builder) buildOne(idx int, m model.Match, exp, imp model.Site, anchor time.Time, haulers []model.Hauler, others []model.Schedule) model.Schedule {
	distance := geo.DistanceMiles(exp.Location, imp.Location)
	routes := b.routes.Generate(exp, imp, distance)
	want := model.RouteCheapest
	if m.Score > b.cfg.FastestRouteMinScore {
		want = model.RouteFastest
	}
	route, ok := routing.Pick(routes, want)
	if !ok && len(routes) > 0 {
		route = routes[0]
	}

	volume := math.Min(exp.Volume, imp.Volume)
	s := model.Schedule{
		ID:              b.ids.New("sched"),
		MatchID:         m.ID,
		Date:            anchor.AddDate(0, 0, idx/b.cfg.SchedulesPerDay),
		Route:           route,
		VolumeScheduled: volume,
		TrucksNeeded:    model.TrucksNeeded(volume),
		Status:          model.ScheduleScheduled,
		AIGenerated:     true,
	}

	if h, ok := b.policy.Select(haulers, s.TrucksNeeded, route); ok {
		s.HaulerID = h.ID
	} else {
		s.Status = model.ScheduleConflict
		b.log.Infof("no hauler can cover %d trucks for match %s", s.TrucksNeeded, m.ID)
	}

	startHour := b.cfg.SlotHours[idx%len(b.cfg.SlotHours)]
	s.StartTime = formatHour(startHour)
	s.EndTime = formatHour(startHour + int(math.Ceil(route.Duration/60)) + 1)

	weather := b.predictor.WeatherRisk(s.Date)
	traffic := b.predictor.TrafficDelay(startHour, route.Duration)
	s.WeatherDelay = &weather
	s.TrafficDelay = &traffic

	s.Alerts = DetectAlerts(s, haulers, others, b.cfg.Alerts, b.now())
	return s
}

func startOfDay(t time.Time) time.Time {
	if t.IsZero() {
		t = time.Now()
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func formatHour(h int) string { return fmt.Sprintf("%02d:00", h) }
