// Package dispatch ranks candidate drivers for an individual pickup job.
package dispatch

import (
	"fmt"
	"sort"

	"github.com/kilianp07/soilmatch/core/geo"
	"github.com/kilianp07/soilmatch/core/logger"
	"github.com/kilianp07/soilmatch/core/model"
)

// SubScores are the five 0-100 components of a driver's composite score.
type SubScores struct {
	Proximity    float64 `json:"proximity"`
	Availability float64 `json:"availability"`
	Capacity     float64 `json:"capacity"`
	Performance  float64 `json:"performance"`
	Workload     float64 `json:"workload"`
}

// Recommendation is a scored candidate for a pickup job.
type Recommendation struct {
	Driver        model.Driver `json:"driver"`
	Score         float64      `json:"score"`
	SubScores     SubScores    `json:"sub_scores"`
	DistanceMiles *float64     `json:"distance_miles,omitempty"`
	Utilization   float64      `json:"utilization"`
	ActiveTickets int          `json:"active_tickets"`
	Reasons       []string     `json:"reasons"`
}

// Feasible reports whether the driver's truck can carry the load.
func (r Recommendation) Feasible() bool { return r.SubScores.Capacity > 0 }

// Request describes one pickup job.
type Request struct {
	Site           model.Site
	RequiredVolume float64
	// Tickets are used as the workload signal; only active ones count.
	Tickets []model.DispatchTicket
}

// DriverScorer ranks drivers for a pickup using a weighted multi-factor
// score. Drivers whose truck cannot carry the load are never ranked.
type DriverScorer struct {
	cfg Config
	log logger.Logger
}

// NewDriverScorer returns a scorer using cfg with defaults applied.
func NewDriverScorer(cfg Config, log logger.Logger) (*DriverScorer, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &DriverScorer{cfg: cfg, log: logger.OrNop(log)}, nil
}

// Score computes the recommendation for a single driver.
func (s *DriverScorer) Score(d model.Driver, req Request) Recommendation {
	return s.score(d, req, activeTickets(req.Tickets))
}

func (s *DriverScorer) score(d model.Driver, req Request, active map[string]int) Recommendation {
	rec := Recommendation{Driver: d, ActiveTickets: active[d.ID]}
	sub := &rec.SubScores

	if d.CurrentLocation != nil {
		dist := geo.DistanceMiles(*d.CurrentLocation, req.Site.Location)
		rec.DistanceMiles = &dist
		sub.Proximity = clamp(100-*s.cfg.ProximityPerMile*dist, 0, 100)
	} else {
		sub.Proximity = *s.cfg.UnknownLocationScore
	}
	sub.Availability = s.cfg.AvailabilityScores[string(d.Status)]
	rec.Utilization = utilization(req.RequiredVolume, d.TruckCapacity)
	sub.Capacity = s.capacityScore(rec.Utilization)
	sub.Performance = d.PerformanceScore
	sub.Workload = s.workloadScore(rec.ActiveTickets)

	w := s.cfg.Weights
	rec.Score = geo.Round(sub.Proximity*w.Proximity+
		sub.Availability*w.Availability+
		sub.Capacity*w.Capacity+
		sub.Performance*w.Performance+
		sub.Workload*w.Workload, 2)
	rec.Reasons = s.reasons(rec)
	return rec
}

// capacityScore maps a utilization percentage onto the capacity bands.
func (s *DriverScorer) capacityScore(u float64) float64 {
	b := s.cfg.Capacity
	switch {
	case u > 100:
		return 0
	case u > b.TargetMax:
		return b.OverBase - (u-b.TargetMax)*b.OverSlope
	case u >= b.TargetMin:
		return 100
	default:
		return b.UnderBase + (u/b.TargetMin)*b.UnderSpan
	}
}

func (s *DriverScorer) workloadScore(active int) float64 {
	ws := s.cfg.WorkloadScores
	if active >= len(ws) {
		return ws[len(ws)-1]
	}
	return ws[active]
}

func (s *DriverScorer) reasons(r Recommendation) []string {
	var out []string
	if r.DistanceMiles != nil && r.SubScores.Proximity >= 80 {
		out = append(out, fmt.Sprintf("Close to pickup (%.1f mi)", *r.DistanceMiles))
	}
	if r.Driver.Status == model.DriverAvailable {
		out = append(out, "Available now")
	}
	if r.SubScores.Capacity == 100 {
		out = append(out, fmt.Sprintf("Optimal truck utilization (%.0f%%)", r.Utilization))
	}
	if r.SubScores.Performance >= 85 {
		out = append(out, "Strong performance record")
	}
	if r.ActiveTickets == 0 {
		out = append(out, "No active jobs")
	}
	return out
}

// Rank returns up to limit feasible drivers ordered by descending score.
// Ties keep the input order. A non-positive limit uses the configured default.
func (s *DriverScorer) Rank(drivers []model.Driver, req Request, limit int) ([]Recommendation, error) {
	if req.RequiredVolume <= 0 {
		return nil, fmt.Errorf("rank drivers: %w", model.ErrInvalidVolume)
	}
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}
	active := activeTickets(req.Tickets)
	list := make([]Recommendation, 0, len(drivers))
	for _, d := range drivers {
		rec := s.score(d, req, active)
		if !rec.Feasible() {
			excludedDrivers.Inc()
			s.log.Debugf("driver %s excluded: utilization %.0f%%", d.ID, rec.Utilization)
			continue
		}
		driverScores.Observe(rec.Score)
		list = append(list, rec)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Score > list[j].Score })
	if len(list) > limit {
		list = list[:limit]
	}
	rankings.Inc()
	return list, nil
}

// Best returns the highest scoring feasible driver. ok is false when no
// driver can carry the load.
func (s *DriverScorer) Best(drivers []model.Driver, req Request) (Recommendation, bool, error) {
	list, err := s.Rank(drivers, req, 1)
	if err != nil || len(list) == 0 {
		return Recommendation{}, false, err
	}
	return list[0], true, nil
}
