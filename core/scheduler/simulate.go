package scheduler

import (
	"fmt"
	"time"

	"github.com/kilianp07/soilmatch/core/geo"
	"github.com/kilianp07/soilmatch/core/logger"
	"github.com/kilianp07/soilmatch/core/model"
	"github.com/kilianp07/soilmatch/core/prediction"
)

// UnassignedHauler is displayed when a schedule has no resolvable hauler.
const UnassignedHauler = "Unassigned"

// Overrides are the what-if parameters. Nil fields keep the baseline value.
type Overrides struct {
	HaulerID *string    `json:"hauler_id,omitempty"`
	Date     *time.Time `json:"date,omitempty"`
	Volume   *float64   `json:"volume,omitempty"`
	// RouteType is accepted but does not regenerate the route; callers that
	// need another route type must generate it and merge the result.
	RouteType *model.RouteType `json:"route_type,omitempty"`
}

// Catalog holds the reference collections used to describe a scenario.
type Catalog struct {
	Haulers []model.Hauler
	Sites   []model.Site
	Matches []model.Match
}

// Comparison summarises how the simulated schedule differs from the baseline.
type Comparison struct {
	BaselineHauler   string   `json:"baseline_hauler"`
	SimulatedHauler  string   `json:"simulated_hauler"`
	ExportSite       string   `json:"export_site"`
	ImportSite       string   `json:"import_site"`
	CostDelta        float64  `json:"cost_delta"`
	VolumeDelta      float64  `json:"volume_delta"`
	TrucksDelta      int      `json:"trucks_delta"`
	WeatherDelta     float64  `json:"weather_delta"`
	Applied          []string `json:"applied"`
	RouteTypeIgnored bool     `json:"route_type_ignored"`
}

// Scenario pairs a baseline schedule with its simulated counterpart.
type Scenario struct {
	Baseline   model.Schedule `json:"baseline"`
	Simulated  model.Schedule `json:"simulated"`
	Comparison Comparison     `json:"comparison"`
}

// Simulator recomputes schedules under hypothetical parameters.
type Simulator struct {
	predictor prediction.DelayPredictor
	log       logger.Logger
}

// NewSimulator returns a Simulator using predictor for weather on date changes.
func NewSimulator(predictor prediction.DelayPredictor, log logger.Logger) *Simulator {
	if predictor == nil {
		predictor = prediction.NewHeuristicPredictor(prediction.Config{})
	}
	return &Simulator{predictor: predictor, log: logger.OrNop(log)}
}

// Simulate applies o to a copy of base. Alerts are carried over unchanged;
// run DetectAlerts on the result to refresh them.
func (s *Simulator) Simulate(base model.Schedule, o Overrides, cat Catalog) (Scenario, error) {
	if o.Volume != nil && *o.Volume <= 0 {
		return Scenario{}, fmt.Errorf("simulate %s: %w", base.ID, model.ErrInvalidVolume)
	}
	sim := base.Clone()
	var cmp Comparison

	if o.HaulerID != nil {
		sim.HaulerID = *o.HaulerID
		if h, ok := model.FindHauler(cat.Haulers, *o.HaulerID); ok {
			sim.Route.Cost = geo.Round(sim.Route.Distance*h.CostPerMile, 2)
		} else {
			s.log.Warnf("simulate %s: hauler %s not found, cost unchanged", base.ID, *o.HaulerID)
		}
		cmp.Applied = append(cmp.Applied, "hauler")
	}
	if o.Date != nil {
		sim.Date = *o.Date
		w := s.predictor.WeatherRisk(sim.Date)
		sim.WeatherDelay = &w
		cmp.Applied = append(cmp.Applied, "date")
	}
	if o.Volume != nil {
		sim.VolumeScheduled = *o.Volume
		sim.TrucksNeeded = model.TrucksNeeded(*o.Volume)
		cmp.Applied = append(cmp.Applied, "volume")
	}
	if o.RouteType != nil && *o.RouteType != base.Route.Type {
		cmp.RouteTypeIgnored = true
		s.log.Debugf("simulate %s: route type override %s not applied", base.ID, *o.RouteType)
	}

	cmp.BaselineHauler = haulerName(cat.Haulers, base.HaulerID)
	cmp.SimulatedHauler = haulerName(cat.Haulers, sim.HaulerID)
	cmp.ExportSite, cmp.ImportSite = siteNames(cat, base.MatchID)
	cmp.CostDelta = geo.Round(sim.Route.Cost-base.Route.Cost, 2)
	cmp.VolumeDelta = sim.VolumeScheduled - base.VolumeScheduled
	cmp.TrucksDelta = sim.TrucksNeeded - base.TrucksNeeded
	cmp.WeatherDelta = deref(sim.WeatherDelay) - deref(base.WeatherDelay)

	return Scenario{Baseline: base.Clone(), Simulated: sim, Comparison: cmp}, nil
}

func haulerName(haulers []model.Hauler, id string) string {
	if id == "" {
		return UnassignedHauler
	}
	h, ok := model.FindHauler(haulers, id)
	if !ok {
		return UnassignedHauler
	}
	if h.Name == "" {
		return h.ID
	}
	return h.Name
}

func siteNames(cat Catalog, matchID string) (string, string) {
	const unknown = "Unknown"
	for _, m := range cat.Matches {
		if m.ID != matchID {
			continue
		}
		idx := model.IndexSites(cat.Sites)
		return siteLabel(idx, m.ExportSiteID, unknown), siteLabel(idx, m.ImportSiteID, unknown)
	}
	return unknown, unknown
}

func siteLabel(idx model.SiteIndex, id, fallback string) string {
	s, ok := idx[id]
	if !ok {
		return fallback
	}
	if s.Name != "" {
		return s.Name
	}
	return s.ID
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
