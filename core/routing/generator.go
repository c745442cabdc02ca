// Package routing derives route variants between two sites from a base
// great-circle distance using fixed multiplicative heuristics.
package routing

import (
	"fmt"
	"time"

	"github.com/kilianp07/soilmatch/core/geo"
	"github.com/kilianp07/soilmatch/core/model"
)

// Generator produces route variants. It holds no mutable state.
type Generator struct {
	cfg Config
	now func() time.Time
}

// NewGenerator returns a Generator. now stamps route ids; nil uses time.Now.
func NewGenerator(cfg Config, now func() time.Time) *Generator {
	cfg.SetDefaults()
	if now == nil {
		now = time.Now
	}
	return &Generator{cfg: cfg, now: now}
}

// Generate returns one route per configured variant, in table order.
func (g *Generator) Generate(from, to model.Site, distance float64) []model.Route {
	baseDuration := distance / g.cfg.AverageSpeedMPH * 60
	baseCO2 := distance * g.cfg.BaseCO2KgPerMile
	stamp := g.now().UnixMilli()

	routes := make([]model.Route, 0, len(g.cfg.Variants))
	for _, v := range g.cfg.Variants {
		routes = append(routes, model.Route{
			ID:              fmt.Sprintf("route-%s-%s-%s-%d", v.Type, from.ID, to.ID, stamp),
			Type:            v.Type,
			Distance:        geo.Round(distance*v.DistanceFactor, 1),
			Duration:        geo.Round(baseDuration*v.DurationFactor, 0),
			Cost:            geo.Round(distance*v.CostPerMile, 2),
			CarbonEmissions: geo.Round(baseCO2*v.EmissionFactor, 1),
			Waypoints:       []model.Coordinates{from.Location, to.Location},
		})
	}
	return routes
}

// Pick returns the route of type t.
func Pick(routes []model.Route, t model.RouteType) (model.Route, bool) {
	for _, r := range routes {
		if r.Type == t {
			return r, true
		}
	}
	return model.Route{}, false
}
