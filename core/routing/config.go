package routing

import (
	"fmt"

	"github.com/kilianp07/soilmatch/core/model"
)

// Variant derives one route type from the base distance.
type Variant struct {
	Type           model.RouteType `json:"type"`
	DistanceFactor float64         `json:"distance_factor"`
	DurationFactor float64         `json:"duration_factor"`
	// CostPerMile is applied to the base distance, not the adjusted one.
	CostPerMile    float64 `json:"cost_per_mile"`
	EmissionFactor float64 `json:"emission_factor"`
}

// Config holds the route generator's constants.
type Config struct {
	AverageSpeedMPH  float64   `json:"average_speed_mph"`
	BaseCO2KgPerMile float64   `json:"base_co2_kg_per_mile"`
	Variants         []Variant `json:"variants"`
}

// DefaultVariants returns the fastest, cheapest and greenest variants.
func DefaultVariants() []Variant {
	return []Variant{
		{Type: model.RouteFastest, DistanceFactor: 0.95, DurationFactor: 0.85, CostPerMile: 3.8, EmissionFactor: 1.10},
		{Type: model.RouteCheapest, DistanceFactor: 1.10, DurationFactor: 1.20, CostPerMile: 2.8, EmissionFactor: 1.00},
		{Type: model.RouteGreenest, DistanceFactor: 1.00, DurationFactor: 1.05, CostPerMile: 3.5, EmissionFactor: 0.70},
	}
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.AverageSpeedMPH == 0 {
		c.AverageSpeedMPH = 45
	}
	if c.BaseCO2KgPerMile == 0 {
		c.BaseCO2KgPerMile = 0.8
	}
	if len(c.Variants) == 0 {
		c.Variants = DefaultVariants()
	}
}

// Validate checks the variant table.
func (c Config) Validate() error {
	if c.AverageSpeedMPH <= 0 {
		return fmt.Errorf("routing: average_speed_mph must be positive")
	}
	seen := map[model.RouteType]bool{}
	for _, v := range c.Variants {
		if seen[v.Type] {
			return fmt.Errorf("routing: duplicate variant %s", v.Type)
		}
		seen[v.Type] = true
		if v.DistanceFactor <= 0 || v.DurationFactor <= 0 {
			return fmt.Errorf("routing: variant %s has non-positive factors", v.Type)
		}
	}
	return nil
}
