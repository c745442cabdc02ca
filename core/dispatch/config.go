package dispatch

import (
	"fmt"
	"math"

	"github.com/kilianp07/soilmatch/core/model"
)

// Weights combine the five sub-scores into the composite score.
type Weights struct {
	Proximity    float64 `json:"proximity"`
	Availability float64 `json:"availability"`
	Capacity     float64 `json:"capacity"`
	Performance  float64 `json:"performance"`
	Workload     float64 `json:"workload"`
}

// CapacityBands shape the truck utilization sub-score.
type CapacityBands struct {
	// Utilization within [TargetMin, TargetMax] percent scores 100.
	TargetMin float64 `json:"target_min"`
	TargetMax float64 `json:"target_max"`
	// Below TargetMin the score rises linearly from UnderBase by up to UnderSpan.
	UnderBase float64 `json:"under_base"`
	UnderSpan float64 `json:"under_span"`
	// Above TargetMax the score drops by OverSlope per percent until 100%.
	OverBase  float64 `json:"over_base"`
	OverSlope float64 `json:"over_slope"`
}

// Config defines dispatch scoring tables.
type Config struct {
	Weights            Weights            `json:"weights"`
	Capacity           CapacityBands      `json:"capacity"`
	AvailabilityScores map[string]float64 `json:"availability_scores"`
	// ProximityPerMile is deducted from 100 per mile to the pickup. Nil
	// takes the default; an explicit 0 is kept.
	ProximityPerMile     *float64 `json:"proximity_per_mile"`
	UnknownLocationScore *float64 `json:"unknown_location_score"`
	// WorkloadScores is indexed by active ticket count; the last entry
	// applies to every larger count.
	WorkloadScores []float64 `json:"workload_scores"`
	DefaultLimit   int       `json:"default_limit"`
}

// DefaultConfig returns the standard dispatch tables.
func DefaultConfig() Config {
	c := Config{}
	c.SetDefaults()
	return c
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Weights == (Weights{}) {
		c.Weights = Weights{Proximity: 0.25, Availability: 0.30, Capacity: 0.20, Performance: 0.15, Workload: 0.10}
	}
	if c.Capacity == (CapacityBands{}) {
		c.Capacity = CapacityBands{TargetMin: 70, TargetMax: 90, UnderBase: 60, UnderSpan: 40, OverBase: 90, OverSlope: 2}
	}
	if len(c.AvailabilityScores) == 0 {
		c.AvailabilityScores = map[string]float64{
			string(model.DriverAvailable): 100,
			string(model.DriverOnJob):     20,
			string(model.DriverOffDuty):   0,
		}
	}
	orDefault(&c.ProximityPerMile, 2)
	orDefault(&c.UnknownLocationScore, 50)
	if len(c.WorkloadScores) == 0 {
		c.WorkloadScores = []float64{100, 70, 40, 10}
	}
	if c.DefaultLimit == 0 {
		c.DefaultLimit = 5
	}
}

// Validate checks that the weights form a convex combination.
func (c Config) Validate() error {
	w := c.Weights
	sum := w.Proximity + w.Availability + w.Capacity + w.Performance + w.Workload
	if math.Abs(sum-1) > 1e-6 {
		return fmt.Errorf("dispatch: weights must sum to 1, got %.3f", sum)
	}
	if c.Capacity.TargetMin <= 0 || c.Capacity.TargetMax < c.Capacity.TargetMin || c.Capacity.TargetMax > 100 {
		return fmt.Errorf("dispatch: invalid capacity bands %+v", c.Capacity)
	}
	if c.ProximityPerMile != nil && *c.ProximityPerMile < 0 {
		return fmt.Errorf("dispatch: proximity_per_mile must not be negative")
	}
	if c.DefaultLimit < 0 {
		return fmt.Errorf("dispatch: default_limit must not be negative")
	}
	return nil
}

// Float returns a pointer to v for the optional table fields.
func Float(v float64) *float64 { return &v }

func orDefault(p **float64, v float64) {
	if *p == nil {
		*p = &v
	}
}
