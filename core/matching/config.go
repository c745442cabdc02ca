package matching

import (
	"fmt"
	"sort"
)

// DistanceBand subtracts Penalty from the score when the pair is farther
// apart than AboveMiles. Only the first (largest) matching band applies.
type DistanceBand struct {
	AboveMiles float64 `json:"above_miles"`
	Penalty    float64 `json:"penalty"`
}

// ProximityReason labels pairs closer than MaxMiles.
type ProximityReason struct {
	MaxMiles float64 `json:"max_miles"`
	Text     string  `json:"text"`
}

// Config holds the matcher's heuristic tables.
type Config struct {
	DistanceBands []DistanceBand `json:"distance_bands"`
	// The penalties and MinScore are pointers so that an explicit 0 is kept;
	// nil takes the default.
	SoilMismatchPenalty   *float64          `json:"soil_mismatch_penalty"`
	VolumeRatioPenalty    *float64          `json:"volume_ratio_penalty"`
	ContaminationPenalty  *float64          `json:"contamination_penalty"`
	WindowPenalty         *float64          `json:"window_penalty"`
	MinScore              *float64          `json:"min_score"`
	CostPerYardMile       float64           `json:"cost_per_yard_mile"`
	CarbonPerYardMile     float64           `json:"carbon_per_yard_mile"`
	CompatibleVolumeRatio float64           `json:"compatible_volume_ratio"`
	ExcellentScore        float64           `json:"excellent_score"`
	ProximityReasons      []ProximityReason `json:"proximity_reasons"`
	// MaxDistanceMiles enables the grid pre-filter; pairs farther apart are
	// never scored. Zero disables it.
	MaxDistanceMiles float64 `json:"max_distance_miles"`
}

// DefaultConfig returns the standard matching tables.
func DefaultConfig() Config {
	c := Config{}
	c.SetDefaults()
	return c
}

// SetDefaults fills zero fields with the standard values.
func (c *Config) SetDefaults() {
	if len(c.DistanceBands) == 0 {
		c.DistanceBands = []DistanceBand{
			{AboveMiles: 50, Penalty: 30},
			{AboveMiles: 25, Penalty: 15},
			{AboveMiles: 10, Penalty: 5},
		}
	}
	orDefault(&c.SoilMismatchPenalty, 20)
	orDefault(&c.VolumeRatioPenalty, 15)
	orDefault(&c.ContaminationPenalty, 25)
	orDefault(&c.WindowPenalty, 30)
	orDefault(&c.MinScore, 40)
	if c.CostPerYardMile == 0 {
		c.CostPerYardMile = 8
	}
	if c.CarbonPerYardMile == 0 {
		c.CarbonPerYardMile = 0.4
	}
	if c.CompatibleVolumeRatio == 0 {
		c.CompatibleVolumeRatio = 0.8
	}
	if c.ExcellentScore == 0 {
		c.ExcellentScore = 80
	}
	if len(c.ProximityReasons) == 0 {
		c.ProximityReasons = []ProximityReason{
			{MaxMiles: 10, Text: "Very close proximity (under 10 miles)"},
			{MaxMiles: 25, Text: "Close proximity (under 25 miles)"},
			{MaxMiles: 50, Text: "Reasonable distance (under 50 miles)"},
		}
	}
	sort.SliceStable(c.DistanceBands, func(i, j int) bool {
		return c.DistanceBands[i].AboveMiles > c.DistanceBands[j].AboveMiles
	})
	sort.SliceStable(c.ProximityReasons, func(i, j int) bool {
		return c.ProximityReasons[i].MaxMiles < c.ProximityReasons[j].MaxMiles
	})
}

// Validate checks the tables for impossible values.
func (c Config) Validate() error {
	if c.MinScore != nil && (*c.MinScore < 0 || *c.MinScore > 100) {
		return fmt.Errorf("matching: min_score must be within [0,100], got %v", *c.MinScore)
	}
	for _, p := range []*float64{c.SoilMismatchPenalty, c.VolumeRatioPenalty, c.ContaminationPenalty, c.WindowPenalty} {
		if p != nil && *p < 0 {
			return fmt.Errorf("matching: penalties must not be negative")
		}
	}
	if c.MaxDistanceMiles < 0 {
		return fmt.Errorf("matching: max_distance_miles must not be negative")
	}
	for _, b := range c.DistanceBands {
		if b.AboveMiles < 0 || b.Penalty < 0 {
			return fmt.Errorf("matching: invalid distance band %+v", b)
		}
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
