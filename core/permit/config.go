package permit

import (
	"errors"
	"fmt"
	"strings"
)

// Config holds the earthwork heuristic tables. Zero values take defaults,
// except for the pointer adjustments where only nil does.
type Config struct {
	BaseScore      float64  `json:"base_score"`
	FlagAdjustment *float64 `json:"flag_adjustment"`

	// BaseRates maps a project type to its historical earthwork rate.
	// Keys are matched case-insensitively.
	BaseRates    map[string]float64 `json:"base_rates"`
	TypeBaseline float64            `json:"type_baseline"`
	TypeFactor   float64            `json:"type_factor"`

	Keywords      []string `json:"keywords"`
	KeywordPoints *float64 `json:"keyword_points"`
	KeywordCap    float64  `json:"keyword_cap"`

	MultiPhasePhrases      []string `json:"multi_phase_phrases"`
	MultiPhaseBonus        *float64 `json:"multi_phase_bonus"`
	NewConstructionPhrases []string `json:"new_construction_phrases"`
	NewConstructionBonus   *float64 `json:"new_construction_bonus"`

	HighConfidenceFactors int `json:"high_confidence_factors"`
	LowConfidenceFactors  int `json:"low_confidence_factors"`
}

func defaultBaseRates() map[string]float64 {
	return map[string]float64{
		"infrastructure": 85,
		"industrial":     80,
		"commercial":     75,
		"multi-family":   70,
		"mixed use":      70,
		"institutional":  65,
		"healthcare":     65,
		"educational":    60,
		"retail":         60,
		"residential":    55,
		"office":         50,
	}
}

// DefaultConfig returns the stock tables.
func DefaultConfig() Config {
	var c Config
	c.SetDefaults()
	return c
}

// SetDefaults fills every unset table and constant.
func (c *Config) SetDefaults() {
	if c.BaseScore == 0 {
		c.BaseScore = 50
	}
	orDefault(&c.FlagAdjustment, 30)
	if len(c.BaseRates) == 0 {
		c.BaseRates = defaultBaseRates()
	} else {
		norm := make(map[string]float64, len(c.BaseRates))
		for k, v := range c.BaseRates {
			norm[strings.ToLower(strings.TrimSpace(k))] = v
		}
		c.BaseRates = norm
	}
	if c.TypeBaseline == 0 {
		c.TypeBaseline = 50
	}
	if c.TypeFactor == 0 {
		c.TypeFactor = 0.3
	}
	if len(c.Keywords) == 0 {
		c.Keywords = []string{
			"excavation", "grading", "mass grading", "earthwork", "fill",
			"cut and fill", "site preparation", "foundation", "basement",
			"underground parking", "retaining wall", "trenching", "soil", "demolition",
		}
	}
	orDefault(&c.KeywordPoints, 8)
	if c.KeywordCap == 0 {
		c.KeywordCap = 25
	}
	if len(c.MultiPhasePhrases) == 0 {
		c.MultiPhasePhrases = []string{"multi-phase", "multiphase", "multiple phases", "phase 1", "phase one", "phased"}
	}
	orDefault(&c.MultiPhaseBonus, 10)
	if len(c.NewConstructionPhrases) == 0 {
		c.NewConstructionPhrases = []string{"new construction", "ground-up", "ground up", "new build"}
	}
	orDefault(&c.NewConstructionBonus, 15)
	if c.HighConfidenceFactors == 0 {
		c.HighConfidenceFactors = 3
	}
	if c.LowConfidenceFactors == 0 {
		c.LowConfidenceFactors = 1
	}
}

// Validate checks the tables for obvious mistakes.
func (c Config) Validate() error {
	if c.BaseScore < 0 || c.BaseScore > 100 {
		return fmt.Errorf("permit: base_score must be within [0,100], got %v", c.BaseScore)
	}
	if (c.KeywordPoints != nil && *c.KeywordPoints < 0) || c.KeywordCap < 0 {
		return errors.New("permit: keyword points and cap must not be negative")
	}
	if c.LowConfidenceFactors >= c.HighConfidenceFactors {
		return errors.New("permit: low_confidence_factors must be below high_confidence_factors")
	}
	for _, k := range c.Keywords {
		if strings.TrimSpace(k) == "" {
			return errors.New("permit: empty keyword")
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
