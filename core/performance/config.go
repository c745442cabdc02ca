package performance

import (
	"fmt"
	"math"
)

// Config holds the composite performance formula.
type Config struct {
	OnTimeWeight float64 `json:"on_time_weight"`
	RatingWeight float64 `json:"rating_weight"`
	IssueWeight  float64 `json:"issue_weight"`
	StoredWeight float64 `json:"stored_weight"`
	// RatingScale maps the 1-5 customer rating onto 0-100.
	RatingScale float64 `json:"rating_scale"`
	// IssuePenalty is deducted per reported issue. Nil takes the default;
	// an explicit 0 is kept.
	IssuePenalty *float64 `json:"issue_penalty"`
	TrendDays    int      `json:"trend_days"`
	// MaxTrendDays bounds the window a caller may ask for.
	MaxTrendDays int `json:"max_trend_days"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.OnTimeWeight == 0 && c.RatingWeight == 0 && c.IssueWeight == 0 && c.StoredWeight == 0 {
		c.OnTimeWeight, c.RatingWeight, c.IssueWeight, c.StoredWeight = 0.4, 0.3, 0.2, 0.1
	}
	if c.RatingScale == 0 {
		c.RatingScale = 20
	}
	if c.IssuePenalty == nil {
		v := 5.0
		c.IssuePenalty = &v
	}
	if c.TrendDays == 0 {
		c.TrendDays = 30
	}
	if c.MaxTrendDays == 0 {
		c.MaxTrendDays = 366
	}
}

// Validate checks the weights.
func (c Config) Validate() error {
	sum := c.OnTimeWeight + c.RatingWeight + c.IssueWeight + c.StoredWeight
	if math.Abs(sum-1) > 1e-6 {
		return fmt.Errorf("performance: weights must sum to 1, got %.3f", sum)
	}
	if c.TrendDays < 0 {
		return fmt.Errorf("performance: trend_days must not be negative")
	}
	if c.TrendDays > c.MaxTrendDays {
		return fmt.Errorf("performance: trend_days %d exceeds max_trend_days %d", c.TrendDays, c.MaxTrendDays)
	}
	return nil
}
