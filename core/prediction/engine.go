package prediction

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// DelayPredictor forecasts delays for a planned haul.
type DelayPredictor interface {
	// WeatherRisk returns the percent risk [0,100] of a weather delay on date.
	WeatherRisk(date time.Time) float64

	// TrafficDelay returns the expected traffic delay in minutes for a trip of
	// durationMinutes starting at startHour.
	TrafficDelay(startHour int, durationMinutes float64) float64
}

// RiskBand is an inclusive range of weather risk drawn uniformly.
type RiskBand struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Config tunes the heuristic predictor.
type Config struct {
	Winter RiskBand `json:"winter" yaml:"winter"` // December to February
	Spring RiskBand `json:"spring" yaml:"spring"` // March to May
	Other  RiskBand `json:"other" yaml:"other"`
	// RushHours lists departure hours subject to the rush factor.
	RushHours    []int   `json:"rush_hours" yaml:"rush_hours"`
	RushFactor   float64 `json:"rush_factor" yaml:"rush_factor"`
	NormalFactor float64 `json:"normal_factor" yaml:"normal_factor"`
	Seed         int64   `json:"seed" yaml:"seed"`
}

// SetDefaults applies the standard seasonal bands and rush hours.
func (c *Config) SetDefaults() {
	if c.Winter == (RiskBand{}) {
		c.Winter = RiskBand{Min: 10, Max: 40}
	}
	if c.Spring == (RiskBand{}) {
		c.Spring = RiskBand{Min: 5, Max: 20}
	}
	if c.Other == (RiskBand{}) {
		c.Other = RiskBand{Min: 0, Max: 10}
	}
	if len(c.RushHours) == 0 {
		c.RushHours = []int{7, 8, 9, 16, 17, 18}
	}
	if c.RushFactor == 0 {
		c.RushFactor = 0.3
	}
	if c.NormalFactor == 0 {
		c.NormalFactor = 0.1
	}
}

// HeuristicPredictor draws weather risk from seasonal bands using a seedable
// pseudo-random source and derives traffic delay from the departure hour.
type HeuristicPredictor struct {
	cfg  Config
	rush map[int]bool
	mu   sync.Mutex
	rng  *rand.Rand
}

// NewHeuristicPredictor returns a predictor seeded with cfg.Seed. A zero seed
// uses the current time.
func NewHeuristicPredictor(cfg Config) *HeuristicPredictor {
	cfg.SetDefaults()
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rush := make(map[int]bool, len(cfg.RushHours))
	for _, h := range cfg.RushHours {
		rush[h] = true
	}
	return &HeuristicPredictor{cfg: cfg, rush: rush, rng: rand.New(rand.NewSource(seed))}
}

// Band returns the seasonal risk band for the month of date.
func (p *HeuristicPredictor) Band(date time.Time) RiskBand {
	switch date.Month() {
	case time.December, time.January, time.February:
		return p.cfg.Winter
	case time.March, time.April, time.May:
		return p.cfg.Spring
	default:
		return p.cfg.Other
	}
}

// WeatherRisk implements DelayPredictor.
func (p *HeuristicPredictor) WeatherRisk(date time.Time) float64 {
	b := p.Band(date)
	if b.Max <= b.Min {
		return float64(b.Min)
	}
	p.mu.Lock()
	v := b.Min + p.rng.Intn(b.Max-b.Min+1)
	p.mu.Unlock()
	return float64(v)
}

// IsRushHour reports whether hour is configured as a rush hour.
func (p *HeuristicPredictor) IsRushHour(hour int) bool { return p.rush[hour] }

// TrafficDelay implements DelayPredictor.
func (p *HeuristicPredictor) TrafficDelay(startHour int, durationMinutes float64) float64 {
	factor := p.cfg.NormalFactor
	if p.rush[startHour] {
		factor = p.cfg.RushFactor
	}
	return math.Round(durationMinutes * factor)
}
