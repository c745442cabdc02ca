package scheduler

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/soilmatch/core/prediction"
)

// Config defines scheduling parameters loaded from configuration.
type Config struct {
	// Policy selects the hauler policy: "reliability" (default) or "cost".
	Policy string `json:"policy" yaml:"policy"`
	// SchedulesPerDay staggers consecutive matches over days.
	SchedulesPerDay int `json:"schedules_per_day" yaml:"schedules_per_day"`
	// SlotHours are the start hours cycled through by match index.
	SlotHours []int `json:"slot_hours" yaml:"slot_hours"`
	// FastestRouteMinScore selects the fastest route for matches scoring above it.
	FastestRouteMinScore int               `json:"fastest_route_min_score" yaml:"fastest_route_min_score"`
	Alerts               AlertThresholds   `json:"alerts" yaml:"alerts"`
	Prediction           prediction.Config `json:"prediction" yaml:"prediction"`
}

// AlertThresholds control when weather and traffic alerts fire.
type AlertThresholds struct {
	WeatherRisk     float64 `json:"weather_risk" yaml:"weather_risk"`
	WeatherHighRisk float64 `json:"weather_high_risk" yaml:"weather_high_risk"`
	TrafficMinutes  float64 `json:"traffic_minutes" yaml:"traffic_minutes"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Policy == "" {
		c.Policy = PolicyReliability
	}
	if c.SchedulesPerDay == 0 {
		c.SchedulesPerDay = 2
	}
	if len(c.SlotHours) == 0 {
		c.SlotHours = []int{7, 13}
	}
	if c.FastestRouteMinScore == 0 {
		c.FastestRouteMinScore = 80
	}
	c.Alerts.SetDefaults()
	c.Prediction.SetDefaults()
}

// SetDefaults applies the standard alert thresholds.
func (a *AlertThresholds) SetDefaults() {
	if a.WeatherRisk == 0 {
		a.WeatherRisk = 25
	}
	if a.WeatherHighRisk == 0 {
		a.WeatherHighRisk = 40
	}
	if a.TrafficMinutes == 0 {
		a.TrafficMinutes = 30
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if _, err := PolicyByName(c.Policy); err != nil {
		return err
	}
	if c.SchedulesPerDay <= 0 {
		return fmt.Errorf("scheduling: schedules_per_day must be positive")
	}
	for _, h := range c.SlotHours {
		if h < 0 || h > 23 {
			return fmt.Errorf("scheduling: slot hour %d out of range", h)
		}
	}
	return nil
}

// LoadConfig loads a scheduling Config from a JSON or YAML file.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer func() { _ = f.Close() }()
	return DecodeConfig(f, strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
}

// DecodeConfig reads from r to decode a Config and applies defaults.
func DecodeConfig(r io.Reader, format string) (Config, error) {
	var cfg Config
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
			return cfg, err
		}
	case "json":
		if err := json.NewDecoder(r).Decode(&cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported format: %s", format)
	}
	cfg.SetDefaults()
	return cfg, cfg.Validate()
}
