// Package config loads the process configuration from a file and SM_
// environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/soilmatch/core/dispatch"
	"github.com/kilianp07/soilmatch/core/matching"
	"github.com/kilianp07/soilmatch/core/metrics"
	"github.com/kilianp07/soilmatch/core/performance"
	"github.com/kilianp07/soilmatch/core/permit"
	"github.com/kilianp07/soilmatch/core/routing"
	"github.com/kilianp07/soilmatch/core/scheduler"
)

// EnvPrefix marks environment overrides. SM_MATCHING__MIN_SCORE sets
// matching.min_score.
const EnvPrefix = "SM_"

type Config struct {
	Logging     LoggingConfig      `json:"logging"`
	Metrics     metrics.Config     `json:"metrics"`
	Store       StoreConfig        `json:"store"`
	Server      ServerConfig       `json:"server"`
	Matching    matching.Config    `json:"matching"`
	Routing     routing.Config     `json:"routing"`
	Scheduling  scheduler.Config   `json:"scheduling"`
	Dispatch    dispatch.Config    `json:"dispatch"`
	Performance performance.Config `json:"performance"`
	Permit      permit.Config      `json:"permit"`
}

// Load reads path (yaml or json) and applies environment overrides. An
// empty path loads defaults and the environment only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults fills every section.
func (c *Config) SetDefaults() {
	c.Logging.SetDefaults()
	c.Metrics.SetDefaults()
	c.Store.SetDefaults()
	c.Server.SetDefaults()
	c.Matching.SetDefaults()
	c.Routing.SetDefaults()
	c.Scheduling.SetDefaults()
	c.Dispatch.SetDefaults()
	c.Performance.SetDefaults()
	c.Permit.SetDefaults()
}

// Validate checks every section, returning the first error.
func (c Config) Validate() error {
	for _, v := range []interface{ Validate() error }{
		c.Logging, c.Metrics, c.Store, c.Matching, c.Routing,
		c.Scheduling, c.Dispatch, c.Performance, c.Permit,
	} {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}
