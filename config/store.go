package config

import "fmt"

// StoreConfig selects the record store backend.
type StoreConfig struct {
	// Backend is "memory" or "redis".
	Backend  string `json:"backend"`
	RedisURL string `json:"redis_url"`
	Prefix   string `json:"prefix"`
	// SeedFile is an optional JSON snapshot loaded at startup.
	SeedFile string `json:"seed_file"`
}

// SetDefaults applies sane defaults.
func (c *StoreConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "memory"
	}
	if c.Prefix == "" {
		c.Prefix = "soilmatch:"
	}
}

// Validate checks mandatory fields.
func (c StoreConfig) Validate() error {
	switch c.Backend {
	case "memory":
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("store: redis_url is required for the redis backend")
		}
	default:
		return fmt.Errorf("store: unknown backend %s", c.Backend)
	}
	return nil
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `json:"addr"`
	// Token, when set, is required as a bearer token on every /api route.
	Token string `json:"token"`
}

// SetDefaults applies sane defaults.
func (c *ServerConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}
