// Package plugins maps configuration names to store and metrics backends.
package plugins

import (
	"context"
	"fmt"
	"sort"

	"github.com/kilianp07/soilmatch/config"
	coremetrics "github.com/kilianp07/soilmatch/core/metrics"
	"github.com/kilianp07/soilmatch/core/store"
)

// StoreFactory opens a record store from its configuration.
type StoreFactory func(ctx context.Context, cfg config.StoreConfig) (store.Store, error)

// MetricsFactory builds a metrics sink from its configuration.
type MetricsFactory func(cfg coremetrics.Config) (coremetrics.MetricsSink, error)

var (
	Stores           = map[string]StoreFactory{}
	MetricsExporters = map[string]MetricsFactory{}
)

func RegisterStore(name string, f StoreFactory)     { Stores[name] = f }
func RegisterMetrics(name string, f MetricsFactory) { MetricsExporters[name] = f }

// OpenStore opens the backend named by cfg.Backend.
func OpenStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	f, ok := Stores[cfg.Backend]
	if !ok {
		return nil, fmt.Errorf("unknown store backend %q (have %v)", cfg.Backend, names(Stores))
	}
	return f(ctx, cfg)
}

// NewSink builds the named metrics sink.
func NewSink(name string, cfg coremetrics.Config) (coremetrics.MetricsSink, error) {
	f, ok := MetricsExporters[name]
	if !ok {
		return nil, fmt.Errorf("unknown metrics exporter %q (have %v)", name, names(MetricsExporters))
	}
	return f(cfg)
}

func names[T any](m map[string]T) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
