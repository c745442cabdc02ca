package plugins

import (
	"context"

	"github.com/kilianp07/soilmatch/config"
	coremetrics "github.com/kilianp07/soilmatch/core/metrics"
	"github.com/kilianp07/soilmatch/core/store"
	"github.com/kilianp07/soilmatch/infra/logger"
	inframetrics "github.com/kilianp07/soilmatch/infra/metrics"
	infrastore "github.com/kilianp07/soilmatch/infra/store"
)

func init() {
	RegisterStore("memory", func(context.Context, config.StoreConfig) (store.Store, error) {
		return store.NewMemoryStore(), nil
	})
	RegisterStore("redis", func(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
		return infrastore.NewRedisStore(ctx, cfg.RedisURL, cfg.Prefix)
	})

	RegisterMetrics("nop", func(coremetrics.Config) (coremetrics.MetricsSink, error) {
		return coremetrics.NopSink{}, nil
	})
	RegisterMetrics("log", func(coremetrics.Config) (coremetrics.MetricsSink, error) {
		return inframetrics.NewLogSink(logger.New("metrics")), nil
	})
	RegisterMetrics("influx", func(cfg coremetrics.Config) (coremetrics.MetricsSink, error) {
		return inframetrics.NewInfluxSinkWithFallback(cfg), nil
	})
	RegisterMetrics("prometheus", func(cfg coremetrics.Config) (coremetrics.MetricsSink, error) {
		return inframetrics.NewPromSink(cfg)
	})
}
