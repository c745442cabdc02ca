package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/soilmatch/api"
	"github.com/kilianp07/soilmatch/app/plugins"
	"github.com/kilianp07/soilmatch/config"
	"github.com/kilianp07/soilmatch/core/events"
	coremetrics "github.com/kilianp07/soilmatch/core/metrics"
	"github.com/kilianp07/soilmatch/core/store"
	"github.com/kilianp07/soilmatch/infra/logger"
	"github.com/kilianp07/soilmatch/infra/metrics"
	"github.com/kilianp07/soilmatch/internal/eventbus"
)

// Service owns the store, metrics and engine built from a configuration.
type Service struct {
	Engine *Engine
	Store  store.Store
	bus    *eventbus.Bus[events.Event]
	cfg    *config.Config
	log    logger.Logger
}

// New opens the configured store, seeds it when a seed file is set and
// builds the engine. Extra options are passed to NewEngine.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Service, error) {
	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		return nil, err
	}
	logg := logger.New("service")

	st, err := plugins.OpenStore(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	if cfg.Store.SeedFile != "" {
		doc, err := os.ReadFile(cfg.Store.SeedFile)
		if err != nil {
			closeStore(st)
			return nil, fmt.Errorf("seed file: %w", err)
		}
		if err := store.Seed(ctx, st, doc); err != nil {
			closeStore(st)
			return nil, err
		}
		logg.Infof("store seeded from %s", cfg.Store.SeedFile)
	}

	exporters := []string{"log"}
	if cfg.Metrics.PrometheusEnabled {
		exporters = append(exporters, "prometheus")
	}
	if cfg.Metrics.InfluxEnabled {
		exporters = append(exporters, "influx")
	}
	sinks := make([]coremetrics.MetricsSink, 0, len(exporters))
	for _, name := range exporters {
		sink, err := plugins.NewSink(name, cfg.Metrics)
		if err != nil {
			closeStore(st)
			return nil, fmt.Errorf("metrics sink %s: %w", name, err)
		}
		sinks = append(sinks, sink)
	}
	sink := metrics.NewMultiSink(sinks...)

	bus := eventbus.New[events.Event](0)
	base := []Option{WithSink(sink), WithPublisher(bus), WithLogger(logger.New("engine"))}
	engine, err := NewEngine(cfg, st, append(base, opts...)...)
	if err != nil {
		closeStore(st)
		return nil, err
	}
	return &Service{Engine: engine, Store: st, bus: bus, cfg: cfg, log: logg}, nil
}

// Subscribe returns a channel receiving engine events until Close.
func (s *Service) Subscribe() <-chan events.Event { return s.bus.Subscribe() }

// watchEvents logs engine events until ch is closed or ctx ends.
func (s *Service) watchEvents(ctx context.Context, ch <-chan events.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			switch e := ev.(type) {
			case events.ScheduleAlerted:
				for _, a := range e.Alerts {
					s.log.Warnf("schedule %s on %s: %s", e.ScheduleID, e.Date.Format(time.DateOnly), a.Message)
				}
			case events.SchedulesBuilt:
				s.log.Debugf("%d schedules built, %d skipped", len(e.ScheduleIDs), e.Skipped)
			case events.MatchesSuggested:
				s.log.Debugf("%d matches suggested", len(e.MatchIDs))
			}
		}
	}
}

// Handler returns the HTTP API with /metrics mounted when Prometheus is
// enabled.
func (s *Service) Handler() http.Handler {
	var mh http.Handler
	if s.cfg.Metrics.PrometheusEnabled {
		mh = metrics.Handler(prometheus.DefaultGatherer)
	}
	return api.NewRouter(s.Engine, api.Options{Token: s.cfg.Server.Token, Metrics: mh})
}

// Run serves the HTTP API and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	go s.watchEvents(ctx, s.bus.Subscribe())
	if s.cfg.Metrics.PrometheusEnabled && s.cfg.Metrics.PrometheusAddr != s.cfg.Server.Addr {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusAddr, prometheus.DefaultGatherer, s.log); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	srv := &http.Server{Addr: s.cfg.Server.Addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("api shutdown: %v", err)
		}
	}()
	s.log.Infof("api listening on %s", s.cfg.Server.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	if c, ok := s.Store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func closeStore(st store.Store) {
	if c, ok := st.(io.Closer); ok {
		_ = c.Close()
	}
}
