// Package api exposes the engine over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/kilianp07/soilmatch/api/drivers"
	"github.com/kilianp07/soilmatch/api/matches"
	"github.com/kilianp07/soilmatch/api/permits"
	"github.com/kilianp07/soilmatch/api/schedules"
)

// Engine is everything the HTTP API needs from the engine.
type Engine interface {
	matches.Service
	schedules.Service
	drivers.Service
	permits.Service
}

// Options configures NewRouter.
type Options struct {
	// Token, when set, requires "Authorization: Bearer <token>" on /api routes.
	Token string
	// Metrics is mounted on /metrics when non-nil.
	Metrics http.Handler
	Now     func() time.Time
}

// NewRouter mounts every endpoint on a fresh ServeMux.
func NewRouter(e Engine, o Options) http.Handler {
	mux := http.NewServeMux()
	handle := func(pattern string, h http.Handler) { mux.Handle(pattern, requireToken(o.Token, h)) }

	handle("POST /api/matches/run", matches.NewRunHandler(e))
	handle("GET /api/matches", matches.NewListHandler(e))
	handle("POST /api/schedules/build", schedules.NewBuildHandler(e, o.Now))
	handle("GET /api/schedules", schedules.NewListHandler(e))
	handle("POST /api/schedules/{id}/simulate", schedules.NewSimulateHandler(e))
	handle("GET /api/drivers/recommend", drivers.NewRecommendHandler(e))
	handle("GET /api/drivers/{id}/performance", drivers.NewPerformanceHandler(e))
	handle("GET /api/drivers/{id}/trends", drivers.NewTrendsHandler(e))
	handle("GET /api/permits/scores", permits.NewScoresHandler(e))
	handle("GET /api/permits/{id}/score", permits.NewScoreHandler(e))
	if o.Metrics != nil {
		mux.Handle("GET /metrics", o.Metrics)
	}
	return mux
}

func requireToken(token string, next http.Handler) http.Handler {
	if token == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+token {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
