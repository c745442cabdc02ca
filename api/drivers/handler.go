package drivers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/kilianp07/soilmatch/api/respond"
	"github.com/kilianp07/soilmatch/core/dispatch"
	"github.com/kilianp07/soilmatch/core/performance"
)

// Service is the part of the engine the driver endpoints use.
type Service interface {
	RecommendDrivers(ctx context.Context, siteID string, volume float64, limit int) ([]dispatch.Recommendation, error)
	DriverPerformance(ctx context.Context, driverID string) (performance.DriverPerformance, error)
	PerformanceTrends(ctx context.Context, driverID string, days int) ([]performance.DailyTrend, error)
}

// NewRecommendHandler ranks drivers via GET /api/drivers/recommend?site=&volume=&limit=.
func NewRecommendHandler(s Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		site := r.URL.Query().Get("site")
		if site == "" {
			http.Error(w, "site is required", http.StatusBadRequest)
			return
		}
		volume, err := strconv.ParseFloat(r.URL.Query().Get("volume"), 64)
		if err != nil {
			http.Error(w, "invalid volume", http.StatusBadRequest)
			return
		}
		limit, ok := respond.Int(w, r, "limit", 0)
		if !ok {
			return
		}
		recs, err := s.RecommendDrivers(r.Context(), site, volume, limit)
		if err != nil {
			respond.Error(w, err)
			return
		}
		if recs == nil {
			recs = []dispatch.Recommendation{}
		}
		respond.JSON(w, recs)
	})
}

// NewPerformanceHandler exposes driver KPIs via GET /api/drivers/{id}/performance.
func NewPerformanceHandler(s Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		p, err := s.DriverPerformance(r.Context(), r.PathValue("id"))
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, p)
	})
}

// NewTrendsHandler exposes daily delivery trends via GET /api/drivers/{id}/trends?days=.
// The id "fleet" reports every driver.
func NewTrendsHandler(s Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		days, ok := respond.Int(w, r, "days", 0)
		if !ok {
			return
		}
		id := r.PathValue("id")
		if id == "fleet" {
			id = ""
		}
		trends, err := s.PerformanceTrends(r.Context(), id, days)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, trends)
	})
}
