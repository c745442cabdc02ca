package matches

import (
	"bytes"
	"context"
	"net/http"

	"github.com/kilianp07/soilmatch/api/respond"
	"github.com/kilianp07/soilmatch/core/matching"
	"github.com/kilianp07/soilmatch/core/model"
	"github.com/kilianp07/soilmatch/pkg/export"
)

// Service is the part of the engine the match endpoints use.
type Service interface {
	RunMatching(ctx context.Context) (matching.Result, error)
	Matches(ctx context.Context) ([]model.Match, error)
}

// NewRunHandler runs the site matcher via POST /api/matches/run.
func NewRunHandler(s Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		res, err := s.RunMatching(r.Context())
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, res)
	})
}

// NewListHandler exposes stored matches via GET /api/matches?format=json|csv.
func NewListHandler(s Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		format, ok := respond.Format(w, r)
		if !ok {
			return
		}
		list, err := s.Matches(r.Context())
		if err != nil {
			respond.Error(w, err)
			return
		}
		if format == export.FormatCSV {
			respond.CSV(w, func(b *bytes.Buffer) error { return export.WriteMatchesCSV(b, list) })
			return
		}
		if list == nil {
			list = []model.Match{}
		}
		respond.JSON(w, list)
	})
}
