package permits

import (
	"bytes"
	"context"
	"net/http"

	"github.com/kilianp07/soilmatch/api/respond"
	"github.com/kilianp07/soilmatch/core/permit"
	"github.com/kilianp07/soilmatch/pkg/export"
)

// Service is the part of the engine the permit endpoints use.
type Service interface {
	ScorePermit(ctx context.Context, permitID string) (permit.Score, error)
	ScorePermits(ctx context.Context) ([]permit.Score, error)
}

// NewScoreHandler scores one permit via GET /api/permits/{id}/score.
func NewScoreHandler(s Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		sc, err := s.ScorePermit(r.Context(), r.PathValue("id"))
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, sc)
	})
}

// NewScoresHandler scores every permit via GET /api/permits/scores?format=json|csv.
func NewScoresHandler(s Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		format, ok := respond.Format(w, r)
		if !ok {
			return
		}
		scores, err := s.ScorePermits(r.Context())
		if err != nil {
			respond.Error(w, err)
			return
		}
		if format == export.FormatCSV {
			respond.CSV(w, func(b *bytes.Buffer) error { return export.WritePermitScoresCSV(b, scores) })
			return
		}
		respond.JSON(w, scores)
	})
}
