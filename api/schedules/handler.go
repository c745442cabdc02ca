package schedules

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/kilianp07/soilmatch/api/respond"
	"github.com/kilianp07/soilmatch/core/model"
	"github.com/kilianp07/soilmatch/core/scheduler"
	"github.com/kilianp07/soilmatch/pkg/export"
)

// Service is the part of the engine the schedule endpoints use.
type Service interface {
	BuildSchedules(ctx context.Context, start time.Time) (scheduler.Result, error)
	Schedules(ctx context.Context) ([]model.Schedule, error)
	Simulate(ctx context.Context, scheduleID string, o scheduler.Overrides) (scheduler.Scenario, error)
	CheckConflicts(ctx context.Context, s model.Schedule) ([]model.Alert, error)
}

// BuildRequest is the optional body of POST /api/schedules/build.
type BuildRequest struct {
	// StartDate is YYYY-MM-DD or RFC3339; empty means today.
	StartDate string `json:"start_date"`
}

// SimulateResponse is a scenario plus the alerts the simulated schedule
// would raise against the stored schedules.
type SimulateResponse struct {
	scheduler.Scenario
	Alerts []model.Alert `json:"alerts"`
}

// NewBuildHandler builds schedules from approved matches via POST /api/schedules/build.
func NewBuildHandler(s Service, now func() time.Time) http.Handler {
	if now == nil {
		now = time.Now
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req BuildRequest
		if err := decodeOptional(r.Body, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		start := now()
		if req.StartDate != "" {
			t, err := ParseDate(req.StartDate)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			start = t
		}
		res, err := s.BuildSchedules(r.Context(), start)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, res)
	})
}

// NewListHandler exposes stored schedules via GET /api/schedules?format=json|csv.
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
		list, err := s.Schedules(r.Context())
		if err != nil {
			respond.Error(w, err)
			return
		}
		if format == export.FormatCSV {
			respond.CSV(w, func(b *bytes.Buffer) error { return export.WriteSchedulesCSV(b, list) })
			return
		}
		if list == nil {
			list = []model.Schedule{}
		}
		respond.JSON(w, list)
	})
}

// NewSimulateHandler runs a what-if scenario via POST /api/schedules/{id}/simulate.
// The body is a scheduler.Overrides document.
func NewSimulateHandler(s Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var o scheduler.Overrides
		if err := decodeOptional(r.Body, &o); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		sc, err := s.Simulate(r.Context(), r.PathValue("id"), o)
		if err != nil {
			respond.Error(w, err)
			return
		}
		alerts, err := s.CheckConflicts(r.Context(), sc.Simulated)
		if err != nil {
			respond.Error(w, err)
			return
		}
		if alerts == nil {
			alerts = []model.Alert{}
		}
		respond.JSON(w, SimulateResponse{Scenario: sc, Alerts: alerts})
	})
}

// ParseDate accepts YYYY-MM-DD or RFC3339.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func decodeOptional(body io.Reader, v any) error {
	if body == nil {
		return nil
	}
	err := json.NewDecoder(body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
