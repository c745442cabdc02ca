package model

import (
	"math"
	"time"
)

// TruckCapacityYards is the fixed load carried by one truck in cubic yards.
const TruckCapacityYards = 20.0

// ScheduleStatus is the state of a transportation schedule.
type ScheduleStatus string

const (
	ScheduleScheduled  ScheduleStatus = "scheduled"
	ScheduleConflict   ScheduleStatus = "conflict"
	ScheduleInProgress ScheduleStatus = "in-progress"
	ScheduleCompleted  ScheduleStatus = "completed"
	ScheduleCancelled  ScheduleStatus = "cancelled"
)

// AlertType classifies schedule alerts.
type AlertType string

const (
	AlertInsufficientTrucks AlertType = "insufficient-trucks"
	AlertWeather            AlertType = "weather"
	AlertTraffic            AlertType = "traffic"
	AlertOverlap            AlertType = "overlap"
	AlertConflict           AlertType = "conflict"
)

// Severity ranks alerts.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Alert is regenerated every time a schedule is built.
type Alert struct {
	Type      AlertType `json:"type"`
	Severity  Severity  `json:"severity"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Schedule is a carrier-assigned transportation plan derived from a match.
type Schedule struct {
	ID              string         `json:"id"`
	MatchID         string         `json:"match_id"`
	HaulerID        string         `json:"hauler_id,omitempty"`
	Date            time.Time      `json:"date"`
	StartTime       string         `json:"start_time"`
	EndTime         string         `json:"end_time"`
	Route           Route          `json:"route"`
	VolumeScheduled float64        `json:"volume_scheduled"`
	TrucksNeeded    int            `json:"trucks_needed"`
	Status          ScheduleStatus `json:"status"`
	Alerts          []Alert        `json:"alerts"`
	WeatherDelay    *float64       `json:"weather_delay,omitempty"` // percent risk
	TrafficDelay    *float64       `json:"traffic_delay,omitempty"` // minutes
	AIGenerated     bool           `json:"ai_generated"`
}

// Clone returns a deep copy so that callers can modify the result freely.
func (s Schedule) Clone() Schedule {
	cp := s
	cp.Route = s.Route.Clone()
	if s.Alerts != nil {
		cp.Alerts = make([]Alert, len(s.Alerts))
		copy(cp.Alerts, s.Alerts)
	}
	if s.WeatherDelay != nil {
		v := *s.WeatherDelay
		cp.WeatherDelay = &v
	}
	if s.TrafficDelay != nil {
		v := *s.TrafficDelay
		cp.TrafficDelay = &v
	}
	return cp
}

// HasAlert reports whether an alert of type t is attached.
func (s Schedule) HasAlert(t AlertType) bool {
	for _, a := range s.Alerts {
		if a.Type == t {
			return true
		}
	}
	return false
}

// SameDay reports whether both times fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// TrucksNeeded returns the number of trucks required to move volume cubic yards.
func TrucksNeeded(volume float64) int {
	if volume <= 0 {
		return 0
	}
	return int(math.Ceil(volume / TruckCapacityYards))
}
