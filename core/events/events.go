// Package events defines the notifications the engine publishes after a
// run changes stored records.
//
// Available event types:
//   - MatchesSuggested: a matching run replaced the suggested matches
//   - SchedulesBuilt: a build appended schedules
//   - ScheduleAlerted: a built schedule carries at least one high severity alert
package events

import (
	"time"

	"github.com/kilianp07/soilmatch/core/model"
)

// Event is implemented by every engine notification.
type Event interface {
	Kind() string
}

// Publisher accepts engine events.
type Publisher interface {
	Publish(Event)
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(Event) {}

// MatchesSuggested is published after a matching run.
type MatchesSuggested struct {
	MatchIDs []string
	At       time.Time
}

func (MatchesSuggested) Kind() string { return "matches_suggested" }

// SchedulesBuilt is published after a schedule build.
type SchedulesBuilt struct {
	ScheduleIDs []string
	Skipped     int
	At          time.Time
}

func (SchedulesBuilt) Kind() string { return "schedules_built" }

// ScheduleAlerted carries the high severity alerts of one schedule.
type ScheduleAlerted struct {
	ScheduleID string
	MatchID    string
	Date       time.Time
	Alerts     []model.Alert
}

func (ScheduleAlerted) Kind() string { return "schedule_alerted" }

// HighSeverity returns the alerts of s ranked high.
func HighSeverity(s model.Schedule) []model.Alert {
	var out []model.Alert
	for _, a := range s.Alerts {
		if a.Severity == model.SeverityHigh {
			out = append(out, a)
		}
	}
	return out
}
