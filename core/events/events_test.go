package events

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kilianp07/soilmatch/core/model"
)

func TestHighSeverity(t *testing.T) {
	s := model.Schedule{Alerts: []model.Alert{
		{Type: model.AlertWeather, Severity: model.SeverityMedium},
		{Type: model.AlertInsufficientTrucks, Severity: model.SeverityHigh},
		{Type: model.AlertOverlap, Severity: model.SeverityLow},
	}}
	got := HighSeverity(s)
	if assert.Len(t, got, 1) {
		assert.Equal(t, model.AlertInsufficientTrucks, got[0].Type)
	}
	assert.Empty(t, HighSeverity(model.Schedule{}))
}

func TestKinds(t *testing.T) {
	assert.Equal(t, "matches_suggested", MatchesSuggested{}.Kind())
	assert.Equal(t, "schedules_built", SchedulesBuilt{}.Kind())
	assert.Equal(t, "schedule_alerted", ScheduleAlerted{}.Kind())
}
