package scheduler

import (
	"fmt"
	"time"

	"github.com/kilianp07/soilmatch/core/model"
)

// DetectAlerts runs the conflict checks for s in order: trucks, weather,
// traffic, overlap. others may contain s itself; it is skipped by id, and
// cancelled schedules never overlap.
func DetectAlerts(s model.Schedule, haulers []model.Hauler, others []model.Schedule, th AlertThresholds, at time.Time) []model.Alert {
	th.SetDefaults()
	var alerts []model.Alert
	add := func(t model.AlertType, sev model.Severity, msg string) {
		alerts = append(alerts, model.Alert{Type: t, Severity: sev, Message: msg, Timestamp: at})
	}

	if s.HaulerID != "" {
		if h, ok := model.FindHauler(haulers, s.HaulerID); ok && h.TrucksAvailable < s.TrucksNeeded {
			add(model.AlertInsufficientTrucks, model.SeverityHigh,
				fmt.Sprintf("Hauler %s has %d trucks available but %d are needed", h.ID, h.TrucksAvailable, s.TrucksNeeded))
		}
	}
	if s.WeatherDelay != nil && *s.WeatherDelay > th.WeatherRisk {
		sev := model.SeverityMedium
		if *s.WeatherDelay > th.WeatherHighRisk {
			sev = model.SeverityHigh
		}
		add(model.AlertWeather, sev,
			fmt.Sprintf("Weather delay risk of %.0f%% on %s", *s.WeatherDelay, s.Date.Format(time.DateOnly)))
	}
	if s.TrafficDelay != nil && *s.TrafficDelay > th.TrafficMinutes {
		add(model.AlertTraffic, model.SeverityMedium,
			fmt.Sprintf("Expected traffic delay of %.0f minutes", *s.TrafficDelay))
	}
	if s.HaulerID != "" {
		n := 0
		for _, o := range others {
			if o.ID != s.ID && o.Status != model.ScheduleCancelled && o.HaulerID == s.HaulerID && model.SameDay(o.Date, s.Date) {
				n++
			}
		}
		if n > 0 {
			add(model.AlertOverlap, model.SeverityMedium,
				fmt.Sprintf("Hauler %s already has %d schedule(s) on %s", s.HaulerID, n, s.Date.Format(time.DateOnly)))
		}
	}
	return alerts
}
