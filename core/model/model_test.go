package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTrucksNeeded(t *testing.T) {
	cases := map[float64]int{1: 1, 19.5: 1, 20: 1, 21: 2, 40: 2, 41: 3, 5000: 250}
	for vol, want := range cases {
		assert.Equal(t, want, TrucksNeeded(vol), "volume %v", vol)
	}
	assert.Equal(t, 0, TrucksNeeded(0))
}

func TestSiteValidate(t *testing.T) {
	s := Site{ID: "s1", Type: SiteExport, Volume: 10}
	assert.NoError(t, s.Validate())

	s.Volume = 0
	if err := s.Validate(); !errors.Is(err, ErrInvalidVolume) {
		t.Fatalf("expected ErrInvalidVolume, got %v", err)
	}
	s.Volume = 10
	s.Type = "landfill"
	if err := s.Validate(); !errors.Is(err, ErrUnknownSiteType) {
		t.Fatalf("expected ErrUnknownSiteType, got %v", err)
	}
}

func TestWindowOverlapsInclusive(t *testing.T) {
	jan := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	a := Site{ScheduleStart: jan, ScheduleEnd: feb}
	b := Site{ScheduleStart: feb, ScheduleEnd: mar}
	c := Site{ScheduleStart: feb.Add(time.Hour), ScheduleEnd: mar}
	assert.True(t, a.WindowOverlaps(b))
	assert.True(t, b.WindowOverlaps(a))
	assert.False(t, a.WindowOverlaps(c))
}

func TestScheduleCloneIsDeep(t *testing.T) {
	w := 12.0
	s := Schedule{
		ID:           "s1",
		Route:        Route{Waypoints: []Coordinates{{Lat: 1}, {Lat: 2}}},
		Alerts:       []Alert{{Type: AlertWeather}},
		WeatherDelay: &w,
	}
	cp := s.Clone()
	cp.Route.Waypoints[0].Lat = 99
	cp.Alerts[0].Type = AlertTraffic
	*cp.WeatherDelay = 50
	assert.Equal(t, 1.0, s.Route.Waypoints[0].Lat)
	assert.Equal(t, AlertWeather, s.Alerts[0].Type)
	assert.Equal(t, 12.0, *s.WeatherDelay)
}

func TestTicketStatusActive(t *testing.T) {
	for _, st := range []TicketStatus{TicketAccepted, TicketEnRoutePickup, TicketLoading, TicketEnRouteDelivery, TicketUnloading} {
		assert.True(t, st.Active(), st)
	}
	for _, st := range []TicketStatus{TicketPending, TicketDelivered, TicketCancelled} {
		assert.False(t, st.Active(), st)
	}
}

func TestDeliveredVolumePrefersActual(t *testing.T) {
	actual := 18.0
	assert.Equal(t, 20.0, DispatchTicket{Volume: 20}.DeliveredVolume())
	assert.Equal(t, 18.0, DispatchTicket{Volume: 20, ActualVolume: &actual}.DeliveredVolume())
}
