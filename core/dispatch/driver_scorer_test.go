package dispatch

import (
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/soilmatch/core/model"
)

var pickup = model.Site{ID: "pit", Location: model.Coordinates{Lat: 30.2672, Lng: -97.7431}}

func at(milesNorth float64) *model.Coordinates {
	return &model.Coordinates{Lat: pickup.Location.Lat + milesNorth/69.1, Lng: pickup.Location.Lng}
}

func newScorer(t *testing.T) *DriverScorer {
	t.Helper()
	s, err := NewDriverScorer(Config{}, nil)
	require.NoError(t, err)
	return s
}

func driver(id string, capacity float64) model.Driver {
	return model.Driver{ID: id, TruckCapacity: capacity, Status: model.DriverAvailable, PerformanceScore: 80, CurrentLocation: at(0)}
}

func TestScore_Composite(t *testing.T) {
	rec := newScorer(t).Score(driver("d1", 20), Request{Site: pickup, RequiredVolume: 16})
	assert.Equal(t, SubScores{Proximity: 100, Availability: 100, Capacity: 100, Performance: 80, Workload: 100}, rec.SubScores)
	assert.Equal(t, 97.0, rec.Score)
	assert.Contains(t, rec.Reasons, "Available now")
	assert.Contains(t, rec.Reasons, "Optimal truck utilization (80%)")
}

func TestScore_Proximity(t *testing.T) {
	s := newScorer(t)
	d := driver("d", 20)
	d.CurrentLocation = at(10)
	rec := s.Score(d, Request{Site: pickup, RequiredVolume: 16})
	assert.InDelta(t, 80, rec.SubScores.Proximity, 0.1)
	require.NotNil(t, rec.DistanceMiles)

	d.CurrentLocation = at(80)
	assert.Equal(t, 0.0, s.Score(d, Request{Site: pickup, RequiredVolume: 16}).SubScores.Proximity)

	d.CurrentLocation = nil
	rec = s.Score(d, Request{Site: pickup, RequiredVolume: 16})
	assert.Equal(t, 50.0, rec.SubScores.Proximity)
	assert.Nil(t, rec.DistanceMiles)
}

func TestScore_ProximityExplicitZero(t *testing.T) {
	s, err := NewDriverScorer(Config{ProximityPerMile: Float(0), UnknownLocationScore: Float(0)}, nil)
	require.NoError(t, err)
	d := driver("d", 20)
	d.CurrentLocation = at(10)
	assert.Equal(t, 100.0, s.Score(d, Request{Site: pickup, RequiredVolume: 16}).SubScores.Proximity)

	d.CurrentLocation = nil
	assert.Equal(t, 0.0, s.Score(d, Request{Site: pickup, RequiredVolume: 16}).SubScores.Proximity)
}

func TestScore_Availability(t *testing.T) {
	s := newScorer(t)
	for status, want := range map[model.DriverStatus]float64{
		model.DriverAvailable: 100,
		model.DriverOnJob:     20,
		model.DriverOffDuty:   0,
	} {
		d := driver("d", 20)
		d.Status = status
		assert.Equal(t, want, s.Score(d, Request{Site: pickup, RequiredVolume: 16}).SubScores.Availability, status)
	}
}

func TestScore_CapacityBands(t *testing.T) {
	s := newScorer(t)
	for _, tc := range []struct {
		volume float64
		want   float64
	}{
		{10, 60 + 50.0/70*40},
		{14, 100},
		{18, 100},
		{19, 80},
		{20, 70},
		{21, 0},
	} {
		got := s.Score(driver("d", 20), Request{Site: pickup, RequiredVolume: tc.volume}).SubScores.Capacity
		assert.InDelta(t, tc.want, got, 1e-9, "volume %v", tc.volume)
	}
}

func TestScore_Workload(t *testing.T) {
	s := newScorer(t)
	want := []float64{100, 70, 40, 10, 10}
	for n, w := range want {
		var tickets []model.DispatchTicket
		for i := 0; i < n; i++ {
			tickets = append(tickets, model.DispatchTicket{ID: fmt.Sprint(i), DriverID: "d", Status: model.TicketLoading})
		}
		// Finished and other drivers' tickets never count.
		tickets = append(tickets,
			model.DispatchTicket{DriverID: "d", Status: model.TicketDelivered},
			model.DispatchTicket{DriverID: "d", Status: model.TicketPending},
			model.DispatchTicket{DriverID: "other", Status: model.TicketAccepted})
		rec := s.Score(driver("d", 20), Request{Site: pickup, RequiredVolume: 16, Tickets: tickets})
		assert.Equal(t, w, rec.SubScores.Workload, "%d active", n)
		assert.Equal(t, n, rec.ActiveTickets)
	}
}

func TestRank_CapacityMonotonicity(t *testing.T) {
	s := newScorer(t)
	drivers := []model.Driver{driver("small", 12), driver("large", 30)}
	for vol := 12.5; vol <= 40; vol += 2.5 {
		rec := s.Score(drivers[0], Request{Site: pickup, RequiredVolume: vol})
		assert.Equal(t, 0.0, rec.SubScores.Capacity)

		list, err := s.Rank(drivers, Request{Site: pickup, RequiredVolume: vol}, 10)
		require.NoError(t, err)
		for _, r := range list {
			assert.NotEqual(t, "small", r.Driver.ID, "volume %v", vol)
		}
	}
}

func TestRank_OrderAndLimit(t *testing.T) {
	s := newScorer(t)
	var drivers []model.Driver
	for i := 0; i < 8; i++ {
		d := driver(fmt.Sprintf("d%d", i), 20)
		d.PerformanceScore = float64(50 + i*5)
		drivers = append(drivers, d)
	}
	// Two identical drivers keep input order.
	drivers = append(drivers, driver("tieA", 20), driver("tieB", 20))

	list, err := s.Rank(drivers, Request{Site: pickup, RequiredVolume: 16}, 0)
	require.NoError(t, err)
	require.Len(t, list, 5)
	assert.Equal(t, "d7", list[0].Driver.ID)
	for i := 1; i < len(list); i++ {
		assert.GreaterOrEqual(t, list[i-1].Score, list[i].Score)
	}

	ties, err := s.Rank([]model.Driver{driver("tieA", 20), driver("tieB", 20)}, Request{Site: pickup, RequiredVolume: 16}, 2)
	require.NoError(t, err)
	assert.Equal(t, "tieA", ties[0].Driver.ID)
	assert.Equal(t, "tieB", ties[1].Driver.ID)
}

func TestBest(t *testing.T) {
	s := newScorer(t)
	far := driver("far", 20)
	far.CurrentLocation = at(30)
	best, ok, err := s.Best([]model.Driver{far, driver("near", 20)}, Request{Site: pickup, RequiredVolume: 16})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "near", best.Driver.ID)

	_, ok, err = s.Best([]model.Driver{driver("tiny", 5)}, Request{Site: pickup, RequiredVolume: 16})
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = s.Best([]model.Driver{driver("d", 20)}, Request{Site: pickup})
	assert.True(t, errors.Is(err, model.ErrInvalidVolume))
}

func TestRank_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	ResetMetrics(reg)
	s := newScorer(t)
	_, err := s.Rank([]model.Driver{driver("ok", 20), driver("tiny", 5)}, Request{Site: pickup, RequiredVolume: 16}, 5)
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(rankings))
	assert.Equal(t, 1.0, testutil.ToFloat64(excludedDrivers))
	assert.Equal(t, 1, testutil.CollectAndCount(driverScores))
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	cfg.ProximityPerMile = Float(-1)
	assert.Error(t, cfg.Validate())
	cfg = DefaultConfig()
	cfg.Weights.Proximity = 0.5
	assert.Error(t, cfg.Validate())
	_, err := NewDriverScorer(cfg, nil)
	assert.Error(t, err)
}
