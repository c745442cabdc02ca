package performance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/soilmatch/core/model"
)

var (
	now   = time.Date(2024, 3, 20, 15, 0, 0, 0, time.UTC)
	sites = []model.Site{
		{ID: "exp", Location: model.Coordinates{Lat: 30, Lng: -97}},
		{ID: "imp", Location: model.Coordinates{Lat: 31, Lng: -97}},
	}
)

func f(v float64) *float64 { return &v }

func newAggregator(t *testing.T) *Aggregator {
	t.Helper()
	a, err := NewAggregator(Config{}, func() time.Time { return now }, nil)
	require.NoError(t, err)
	return a
}

func delivered(id, driver string, created time.Time, minutes int, rating float64) model.DispatchTicket {
	done := created.Add(time.Duration(minutes) * time.Minute)
	return model.DispatchTicket{
		ID: id, DriverID: driver, ExportSiteID: "exp", ImportSiteID: "imp",
		Volume: 20, Status: model.TicketDelivered, FuelUsed: 4,
		Timestamps: model.TicketTimestamps{Created: created, Delivered: &done},
		Rating:     f(rating),
	}
}

func TestAggregate(t *testing.T) {
	a := newAggregator(t)
	d := model.Driver{ID: "d1", PerformanceScore: 80}

	t1 := delivered("t1", "d1", now.Add(-48*time.Hour), 60, 5)
	t2 := delivered("t2", "d1", now.Add(-24*time.Hour), 90, 4)
	t2.ActualVolume = f(18)
	t2.Issues = []string{"late gate"}
	tickets := []model.DispatchTicket{
		t1, t2,
		{ID: "t3", DriverID: "d1", Status: model.TicketCancelled, Issues: []string{"breakdown"}},
		delivered("t4", "other", now, 30, 1),
	}

	p := a.Aggregate(d, tickets, sites)
	assert.Equal(t, "d1", p.DriverID)
	assert.Equal(t, 2, p.TotalDeliveries)
	assert.Equal(t, 2, p.OnTimeDeliveries)
	assert.Equal(t, 100.0, p.OnTimeRate)
	assert.InDelta(t, 75, p.AvgDeliveryMinutes, 1e-9)
	assert.InDelta(t, 4.5, p.AvgRating, 1e-9)
	assert.InDelta(t, 38, p.TotalVolume, 1e-9)
	assert.InDelta(t, 138.2, p.TotalDistance, 0.05)
	assert.InDelta(t, 38.0/8, p.FuelEfficiency, 1e-9)
	// Issues count across every ticket of the driver, cancelled included.
	assert.Equal(t, 2, p.IssueCount)
	// 100*0.4 + 4.5*20*0.3 + 90*0.2 + 80*0.1 = 93
	assert.Equal(t, 93, p.PerformanceScore)
}

func TestAggregate_NoDeliveries(t *testing.T) {
	a := newAggregator(t)
	d := model.Driver{ID: "d1", PerformanceScore: 72.6}
	p := a.Aggregate(d, []model.DispatchTicket{
		{ID: "t", DriverID: "d1", Status: model.TicketLoading, Issues: []string{"x"}},
	}, sites)
	assert.Equal(t, DriverPerformance{DriverID: "d1", PerformanceScore: 73}, p)
}

func TestAggregate_MissingSiteSkipsDistance(t *testing.T) {
	a := newAggregator(t)
	tk := delivered("t1", "d1", now, 10, 3)
	tk.ImportSiteID = "gone"
	p := a.Aggregate(model.Driver{ID: "d1"}, []model.DispatchTicket{tk}, sites)
	assert.Equal(t, 1, p.TotalDeliveries)
	assert.Equal(t, 0.0, p.TotalDistance)
}

func TestAggregate_IssuePenaltyCaps(t *testing.T) {
	a := newAggregator(t)
	tk := delivered("t1", "d1", now, 10, 5)
	for i := 0; i < 30; i++ {
		tk.Issues = append(tk.Issues, "issue")
	}
	p := a.Aggregate(model.Driver{ID: "d1", PerformanceScore: 100}, []model.DispatchTicket{tk}, sites)
	// 40 + 30 + 0 + 10
	assert.Equal(t, 80, p.PerformanceScore)
}

func TestAggregate_ZeroIssuePenalty(t *testing.T) {
	a, err := NewAggregator(Config{IssuePenalty: f(0)}, func() time.Time { return now }, nil)
	require.NoError(t, err)
	tk := delivered("t1", "d1", now, 10, 5)
	tk.Issues = []string{"late", "spill"}
	p := a.Aggregate(model.Driver{ID: "d1", PerformanceScore: 100}, []model.DispatchTicket{tk}, sites)
	assert.Equal(t, 2, p.IssueCount)
	assert.Equal(t, 100, p.PerformanceScore)
}

func TestAggregate_CustomOnTime(t *testing.T) {
	a := newAggregator(t)
	a.SetOnTimeFunc(func(tk model.DispatchTicket) bool { return tk.ID == "t1" })
	p := a.Aggregate(model.Driver{ID: "d1"}, []model.DispatchTicket{
		delivered("t1", "d1", now, 10, 5),
		delivered("t2", "d1", now, 10, 5),
	}, sites)
	assert.Equal(t, 1, p.OnTimeDeliveries)
	assert.Equal(t, 50.0, p.OnTimeRate)
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{OnTimeWeight: 0.5, RatingWeight: 0.5, IssueWeight: 0.5}
	cfg.SetDefaults()
	assert.Error(t, cfg.Validate())
	_, err := NewAggregator(cfg, nil, nil)
	assert.Error(t, err)
}
