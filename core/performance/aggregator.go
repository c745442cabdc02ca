// Package performance rolls historical dispatch tickets up into per-driver
// KPIs and daily trends.
package performance

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/soilmatch/core/geo"
	"github.com/kilianp07/soilmatch/core/logger"
	"github.com/kilianp07/soilmatch/core/model"
)

// OnTimeFunc decides whether a delivered ticket counts as on time.
type OnTimeFunc func(model.DispatchTicket) bool

// AllDeliveredOnTime counts every delivered ticket as on time. Tickets carry
// no ETA to compare against.
func AllDeliveredOnTime(model.DispatchTicket) bool { return true }

// DriverPerformance is the KPI rollup for one driver.
type DriverPerformance struct {
	DriverID           string  `json:"driver_id"`
	TotalDeliveries    int     `json:"total_deliveries"`
	OnTimeDeliveries   int     `json:"on_time_deliveries"`
	OnTimeRate         float64 `json:"on_time_rate"` // percent
	AvgDeliveryMinutes float64 `json:"avg_delivery_minutes"`
	AvgRating          float64 `json:"avg_rating"`
	TotalVolume        float64 `json:"total_volume"`
	TotalDistance      float64 `json:"total_distance"`  // miles
	FuelEfficiency     float64 `json:"fuel_efficiency"` // yards per unit of fuel
	IssueCount         int     `json:"issue_count"`
	PerformanceScore   int     `json:"performance_score"`
}

// Aggregator computes driver KPIs.
type Aggregator struct {
	cfg    Config
	onTime OnTimeFunc
	now    func() time.Time
	log    logger.Logger
}

// NewAggregator returns an Aggregator. A nil now uses time.Now.
func NewAggregator(cfg Config, now func() time.Time, log logger.Logger) (*Aggregator, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if now == nil {
		now = time.Now
	}
	return &Aggregator{cfg: cfg, onTime: AllDeliveredOnTime, now: now, log: logger.OrNop(log)}, nil
}

// SetOnTimeFunc replaces the on-time rule.
func (a *Aggregator) SetOnTimeFunc(f OnTimeFunc) {
	if f != nil {
		a.onTime = f
	}
}

// Aggregate computes the KPIs of d over its delivered tickets.
func (a *Aggregator) Aggregate(d model.Driver, tickets []model.DispatchTicket, sites []model.Site) DriverPerformance {
	out := DriverPerformance{DriverID: d.ID}

	var delivered []model.DispatchTicket
	for _, t := range tickets {
		if t.DriverID != d.ID {
			continue
		}
		out.IssueCount += len(t.Issues)
		if t.Status == model.TicketDelivered {
			delivered = append(delivered, t)
		}
	}
	if len(delivered) == 0 {
		return DriverPerformance{DriverID: d.ID, PerformanceScore: int(math.Round(d.PerformanceScore))}
	}

	idx := model.IndexSites(sites)
	var minutes, ratings, volumes, distances, fuel []float64
	for _, t := range delivered {
		if a.onTime(t) {
			out.OnTimeDeliveries++
		}
		if !t.Timestamps.Created.IsZero() && t.Timestamps.Delivered != nil {
			minutes = append(minutes, t.Timestamps.Delivered.Sub(t.Timestamps.Created).Minutes())
		}
		if t.Rating != nil {
			ratings = append(ratings, *t.Rating)
		}
		volumes = append(volumes, t.DeliveredVolume())
		fuel = append(fuel, t.FuelUsed)
		exp, okE := idx[t.ExportSiteID]
		imp, okI := idx[t.ImportSiteID]
		if okE && okI {
			distances = append(distances, geo.DistanceMiles(exp.Location, imp.Location))
		} else {
			a.log.Debugf("ticket %s references a missing site, distance skipped", t.ID)
		}
	}

	out.TotalDeliveries = len(delivered)
	out.OnTimeRate = float64(out.OnTimeDeliveries) / float64(out.TotalDeliveries) * 100
	out.AvgDeliveryMinutes = mean(minutes)
	out.AvgRating = mean(ratings)
	out.TotalVolume = floats.Sum(volumes)
	out.TotalDistance = geo.Round(sum(distances), 1)
	if totalFuel := floats.Sum(fuel); totalFuel > 0 {
		out.FuelEfficiency = out.TotalVolume / totalFuel
	}

	issues := 100 - math.Min(float64(out.IssueCount)*(*a.cfg.IssuePenalty), 100)
	score := out.OnTimeRate*a.cfg.OnTimeWeight +
		out.AvgRating*a.cfg.RatingScale*a.cfg.RatingWeight +
		issues*a.cfg.IssueWeight +
		d.PerformanceScore*a.cfg.StoredWeight
	out.PerformanceScore = int(math.Round(score))
	return out
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}

func sum(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return floats.Sum(xs)
}
