package performance

import (
	"fmt"
	"time"

	"github.com/kilianp07/soilmatch/core/model"
)

// DailyTrend reports one day of deliveries.
type DailyTrend struct {
	Date       time.Time `json:"date"`
	Deliveries int       `json:"deliveries"`
	OnTimeRate float64   `json:"on_time_rate"`
	AvgRating  float64   `json:"avg_rating"`
}

// Trends buckets delivered tickets by delivery date over the trailing days
// ending today, oldest first. An empty driverID covers every driver. A
// non-positive days uses the configured window; more than MaxTrendDays is
// rejected with model.ErrInvalidWindow.
func (a *Aggregator) Trends(driverID string, tickets []model.DispatchTicket, days int) ([]DailyTrend, error) {
	if days <= 0 {
		days = a.cfg.TrendDays
	}
	if days > a.cfg.MaxTrendDays {
		return nil, fmt.Errorf("trends over %d days (max %d): %w", days, a.cfg.MaxTrendDays, model.ErrInvalidWindow)
	}
	now := a.now()
	loc := now.Location()
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)

	type bucket struct {
		onTime  int
		ratings []float64
		total   int
	}
	buckets := make(map[time.Time]*bucket, days)
	for _, t := range tickets {
		if t.Status != model.TicketDelivered || t.Timestamps.Delivered == nil {
			continue
		}
		if driverID != "" && t.DriverID != driverID {
			continue
		}
		dy, dm, dd := t.Timestamps.Delivered.In(loc).Date()
		day := time.Date(dy, dm, dd, 0, 0, 0, 0, loc)
		b := buckets[day]
		if b == nil {
			b = &bucket{}
			buckets[day] = b
		}
		b.total++
		if a.onTime(t) {
			b.onTime++
		}
		if t.Rating != nil {
			b.ratings = append(b.ratings, *t.Rating)
		}
	}

	out := make([]DailyTrend, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		tr := DailyTrend{Date: day}
		if b := buckets[day]; b != nil {
			tr.Deliveries = b.total
			tr.OnTimeRate = float64(b.onTime) / float64(b.total) * 100
			tr.AvgRating = mean(b.ratings)
		}
		out = append(out, tr)
	}
	return out, nil
}
