package prediction

import "time"

// MockPredictor returns fixed predictions.
type MockPredictor struct {
	Risk map[time.Month]float64
	// TrafficFactor is applied to every trip duration regardless of hour.
	TrafficFactor float64
}

// WeatherRisk returns the configured risk for the month or 0.
func (m MockPredictor) WeatherRisk(date time.Time) float64 {
	if m.Risk == nil {
		return 0
	}
	return m.Risk[date.Month()]
}

// TrafficDelay returns durationMinutes scaled by TrafficFactor.
func (m MockPredictor) TrafficDelay(_ int, durationMinutes float64) float64 {
	return durationMinutes * m.TrafficFactor
}
