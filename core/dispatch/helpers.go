package dispatch

import (
	"math"

	"github.com/kilianp07/soilmatch/core/model"
)

// utilization returns the share of the truck the load would fill, in percent.
func utilization(required, capacity float64) float64 {
	if capacity <= 0 {
		return math.Inf(1)
	}
	return required * 100 / capacity
}

// activeTickets counts the tickets currently occupying each driver.
func activeTickets(tickets []model.DispatchTicket) map[string]int {
	out := make(map[string]int)
	for _, t := range tickets {
		if t.Status.Active() {
			out[t.DriverID]++
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
