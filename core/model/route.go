package model

// RouteType names one of the generated route variants.
type RouteType string

const (
	RouteFastest  RouteType = "fastest"
	RouteCheapest RouteType = "cheapest"
	RouteGreenest RouteType = "greenest"
)

// Route is a value object describing one way of moving soil between two sites.
type Route struct {
	ID              string        `json:"id"`
	Type            RouteType     `json:"type"`
	Distance        float64       `json:"distance"`         // miles
	Duration        float64       `json:"duration"`         // minutes
	Cost            float64       `json:"cost"`             // dollars
	CarbonEmissions float64       `json:"carbon_emissions"` // kg CO2
	Waypoints       []Coordinates `json:"waypoints"`
}

// Clone returns a deep copy of the route.
func (r Route) Clone() Route {
	cp := r
	if r.Waypoints != nil {
		cp.Waypoints = make([]Coordinates, len(r.Waypoints))
		copy(cp.Waypoints, r.Waypoints)
	}
	return cp
}
