package model

// HaulerStatus reports whether a hauler accepts new work.
type HaulerStatus string

const (
	HaulerActive   HaulerStatus = "active"
	HaulerInactive HaulerStatus = "inactive"
)

// Hauler is a trucking company.
type Hauler struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	ReliabilityScore float64      `json:"reliability_score"` // 0-100
	TrucksAvailable  int          `json:"trucks_available"`
	CostPerMile      float64      `json:"cost_per_mile"`
	Status           HaulerStatus `json:"status"`
}

// CanCover reports whether the hauler is active and has at least n trucks.
func (h Hauler) CanCover(n int) bool {
	return h.Status == HaulerActive && h.TrucksAvailable >= n
}

// FindHauler returns the hauler with the given id.
func FindHauler(haulers []Hauler, id string) (Hauler, bool) {
	for _, h := range haulers {
		if h.ID == id {
			return h, true
		}
	}
	return Hauler{}, false
}
