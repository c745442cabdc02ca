package scheduler

import (
	"fmt"
	"sort"

	"github.com/kilianp07/soilmatch/core/model"
)

const (
	// PolicyReliability prefers the most reliable eligible hauler.
	PolicyReliability = "reliability"
	// PolicyCost prefers the eligible hauler with the cheapest trip.
	PolicyCost = "cost"
)

// HaulerPolicy picks a hauler for a schedule needing trucks trucks on route.
type HaulerPolicy interface {
	Select(haulers []model.Hauler, trucks int, route model.Route) (model.Hauler, bool)
}

// ReliabilityPolicy ranks eligible haulers by reliability score descending.
type ReliabilityPolicy struct{}

// Select implements HaulerPolicy.
func (ReliabilityPolicy) Select(haulers []model.Hauler, trucks int, _ model.Route) (model.Hauler, bool) {
	return pickFirst(eligible(haulers, trucks), func(a, b model.Hauler) bool {
		return a.ReliabilityScore > b.ReliabilityScore
	})
}

// CostPolicy ranks eligible haulers by cost per mile times route distance.
type CostPolicy struct{}

// Select implements HaulerPolicy.
func (CostPolicy) Select(haulers []model.Hauler, trucks int, route model.Route) (model.Hauler, bool) {
	return pickFirst(eligible(haulers, trucks), func(a, b model.Hauler) bool {
		return a.CostPerMile*route.Distance < b.CostPerMile*route.Distance
	})
}

// PolicyByName resolves a configured policy name.
func PolicyByName(name string) (HaulerPolicy, error) {
	switch name {
	case PolicyReliability, "":
		return ReliabilityPolicy{}, nil
	case PolicyCost:
		return CostPolicy{}, nil
	default:
		return nil, fmt.Errorf("scheduling: unknown hauler policy %q", name)
	}
}

func eligible(haulers []model.Hauler, trucks int) []model.Hauler {
	var out []model.Hauler
	for _, h := range haulers {
		if h.CanCover(trucks) {
			out = append(out, h)
		}
	}
	return out
}

func pickFirst(list []model.Hauler, less func(a, b model.Hauler) bool) (model.Hauler, bool) {
	if len(list) == 0 {
		return model.Hauler{}, false
	}
	sort.SliceStable(list, func(i, j int) bool { return less(list[i], list[j]) })
	return list[0], true
}
