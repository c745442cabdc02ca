package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	rankings        prometheus.Counter
	excludedDrivers prometheus.Counter
	driverScores    prometheus.Histogram
)

// newCollectors creates new metric collectors.
func newCollectors() (prometheus.Counter, prometheus.Counter, prometheus.Histogram) {
	r := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_driver_rankings_total",
		Help: "Number of driver rankings computed",
	})
	ex := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_drivers_excluded_total",
		Help: "Drivers excluded because their truck cannot carry the load",
	})
	sc := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dispatch_driver_score",
		Help:    "Composite scores of feasible drivers",
		Buckets: prometheus.LinearBuckets(0, 10, 11),
	})
	return r, ex, sc
}

func init() {
	rankings, excludedDrivers, driverScores = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers dispatch metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(rankings, excludedDrivers, driverScores)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	rankings, excludedDrivers, driverScores = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
