// Package scheduler turns approved matches into transportation schedules.
// It generates routes, assigns a hauler according to a selection policy,
// sizes the truck fleet, predicts delays and attaches conflict alerts. The
// Simulator recomputes a hypothetical schedule from overrides without
// touching the baseline.
package scheduler
