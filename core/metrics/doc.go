// Package metrics defines the events emitted by the matching and scheduling
// engine and the sink interfaces that record them. MetricsSink is the only
// mandatory interface; richer sinks additionally implement the optional
// recorder interfaces and callers detect them with a type assertion.
package metrics
