// Package prediction provides interfaces for forecasting delays that affect a
// haul: weather risk for a given day and traffic delay for a departure hour.
// Predictions are injected into the scheduler so that tests can pin them.
package prediction
