package model

import "fmt"

// DriverStatus reports a driver's current duty state.
type DriverStatus string

const (
	DriverAvailable DriverStatus = "available"
	DriverOnJob     DriverStatus = "on-job"
	DriverOffDuty   DriverStatus = "off-duty"
)

// Driver is an individual truck operator working for a hauler.
type Driver struct {
	ID               string       `json:"id"`
	Name             string       `json:"name,omitempty"`
	HaulerID         string       `json:"hauler_id"`
	TruckCapacity    float64      `json:"truck_capacity"` // cubic yards
	Status           DriverStatus `json:"status"`
	PerformanceScore float64      `json:"performance_score"` // 0-100
	CurrentLocation  *Coordinates `json:"current_location,omitempty"`
}

// Validate checks that the driver can carry a load at all.
func (d Driver) Validate() error {
	if d.TruckCapacity <= 0 {
		return fmt.Errorf("driver %s: %w", d.ID, ErrInvalidCapacity)
	}
	return nil
}
