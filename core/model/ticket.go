package model

import "time"

// TicketStatus is a stage of the dispatch ticket lifecycle.
type TicketStatus string

const (
	TicketPending         TicketStatus = "pending"
	TicketAccepted        TicketStatus = "accepted"
	TicketEnRoutePickup   TicketStatus = "en-route-pickup"
	TicketLoading         TicketStatus = "loading"
	TicketEnRouteDelivery TicketStatus = "en-route-delivery"
	TicketUnloading       TicketStatus = "unloading"
	TicketDelivered       TicketStatus = "delivered"
	TicketCancelled       TicketStatus = "cancelled"
)

// Active reports whether the ticket occupies its driver.
func (s TicketStatus) Active() bool {
	switch s {
	case TicketAccepted, TicketEnRoutePickup, TicketLoading, TicketEnRouteDelivery, TicketUnloading:
		return true
	}
	return false
}

// TicketTimestamps records when each lifecycle transition happened.
type TicketTimestamps struct {
	Created         time.Time  `json:"created"`
	Accepted        *time.Time `json:"accepted,omitempty"`
	PickupArrived   *time.Time `json:"pickup_arrived,omitempty"`
	Loaded          *time.Time `json:"loaded,omitempty"`
	DeliveryArrived *time.Time `json:"delivery_arrived,omitempty"`
	Delivered       *time.Time `json:"delivered,omitempty"`
	Cancelled       *time.Time `json:"cancelled,omitempty"`
}

// DispatchTicket is the record of one truck's pickup-to-delivery run.
type DispatchTicket struct {
	ID           string           `json:"id"`
	ScheduleID   string           `json:"schedule_id,omitempty"`
	DriverID     string           `json:"driver_id"`
	ExportSiteID string           `json:"export_site_id"`
	ImportSiteID string           `json:"import_site_id"`
	Volume       float64          `json:"volume"`
	ActualVolume *float64         `json:"actual_volume,omitempty"`
	Status       TicketStatus     `json:"status"`
	Timestamps   TicketTimestamps `json:"timestamps"`
	Rating       *float64         `json:"rating,omitempty"` // 1-5
	FuelUsed     float64          `json:"fuel_used"`        // gallons
	Issues       []string         `json:"issues,omitempty"`
}

// DeliveredVolume prefers the measured volume over the planned one.
func (t DispatchTicket) DeliveredVolume() float64 {
	if t.ActualVolume != nil {
		return *t.ActualVolume
	}
	return t.Volume
}
