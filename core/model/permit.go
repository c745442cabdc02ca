package model

import "time"

// EarthworkFlag is the permit source's own estimate of earthwork.
type EarthworkFlag string

const (
	EarthworkYes     EarthworkFlag = "yes"
	EarthworkNo      EarthworkFlag = "no"
	EarthworkUnknown EarthworkFlag = "unknown"
)

// Permit is a municipal building permit supplied by an external source.
type Permit struct {
	ID                     string        `json:"id"`
	PermitNumber           string        `json:"permit_number,omitempty"`
	ProjectName            string        `json:"project_name,omitempty"`
	ProjectType            string        `json:"project_type"`
	Description            string        `json:"description"`
	Address                string        `json:"address,omitempty"`
	Valuation              float64       `json:"valuation,omitempty"`
	IssuedDate             time.Time     `json:"issued_date,omitempty"`
	EstimatedEarthworkFlag EarthworkFlag `json:"estimated_earthwork_flag"`
	Location               *Coordinates  `json:"location,omitempty"`
}

// Confidence grades a heuristic result.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)
