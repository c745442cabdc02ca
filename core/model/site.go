package model

import (
	"fmt"
	"time"
)

// SiteType distinguishes sites producing surplus soil from sites needing fill.
type SiteType string

const (
	SiteExport SiteType = "export"
	SiteImport SiteType = "import"
)

// SiteStatus tracks the intake lifecycle of a site.
type SiteStatus string

const (
	SitePending  SiteStatus = "pending"
	SiteMatched  SiteStatus = "matched"
	SiteApproved SiteStatus = "approved"
	SiteRejected SiteStatus = "rejected"
)

// Coordinates is a WGS84 position in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Site is a construction site exporting or importing soil.
type Site struct {
	ID            string      `json:"id"`
	Name          string      `json:"name,omitempty"`
	Type          SiteType    `json:"type"`
	Location      Coordinates `json:"location"`
	SoilType      string      `json:"soil_type"`
	Volume        float64     `json:"volume"` // cubic yards
	ScheduleStart time.Time   `json:"schedule_start"`
	ScheduleEnd   time.Time   `json:"schedule_end"`
	Contaminated  bool        `json:"contaminated"`
	Status        SiteStatus  `json:"status"`
}

// Validate checks the site invariants.
func (s Site) Validate() error {
	if s.Type != SiteExport && s.Type != SiteImport {
		return fmt.Errorf("site %s: %w: %q", s.ID, ErrUnknownSiteType, s.Type)
	}
	if s.Volume <= 0 {
		return fmt.Errorf("site %s: %w", s.ID, ErrInvalidVolume)
	}
	return nil
}

// WindowOverlaps reports whether the schedule windows of both sites share at
// least one instant. Bounds are inclusive.
func (s Site) WindowOverlaps(o Site) bool {
	return !s.ScheduleStart.After(o.ScheduleEnd) && !o.ScheduleStart.After(s.ScheduleEnd)
}

// SiteIndex maps site ids to sites.
type SiteIndex map[string]Site

// IndexSites builds a SiteIndex. Later duplicates win.
func IndexSites(sites []Site) SiteIndex {
	idx := make(SiteIndex, len(sites))
	for _, s := range sites {
		idx[s.ID] = s
	}
	return idx
}
