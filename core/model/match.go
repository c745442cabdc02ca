package model

// MatchStatus follows the external approval workflow.
type MatchStatus string

const (
	MatchSuggested MatchStatus = "suggested"
	MatchApproved  MatchStatus = "approved"
	MatchRejected  MatchStatus = "rejected"
)

// Match is a scored pairing of one export site with one import site.
type Match struct {
	ID              string      `json:"id"`
	ExportSiteID    string      `json:"export_site_id"`
	ImportSiteID    string      `json:"import_site_id"`
	Score           int         `json:"score"`
	Distance        float64     `json:"distance"` // miles, one decimal
	CostSavings     float64     `json:"cost_savings"`
	CarbonReduction float64     `json:"carbon_reduction"`
	Reasons         []string    `json:"reasons"`
	Status          MatchStatus `json:"status"`
}
