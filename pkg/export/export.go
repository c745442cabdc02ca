// Package export writes engine outputs as JSON or CSV.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kilianp07/soilmatch/core/model"
	"github.com/kilianp07/soilmatch/core/permit"
)

// Format names an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat accepts "json" or "csv", case-insensitively. Empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// ContentType returns the HTTP media type of f.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv"
	}
	return "application/json"
}

// WriteJSON writes v to w as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteMatchesCSV writes one row per match.
func WriteMatchesCSV(w io.Writer, matches []model.Match) error {
	return writeCSV(w,
		[]string{"id", "export_site_id", "import_site_id", "score", "distance_miles", "cost_savings", "carbon_reduction", "status", "reasons"},
		len(matches), func(i int) []string {
			m := matches[i]
			return []string{
				m.ID, m.ExportSiteID, m.ImportSiteID,
				strconv.Itoa(m.Score),
				ftoa(m.Distance), ftoa(m.CostSavings), ftoa(m.CarbonReduction),
				string(m.Status),
				strings.Join(m.Reasons, "; "),
			}
		})
}

// WriteSchedulesCSV writes one row per schedule.
func WriteSchedulesCSV(w io.Writer, schedules []model.Schedule) error {
	return writeCSV(w,
		[]string{"id", "match_id", "hauler_id", "date", "start_time", "end_time", "route_type", "route_cost", "volume", "trucks", "status", "alerts"},
		len(schedules), func(i int) []string {
			s := schedules[i]
			alerts := make([]string, len(s.Alerts))
			for j, a := range s.Alerts {
				alerts[j] = string(a.Type)
			}
			return []string{
				s.ID, s.MatchID, s.HaulerID,
				s.Date.Format("2006-01-02"), s.StartTime, s.EndTime,
				string(s.Route.Type), ftoa(s.Route.Cost),
				ftoa(s.VolumeScheduled), strconv.Itoa(s.TrucksNeeded),
				string(s.Status),
				strings.Join(alerts, "; "),
			}
		})
}

// WritePermitScoresCSV writes one row per permit score.
func WritePermitScoresCSV(w io.Writer, scores []permit.Score) error {
	return writeCSV(w,
		[]string{"permit_id", "score", "confidence", "factors"},
		len(scores), func(i int) []string {
			s := scores[i]
			return []string{s.PermitID, strconv.Itoa(s.Score), string(s.Confidence), strings.Join(s.Factors, "; ")}
		})
}

func writeCSV(w io.Writer, header []string, n int, row func(int) []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := cw.Write(row(i)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ftoa(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
