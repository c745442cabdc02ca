// Package matching pairs export sites with import sites and ranks the pairs.
package matching

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/kilianp07/soilmatch/core/geo"
	"github.com/kilianp07/soilmatch/core/ids"
	"github.com/kilianp07/soilmatch/core/logger"
	"github.com/kilianp07/soilmatch/core/model"
)

// Evaluation is the scored outcome of one export/import pair.
type Evaluation struct {
	Score           int
	Distance        float64 // miles, unrounded
	VolumeRatio     float64
	CostSavings     float64
	CarbonReduction float64
	Reasons         []string
}

// Result is the output of a matching run.
type Result struct {
	Matches        []model.Match `json:"matches"`
	ExportSites    int           `json:"export_sites"`
	ImportSites    int           `json:"import_sites"`
	PairsEvaluated int           `json:"pairs_evaluated"`
}

// Matcher scores every pending export site against every pending import site.
type Matcher struct {
	cfg Config
	ids ids.Generator
	log logger.Logger
}

// NewMatcher returns a Matcher. Missing collaborators fall back to defaults.
func NewMatcher(cfg Config, gen ids.Generator, log logger.Logger) *Matcher {
	cfg.SetDefaults()
	if gen == nil {
		gen = ids.NewUUIDGenerator()
	}
	return &Matcher{cfg: cfg, ids: gen, log: logger.OrNop(log)}
}

// Evaluate scores a single pair without applying the discard threshold.
func (m *Matcher) Evaluate(exp, imp model.Site) Evaluation {
	dist := geo.DistanceMiles(exp.Location, imp.Location)
	minVol := math.Min(exp.Volume, imp.Volume)
	ratio := minVol / math.Max(exp.Volume, imp.Volume)
	soilMatch := strings.EqualFold(exp.SoilType, imp.SoilType)

	score := 100.0
	for _, b := range m.cfg.DistanceBands {
		if dist > b.AboveMiles {
			score -= b.Penalty
			break
		}
	}
	if !soilMatch {
		score -= *m.cfg.SoilMismatchPenalty
	}
	score -= (1 - ratio) * *m.cfg.VolumeRatioPenalty
	if exp.Contaminated {
		score -= *m.cfg.ContaminationPenalty
	}
	if !exp.WindowOverlaps(imp) {
		score -= *m.cfg.WindowPenalty
	}
	score = math.Round(math.Max(0, math.Min(100, score)))

	ev := Evaluation{
		Score:           int(score),
		Distance:        dist,
		VolumeRatio:     ratio,
		CostSavings:     math.Round(dist * m.cfg.CostPerYardMile * minVol),
		CarbonReduction: math.Round(dist * m.cfg.CarbonPerYardMile * minVol),
	}
	for _, p := range m.cfg.ProximityReasons {
		if dist < p.MaxMiles {
			ev.Reasons = append(ev.Reasons, p.Text)
			break
		}
	}
	if soilMatch {
		ev.Reasons = append(ev.Reasons, fmt.Sprintf("Matching soil type (%s)", exp.SoilType))
	}
	if ratio > m.cfg.CompatibleVolumeRatio {
		ev.Reasons = append(ev.Reasons, "Compatible volumes")
	}
	if !exp.Contaminated {
		ev.Reasons = append(ev.Reasons, "Clean soil, no contamination")
	}
	if score > m.cfg.ExcellentScore {
		ev.Reasons = append(ev.Reasons, "Excellent overall match")
	}
	return ev
}

// Match builds ranked candidates from the pending sites. Input sites are not
// modified. Matches are sorted by descending score; ties keep export-then-import
// iteration order.
func (m *Matcher) Match(sites []model.Site) Result {
	var exports, imports []model.Site
	for _, s := range sites {
		if s.Status != model.SitePending {
			continue
		}
		if err := s.Validate(); err != nil {
			m.log.Warnf("skipping site: %v", err)
			continue
		}
		switch s.Type {
		case model.SiteExport:
			exports = append(exports, s)
		case model.SiteImport:
			imports = append(imports, s)
		}
	}
	res := Result{ExportSites: len(exports), ImportSites: len(imports)}

	candidates := m.candidates(exports, imports)
	for ei, exp := range exports {
		for _, ii := range candidates(ei) {
			imp := imports[ii]
			res.PairsEvaluated++
			ev := m.Evaluate(exp, imp)
			if float64(ev.Score) <= *m.cfg.MinScore {
				continue
			}
			res.Matches = append(res.Matches, model.Match{
				ID:              m.ids.New("match"),
				ExportSiteID:    exp.ID,
				ImportSiteID:    imp.ID,
				Score:           ev.Score,
				Distance:        geo.Round(ev.Distance, 1),
				CostSavings:     ev.CostSavings,
				CarbonReduction: ev.CarbonReduction,
				Reasons:         ev.Reasons,
				Status:          model.MatchSuggested,
			})
		}
	}
	sort.SliceStable(res.Matches, func(i, j int) bool {
		return res.Matches[i].Score > res.Matches[j].Score
	})
	m.log.Debugw("matching complete", map[string]any{
		"exports": res.ExportSites,
		"imports": res.ImportSites,
		"pairs":   res.PairsEvaluated,
		"matches": len(res.Matches),
	})
	return res
}

// candidates returns, per export index, the import indices to score in
// ascending order. With the pre-filter disabled every import is a candidate.
func (m *Matcher) candidates(exports, imports []model.Site) func(int) []int {
	if m.cfg.MaxDistanceMiles <= 0 {
		all := make([]int, len(imports))
		for i := range all {
			all[i] = i
		}
		return func(int) []int { return all }
	}
	pts := make([]model.Coordinates, len(imports))
	for i, s := range imports {
		pts[i] = s.Location
	}
	grid := geo.NewGrid(pts, m.cfg.MaxDistanceMiles)
	return func(ei int) []int { return grid.Within(exports[ei].Location) }
}
