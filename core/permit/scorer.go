// Package permit estimates how likely a building permit is to involve
// earthwork.
package permit

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/kilianp07/soilmatch/core/logger"
	"github.com/kilianp07/soilmatch/core/model"
)

// Score is the earthwork likelihood of one permit.
type Score struct {
	PermitID   string           `json:"permit_id"`
	Score      int              `json:"score"`
	Confidence model.Confidence `json:"confidence"`
	Factors    []string         `json:"factors"`
}

// Scorer applies the earthwork heuristic.
type Scorer struct {
	cfg Config
	log logger.Logger
}

// NewScorer validates cfg and returns a Scorer.
func NewScorer(cfg Config, log logger.Logger) (*Scorer, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{cfg: cfg, log: logger.OrNop(log)}, nil
}

// Score classifies p.
func (s *Scorer) Score(p model.Permit) Score {
	score := s.cfg.BaseScore
	var factors []string

	switch p.EstimatedEarthworkFlag {
	case model.EarthworkYes:
		score += *s.cfg.FlagAdjustment
		factors = append(factors, "Permit flags earthwork")
	case model.EarthworkNo:
		score -= *s.cfg.FlagAdjustment
		factors = append(factors, "Permit flags no earthwork")
	}

	if rate, ok := s.cfg.BaseRates[strings.ToLower(strings.TrimSpace(p.ProjectType))]; ok {
		adj := (rate - s.cfg.TypeBaseline) * s.cfg.TypeFactor
		if adj != 0 {
			score += adj
			factors = append(factors, fmt.Sprintf("Project type %s (%+.1f)", p.ProjectType, adj))
		}
	} else if p.ProjectType != "" {
		s.log.Debugf("permit %s: no base rate for project type %q", p.ID, p.ProjectType)
	}

	text := strings.ToLower(p.Description + " " + p.ProjectName)
	var hits []string
	for _, kw := range s.cfg.Keywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			hits = append(hits, kw)
		}
	}
	if len(hits) > 0 {
		score += math.Min(float64(len(hits))*(*s.cfg.KeywordPoints), s.cfg.KeywordCap)
		factors = append(factors, "Earthwork keywords: "+strings.Join(hits, ", "))
	}

	desc := strings.ToLower(p.Description)
	if containsAny(desc, s.cfg.MultiPhasePhrases) {
		score += *s.cfg.MultiPhaseBonus
		factors = append(factors, "Multi-phase project")
	}
	if containsAny(desc, s.cfg.NewConstructionPhrases) {
		score += *s.cfg.NewConstructionBonus
		factors = append(factors, "New construction")
	}

	score = math.Max(0, math.Min(100, score))
	return Score{
		PermitID:   p.ID,
		Score:      int(math.Round(score)),
		Confidence: s.confidence(p.EstimatedEarthworkFlag, len(factors)),
		Factors:    factors,
	}
}

// ScoreAll scores every permit and sorts the results by score, highest
// first. Ties keep input order.
func (s *Scorer) ScoreAll(permits []model.Permit) []Score {
	out := make([]Score, 0, len(permits))
	for _, p := range permits {
		out = append(out, s.Score(p))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func (s *Scorer) confidence(flag model.EarthworkFlag, factors int) model.Confidence {
	switch {
	case flag != model.EarthworkUnknown && flag != "" && factors >= s.cfg.HighConfidenceFactors:
		return model.ConfidenceHigh
	case factors <= s.cfg.LowConfidenceFactors:
		return model.ConfidenceLow
	default:
		return model.ConfidenceMedium
	}
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, strings.ToLower(p)) {
			return true
		}
	}
	return false
}
