package matching

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/soilmatch/core/ids"
	"github.com/kilianp07/soilmatch/core/model"
)

var (
	jan1 = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	feb1 = time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	mar1 = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	apr1 = time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	jun1 = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	austin = model.Coordinates{Lat: 30.2672, Lng: -97.7431}
)

func newMatcher() *Matcher { return NewMatcher(DefaultConfig(), ids.NewSeeded(1), nil) }

func site(id string, typ model.SiteType, loc model.Coordinates, soil string, vol float64, start, end time.Time) model.Site {
	return model.Site{ID: id, Type: typ, Location: loc, SoilType: soil, Volume: vol,
		ScheduleStart: start, ScheduleEnd: end, Status: model.SitePending}
}

func TestMatcher_AustinClayScenario(t *testing.T) {
	exp := site("e1", model.SiteExport, austin, "clay", 5000, jan1, mar1)
	// 8 miles due north.
	imp := site("i1", model.SiteImport, model.Coordinates{Lat: austin.Lat + 8.0/69.1, Lng: austin.Lng}, "clay", 5200, feb1, apr1)

	res := newMatcher().Match([]model.Site{exp, imp})
	require.Len(t, res.Matches, 1)
	m := res.Matches[0]
	assert.GreaterOrEqual(t, m.Score, 80)
	assert.Equal(t, 99, m.Score)
	assert.InDelta(t, 8.0, m.Distance, 0.1)
	assert.Equal(t, model.MatchSuggested, m.Status)
	assert.Contains(t, m.Reasons, "Matching soil type (clay)")
	assert.Contains(t, m.Reasons, "Very close proximity (under 10 miles)")
	assert.Contains(t, m.Reasons, "Excellent overall match")
	assert.Equal(t, float64(int64(m.CostSavings)), m.CostSavings)
}

func TestMatcher_Penalties(t *testing.T) {
	m := newMatcher()
	exp := site("e", model.SiteExport, austin, "clay", 1000, jan1, mar1)
	imp := site("i", model.SiteImport, austin, "clay", 1000, jan1, mar1)
	assert.Equal(t, 100, m.Evaluate(exp, imp).Score)

	imp.SoilType = "sand"
	assert.Equal(t, 80, m.Evaluate(exp, imp).Score)

	imp.SoilType = "clay"
	exp.Contaminated = true
	ev := m.Evaluate(exp, imp)
	assert.Equal(t, 75, ev.Score)
	assert.NotContains(t, ev.Reasons, "Clean soil, no contamination")

	exp.Contaminated = false
	imp.ScheduleStart, imp.ScheduleEnd = apr1, jun1
	assert.Equal(t, 70, m.Evaluate(exp, imp).Score)

	imp.ScheduleStart, imp.ScheduleEnd = jan1, mar1
	imp.Volume = 500
	ev = m.Evaluate(exp, imp)
	assert.Equal(t, 93, ev.Score) // 100 - 0.5*15 = 92.5 rounds up
	assert.NotContains(t, ev.Reasons, "Compatible volumes")
}

func TestMatcher_DistanceBands(t *testing.T) {
	m := newMatcher()
	exp := site("e", model.SiteExport, austin, "clay", 1000, jan1, mar1)
	for _, tc := range []struct {
		miles float64
		want  int
	}{{5, 100}, {15, 95}, {30, 85}, {60, 70}} {
		imp := site("i", model.SiteImport, model.Coordinates{Lat: austin.Lat + tc.miles/69.1, Lng: austin.Lng}, "clay", 1000, jan1, mar1)
		assert.Equal(t, tc.want, m.Evaluate(exp, imp).Score, "%v miles", tc.miles)
	}
}

func TestMatcher_DiscardsLowScores(t *testing.T) {
	exp := site("e", model.SiteExport, austin, "clay", 1000, jan1, feb1)
	exp.Contaminated = true
	// 60 miles away, different soil, no window overlap: 100-30-20-25-30 < 40.
	imp := site("i", model.SiteImport, model.Coordinates{Lat: austin.Lat + 60/69.1, Lng: austin.Lng}, "sand", 1000, apr1, jun1)
	res := newMatcher().Match([]model.Site{exp, imp})
	assert.Empty(t, res.Matches)
	assert.Equal(t, 1, res.PairsEvaluated)
}

func TestMatcher_OnlyPendingSites(t *testing.T) {
	exp := site("e", model.SiteExport, austin, "clay", 1000, jan1, mar1)
	imp := site("i", model.SiteImport, austin, "clay", 1000, jan1, mar1)
	imp.Status = model.SiteMatched
	res := newMatcher().Match([]model.Site{exp, imp})
	assert.Empty(t, res.Matches)
	assert.Equal(t, 0, res.ImportSites)
}

func TestMatcher_SortedDescendingStable(t *testing.T) {
	exp1 := site("e1", model.SiteExport, austin, "clay", 1000, jan1, mar1)
	exp2 := site("e2", model.SiteExport, austin, "sand", 1000, jan1, mar1)
	imp1 := site("i1", model.SiteImport, austin, "sand", 1000, jan1, mar1)
	imp2 := site("i2", model.SiteImport, austin, "clay", 1000, jan1, mar1)

	res := newMatcher().Match([]model.Site{exp1, imp1, exp2, imp2})
	require.Len(t, res.Matches, 4)
	got := make([]string, 0, 4)
	for _, m := range res.Matches {
		got = append(got, m.ExportSiteID+"/"+m.ImportSiteID)
	}
	assert.Equal(t, []string{"e1/i2", "e2/i1", "e1/i1", "e2/i2"}, got)
}

func TestMatcher_DoesNotMutateInput(t *testing.T) {
	sites := []model.Site{
		site("e", model.SiteExport, austin, "clay", 1000, jan1, mar1),
		site("i", model.SiteImport, austin, "clay", 1000, jan1, mar1),
	}
	before := append([]model.Site(nil), sites...)
	newMatcher().Match(sites)
	assert.Equal(t, before, sites)
}

func TestMatcher_ThresholdProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	soils := []string{"clay", "sand", "loam"}
	var sites []model.Site
	for i := 0; i < 30; i++ {
		typ := model.SiteExport
		if i%2 == 1 {
			typ = model.SiteImport
		}
		start := jan1.AddDate(0, rng.Intn(6), 0)
		s := site(fmt.Sprintf("s%d", i), typ,
			model.Coordinates{Lat: austin.Lat + rng.Float64() - 0.5, Lng: austin.Lng + rng.Float64() - 0.5},
			soils[rng.Intn(len(soils))], float64(100+rng.Intn(5000)), start, start.AddDate(0, 1, 0))
		s.Contaminated = rng.Intn(4) == 0
		sites = append(sites, s)
	}
	m := newMatcher()
	res := m.Match(sites)
	emitted := map[string]int{}
	for _, mt := range res.Matches {
		emitted[mt.ExportSiteID+"/"+mt.ImportSiteID] = mt.Score
	}
	for _, e := range sites {
		if e.Type != model.SiteExport {
			continue
		}
		for _, i := range sites {
			if i.Type != model.SiteImport {
				continue
			}
			ev := m.Evaluate(e, i)
			assert.GreaterOrEqual(t, ev.Score, 0)
			assert.LessOrEqual(t, ev.Score, 100)
			score, ok := emitted[e.ID+"/"+i.ID]
			assert.Equal(t, ev.Score > 40, ok, "pair %s/%s score %d", e.ID, i.ID, ev.Score)
			if ok {
				assert.Equal(t, ev.Score, score)
			}
		}
	}
}

func TestMatcher_GridPrefilter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDistanceMiles = 20
	m := NewMatcher(cfg, ids.NewSeeded(1), nil)
	exp := site("e", model.SiteExport, austin, "clay", 1000, jan1, mar1)
	near := site("near", model.SiteImport, model.Coordinates{Lat: austin.Lat + 5/69.1, Lng: austin.Lng}, "clay", 1000, jan1, mar1)
	far := site("far", model.SiteImport, model.Coordinates{Lat: austin.Lat + 40/69.1, Lng: austin.Lng}, "clay", 1000, jan1, mar1)

	res := m.Match([]model.Site{exp, near, far})
	require.Len(t, res.Matches, 1)
	assert.Equal(t, "near", res.Matches[0].ImportSiteID)
	assert.Equal(t, 1, res.PairsEvaluated)

	// Without the pre-filter the far site still qualifies.
	res = newMatcher().Match([]model.Site{exp, near, far})
	assert.Len(t, res.Matches, 2)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	cfg.MinScore = Float(120)
	assert.Error(t, cfg.Validate())
	cfg.MinScore = Float(40)
	cfg.WindowPenalty = Float(-1)
	assert.Error(t, cfg.Validate())
}

func TestConfig_ExplicitZeroKept(t *testing.T) {
	cfg := Config{ContaminationPenalty: Float(0), MinScore: Float(0)}
	cfg.SetDefaults()
	assert.Equal(t, 0.0, *cfg.ContaminationPenalty)
	assert.Equal(t, 0.0, *cfg.MinScore)
	assert.Equal(t, 20.0, *cfg.SoilMismatchPenalty)

	exp := model.Site{ID: "e", Type: model.SiteExport, Location: austin, SoilType: "clay", Volume: 1000, Contaminated: true,
		ScheduleStart: jan1, ScheduleEnd: mar1}
	imp := model.Site{ID: "i", Type: model.SiteImport, Location: austin, SoilType: "clay", Volume: 1000,
		ScheduleStart: jan1, ScheduleEnd: mar1}
	withPenalty := NewMatcher(Config{}, ids.NewSeeded(1), nil).Evaluate(exp, imp)
	without := NewMatcher(cfg, ids.NewSeeded(1), nil).Evaluate(exp, imp)
	assert.Equal(t, 100, without.Score)
	assert.Equal(t, 75, withPenalty.Score)
}
