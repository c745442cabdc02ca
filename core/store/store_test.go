package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/soilmatch/core/model"
)

func TestMemoryStore_LoadSave(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	got, err := Load[model.Site](ctx, s, Sites)
	require.NoError(t, err)
	assert.Nil(t, got)

	sites := []model.Site{{ID: "s1", Type: model.SiteExport, Volume: 100}, {ID: "s2", Type: model.SiteImport}}
	require.NoError(t, Save(ctx, s, Sites, sites))

	got, err = Load[model.Site](ctx, s, Sites)
	require.NoError(t, err)
	assert.Equal(t, sites, got)

	// Callers own their copies.
	got[0].Volume = 1
	again, err := Load[model.Site](ctx, s, Sites)
	require.NoError(t, err)
	assert.Equal(t, 100.0, again[0].Volume)
}

func TestMemoryStore_SaveNilWritesEmptyList(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, Save[model.Match](ctx, s, Matches, nil))
	raw, err := s.Get(ctx, Matches)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestMemoryStore_Rejects(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	assert.ErrorIs(t, s.Set(ctx, "nope", []byte(`[]`)), ErrUnknownCollection)
	_, err := s.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrUnknownCollection)
	assert.Error(t, s.Set(ctx, Sites, []byte(`{`)))
}

func TestLoad_DecodeError(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, Drivers, []byte(`{"id":"d1"}`)))
	_, err := Load[model.Driver](ctx, s, Drivers)
	assert.Error(t, err)
}

func TestSeedAndDump(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	doc := []byte(`{
		"sites": [{"id":"e1","type":"export","volume":500}],
		"haulers": [{"id":"h1","name":"Acme","trucks_available":3}],
		"permits": [{"id":"p1","project_type":"Office","estimated_earthwork_flag":"no"}]
	}`)
	require.NoError(t, Seed(ctx, s, doc))

	snap, err := Dump(ctx, s)
	require.NoError(t, err)
	require.Len(t, snap.Sites, 1)
	assert.Equal(t, model.SiteExport, snap.Sites[0].Type)
	require.Len(t, snap.Haulers, 1)
	assert.Equal(t, 3, snap.Haulers[0].TrucksAvailable)
	require.Len(t, snap.Permits, 1)
	assert.Equal(t, model.EarthworkNo, snap.Permits[0].EstimatedEarthworkFlag)
	assert.Empty(t, snap.Drivers)

	assert.ErrorIs(t, Seed(ctx, s, []byte(`{"vehicles":[]}`)), ErrUnknownCollection)
	assert.Error(t, Seed(ctx, s, []byte(`[]`)))
}

func TestSeed_UnknownCollectionWritesNothing(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	doc := []byte(`{
		"sites": [{"id":"e1","type":"export","volume":500}],
		"haulers": [{"id":"h1","trucks_available":3}],
		"vehicles": [],
		"permits": [{"id":"p1"}]
	}`)
	for i := 0; i < 20; i++ {
		require.ErrorIs(t, Seed(ctx, s, doc), ErrUnknownCollection)
	}
	snap, err := Dump(ctx, s)
	require.NoError(t, err)
	assert.Empty(t, snap.Sites)
	assert.Empty(t, snap.Haulers)
	assert.Empty(t, snap.Permits)
}
