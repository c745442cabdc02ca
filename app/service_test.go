package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/soilmatch/config"
)

func TestService_SeedAndServe(t *testing.T) {
	seedPath := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(seedPath, []byte(`{
		"permits": [{"id":"p1","project_type":"Infrastructure","description":"mass grading for new construction","estimated_earthwork_flag":"yes"}]
	}`), 0o644))

	cfg := &config.Config{Store: config.StoreConfig{SeedFile: seedPath}, Server: config.ServerConfig{Token: "t"}}
	cfg.SetDefaults()
	require.NoError(t, cfg.Validate())

	svc, err := New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })

	req := httptest.NewRequest(http.MethodGet, "/api/permits/p1/score", nil)
	req.Header.Set("Authorization", "Bearer t")
	rr := httptest.NewRecorder()
	svc.Handler().ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"confidence":"high"`)
}

func TestService_Errors(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{SeedFile: filepath.Join(t.TempDir(), "missing.json")}}
	cfg.SetDefaults()
	_, err := New(context.Background(), cfg)
	assert.Error(t, err)

	cfg = &config.Config{Store: config.StoreConfig{Backend: "redis", RedisURL: "redis://127.0.0.1:1"}}
	cfg.SetDefaults()
	_, err = New(context.Background(), cfg)
	assert.Error(t, err)
}

func TestService_Subscribe(t *testing.T) {
	cfg := &config.Config{}
	cfg.SetDefaults()
	svc, err := New(context.Background(), cfg)
	require.NoError(t, err)

	ch := svc.Subscribe()
	_, err = svc.Engine.RunMatching(context.Background())
	require.NoError(t, err)
	ev := <-ch
	assert.Equal(t, "matches_suggested", ev.Kind())

	require.NoError(t, svc.Close())
	_, ok := <-ch
	assert.False(t, ok)
}
