package apiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/barber-dashboard/internal/config"
	"github.com/spec-kit/barber-dashboard/internal/credential"
)

func TestProbe_Check(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		assert.NotEmpty(t, r.URL.Query().Get("_t"))
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(healthy.Close)

	unhealthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(unhealthy.Close)

	cfg := &config.Config{}
	probe := NewProbe(cfg, nil, nil)

	assert.True(t, probe.Check(context.Background(), healthy.URL))
	assert.False(t, probe.Check(context.Background(), unhealthy.URL))
}

func TestProbe_DetectBestPersistsOverride(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(down.Close)

	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(up.Close)

	override := credential.NewMemoryStore("override")
	cfg := &config.Config{}
	cfg.App.Env = config.EnvLocal
	cfg.API.LocalURL = down.URL
	cfg.API.ProductionURL = up.URL

	probe := NewProbe(cfg, override, nil)

	best, ok := probe.DetectBest(context.Background())
	require.True(t, ok)
	assert.Equal(t, up.URL, best)

	saved, err := override.Read()
	require.NoError(t, err)
	assert.Equal(t, up.URL, saved)
}
