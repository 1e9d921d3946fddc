package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/barber-dashboard/internal/apiclient"
	"github.com/spec-kit/barber-dashboard/internal/config"
	"github.com/spec-kit/barber-dashboard/internal/credential"
)

type upstream struct {
	srv        *httptest.Server
	meCalls    atomic.Int64
	loginCode  int
	validToken string
}

// handle registers fn for a single method; the Go 1.22 "METHOD /path"
// mux patterns are unavailable on the 1.21 toolchain this builds with.
func handle(mux *http.ServeMux, method, path string, fn http.HandlerFunc) {
	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		fn(w, r)
	})
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()
	u := &upstream{loginCode: http.StatusOK, validToken: "tok-abc"}

	mux := http.NewServeMux()
	handle(mux, http.MethodPost, "/session", func(w http.ResponseWriter, r *http.Request) {
		if u.loginCode != http.StatusOK {
			w.WriteHeader(u.loginCode)
			return
		}
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "secret" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid credentials"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":            "u-1",
			"name":          "Owner",
			"email":         req.Email,
			"token":         u.validToken,
			"subscriptions": map[string]string{"id": "s-1", "status": "active"},
		})
	})
	handle(mux, http.MethodPost, "/users", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	handle(mux, http.MethodGet, "/me", func(w http.ResponseWriter, r *http.Request) {
		u.meCalls.Add(1)
		if r.Header.Get("Authorization") != "Bearer "+u.validToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":    "u-1",
			"name":  "Owner",
			"email": "owner@shop.com",
		})
	})

	u.srv = httptest.NewServer(mux)
	t.Cleanup(u.srv.Close)
	return u
}

type harness struct {
	ctrl   *Controller
	creds  *credential.Reconciler
	stores []credential.Store
	routes []string
}

func newHarness(t *testing.T, u *upstream) *harness {
	t.Helper()

	h := &harness{
		stores: []credential.Store{
			credential.NewMemoryStore("cookie"),
			credential.NewMemoryStore("file"),
			credential.NewMemoryStore("session"),
		},
	}
	h.creds = credential.NewReconciler(credential.ReconcilerOptions{
		Stores:      h.stores,
		Email:       credential.NewMemoryStore("email"),
		Marker:      credential.NewMemoryStore("marker"),
		DefaultTTL:  24 * time.Hour,
		RememberTTL: 30 * 24 * time.Hour,
	})

	client, err := apiclient.New(apiclient.Options{
		BaseURL:  u.srv.URL,
		Env:      config.EnvLocal,
		Creds:    h.creds,
		Timezone: "UTC",
	})
	require.NoError(t, err)

	h.ctrl = NewController(Dependencies{
		Client:   client,
		Creds:    h.creds,
		Navigate: func(target string) { h.routes = append(h.routes, target) },
	})
	return h
}

func (h *harness) lastRoute() string {
	if len(h.routes) == 0 {
		return ""
	}
	return h.routes[len(h.routes)-1]
}

func TestController_SignInPersistsEverywhereAndRedirects(t *testing.T) {
	u := newUpstream(t)
	h := newHarness(t, u)

	err := h.ctrl.SignIn(context.Background(), "owner@shop.com", "secret", true)
	require.NoError(t, err)

	for _, store := range h.stores {
		val, readErr := store.Read()
		require.NoError(t, readErr)
		assert.Equal(t, "tok-abc", val, store.Name())
	}

	assert.Equal(t, "/dashboard", h.lastRoute())
	assert.True(t, h.ctrl.Authenticated())
	assert.True(t, h.ctrl.Premium())
	assert.Equal(t, "owner@shop.com", h.ctrl.SavedEmail())
}

func TestController_SignInWithoutRememberClearsSavedEmail(t *testing.T) {
	u := newUpstream(t)
	h := newHarness(t, u)

	h.creds.SaveEmail("stale@shop.com")
	require.NoError(t, h.ctrl.SignIn(context.Background(), "owner@shop.com", "secret", false))
	assert.Empty(t, h.ctrl.SavedEmail())
}

func TestController_SignInFailurePropagatesNormalizedError(t *testing.T) {
	u := newUpstream(t)
	h := newHarness(t, u)

	err := h.ctrl.SignIn(context.Background(), "owner@shop.com", "wrong", false)
	require.Error(t, err)

	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apiclient.CategoryValidation, apiErr.Category)
	assert.False(t, h.ctrl.Authenticated())
	assert.Empty(t, h.lastRoute())
}

func TestController_SignInRateLimited(t *testing.T) {
	u := newUpstream(t)
	u.loginCode = http.StatusTooManyRequests
	h := newHarness(t, u)

	err := h.ctrl.SignIn(context.Background(), "owner@shop.com", "secret", false)
	require.Error(t, err)

	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.RateLimited)
}

func TestController_SignUpRedirectsToLogin(t *testing.T) {
	u := newUpstream(t)
	h := newHarness(t, u)

	require.NoError(t, h.ctrl.SignUp(context.Background(), "Owner", "owner@shop.com", "secret"))
	assert.Equal(t, "/login", h.lastRoute())
}

func TestController_SignOutIsIdempotentAndNeverFails(t *testing.T) {
	u := newUpstream(t)
	h := newHarness(t, u)

	require.NoError(t, h.ctrl.SignIn(context.Background(), "owner@shop.com", "secret", true))

	for i := 0; i < 2; i++ {
		h.ctrl.SignOut()

		for _, store := range h.stores {
			val, err := store.Read()
			require.NoError(t, err)
			assert.Empty(t, val, store.Name())
		}
		assert.Empty(t, h.ctrl.SavedEmail())
		assert.False(t, h.ctrl.Authenticated())
		assert.Equal(t, "/login?logout=true", h.lastRoute())
		assert.True(t, h.creds.JustLoggedOut())
	}
}

func TestController_BootstrapSkipsAfterLogout(t *testing.T) {
	u := newUpstream(t)
	h := newHarness(t, u)

	h.creds.Persist("tok-abc", false)
	h.creds.MarkLoggedOut()

	require.NoError(t, h.ctrl.Bootstrap(context.Background(), "/dashboard", false))
	assert.False(t, h.ctrl.Authenticated())
	assert.Zero(t, u.meCalls.Load(), "no who-am-I probe after a fresh logout")
	assert.False(t, h.creds.JustLoggedOut(), "marker cleared once off the login screen")
}

func TestController_BootstrapKeepsMarkerOnLoginScreen(t *testing.T) {
	u := newUpstream(t)
	h := newHarness(t, u)

	h.creds.MarkLoggedOut()
	require.NoError(t, h.ctrl.Bootstrap(context.Background(), "/login", false))
	assert.True(t, h.creds.JustLoggedOut())
}

func TestController_BootstrapRestoresSession(t *testing.T) {
	u := newUpstream(t)
	h := newHarness(t, u)

	h.creds.Persist("tok-abc", false)

	require.NoError(t, h.ctrl.Bootstrap(context.Background(), "/dashboard", false))
	assert.True(t, h.ctrl.Authenticated())
	assert.Equal(t, "Owner", h.ctrl.User().Name)
}

func TestController_BootstrapWithRejectedTokenSignsOut(t *testing.T) {
	u := newUpstream(t)
	h := newHarness(t, u)

	h.creds.Persist("expired-token", false)

	err := h.ctrl.Bootstrap(context.Background(), "/dashboard", false)
	require.Error(t, err)

	for _, store := range h.stores {
		val, readErr := store.Read()
		require.NoError(t, readErr)
		assert.Empty(t, val, store.Name())
	}
	assert.False(t, h.ctrl.Authenticated())
	assert.Contains(t, h.lastRoute(), "logout=true")
}

func TestController_BootstrapWithoutTokenIsQuiet(t *testing.T) {
	u := newUpstream(t)
	h := newHarness(t, u)

	require.NoError(t, h.ctrl.Bootstrap(context.Background(), "/dashboard", false))
	assert.False(t, h.ctrl.Authenticated())
	assert.Zero(t, u.meCalls.Load())
}
