package credential

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAccess simulates a browser's cookie round trip: values written to
// the response become readable on the next request.
type fakeAccess struct {
	host    string
	cookies map[string]string
	written []*http.Cookie
}

func newFakeAccess(host string) *fakeAccess {
	return &fakeAccess{host: host, cookies: map[string]string{}}
}

func (f *fakeAccess) Cookie(name string) string { return f.cookies[name] }

func (f *fakeAccess) SetCookie(c *http.Cookie) {
	f.written = append(f.written, c)
	if c.MaxAge < 0 || c.Value == "" {
		delete(f.cookies, c.Name)
		return
	}
	f.cookies[c.Name] = c.Value
}

func (f *fakeAccess) Hostname() string { return f.host }

func newTestReconciler(t *testing.T) (*Reconciler, *fakeAccess, Store, Store) {
	t.Helper()

	access := newFakeAccess("localhost")
	cookie := NewCookieStore(access, "barber.token")
	persistent := NewMemoryStore("file")
	sessionStore := NewMemoryStore("session")

	rec := NewReconciler(ReconcilerOptions{
		Stores:      []Store{cookie, persistent, sessionStore},
		Email:       NewMemoryStore("email"),
		Marker:      NewMemoryStore("marker"),
		DefaultTTL:  24 * time.Hour,
		RememberTTL: 30 * 24 * time.Hour,
	})
	return rec, access, persistent, sessionStore
}

func TestReconciler_PersistPropagatesToAllStores(t *testing.T) {
	rec, access, persistent, sessionStore := newTestReconciler(t)

	rec.Persist("tok-123", true)

	assert.Equal(t, "tok-123", access.Cookie("barber.token"))

	val, err := persistent.Read()
	require.NoError(t, err)
	assert.Equal(t, "tok-123", val)

	val, err = sessionStore.Read()
	require.NoError(t, err)
	assert.Equal(t, "tok-123", val)

	token, ok := rec.Resolve()
	require.True(t, ok)
	assert.Equal(t, "tok-123", token.Value)
	assert.Equal(t, "cookie", token.Origin)
}

func TestReconciler_CookieLifetimeFollowsRememberFlag(t *testing.T) {
	t.Run("remember off means one day", func(t *testing.T) {
		rec, access, _, _ := newTestReconciler(t)
		rec.Persist("tok", false)

		require.NotEmpty(t, access.written)
		assert.Equal(t, 86400, access.written[0].MaxAge)
	})

	t.Run("remember on means thirty days", func(t *testing.T) {
		rec, access, _, _ := newTestReconciler(t)
		rec.Persist("tok", true)

		require.NotEmpty(t, access.written)
		assert.Equal(t, 30*86400, access.written[0].MaxAge)
	})
}

func TestReconciler_ResolveBackfillsCookieOnly(t *testing.T) {
	rec, access, persistent, sessionStore := newTestReconciler(t)

	require.NoError(t, sessionStore.Write("session-tok", 0))

	token, ok := rec.Resolve()
	require.True(t, ok)
	assert.Equal(t, "session-tok", token.Value)
	assert.Equal(t, "session", token.Origin)

	// Cookie backfilled with the short lifetime.
	assert.Equal(t, "session-tok", access.Cookie("barber.token"))
	require.NotEmpty(t, access.written)
	assert.Equal(t, 86400, access.written[0].MaxAge)

	// Backfill never flows toward the persistent tier.
	val, err := persistent.Read()
	require.NoError(t, err)
	assert.Empty(t, val)
}

func TestReconciler_CookieValueDoesNotLeakDownward(t *testing.T) {
	rec, access, persistent, sessionStore := newTestReconciler(t)
	access.cookies["barber.token"] = "cookie-tok"

	token, ok := rec.Resolve()
	require.True(t, ok)
	assert.Equal(t, "cookie-tok", token.Value)

	val, err := persistent.Read()
	require.NoError(t, err)
	assert.Empty(t, val)

	val, err = sessionStore.Read()
	require.NoError(t, err)
	assert.Empty(t, val)
}

func TestReconciler_ResolveEmptyEverywhere(t *testing.T) {
	rec, _, _, _ := newTestReconciler(t)

	_, ok := rec.Resolve()
	assert.False(t, ok)
}

func TestReconciler_ClearEmptiesEverythingAndIsIdempotent(t *testing.T) {
	rec, access, persistent, sessionStore := newTestReconciler(t)

	rec.Persist("tok", true)
	rec.SaveEmail("owner@shop.com")
	require.Equal(t, "owner@shop.com", rec.SavedEmail())

	for i := 0; i < 2; i++ {
		rec.Clear()

		assert.Empty(t, access.Cookie("barber.token"))
		val, err := persistent.Read()
		require.NoError(t, err)
		assert.Empty(t, val)
		val, err = sessionStore.Read()
		require.NoError(t, err)
		assert.Empty(t, val)
		assert.Empty(t, rec.SavedEmail())

		_, ok := rec.Resolve()
		assert.False(t, ok)
	}
}

func TestReconciler_LogoutMarker(t *testing.T) {
	rec, _, _, _ := newTestReconciler(t)

	assert.False(t, rec.JustLoggedOut())
	rec.MarkLoggedOut()
	assert.True(t, rec.JustLoggedOut())
	rec.ClearLogoutMark()
	assert.False(t, rec.JustLoggedOut())
}

func TestCookieStore_ClearCoversDomainVariants(t *testing.T) {
	access := newFakeAccess("app.barber.example.com")
	store := NewCookieStore(access, "barber.token")

	require.NoError(t, store.Clear())

	var domains []string
	for _, c := range access.written {
		domains = append(domains, c.Domain)
	}
	assert.Contains(t, domains, "")
	assert.Contains(t, domains, ".app.barber.example.com")
	assert.Contains(t, domains, ".example.com")
}

func TestCookieStore_ClearOnLocalhostSkipsDomainVariants(t *testing.T) {
	access := newFakeAccess("localhost")
	store := NewCookieStore(access, "barber.token")

	require.NoError(t, store.Clear())
	require.Len(t, access.written, 1)
	assert.Empty(t, access.written[0].Domain)
}
