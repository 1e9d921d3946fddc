package credential

import (
	"time"

	"go.uber.org/zap"
)

// Token is the resolved session credential together with the store it was
// read from. Expiry is not locally known; validity is only discovered when
// the server rejects a request.
type Token struct {
	Value  string
	Origin string
}

// Reconciler resolves the current session token from an ordered list of
// redundant stores and keeps lagging stores updated. Store operations are
// best-effort throughout: a store that is unavailable degrades silently.
type Reconciler struct {
	stores      []Store
	email       Store
	marker      Store
	defaultTTL  time.Duration
	rememberTTL time.Duration
	log         *zap.Logger
}

// ReconcilerOptions configures a Reconciler.
type ReconcilerOptions struct {
	// Stores in priority order. The first entry is expected to be the
	// cookie tier; it is the only store backfilled on read.
	Stores []Store
	// Email optionally holds the remembered login email.
	Email Store
	// Marker optionally holds the just-logged-out flag.
	Marker Store
	// DefaultTTL is the cookie lifetime without "remember me" (1 day).
	DefaultTTL time.Duration
	// RememberTTL is the cookie lifetime with "remember me" (30 days).
	RememberTTL time.Duration
	Logger      *zap.Logger
}

// NewReconciler builds a reconciler over the given stores.
func NewReconciler(opts ReconcilerOptions) *Reconciler {
	if opts.DefaultTTL <= 0 {
		opts.DefaultTTL = 24 * time.Hour
	}
	if opts.RememberTTL <= 0 {
		opts.RememberTTL = 30 * 24 * time.Hour
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Reconciler{
		stores:      opts.Stores,
		email:       opts.Email,
		marker:      opts.Marker,
		defaultTTL:  opts.DefaultTTL,
		rememberTTL: opts.RememberTTL,
		log:         opts.Logger,
	}
}

// Resolve returns the first non-empty token in store priority order.
// When the token came from a lower tier and the first store is empty, the
// first store is backfilled with the short lifetime so subsequent
// server-rendered requests see it. Backfill never flows the other way.
func (r *Reconciler) Resolve() (Token, bool) {
	for i, store := range r.stores {
		value, err := store.Read()
		if err != nil {
			r.log.Debug("credential store read failed",
				zap.String("store", store.Name()), zap.Error(err))
			continue
		}
		if value == "" {
			continue
		}

		if i > 0 {
			if err := r.stores[0].Write(value, r.defaultTTL); err != nil {
				r.log.Debug("credential backfill failed",
					zap.String("store", r.stores[0].Name()), zap.Error(err))
			}
		}
		return Token{Value: value, Origin: store.Name()}, true
	}
	return Token{}, false
}

// Persist writes the token to every store. The remember flag governs the
// lifetime: 30 days when set, otherwise 1 day.
func (r *Reconciler) Persist(token string, remember bool) {
	ttl := r.defaultTTL
	if remember {
		ttl = r.rememberTTL
	}
	for _, store := range r.stores {
		if err := store.Write(token, ttl); err != nil {
			r.log.Debug("credential store write failed",
				zap.String("store", store.Name()), zap.Error(err))
		}
	}
}

// Clear removes the token from every store, along with the remembered
// email. It never fails: individual store errors are logged and swallowed.
func (r *Reconciler) Clear() {
	for _, store := range r.stores {
		if err := store.Clear(); err != nil {
			r.log.Debug("credential store clear failed",
				zap.String("store", store.Name()), zap.Error(err))
		}
	}
	r.ClearEmail()
}

// SaveEmail remembers the login email for form autofill.
func (r *Reconciler) SaveEmail(email string) {
	if r.email == nil {
		return
	}
	if err := r.email.Write(email, 0); err != nil {
		r.log.Debug("saving remembered email failed", zap.Error(err))
	}
}

// SavedEmail returns the remembered login email, or "".
func (r *Reconciler) SavedEmail() string {
	if r.email == nil {
		return ""
	}
	email, err := r.email.Read()
	if err != nil {
		return ""
	}
	return email
}

// ClearEmail forgets the remembered login email.
func (r *Reconciler) ClearEmail() {
	if r.email == nil {
		return
	}
	if err := r.email.Clear(); err != nil {
		r.log.Debug("clearing remembered email failed", zap.Error(err))
	}
}

// MarkLoggedOut sets the short-lived flag that suppresses automatic
// re-authentication on the next page load.
func (r *Reconciler) MarkLoggedOut() {
	if r.marker == nil {
		return
	}
	if err := r.marker.Write("true", time.Minute); err != nil {
		r.log.Debug("setting logout marker failed", zap.Error(err))
	}
}

// JustLoggedOut reports whether the logout marker is set.
func (r *Reconciler) JustLoggedOut() bool {
	if r.marker == nil {
		return false
	}
	value, err := r.marker.Read()
	return err == nil && value == "true"
}

// ClearLogoutMark removes the logout marker.
func (r *Reconciler) ClearLogoutMark() {
	if r.marker == nil {
		return
	}
	if err := r.marker.Clear(); err != nil {
		r.log.Debug("clearing logout marker failed", zap.Error(err))
	}
}
