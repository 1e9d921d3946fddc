package web

import (
	"go.uber.org/zap"

	"github.com/spec-kit/barber-dashboard/internal/apiclient"
	"github.com/spec-kit/barber-dashboard/internal/config"
	"github.com/spec-kit/barber-dashboard/internal/credential"
	"github.com/spec-kit/barber-dashboard/internal/session"
)

// SDK assembles the client stack for each incoming request. The gateway
// serves a single operator's dashboard, so the persistent and
// session-scoped credential tiers are process-wide while the cookie tier
// binds to the request at hand.
type SDK struct {
	cfg *config.Config
	log *zap.Logger

	persistent   credential.Store
	sessionStore credential.Store
	email        credential.Store
	marker       credential.Store
	override     credential.Store
}

// NewSDK builds the shared store tiers. When redis is enabled it replaces
// the credential file as the long-lived tier.
func NewSDK(cfg *config.Config, logger *zap.Logger) *SDK {
	sdk := &SDK{
		cfg:          cfg,
		log:          logger,
		sessionStore: credential.NewMemoryStore("session"),
		marker:       credential.NewMemoryStore("logout-marker"),
	}

	if cfg.Credential.UseRedis {
		client := credential.NewRedisClient(cfg.Redis, logger)
		sdk.persistent = credential.NewRedisStore(client, cfg.Credential.CookieName)
		sdk.email = credential.NewRedisStore(client, cfg.Credential.EmailKey)
		sdk.override = credential.NewRedisStore(client, cfg.Credential.OverrideKey)
	} else {
		path := cfg.Credential.FilePath
		sdk.persistent = credential.NewFileStore(path, cfg.Credential.CookieName)
		sdk.email = credential.NewFileStore(path, cfg.Credential.EmailKey)
		sdk.override = credential.NewFileStore(path, cfg.Credential.OverrideKey)
	}

	return sdk
}

// Override exposes the endpoint override store for the liveness probe.
func (s *SDK) Override() credential.Store {
	return s.override
}

// RequestSession is the per-request client stack. Redirect captures the
// navigation target the lifecycle controller decided on, for the handler
// to relay to the browser.
type RequestSession struct {
	Creds      *credential.Reconciler
	Client     *apiclient.Client
	Controller *session.Controller
	Redirect   string
}

// ForRequest builds the stack around one request's cookies.
func (s *SDK) ForRequest(access credential.CookieAccess) (*RequestSession, error) {
	cookieStore := credential.NewCookieStore(access, s.cfg.Credential.CookieName)

	creds := credential.NewReconciler(credential.ReconcilerOptions{
		Stores:      []credential.Store{cookieStore, s.persistent, s.sessionStore},
		Email:       s.email,
		Marker:      s.marker,
		DefaultTTL:  s.cfg.Credential.DefaultTTL(),
		RememberTTL: s.cfg.Credential.RememberTTL(),
		Logger:      s.log,
	})

	rs := &RequestSession{Creds: creds}

	client, err := apiclient.New(apiclient.Options{
		BaseURL: apiclient.ResolveBaseURL(s.cfg, s.override, s.log),
		Env:     s.cfg.App.Env,
		Timeout: s.cfg.API.RequestTimeout(),
		Creds:   creds,
		Logger:  s.log,
		OnSignOut: func() {
			if rs.Controller != nil {
				rs.Controller.SignOut()
			}
		},
	})
	if err != nil {
		return nil, err
	}

	rs.Client = client
	rs.Controller = session.NewController(session.Dependencies{
		Client:   client,
		Creds:    creds,
		Navigate: func(target string) { rs.Redirect = target },
		Logger:   s.log,
	})
	return rs, nil
}
