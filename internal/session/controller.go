package session

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/barber-dashboard/internal/apiclient"
	"github.com/spec-kit/barber-dashboard/internal/credential"
	"github.com/spec-kit/barber-dashboard/internal/domain"
)

// Navigation targets used by the lifecycle transitions.
const (
	dashboardRoute   = "/dashboard"
	loginRoute       = "/login"
	logoutIndicator  = "/login?logout=true"
	logoutErrorRoute = "/login?logout=true&error=true"
)

// Controller orchestrates sign-in, sign-up, sign-out and the bootstrap
// probe, keeping the credential stores and the live client in step.
type Controller struct {
	client   *apiclient.Client
	creds    *credential.Reconciler
	log      *zap.Logger
	navigate func(string)

	mu   sync.Mutex
	user *domain.User
}

// Dependencies wires a Controller.
type Dependencies struct {
	Client *apiclient.Client
	Creds  *credential.Reconciler
	// Navigate receives the route the UI should move to. Optional.
	Navigate func(string)
	Logger   *zap.Logger
}

// NewController builds the controller.
func NewController(deps Dependencies) *Controller {
	if deps.Navigate == nil {
		deps.Navigate = func(string) {}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Controller{
		client:   deps.Client,
		creds:    deps.Creds,
		log:      deps.Logger,
		navigate: deps.Navigate,
	}
}

// User returns the in-memory profile, or nil when signed out.
func (c *Controller) User() *domain.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

// Authenticated reports whether a profile is loaded.
func (c *Controller) Authenticated() bool {
	return c.User() != nil
}

// Premium reports whether the signed-in user has an active subscription.
func (c *Controller) Premium() bool {
	return c.User().Premium()
}

// SavedEmail returns the remembered login email for form autofill.
func (c *Controller) SavedEmail() string {
	return c.creds.SavedEmail()
}

// SignIn exchanges credentials for a token, propagates it to every store
// and moves the UI to the dashboard. The remember flag extends the cookie
// lifetime to 30 days and keeps the email for autofill. Failures are
// returned as normalized errors; rate-limited sign-ins carry a distinct
// message so the UI can say so.
func (c *Controller) SignIn(ctx context.Context, email, password string, remember bool) error {
	res, err := c.client.CreateSession(ctx, email, password)
	if err != nil {
		c.log.Warn("sign-in failed", zap.String("email", email), zap.Error(err))
		return err
	}

	c.creds.Persist(res.Token, remember)
	c.client.SetAuthToken(res.Token)

	if remember {
		c.creds.SaveEmail(email)
	} else {
		c.creds.ClearEmail()
	}

	c.setUser(res.User())
	c.log.Info("user signed in", zap.String("user_id", res.ID))
	c.navigate(dashboardRoute)
	return nil
}

// SignUp registers a new account and moves the UI to the login screen.
func (c *Controller) SignUp(ctx context.Context, name, email, password string) error {
	if err := c.client.RegisterUser(ctx, name, email, password); err != nil {
		return err
	}
	c.navigate(loginRoute)
	return nil
}

// SignOut tears the session down: every credential store, the remembered
// email, the live default header and the in-memory profile. It is
// idempotent and never fails visibly; any internal panic still ends in a
// navigation to the login screen, with an error indicator appended.
func (c *Controller) SignOut() {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("sign-out cleanup failed", zap.Any("panic", r))
			c.navigate(logoutErrorRoute)
		}
	}()

	c.creds.MarkLoggedOut()
	c.creds.Clear()
	c.client.ClearAuthToken()
	c.setUser(nil)

	c.log.Info("user signed out")
	c.navigate(logoutIndicator)
}

// Bootstrap runs on application load. A fresh logout (marker or URL
// indicator) suppresses re-authentication; otherwise the stored token is
// resolved, attached to the live client and verified against the profile
// endpoint. A token the server rejects clears every store.
func (c *Controller) Bootstrap(ctx context.Context, currentPath string, urlIndicatesLogout bool) error {
	if urlIndicatesLogout || c.creds.JustLoggedOut() {
		// The marker survives while the user sits on the login screen so
		// a reload there does not re-authenticate either.
		if !strings.HasPrefix(currentPath, loginRoute) {
			c.creds.ClearLogoutMark()
		}
		return nil
	}

	token, ok := c.creds.Resolve()
	if !ok {
		return nil
	}
	c.client.SetAuthToken(token.Value)
	c.log.Debug("restoring session", zap.String("token_origin", token.Origin))

	user, err := c.client.Me(apiclient.WithRoute(ctx, currentPath))
	if err != nil {
		c.log.Warn("session restore rejected", zap.Error(err))
		c.creds.Clear()
		c.SignOut()
		return err
	}

	c.setUser(user)
	return nil
}

func (c *Controller) setUser(user *domain.User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.user = user
}
