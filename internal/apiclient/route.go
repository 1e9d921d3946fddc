package apiclient

import "context"

type routeContextKey struct{}

// PublicRoutes are the UI routes reachable without an authenticated
// session. A 401 observed while one of these is current must not force a
// sign-out, or the login page would redirect to itself.
var PublicRoutes = []string{
	"/",
	"/login",
	"/register",
	"/password-recovery",
	"/password-reset",
}

// WithRoute records the UI route on whose behalf a request is made.
// Requests carrying no route are treated as server-side.
func WithRoute(ctx context.Context, route string) context.Context {
	return context.WithValue(ctx, routeContextKey{}, route)
}

// RouteFromContext returns the current UI route, if one was recorded.
func RouteFromContext(ctx context.Context) (string, bool) {
	route, ok := ctx.Value(routeContextKey{}).(string)
	return route, ok
}

// IsPublicRoute reports whether path is reachable without a session.
func IsPublicRoute(path string) bool {
	for _, route := range PublicRoutes {
		if path == route {
			return true
		}
	}
	return false
}
