package credential

import (
	"net"
	"net/http"
	"strings"
	"time"
)

// CookieAccess abstracts the request/response pair a cookie store operates
// on. The web gateway adapts its request context to this; tests use a map.
type CookieAccess interface {
	// Cookie returns the value of the named request cookie, or "".
	Cookie(name string) string
	// SetCookie appends a Set-Cookie header to the response.
	SetCookie(cookie *http.Cookie)
	// Hostname returns the host the request was addressed to, without port.
	Hostname() string
}

// CookieStore keeps the value in a cookie on one request/response pair.
// It is the highest-priority tier of the fallback chain because it is the
// only one the server sees on the next page load.
type CookieStore struct {
	access CookieAccess
	name   string
}

// NewCookieStore binds a store to one request's cookies.
func NewCookieStore(access CookieAccess, name string) *CookieStore {
	return &CookieStore{access: access, name: name}
}

// Name identifies the store.
func (s *CookieStore) Name() string { return "cookie" }

// Read returns the cookie value from the bound request.
func (s *CookieStore) Read() (string, error) {
	return s.access.Cookie(s.name), nil
}

// Write sets the cookie on the bound response with the given lifetime.
func (s *CookieStore) Write(value string, ttl time.Duration) error {
	maxAge := int(ttl / time.Second)
	if maxAge <= 0 {
		maxAge = int(24 * time.Hour / time.Second)
	}
	s.access.SetCookie(&http.Cookie{
		Name:     s.name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear expires the cookie. Subdomain deployments may have left same-named
// cookies on parent domains, so expired variants are written for the host,
// the dotted host, and the registrable parent domain as well.
func (s *CookieStore) Clear() error {
	for _, domain := range expiryDomains(s.access.Hostname()) {
		s.access.SetCookie(&http.Cookie{
			Name:     s.name,
			Value:    "",
			Path:     "/",
			Domain:   domain,
			MaxAge:   -1,
			Expires:  time.Unix(0, 0),
			SameSite: http.SameSiteLaxMode,
		})
	}
	return nil
}

// expiryDomains returns the domain attributes to expire the cookie under.
// The empty string means "no Domain attribute", i.e. the exact host.
func expiryDomains(hostname string) []string {
	domains := []string{""}

	if hostname == "" || hostname == "localhost" || net.ParseIP(hostname) != nil {
		return domains
	}

	host := strings.TrimPrefix(hostname, "www.")
	domains = append(domains, "."+host)

	parts := strings.Split(host, ".")
	if len(parts) > 2 {
		domains = append(domains, "."+strings.Join(parts[len(parts)-2:], "."))
	}
	return domains
}
