package web

import (
	"net"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// fiberCookies adapts a fiber request context to credential.CookieAccess,
// so the cookie tier of the credential chain reads from the incoming
// request and writes to the outgoing response.
type fiberCookies struct {
	ctx *fiber.Ctx
}

func (f fiberCookies) Cookie(name string) string {
	return f.ctx.Cookies(name)
}

func (f fiberCookies) SetCookie(cookie *http.Cookie) {
	f.ctx.Cookie(&fiber.Cookie{
		Name:     cookie.Name,
		Value:    cookie.Value,
		Path:     cookie.Path,
		Domain:   cookie.Domain,
		MaxAge:   cookie.MaxAge,
		Expires:  cookie.Expires,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (f fiberCookies) Hostname() string {
	host := f.ctx.Hostname()
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}
