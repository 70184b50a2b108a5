package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	AccessCookieName  = "auth_token"
	RefreshCookieName = "refresh_token"
)

// CookieTransport writes and reads the auth cookie pair. Both cookies are
// HttpOnly and SameSite=Lax on Path=/; Secure is flipped on in production
// so local HTTP development keeps working.
type CookieTransport struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Secure     bool
}

// NewCookieTransport creates a cookie transport
func NewCookieTransport(accessTTL, refreshTTL time.Duration, secure bool) *CookieTransport {
	return &CookieTransport{
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
		Secure:     secure,
	}
}

// Attach sets both auth cookies on the response
func (t *CookieTransport) Attach(c *fiber.Ctx, accessToken, refreshToken string) {
	c.Cookie(t.build(AccessCookieName, accessToken, t.AccessTTL))
	c.Cookie(t.build(RefreshCookieName, refreshToken, t.RefreshTTL))
}

// Clear expires both auth cookies. Attribute set must match Attach or the
// browser treats them as different cookies and keeps the originals.
func (t *CookieTransport) Clear(c *fiber.Ctx) {
	c.Cookie(t.expired(AccessCookieName))
	c.Cookie(t.expired(RefreshCookieName))
}

// AccessToken reads the access token cookie, empty string when absent
func (t *CookieTransport) AccessToken(c *fiber.Ctx) string {
	return c.Cookies(AccessCookieName)
}

// RefreshToken reads the refresh token cookie, empty string when absent
func (t *CookieTransport) RefreshToken(c *fiber.Ctx) string {
	return c.Cookies(RefreshCookieName)
}

func (t *CookieTransport) build(name, value string, ttl time.Duration) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		Secure:   t.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}

func (t *CookieTransport) expired(name string) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   t.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}
