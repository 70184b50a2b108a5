package middleware

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/databridge-consult/databridge-api/model"
	"github.com/databridge-consult/databridge-api/utils/auth"
	"github.com/databridge-consult/databridge-api/utils/response"
)

const loginPath = "/auth/login"

// RequestGate routes requests by authentication state. It only reads the
// auth cookies and branches; it never issues, refreshes or revokes
// anything, so passing through the gate has no side effects.
type RequestGate struct {
	jwt     *auth.JWTManager
	cookies *auth.CookieTransport
}

// NewRequestGate creates a request gate
func NewRequestGate(jwt *auth.JWTManager, cookies *auth.CookieTransport) *RequestGate {
	return &RequestGate{jwt: jwt, cookies: cookies}
}

// Dashboard protects the dashboard area. Anonymous or stale visitors are
// redirected to login carrying the original path so they land back where
// they were headed; authenticated visitors in the wrong role area are
// redirected to their own area rather than shown an error page.
func (g *RequestGate) Dashboard() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := g.jwt.VerifyAccessToken(c.Context(), g.cookies.AccessToken(c))
		if err != nil {
			return c.Redirect(loginPath+"?redirect="+url.QueryEscape(c.OriginalURL()), fiber.StatusFound)
		}

		if required, ok := dashboardArea(c.Path()); ok && !claims.Role.Satisfies(required) {
			return c.Redirect(claims.Role.DashboardPath(), fiber.StatusFound)
		}

		storeIdentity(c, claims)
		return c.Next()
	}
}

// GuestOnly keeps already-authenticated users off the login and signup
// pages by bouncing them to their dashboard. Invalid or expired tokens are
// treated as anonymous; the gate does not clear them.
func (g *RequestGate) GuestOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := g.jwt.VerifyAccessToken(c.Context(), g.cookies.AccessToken(c))
		if err != nil {
			return c.Next()
		}
		return c.Redirect(claims.Role.DashboardPath(), fiber.StatusFound)
	}
}

// RequireRole protects API endpoints: a missing or invalid token is 401, a
// valid token below the required role is 403. RequireRole(model.RoleUser)
// admits any authenticated user.
func (g *RequestGate) RequireRole(required model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := g.jwt.VerifyAccessToken(c.Context(), g.cookies.AccessToken(c))
		if err != nil {
			return response.Unauthorized(c, unauthorizedMessage(err))
		}

		if !claims.Role.Satisfies(required) {
			return response.Forbidden(c, "Insufficient permissions")
		}

		storeIdentity(c, claims)
		return c.Next()
	}
}

func unauthorizedMessage(err error) string {
	switch err {
	case auth.ErrMissingToken:
		return "Authentication required"
	case auth.ErrExpiredToken:
		return "Token has expired"
	case auth.ErrTokenBlacklisted:
		return "Token has been revoked"
	default:
		return "Invalid token"
	}
}

// dashboardArea maps a dashboard path to the role it demands. The bare
// /dashboard prefix has no role requirement beyond being signed in.
func dashboardArea(path string) (model.Role, bool) {
	switch {
	case strings.HasPrefix(path, "/dashboard/superadmin"):
		return model.RoleSuperadmin, true
	case strings.HasPrefix(path, "/dashboard/admin"):
		return model.RoleAdmin, true
	case strings.HasPrefix(path, "/dashboard/user"):
		return model.RoleUser, true
	default:
		return "", false
	}
}

func storeIdentity(c *fiber.Ctx, claims *auth.Claims) {
	c.Locals("user_id", claims.Subject)
	c.Locals("user_email", claims.Email)
	c.Locals("user_role", claims.Role)
	c.Locals("claims", claims)
}

// GetUserID extracts user ID from context
func GetUserID(c *fiber.Ctx) (string, bool) {
	id, ok := c.Locals("user_id").(string)
	return id, ok && id != ""
}

// GetUserEmail extracts user email from context
func GetUserEmail(c *fiber.Ctx) (string, bool) {
	email, ok := c.Locals("user_email").(string)
	return email, ok && email != ""
}

// GetUserRole extracts user role from context
func GetUserRole(c *fiber.Ctx) (model.Role, bool) {
	role, ok := c.Locals("user_role").(model.Role)
	return role, ok
}

// GetClaims extracts full claims from context
func GetClaims(c *fiber.Ctx) (*auth.Claims, bool) {
	claims, ok := c.Locals("claims").(*auth.Claims)
	return claims, ok
}
