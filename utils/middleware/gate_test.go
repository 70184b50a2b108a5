package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/databridge-consult/databridge-api/model"
	"github.com/databridge-consult/databridge-api/utils/auth"
)

type stubSessionStore struct{}

func (stubSessionStore) CreateSession(context.Context, *model.Session) error { return nil }
func (stubSessionStore) FindSessionByRefreshToken(context.Context, string) (*model.Session, error) {
	return nil, nil
}
func (stubSessionStore) DeleteSessionByRefreshToken(context.Context, string) error { return nil }

func newGateFixture(t *testing.T) (*RequestGate, *auth.JWTManager) {
	t.Helper()
	manager := auth.NewJWTManager(auth.JWTConfig{
		Secret:        "gate-test-secret",
		Issuer:        "databridge-consult",
		Expiry:        time.Hour,
		RefreshExpiry: time.Hour,
	}, auth.NewMemoryBlacklist(), stubSessionStore{})
	cookies := auth.NewCookieTransport(time.Hour, time.Hour, false)
	return NewRequestGate(manager, cookies), manager
}

func requestWithToken(path, token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: auth.AccessCookieName, Value: token})
	}
	return req
}

func TestGateDashboard_AnonymousRedirectsToLogin(t *testing.T) {
	gate, _ := newGateFixture(t)

	app := fiber.New()
	app.Get("/dashboard", gate.Dashboard(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(requestWithToken("/dashboard", ""))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/auth/login?redirect=%2Fdashboard", resp.Header.Get("Location"))
}

func TestGateDashboard_RedirectKeepsQueryString(t *testing.T) {
	gate, _ := newGateFixture(t)

	app := fiber.New()
	app.Get("/dashboard/user", gate.Dashboard(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(requestWithToken("/dashboard/user?tab=orders", ""))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/auth/login?redirect=%2Fdashboard%2Fuser%3Ftab%3Dorders", resp.Header.Get("Location"))
}

func TestGateDashboard_ExpiredTokenRedirectsToLogin(t *testing.T) {
	gate, _ := newGateFixture(t)

	expired := auth.NewJWTManager(auth.JWTConfig{
		Secret:        "gate-test-secret",
		Issuer:        "databridge-consult",
		Expiry:        -time.Minute,
		RefreshExpiry: time.Hour,
	}, auth.NewMemoryBlacklist(), stubSessionStore{})
	token, err := expired.IssueAccessToken("u1", "a@example.com", model.RoleUser)
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/dashboard", gate.Dashboard(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(requestWithToken("/dashboard", token))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Location"), "/auth/login?redirect=")
}

func TestGateDashboard_AuthenticatedPasses(t *testing.T) {
	gate, manager := newGateFixture(t)
	token, err := manager.IssueAccessToken("u1", "a@example.com", model.RoleUser)
	require.NoError(t, err)

	app := fiber.New()
	var seenID string
	app.Get("/dashboard", gate.Dashboard(), func(c *fiber.Ctx) error {
		seenID, _ = GetUserID(c)
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(requestWithToken("/dashboard", token))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "u1", seenID)
}

func TestGateDashboard_WrongAreaRedirectsToOwnArea(t *testing.T) {
	gate, manager := newGateFixture(t)
	token, err := manager.IssueAccessToken("u1", "a@example.com", model.RoleUser)
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/dashboard/admin", gate.Dashboard(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(requestWithToken("/dashboard/admin", token))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard/user", resp.Header.Get("Location"))
}

func TestGateDashboard_HigherRoleEntersLowerArea(t *testing.T) {
	gate, manager := newGateFixture(t)
	token, err := manager.IssueAccessToken("u1", "root@example.com", model.RoleSuperadmin)
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/dashboard/admin", gate.Dashboard(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(requestWithToken("/dashboard/admin", token))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGateGuestOnly_AnonymousPasses(t *testing.T) {
	gate, _ := newGateFixture(t)

	app := fiber.New()
	app.Get("/auth/login", gate.GuestOnly(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(requestWithToken("/auth/login", ""))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGateGuestOnly_AuthenticatedBouncesToDashboard(t *testing.T) {
	gate, manager := newGateFixture(t)
	token, err := manager.IssueAccessToken("u1", "a@example.com", model.RoleAdmin)
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/auth/login", gate.GuestOnly(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(requestWithToken("/auth/login", token))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard/admin", resp.Header.Get("Location"))
}

func TestGateGuestOnly_InvalidTokenTreatedAsAnonymous(t *testing.T) {
	gate, _ := newGateFixture(t)

	app := fiber.New()
	app.Get("/auth/login", gate.GuestOnly(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(requestWithToken("/auth/login", "garbage.token.value"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGateRequireRole_MissingTokenIs401(t *testing.T) {
	gate, _ := newGateFixture(t)

	app := fiber.New()
	app.Post("/api/services", gate.RequireRole(model.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/services", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestGateRequireRole_InsufficientRoleIs403(t *testing.T) {
	gate, manager := newGateFixture(t)
	token, err := manager.IssueAccessToken("u1", "a@example.com", model.RoleUser)
	require.NoError(t, err)

	app := fiber.New()
	app.Post("/api/services", gate.RequireRole(model.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/services", nil)
	req.AddCookie(&http.Cookie{Name: auth.AccessCookieName, Value: token})
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestGateRequireRole_SatisfiedRolePasses(t *testing.T) {
	gate, manager := newGateFixture(t)
	token, err := manager.IssueAccessToken("u1", "a@example.com", model.RoleSuperadmin)
	require.NoError(t, err)

	app := fiber.New()
	app.Post("/api/services", gate.RequireRole(model.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/services", nil)
	req.AddCookie(&http.Cookie{Name: auth.AccessCookieName, Value: token})
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestGateRequireRole_RevokedTokenIs401(t *testing.T) {
	gate, manager := newGateFixture(t)
	token, err := manager.IssueAccessToken("u1", "a@example.com", model.RoleAdmin)
	require.NoError(t, err)
	manager.Revoke(context.Background(), token)

	app := fiber.New()
	app.Post("/api/services", gate.RequireRole(model.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/services", nil)
	req.AddCookie(&http.Cookie{Name: auth.AccessCookieName, Value: token})
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
