package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/databridge-consult/databridge-api/database"
	"github.com/databridge-consult/databridge-api/utils/response"
)

// Wrong verbs on known auth paths are a method mismatch, not a 404.
func TestAuthRoutes_UnhandledMethodsGet405(t *testing.T) {
	t.Setenv("JWT_SECRET", "router-test-secret")
	t.Setenv("GO_ENV", "test")
	t.Setenv("REDIS_URL", "")

	app := fiber.New()
	SetupRoutes(app, database.NewGORMStore(nil))

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodPut, "/auth/login"},
		{http.MethodDelete, "/auth/refresh"},
		{http.MethodGet, "/auth/signup"},
		{http.MethodPatch, "/auth/logout"},
	}

	for _, tc := range cases {
		resp, err := app.Test(httptest.NewRequest(tc.method, tc.path, nil))
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusMethodNotAllowed, resp.StatusCode, "%s %s", tc.method, tc.path)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		resp.Body.Close()

		var envelope map[string]interface{}
		require.NoError(t, json.Unmarshal(body, &envelope))
		assert.Equal(t, false, envelope["success"])
		errObj := envelope["error"].(map[string]interface{})
		assert.Equal(t, response.CodeMethodNotAllowed, errObj["code"])
	}
}
