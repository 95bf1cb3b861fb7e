package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/alnatural-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/alnatural-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testClientID  = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "alnatural-test"
	testExpMin    = 60
)

// fakeChecker simula la consulta del rol de administrador.
type fakeChecker struct {
	admins map[string]bool
	err    error
}

func (f fakeChecker) IsAdmin(_ context.Context, userID string) (bool, error) {
	return f.admins[userID], f.err
}

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para parsear el JWT y cargar el Principal
//   - middlewares adicionales (RequireUser, RequireAdmin...)
//   - un handler dummy que devuelve 200 y la identidad si pasa los middlewares
func buildTestApp(extra ...fiber.Handler) *fiber.App {
	app := fiber.New()
	handlers := append([]fiber.Handler{apphttp.AuthMiddleware(testJWTSecret)}, extra...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		p := apphttp.GetPrincipal(c)
		return c.JSON(fiber.Map{"ok": true, "kind": p.Kind, "user_id": p.UserID, "client_id": p.ClientID})
	})
	app.Get("/protected", handlers...)
	return app
}

func userToken(t *testing.T, userID string) string {
	t.Helper()
	tok, err := pkgjwt.GenerateUser(testJWTSecret, userID, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func accessToken(t *testing.T, clientID string) string {
	t.Helper()
	tok, err := pkgjwt.GenerateAccess(testJWTSecret, clientID, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

// doRequest lanza una petición GET /protected y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func bodyString(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinAuthHeader_Retorna401(t *testing.T) {
	resp := doRequest(t, buildTestApp(), "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "MISSING_TOKEN")
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	resp := doRequest(t, buildTestApp(), "Bearer esto.no.es.un.jwt")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "INVALID_TOKEN")
}

func TestAuthMiddleware_SecretIncorrecto_Retorna401(t *testing.T) {
	tok, err := pkgjwt.GenerateUser("otro-secret", testUserID, testIssuer, testExpMin)
	require.NoError(t, err)

	resp := doRequest(t, buildTestApp(), "Bearer "+tok)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenDeUsuario_CargaPrincipal(t *testing.T) {
	resp := doRequest(t, buildTestApp(), userToken(t, testUserID))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, pkgjwt.KindUser, body["kind"])
	assert.Equal(t, testUserID, body["user_id"])
}

func TestAuthMiddleware_TokenDeAcceso_CargaCliente(t *testing.T) {
	resp := doRequest(t, buildTestApp(), accessToken(t, testClientID))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, pkgjwt.KindAccess, body["kind"])
	assert.Equal(t, testClientID, body["client_id"])
	assert.Equal(t, "", body["user_id"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireUser / RequireAdmin
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireUser_TokenDeAcceso_Retorna401(t *testing.T) {
	resp := doRequest(t, buildTestApp(apphttp.RequireUser()), accessToken(t, testClientID))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "USER_SESSION_REQUIRED")
}

func TestRequireAdmin_AdminAccede(t *testing.T) {
	checker := fakeChecker{admins: map[string]bool{testUserID: true}}
	resp := doRequest(t, buildTestApp(apphttp.RequireAdmin(checker, zerolog.Nop())), userToken(t, testUserID))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode, "admin debe poder acceder a ruta de administración")
}

func TestRequireAdmin_SinRol_Retorna403(t *testing.T) {
	checker := fakeChecker{admins: map[string]bool{}}
	resp := doRequest(t, buildTestApp(apphttp.RequireAdmin(checker, zerolog.Nop())), userToken(t, testUserID))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body := bodyString(t, resp)
	assert.Contains(t, body, "FORBIDDEN")
	assert.Contains(t, body, "Forbidden - Admin access required")
}

func TestRequireAdmin_TokenDeAcceso_Retorna401(t *testing.T) {
	checker := fakeChecker{admins: map[string]bool{testUserID: true}}
	resp := doRequest(t, buildTestApp(apphttp.RequireAdmin(checker, zerolog.Nop())), accessToken(t, testClientID))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAdmin_FalloDeConsulta_Retorna503(t *testing.T) {
	checker := fakeChecker{err: errors.New("db caída")}
	resp := doRequest(t, buildTestApp(apphttp.RequireAdmin(checker, zerolog.Nop())), userToken(t, testUserID))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "ROLE_CHECK_FAILED")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests OptionalAuth
// ──────────────────────────────────────────────────────────────────────────────

func TestOptionalAuth_TokenInvalido_SigueAnonimo(t *testing.T) {
	app := fiber.New()
	app.Get("/open", apphttp.OptionalAuth(testJWTSecret), func(c *fiber.Ctx) error {
		return c.SendString("kind=" + apphttp.GetPrincipal(c).Kind)
	})

	for _, header := range []string{"", "Bearer basura", "Basic abc"} {
		req := httptest.NewRequest(http.MethodGet, "/open", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "kind=", bodyString(t, resp), "header %q", header)
		resp.Body.Close()
	}
}
