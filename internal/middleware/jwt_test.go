package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syoh89/lipcoding-competition/internal/utils"
)

func runJWT(t *testing.T, secret, authHeader string) (int, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var captured echo.Context
	next := func(c echo.Context) error {
		captured = c
		return c.NoContent(http.StatusOK)
	}
	require.NoError(t, JWTAuth(secret)(next)(c))
	return rec.Code, captured
}

func TestJWTAuthMissingHeader(t *testing.T) {
	code, _ := runJWT(t, "secret", "")
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestJWTAuthInvalidToken(t *testing.T) {
	code, _ := runJWT(t, "secret", "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestJWTAuthWrongSecret(t *testing.T) {
	at, err := utils.NewAccessToken("other-secret", 7, "mentee", "Bob", "b@c.d", 5)
	require.NoError(t, err)

	code, _ := runJWT(t, "secret", "Bearer "+at.Token)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestJWTAuthPopulatesIdentity(t *testing.T) {
	at, err := utils.NewAccessToken("secret", 7, "mentor", "Alice", "a@b.c", 5)
	require.NoError(t, err)

	code, c := runJWT(t, "secret", "Bearer "+at.Token)
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, c)
	assert.Equal(t, uint64(7), c.Get(CtxUserID))
	assert.Equal(t, "mentor", c.Get(CtxRole))
	assert.Equal(t, "Alice", c.Get(CtxName))
	assert.Equal(t, "a@b.c", c.Get(CtxEmail))
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	run := func(role string, allowed ...string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if role != "" {
			c.Set(CtxRole, role)
		}
		require.NoError(t, RequireRole(allowed...)(next)(c))
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, run("mentor", "mentor"))
	assert.Equal(t, http.StatusOK, run("mentee", "mentor", "mentee"))
	assert.Equal(t, http.StatusForbidden, run("mentee", "mentor"))
	assert.Equal(t, http.StatusForbidden, run("", "mentor"))
}
