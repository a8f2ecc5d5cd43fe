package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/quizpin/internal/auth/jwt"
)

func newTestChain(t *testing.T, guard func(http.Handler) http.Handler) (http.Handler, *jwt.Manager, *string) {
	t.Helper()
	manager := jwt.NewManager(jwt.TokenConfig{AccessSecret: []byte("secret")})
	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	return AuthMiddleware(manager, zerolog.Nop())(guard(inner)), manager, &seen
}

func passthrough(next http.Handler) http.Handler { return next }

func TestAuthMiddlewareInjectsClaims(t *testing.T) {
	handler, manager, seen := newTestChain(t, RequireAuth)
	token, err := manager.GenerateAccessToken(jwt.User{ID: "user-7"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "user-7", *seen)
}

func TestAuthMiddlewareAllowsAnonymous(t *testing.T) {
	handler, _, seen := newTestChain(t, passthrough)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, *seen)
}

func TestRequireAuthRejectsAnonymous(t *testing.T) {
	handler, _, _ := newTestChain(t, RequireAuth)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "authentication_required")
}

func TestAuthMiddlewareRejectsMalformedHeader(t *testing.T) {
	handler, _, _ := newTestChain(t, passthrough)

	for _, header := range []string{"Token abc", "Bearer", "Bearer not-a-jwt"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
	}
}

func TestRequireAdmin(t *testing.T) {
	handler, manager, _ := newTestChain(t, RequireAdmin)

	player, err := manager.GenerateAccessToken(jwt.User{ID: "p"})
	require.NoError(t, err)
	admin, err := manager.GenerateAccessToken(jwt.User{ID: "a", Role: jwt.RoleAdmin})
	require.NoError(t, err)

	for token, want := range map[string]int{player: http.StatusForbidden, admin: http.StatusNoContent} {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code)
	}
}
