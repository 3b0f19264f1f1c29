package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careslot/careslot-api/internal/models"
	"github.com/careslot/careslot-api/internal/utils"
)

type fakeRevoker struct {
	revoked map[string]bool
}

func (f *fakeRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	return f.revoked[jti], nil
}

func setupRouter(t *testing.T, revoker Revoker) (*gin.Engine, *utils.TokenManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := utils.NewTokenManager("test-secret")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/protected", AuthRequired(tokens, revoker), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"role": UserRole(c), "id": UserID(c).Hex()})
	})
	r.GET("/admin", AuthRequired(tokens, revoker), RoleRequired(models.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r, tokens
}

func get(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	revoker := &fakeRevoker{revoked: map[string]bool{}}
	r, tokens := setupRouter(t, revoker)

	t.Run("rejects a missing header", func(t *testing.T) {
		w := get(r, "/protected", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects a garbage token", func(t *testing.T) {
		w := get(r, "/protected", "not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		other, err := utils.NewTokenManager("other-secret")
		require.NoError(t, err)
		token, err := other.Generate("64f000000000000000000001", models.RolePatient)
		require.NoError(t, err)

		w := get(r, "/protected", token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("accepts a valid token", func(t *testing.T) {
		token, err := tokens.Generate("64f000000000000000000001", models.RolePatient)
		require.NoError(t, err)

		w := get(r, "/protected", token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "64f000000000000000000001")
	})

	t.Run("rejects a revoked token", func(t *testing.T) {
		token, err := tokens.Generate("64f000000000000000000001", models.RolePatient)
		require.NoError(t, err)

		claims, err := tokens.Validate(token)
		require.NoError(t, err)
		revoker.revoked[claims.ID] = true

		w := get(r, "/protected", token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "revoked")
	})
}

func TestRoleRequired(t *testing.T) {
	r, tokens := setupRouter(t, &fakeRevoker{revoked: map[string]bool{}})

	t.Run("blocks the wrong role", func(t *testing.T) {
		token, err := tokens.Generate("64f000000000000000000001", models.RolePatient)
		require.NoError(t, err)

		w := get(r, "/admin", token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("passes the right role", func(t *testing.T) {
		token, err := tokens.Generate("64f000000000000000000002", models.RoleAdmin)
		require.NoError(t, err)

		w := get(r, "/admin", token)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
