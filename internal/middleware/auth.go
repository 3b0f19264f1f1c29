package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/careslot/careslot-api/internal/models"
	"github.com/careslot/careslot-api/internal/utils"
)

// Context keys set by AuthRequired for downstream handlers.
const (
	CtxUserID   = "userID"
	CtxUserRole = "userRole"
	CtxTokenID  = "tokenID"
	CtxTokenExp = "tokenExp"
)

// Revoker answers whether a token id has been revoked. Backed by the
// redis revocation list in production.
type Revoker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AuthRequired validates the bearer token, rejects revoked tokens, and
// stores the caller's identity in the request context.
func AuthRequired(tokens *utils.TokenManager, revocations Revoker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Authorization header required"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := tokens.Validate(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Invalid token"})
			return
		}

		revoked, err := revocations.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"msg": "Server error"})
			return
		}
		if revoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Token has been revoked"})
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Invalid token"})
			return
		}

		c.Set(CtxUserID, userID)
		c.Set(CtxUserRole, claims.Role)
		c.Set(CtxTokenID, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(CtxTokenExp, claims.ExpiresAt.Time)
		}

		c.Next()
	}
}

// RoleRequired gates a route group to one role. Runs after AuthRequired.
func RoleRequired(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		got, exists := c.Get(CtxUserRole)
		if !exists || got.(models.Role) != role {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Not authorized as " + string(role)})
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated caller's id from the context.
func UserID(c *gin.Context) primitive.ObjectID {
	v, _ := c.Get(CtxUserID)
	id, _ := v.(primitive.ObjectID)
	return id
}

// UserRole returns the authenticated caller's role from the context.
func UserRole(c *gin.Context) models.Role {
	v, _ := c.Get(CtxUserRole)
	role, _ := v.(models.Role)
	return role
}
