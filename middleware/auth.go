package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"medmind-server/models"
	"medmind-server/services"
	"medmind-server/types"
)

const (
	ContextUser   = "user"
	ContextUserID = "user_id"
	ContextClaims = "claims"
)

// TokenVerifier resolves a bearer token to an active user.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*models.User, error)
}

// ClaimsParser validates a bearer token without touching the store.
type ClaimsParser interface {
	Parse(token string) (*types.Claims, error)
}

// AuthMiddleware requires a valid Authorization: Bearer token whose user still
// exists and is active.
func AuthMiddleware(v TokenVerifier) gin.HandlerFunc {
	return userAuth(v, false)
}

// WebSocketAuthMiddleware is AuthMiddleware that also accepts ?token=, since
// browsers cannot set headers on a websocket handshake.
func WebSocketAuthMiddleware(v TokenVerifier) gin.HandlerFunc {
	return userAuth(v, true)
}

func userAuth(v TokenVerifier, allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := requestToken(c, allowQuery)
		if !ok {
			abortUnauthorized(c, "No token provided")
			return
		}

		user, err := v.VerifyToken(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, services.ErrInvalidToken) {
				abortUnauthorized(c, "Invalid token")
				return
			}
			c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Server error verifying token",
			})
			return
		}

		c.Set(ContextUser, user)
		c.Set(ContextUserID, user.ID)
		c.Next()
	}
}

// TokenMiddleware only checks the token itself. Handlers decide what a
// missing user means.
func TokenMiddleware(p ClaimsParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := requestToken(c, false)
		if !ok {
			abortUnauthorized(c, "No token provided")
			return
		}
		claims, err := p.Parse(token)
		if err != nil {
			abortUnauthorized(c, "Invalid token")
			return
		}
		c.Set(ContextClaims, claims)
		c.Set(ContextUserID, claims.UserID)
		c.Next()
	}
}

// CurrentUser returns the user stored by AuthMiddleware.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

func requestToken(c *gin.Context, allowQuery bool) (string, bool) {
	if token, ok := services.BearerToken(c.GetHeader("Authorization")); ok {
		return token, true
	}
	if allowQuery {
		if token := c.Query("token"); token != "" {
			return token, true
		}
	}
	return "", false
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": message,
	})
}
