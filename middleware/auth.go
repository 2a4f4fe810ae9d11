package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hotel-booking/models"
	"hotel-booking/services"
	"hotel-booking/utils"
)

const actorKey = "actor"

// TokenParser validates bearer tokens.
type TokenParser interface {
	Parse(token string) (*utils.Claims, error)
}

func bearerToken(c *gin.Context) (string, bool) {
	auth := c.GetHeader("Authorization")
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// RequireAuth rejects requests without a valid access token.
func RequireAuth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			utils.JSONError(c, http.StatusUnauthorized, "authorization header missing")
			c.Abort()
			return
		}
		claims, err := tokens.Parse(raw)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}
		c.Set(actorKey, services.Actor{UserID: claims.UserID, Role: claims.Role})
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			utils.JSONError(c, http.StatusUnauthorized, "authorization header missing")
			c.Abort()
			return
		}
		if actor.Role != models.RoleAdmin {
			utils.JSONError(c, http.StatusForbidden, "admins only")
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalAuth sets the actor when a valid token is present and never rejects.
func OptionalAuth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, ok := bearerToken(c); ok {
			if claims, err := tokens.Parse(raw); err == nil {
				c.Set(actorKey, services.Actor{UserID: claims.UserID, Role: claims.Role})
			}
		}
		c.Next()
	}
}

func ActorFrom(c *gin.Context) (services.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return services.Actor{}, false
	}
	actor, ok := v.(services.Actor)
	return actor, ok
}
