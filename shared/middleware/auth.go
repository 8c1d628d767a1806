package middleware

import (
	"context"
	"net/http"

	"github.com/bankpoc/banking-ui/shared/models"
	"github.com/gin-gonic/gin"
)

// SessionCookie holds the opaque session token.
const SessionCookie = "banking_session"

const (
	sessionIDKey = "sessionId"
	userKey      = "user"
)

// SessionResolver turns a browser token into a session id and user.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (string, *models.User, bool)
}

// SessionMiddleware attaches the session user to the context when the cookie
// resolves. It never rejects a request; routing decides what a missing
// session means.
func SessionMiddleware(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err == nil && token != "" {
			if id, user, ok := resolver.Resolve(c.Request.Context(), token); ok {
				c.Set(sessionIDKey, id)
				c.Set(userKey, user)
			}
		}
		c.Next()
	}
}

// RequireRoleJSON guards JSON endpoints: 401 without a session, 403 for the wrong role.
func RequireRoleJSON(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetUser(c)
		if !ok {
			RespondWithError(c, http.StatusUnauthorized, "Login required")
			c.Abort()
			return
		}
		if user.Role != role {
			RespondWithError(c, http.StatusForbidden, "Insufficient role")
			c.Abort()
			return
		}
		c.Next()
	}
}

func GetUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(userKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

func GetSessionID(c *gin.Context) (string, bool) {
	v, exists := c.Get(sessionIDKey)
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

// SetSession attaches a session to the context without a cookie. Handler
// tests use it in place of SessionMiddleware.
func SetSession(c *gin.Context, sessionID string, user *models.User) {
	c.Set(sessionIDKey, sessionID)
	c.Set(userKey, user)
}
