// Package middleware holds the cross-cutting gin middleware: request logging,
// origin enforcement, and session loading.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trust-ethos/ethos-anonymous-reviews/internal/application/dto"
	"github.com/trust-ethos/ethos-anonymous-reviews/internal/application/services"
	"github.com/trust-ethos/ethos-anonymous-reviews/internal/domain/session"
)

// sessionKey is the gin context key for the authenticated session.
const sessionKey = "session"

// RequireSession loads and verifies the sealed session cookie. Every failure
// mode, from a missing cookie to a bad signature, ends the request with the
// same 401.
func RequireSession(auth *services.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "authentication required"})
			return
		}

		sess, err := auth.SessionFromToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "authentication required"})
			return
		}

		c.Set(sessionKey, sess)
		c.Next()
	}
}

// LoadSession is the non-aborting variant: it attaches the session when the
// cookie verifies and stays silent otherwise, for endpoints that answer both
// authenticated and anonymous callers.
func LoadSession(auth *services.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(cookieName); err == nil && token != "" {
			if sess, err := auth.SessionFromToken(token); err == nil {
				c.Set(sessionKey, sess)
			}
		}
		c.Next()
	}
}

// SessionFromContext retrieves the session placed by RequireSession.
func SessionFromContext(c *gin.Context) (*session.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*session.Session)
	return sess, ok
}
