package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/MOULOUNDOU/Senchambre/internal/models"
	"github.com/MOULOUNDOU/Senchambre/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	SessionCookie = "session_id"
	SessionHeader = "X-Session-ID"

	sessionKey = "session"
)

// Authenticator resolves a session token.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Session, error)
}

// Token returns the token of the resolved session, or else the first token
// sent with the request.
func Token(c *gin.Context) string {
	if sess := CurrentSession(c); sess != nil {
		return sess.Token
	}
	if candidates := tokens(c); len(candidates) > 0 {
		return candidates[0]
	}
	return ""
}

// tokens lists the cookie token then the header token, skipping blanks and repeats.
func tokens(c *gin.Context) []string {
	var out []string
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		out = append(out, cookie)
	}
	if header := c.GetHeader(SessionHeader); header != "" && (len(out) == 0 || out[0] != header) {
		out = append(out, header)
	}
	return out
}

// Session attaches the caller's live session, if any, to the context.
// A stale cookie falls back to the header. Requests without a valid token
// continue anonymously.
func Session(auth Authenticator, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, token := range tokens(c) {
			sess, err := auth.Authenticate(c.Request.Context(), token)
			if errors.Is(err, service.ErrUnauthenticated) {
				continue
			}
			if err != nil {
				log.WithError(err).Error("session lookup failed")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
				return
			}
			c.Set(sessionKey, sess)
			break
		}
		c.Next()
	}
}

// CurrentSession returns the session set by Session, or nil.
func CurrentSession(c *gin.Context) *models.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*models.Session)
	return sess
}

func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentSession(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": service.ErrUnauthenticated.Error()})
			return
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := CurrentSession(c)
		if sess == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": service.ErrUnauthenticated.Error()})
			return
		}
		if !sess.HasRole(models.RoleAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access only"})
			return
		}
		c.Next()
	}
}
