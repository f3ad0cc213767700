package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/MOULOUNDOU/Senchambre/internal/middleware"
	"github.com/MOULOUNDOU/Senchambre/internal/models"
	"github.com/MOULOUNDOU/Senchambre/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// statusOf maps a service error to its HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrWrongPassword),
		errors.Is(err, service.ErrNoVerification),
		errors.Is(err, service.ErrCodeExpired),
		errors.Is(err, service.ErrCodeMismatch):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthenticated),
		errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrDuplicateEmail),
		errors.Is(err, service.ErrComparisonFull):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// handleError writes err as {"error": message}. Unexpected errors are logged
// and hidden from the client.
func handleError(c *gin.Context, log *logrus.Logger, err error, message string) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		log.WithError(err).WithField("path", c.FullPath()).Error(message)
		c.AbortWithStatusJSON(status, gin.H{"error": "internal error"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func session(c *gin.Context) *models.Session {
	return middleware.CurrentSession(c)
}

func userID(c *gin.Context) string {
	if sess := session(c); sess != nil {
		return sess.UserID
	}
	return ""
}

func setSessionCookie(c *gin.Context, sess *models.Session) {
	maxAge := int(time.Until(sess.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, sess.Token, maxAge, "/", "", false, true)
}

func clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
}
