package handlers

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/MOULOUNDOU/Senchambre/internal/middleware"
	"github.com/MOULOUNDOU/Senchambre/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	maxLoginAttempts   = 5
	loginBlockDuration = 10 * time.Minute
)

// loginThrottle counts failed logins per email inside a sliding window.
type loginThrottle struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	now      func() time.Time
}

func newLoginThrottle() *loginThrottle {
	return &loginThrottle{attempts: make(map[string][]time.Time), now: time.Now}
}

func (t *loginThrottle) blocked(email string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	recent := t.attempts[email][:0]
	for _, at := range t.attempts[email] {
		if now.Sub(at) < loginBlockDuration {
			recent = append(recent, at)
		}
	}
	if len(recent) == 0 {
		delete(t.attempts, email)
		return false
	}
	t.attempts[email] = recent
	return len(recent) >= maxLoginAttempts
}

func (t *loginThrottle) fail(email string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.attempts[email] = append(t.attempts[email], t.now())
}

func (t *loginThrottle) reset(email string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.attempts, email)
}

type AuthHandler struct {
	accounts     *service.AccountService
	verification *service.VerificationService
	throttle     *loginThrottle
	log          *logrus.Logger
}

func NewAuthHandler(accounts *service.AccountService, verification *service.VerificationService, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, verification: verification, throttle: newLoginThrottle(), log: log}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var in service.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	sess, err := h.accounts.Register(c.Request.Context(), in)
	if err != nil {
		handleError(c, h.log, err, "register failed")
		return
	}
	setSessionCookie(c, sess)
	c.JSON(http.StatusCreated, sess)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if h.throttle.blocked(email) {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many failed attempts, try again later"})
		return
	}

	sess, err := h.accounts.Login(c.Request.Context(), email, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		h.throttle.fail(email)
		h.log.WithField("email", email).Warn("failed login")
	}
	if err != nil {
		handleError(c, h.log, err, "login failed")
		return
	}
	h.throttle.reset(email)
	setSessionCookie(c, sess)
	c.JSON(http.StatusOK, sess)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if token := middleware.Token(c); token != "" {
		if err := h.accounts.Logout(c.Request.Context(), token); err != nil {
			handleError(c, h.log, err, "logout failed")
			return
		}
	}
	clearSessionCookie(c)
	c.Status(http.StatusNoContent)
}

// Me returns the current user, or null for anonymous callers.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.accounts.CurrentUser(c.Request.Context(), middleware.Token(c))
	if err != nil {
		handleError(c, h.log, err, "current user lookup failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var patch service.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}
	sess, user, err := h.accounts.UpdateProfile(c.Request.Context(), session(c), patch)
	if err != nil {
		handleError(c, h.log, err, "profile update failed")
		return
	}
	setSessionCookie(c, sess)
	c.JSON(http.StatusOK, gin.H{"user": user, "session": sess})
}

type passwordRequest struct {
	Current string `json:"currentPassword"`
	New     string `json:"newPassword"`
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.accounts.ChangePassword(c.Request.Context(), session(c), req.Current, req.New); err != nil {
		handleError(c, h.log, err, "password change failed")
		return
	}
	c.Status(http.StatusNoContent)
}

type verificationRequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code"`
}

func (h *AuthHandler) SendCode(c *gin.Context) {
	var req verificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.verification.SendCode(c.Request.Context(), req.Email); err != nil {
		handleError(c, h.log, err, "verification code not sent")
		return
	}
	c.Status(http.StatusAccepted)
}

func (h *AuthHandler) Verify(c *gin.Context) {
	var req verificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.verification.Verify(c.Request.Context(), req.Email, req.Code); err != nil {
		handleError(c, h.log, err, "verification failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"verified": true})
}

func (h *AuthHandler) VerificationStatus(c *gin.Context) {
	ok, err := h.verification.IsVerified(c.Request.Context(), c.Query("email"))
	if err != nil {
		handleError(c, h.log, err, "verification lookup failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"verified": ok})
}
