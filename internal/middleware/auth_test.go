package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MOULOUNDOU/Senchambre/internal/models"
	"github.com/MOULOUNDOU/Senchambre/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

type stubAuth map[string]*models.Session

func (s stubAuth) Authenticate(_ context.Context, token string) (*models.Session, error) {
	if token == "broken" {
		return nil, errors.New("backend down")
	}
	if sess, ok := s[token]; ok {
		return sess, nil
	}
	return nil, service.ErrUnauthenticated
}

func newEngine(auth Authenticator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log, _ := test.NewNullLogger()
	r := gin.New()
	r.Use(Session(auth, log))
	r.GET("/open", func(c *gin.Context) {
		if sess := CurrentSession(c); sess != nil {
			c.String(http.StatusOK, sess.UserID)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})
	r.GET("/private", RequireAuth(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/admin", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func get(r http.Handler, path string, setup func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if setup != nil {
		setup(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSessionResolution(t *testing.T) {
	r := newEngine(stubAuth{
		"tok-renter": {UserID: "3", Role: models.RoleRenter},
	})

	w := get(r, "/open", nil)
	assert.Equal(t, "anonymous", w.Body.String())

	w = get(r, "/open", func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "tok-renter"})
	})
	assert.Equal(t, "3", w.Body.String())

	w = get(r, "/open", func(req *http.Request) { req.Header.Set(SessionHeader, "tok-renter") })
	assert.Equal(t, "3", w.Body.String())

	w = get(r, "/open", func(req *http.Request) { req.Header.Set(SessionHeader, "stale") })
	assert.Equal(t, "anonymous", w.Body.String())

	w = get(r, "/open", func(req *http.Request) { req.Header.Set(SessionHeader, "broken") })
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestStaleCookieFallsBackToHeader(t *testing.T) {
	r := newEngine(stubAuth{
		"tok-renter": {UserID: "3", Role: models.RoleRenter, Token: "tok-renter"},
	})
	r.GET("/token", func(c *gin.Context) { c.String(http.StatusOK, Token(c)) })

	stale := func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "expired"})
		req.Header.Set(SessionHeader, "tok-renter")
	}
	assert.Equal(t, "3", get(r, "/open", stale).Body.String())
	assert.Equal(t, "tok-renter", get(r, "/token", stale).Body.String())

	w := get(r, "/token", func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "expired"})
	})
	assert.Equal(t, "expired", w.Body.String())
}

func TestRequireAuthAndAdmin(t *testing.T) {
	r := newEngine(stubAuth{
		"tok-renter": {UserID: "3", Role: models.RoleRenter},
		"tok-admin":  {UserID: "admin", Role: models.RoleAdmin},
	})
	as := func(token string) func(*http.Request) {
		return func(req *http.Request) { req.Header.Set(SessionHeader, token) }
	}

	assert.Equal(t, http.StatusUnauthorized, get(r, "/private", nil).Code)
	assert.Equal(t, http.StatusNoContent, get(r, "/private", as("tok-renter")).Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/admin", nil).Code)
	assert.Equal(t, http.StatusForbidden, get(r, "/admin", as("tok-renter")).Code)
	assert.Equal(t, http.StatusNoContent, get(r, "/admin", as("tok-admin")).Code)
}
