package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hzqula/portal-gateway/internal/middleware"
	"github.com/hzqula/portal-gateway/internal/pkg/request"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "secret-untuk-test"

type capturedSID struct {
	fromGin string
	fromCtx string
}

func setupSessionMiddlewareRouter(capture *capturedSID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.PortalSession(testSecret, false))
	r.GET("/ping", func(c *gin.Context) {
		capture.fromGin = c.GetString(request.GinSessionIDKey)
		capture.fromCtx, _ = request.SessionID(c.Request.Context())
		c.String(http.StatusOK, "pong")
	})
	return r
}

func TestPortalSession(t *testing.T) {
	t.Run("New Visitor Gets Signed Cookie", func(t *testing.T) {
		var sid capturedSID
		r := setupSessionMiddlewareRouter(&sid)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, sid.fromGin)
		// SID yang sama terbaca dari gin context dan request context.
		assert.Equal(t, sid.fromGin, sid.fromCtx)

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "portal_session", cookies[0].Name)
		assert.True(t, cookies[0].HttpOnly)
		// Cookie berisi JWT, bukan SID polos.
		assert.NotEqual(t, sid.fromGin, cookies[0].Value)
	})

	t.Run("Returning Visitor Keeps Same SID", func(t *testing.T) {
		var sid capturedSID
		r := setupSessionMiddlewareRouter(&sid)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		first := sid.fromGin
		cookie := w.Result().Cookies()[0]

		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.AddCookie(cookie)
		w = httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, first, sid.fromGin)
		// Cookie valid tidak diterbitkan ulang.
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("Tampered Cookie Gets Fresh SID", func(t *testing.T) {
		var sid capturedSID
		r := setupSessionMiddlewareRouter(&sid)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		first := sid.fromGin

		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.AddCookie(&http.Cookie{Name: "portal_session", Value: "bukan.jwt.valid"})
		w = httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.NotEmpty(t, sid.fromGin)
		assert.NotEqual(t, first, sid.fromGin)
		assert.Len(t, w.Result().Cookies(), 1)
	})
}
