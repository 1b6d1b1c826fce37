package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/mrlokans/academia/internal/audit"
)

func newMiddlewareTestRouter(middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(middleware...)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	return router
}

func serve(router *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequestIDMiddleware(t *testing.T) {
	router := newMiddlewareTestRouter(RequestIDMiddleware())

	t.Run("generates an id", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/ping", nil)
		assert.Len(t, w.Header().Get(requestIDHeader), 36)
	})

	t.Run("keeps a client id", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/ping", map[string]string{requestIDHeader: "client-id"})
		assert.Equal(t, "client-id", w.Header().Get(requestIDHeader))
	})

	t.Run("replaces an oversized id", func(t *testing.T) {
		long := "x123456789012345678901234567890123456789"
		w := serve(router, http.MethodGet, "/ping", map[string]string{requestIDHeader: long})
		assert.NotEqual(t, long, w.Header().Get(requestIDHeader))
	})
}

func TestRequestInfoMiddleware(t *testing.T) {
	var got audit.RequestInfo
	router := gin.New()
	router.Use(RequestIDMiddleware(), RequestInfoMiddleware())
	router.GET("/ping", func(c *gin.Context) {
		got = audit.RequestInfoFrom(c.Request.Context())
		c.Status(http.StatusOK)
	})

	serve(router, http.MethodGet, "/ping", map[string]string{
		requestIDHeader: "req-9",
		"User-Agent":    "test-agent",
	})

	assert.Equal(t, "req-9", got.RequestID)
	assert.Equal(t, "test-agent", got.UserAgent)
	assert.NotEmpty(t, got.IPAddress)
}

func TestRecoveryMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RecoveryMiddleware())
	router.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})

	w := serve(router, http.MethodGet, "/boom", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error","code":"internal_error"}`, w.Body.String())
}

func TestAccessLogMiddleware_PassesThrough(t *testing.T) {
	router := newMiddlewareTestRouter(AccessLogMiddleware())

	w := serve(router, http.MethodGet, "/ping?x=1", nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORSMiddleware(t *testing.T) {
	t.Run("allowed origin", func(t *testing.T) {
		router := newMiddlewareTestRouter(CORSMiddleware([]string{"https://ui.example.org"}))
		w := serve(router, http.MethodGet, "/ping", map[string]string{"Origin": "https://ui.example.org"})
		assert.Equal(t, "https://ui.example.org", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown origin", func(t *testing.T) {
		router := newMiddlewareTestRouter(CORSMiddleware([]string{"https://ui.example.org"}))
		w := serve(router, http.MethodGet, "/ping", map[string]string{"Origin": "https://evil.example.org"})
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("wildcard", func(t *testing.T) {
		router := newMiddlewareTestRouter(CORSMiddleware([]string{"*"}))
		w := serve(router, http.MethodGet, "/ping", map[string]string{"Origin": "https://any.example.org"})
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		router := newMiddlewareTestRouter(CORSMiddleware([]string{"*"}))
		w := serve(router, http.MethodOptions, "/ping", map[string]string{"Origin": "https://any.example.org"})
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}
