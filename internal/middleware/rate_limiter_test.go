package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func limitedRouter(l *RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(l.Handler())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func ping(r http.Handler, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = ip + ":40000"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_FixedWindow(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewRateLimiter(2, time.Minute)
	l.now = func() time.Time { return now }
	r := limitedRouter(l)

	assert.Equal(t, http.StatusNoContent, ping(r, "10.0.0.1").Code)
	assert.Equal(t, http.StatusNoContent, ping(r, "10.0.0.1").Code)

	w := ping(r, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "61", w.Header().Get("Retry-After"))

	// other clients have their own window
	assert.Equal(t, http.StatusNoContent, ping(r, "10.0.0.2").Code)

	now = now.Add(time.Minute + time.Second)
	assert.Equal(t, http.StatusNoContent, ping(r, "10.0.0.1").Code)
}

func TestRateLimiter_Disabled(t *testing.T) {
	r := limitedRouter(NewRateLimiter(0, time.Minute))
	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusNoContent, ping(r, "10.0.0.1").Code)
	}
}

func TestRateLimiter_Purge(t *testing.T) {
	now := time.Now()
	l := NewRateLimiter(5, time.Minute)
	l.now = func() time.Time { return now }
	l.allow("10.0.0.1")
	now = now.Add(30 * time.Second)
	l.allow("10.0.0.2")

	now = now.Add(45 * time.Second)
	assert.Equal(t, 1, l.purge())
	assert.Len(t, l.entries, 1)
}
