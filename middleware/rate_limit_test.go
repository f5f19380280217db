package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"landing_relay_app_go/models"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestNewRateLimiter(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		Requests: 10,
		Window:   time.Minute,
	})
	defer rl.Stop()

	assert.NotNil(t, rl)
	assert.Equal(t, 10, rl.config.Requests)
	assert.Equal(t, time.Minute, rl.config.Window)
	assert.Equal(t, 3*time.Minute, rl.config.IdleTTL)
	assert.NotNil(t, rl.config.KeyFunc)
	assert.Equal(t, "Too many requests. Please try again later.", rl.config.Message)
}

func TestRateLimiterMiddleware(t *testing.T) {
	e := echo.New()

	t.Run("WithinLimit", func(t *testing.T) {
		rl := NewRateLimiter(RateLimitConfig{Requests: 2, Window: time.Minute})
		defer rl.Stop()

		handler := rl.Middleware()(func(c echo.Context) error {
			return c.String(http.StatusOK, "success")
		})

		for i := 0; i < 2; i++ {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			assert.NoError(t, handler(c))
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("ExceededLimit", func(t *testing.T) {
		rl := NewRateLimiter(RateLimitConfig{Requests: 1, Window: time.Minute, Message: "slow down"})
		defer rl.Stop()

		handler := rl.Middleware()(func(c echo.Context) error {
			return c.String(http.StatusOK, "success")
		})

		req := httptest.NewRequest(http.MethodPost, "/", nil)
		rec := httptest.NewRecorder()
		assert.NoError(t, handler(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusOK, rec.Code)

		req = httptest.NewRequest(http.MethodPost, "/", nil)
		rec = httptest.NewRecorder()
		assert.NoError(t, handler(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)

		var body models.SubmitResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.Equal(t, "slow down", body.Error)
	})

	t.Run("SeparateKeys", func(t *testing.T) {
		rl := NewRateLimiter(RateLimitConfig{Requests: 1, Window: time.Minute})
		defer rl.Stop()

		handler := rl.Middleware()(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})

		for _, ip := range []string{"10.0.0.1", "10.0.0.2"} {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			req.Header.Set(echo.HeaderXRealIP, ip)
			rec := httptest.NewRecorder()
			assert.NoError(t, handler(e.NewContext(req, rec)))
			assert.Equal(t, http.StatusOK, rec.Code, ip)
		}
	})
}

func TestRateLimiterEvictIdle(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{Requests: 1, Window: time.Second, IdleTTL: time.Second})
	defer rl.Stop()

	assert.True(t, rl.allow("a"))
	assert.False(t, rl.allow("a"))

	rl.evictIdle(time.Now().Add(2 * time.Second))

	rl.mu.Lock()
	assert.Empty(t, rl.visitors)
	rl.mu.Unlock()

	// A fresh bucket after eviction
	assert.True(t, rl.allow("a"))
}

func TestSubmitRateLimiterCountsOnlyPost(t *testing.T) {
	e := echo.New()
	rl := NewSubmitRateLimiter()
	defer rl.Stop()

	handler := rl.Middleware()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	send := func(method string) int {
		req := httptest.NewRequest(method, "/api/submit", nil)
		req.Header.Set(echo.HeaderXRealIP, "198.51.100.4")
		rec := httptest.NewRecorder()
		assert.NoError(t, handler(e.NewContext(req, rec)))
		return rec.Code
	}

	for i := 0; i < 20; i++ {
		assert.Equal(t, http.StatusOK, send(http.MethodOptions))
		assert.Equal(t, http.StatusOK, send(http.MethodGet))
	}
	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusOK, send(http.MethodPost), "post %d", i)
	}
	assert.Equal(t, http.StatusTooManyRequests, send(http.MethodPost))
}
