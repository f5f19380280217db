package middleware

import (
	"net/http"
	"sync"
	"time"

	"landing_relay_app_go/models"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines the configuration for rate limiting
type RateLimitConfig struct {
	// Requests is the number of requests allowed per Window, also the burst size
	Requests int
	// Window is the time window the Requests budget refills over
	Window time.Duration
	// KeyFunc returns the bucket key for a request (defaults to IP)
	KeyFunc func(c echo.Context) string
	// Message is the error message returned when rate limit is exceeded
	Message string
	// IdleTTL is how long an unused bucket is kept
	IdleTTL time.Duration
	// Skipper lets requests through without spending a token
	Skipper func(c echo.Context) bool
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a per-key token bucket limiter
type RateLimiter struct {
	config   RateLimitConfig
	limit    rate.Limit
	visitors map[string]*visitor
	mu       sync.Mutex
	stop     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter creates a new rate limiter with the given configuration
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	if config.KeyFunc == nil {
		config.KeyFunc = func(c echo.Context) string {
			return c.RealIP()
		}
	}
	if config.Message == "" {
		config.Message = "Too many requests. Please try again later."
	}
	if config.Requests <= 0 {
		config.Requests = 1
	}
	if config.Window <= 0 {
		config.Window = time.Minute
	}
	if config.IdleTTL <= 0 {
		config.IdleTTL = 3 * config.Window
	}

	rl := &RateLimiter{
		config:   config,
		limit:    rate.Every(config.Window / time.Duration(config.Requests)),
		visitors: make(map[string]*visitor),
		stop:     make(chan struct{}),
	}

	go rl.cleanup()

	return rl
}

func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[key]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.config.Requests)}
		rl.visitors[key] = v
	}
	v.lastSeen = time.Now()
	return v.limiter.Allow()
}

// Middleware returns the rate limiting middleware
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if rl.config.Skipper != nil && rl.config.Skipper(c) {
				return next(c)
			}
			if !rl.allow(rl.config.KeyFunc(c)) {
				return c.JSON(http.StatusTooManyRequests, models.SubmitResponse{
					Success: false,
					Error:   rl.config.Message,
				})
			}
			return next(c)
		}
	}
}

// Stop ends the background cleanup
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// cleanup drops buckets idle for longer than IdleTTL, once a minute
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.evictIdle(time.Now())
		}
	}
}

func (rl *RateLimiter) evictIdle(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rl.config.IdleTTL {
			delete(rl.visitors, key)
		}
	}
}

// NewSubmitRateLimiter limits form submissions to 10 per minute per IP.
// Only POST counts; preflight and other methods pass through.
func NewSubmitRateLimiter() *RateLimiter {
	return NewRateLimiter(RateLimitConfig{
		Requests: 10,
		Window:   1 * time.Minute,
		Message:  "Too many form submissions. Please wait before trying again.",
		Skipper: func(c echo.Context) bool {
			return c.Request().Method != http.MethodPost
		},
	})
}
