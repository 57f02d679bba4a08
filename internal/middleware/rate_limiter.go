package middleware

import (
	"net/http"
	"sync"
	"time"

	appErrors "github.com/1Zamuken1/GastuApp/internal/errors"

	"github.com/gin-gonic/gin"
)

var errRateLimited = appErrors.NewAppError("RATE_LIMIT_EXCEEDED",
	"Muitas requisições. Tente novamente em alguns minutos.", http.StatusTooManyRequests)

// RateLimiter é uma janela deslizante em memória por chave.
type RateLimiter struct {
	requests map[string][]time.Time
	mu       sync.Mutex
	limit    int
	window   time.Duration
	now      func() time.Time
	done     chan struct{}
	stopOnce sync.Once
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
		done:     make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.done) })
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			rl.cleanup()
		}
	}
}

func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	windowStart := rl.now().Add(-rl.window)
	for key, timestamps := range rl.requests {
		valid := recentSince(timestamps, windowStart)
		if len(valid) == 0 {
			delete(rl.requests, key)
		} else {
			rl.requests[key] = valid
		}
	}
}

func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	valid := recentSince(rl.requests[key], now.Add(-rl.window))

	if len(valid) >= rl.limit {
		rl.requests[key] = valid
		return false
	}

	rl.requests[key] = append(valid, now)
	return true
}

func recentSince(timestamps []time.Time, start time.Time) []time.Time {
	var valid []time.Time
	for _, t := range timestamps {
		if t.After(start) {
			valid = append(valid, t)
		}
	}
	return valid
}

// RateLimit limita por usuário quando o dono já foi identificado e por IP
// caso contrário.
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if ownerID := c.GetString(UserIDContext); ownerID != "" {
			key = ownerID
		}

		if !limiter.Allow(key) {
			abortWithError(c, errRateLimited)
			return
		}

		c.Next()
	}
}
