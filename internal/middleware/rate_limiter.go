package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"bclick/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const purgeInterval = 5 * time.Minute

// rateEntry tracks request counts per client IP within a fixed window.
type rateEntry struct {
	count     int
	windowEnd time.Time
}

// RateLimiter is a per-IP fixed-window limiter. Entries for IPs whose window
// expired are purged periodically so idle clients do not accumulate.
type RateLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]*rateEntry
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		entries: make(map[string]*rateEntry),
	}
}

// allow counts one request for ip and reports whether it is within the limit,
// plus the end of the current window.
func (l *RateLimiter) allow(ip string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[ip]
	if !ok || now.After(e.windowEnd) {
		e = &rateEntry{windowEnd: now.Add(l.window)}
		l.entries[ip] = e
	}
	e.count++
	return e.count <= l.limit, e.windowEnd
}

// Handler returns the gin middleware. A non-positive limit disables it.
func (l *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.limit <= 0 {
			c.Next()
			return
		}
		ok, windowEnd := l.allow(c.ClientIP())
		if !ok {
			retry := int(windowEnd.Sub(l.now()).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(retry))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.WithCode("rate_limited", "too many requests, try again shortly"))
			return
		}
		c.Next()
	}
}

// purge drops expired entries and returns how many were removed.
func (l *RateLimiter) purge() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	purged := 0
	for ip, e := range l.entries {
		if now.After(e.windowEnd) {
			delete(l.entries, ip)
			purged++
		}
	}
	return purged
}

// StartPurge runs the purge loop until stop is closed. A nil stop runs forever.
func (l *RateLimiter) StartPurge(stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(purgeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if n := l.purge(); n > 0 {
					log.Debug().Int("entries_purged", n).Msg("rate limiter map purged")
				}
			}
		}
	}()
}
