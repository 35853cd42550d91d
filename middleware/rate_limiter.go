package middleware

import (
	"net/http"
	"sync"
	"time"

	"fixly/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL   = 15 * time.Minute
	limiterSweepTick = 5 * time.Minute
)

// ipLimiters holds one token bucket per client IP. Buckets idle past
// limiterIdleTTL are evicted by a background sweep so the map cannot grow
// without bound.
type ipLimiters struct {
	mu      sync.Mutex
	buckets map[string]*ipBucket
	perMin  int
	burst   int
}

type ipBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newIPLimiters(perMin, burst int) *ipLimiters {
	return &ipLimiters{
		buckets: make(map[string]*ipBucket),
		perMin:  perMin,
		burst:   burst,
	}
}

func (s *ipLimiters) get(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buckets[ip]
	if !ok {
		b = &ipBucket{
			limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.perMin)), s.burst),
		}
		s.buckets[ip] = b
	}
	b.lastSeen = time.Now()
	return b.limiter
}

func (s *ipLimiters) evictIdle(cutoff time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ip, b := range s.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(s.buckets, ip)
		}
	}
}

func (s *ipLimiters) sweep() {
	for range time.Tick(limiterSweepTick) {
		s.evictIdle(time.Now().Add(-limiterIdleTTL))
	}
}

// RateLimitMiddleware throttles requests per client IP. The sustained rate
// comes from MAX_REQUESTS_PER_MIN and the burst size from RATE_LIMIT_BURST.
func RateLimitMiddleware() gin.HandlerFunc {
	perMin := config.AppConfig.MaxRequestsPerMin
	if perMin <= 0 {
		perMin = 100
	}
	burst := config.AppConfig.RateLimitBurst
	if burst <= 0 {
		burst = 20
	}

	store := newIPLimiters(perMin, burst)
	go store.sweep()

	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !store.get(ip).Allow() {
			zap.L().Warn("rate limit exceeded", zap.String("ip", ip))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded, try again later"})
			return
		}
		c.Next()
	}
}
