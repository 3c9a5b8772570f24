package middleware

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/folio-api/internal/response"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// IPRateLimiter keeps one token bucket per client ip.
type IPRateLimiter struct {
	visitors sync.Map
	rate     rate.Limit
	burst    int
	log      *zap.Logger
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// NewIPRateLimiter allows perMinute requests per ip, with bursts of the same size.
func NewIPRateLimiter(perMinute int, log *zap.Logger) *IPRateLimiter {
	if perMinute <= 0 {
		perMinute = 10
	}
	return &IPRateLimiter{
		rate:  rate.Limit(float64(perMinute) / 60.0),
		burst: perMinute,
		log:   log,
	}
}

func (l *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	v, _ := l.visitors.LoadOrStore(ip, &visitor{limiter: rate.NewLimiter(l.rate, l.burst)})
	vi := v.(*visitor)
	vi.lastSeen.Store(time.Now().UnixNano())
	return vi.limiter
}

// Cleanup drops visitors idle for longer than idle, every interval, until ctx is done.
func (l *IPRateLimiter) Cleanup(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.sweep(now.Add(-idle))
		}
	}
}

func (l *IPRateLimiter) sweep(cutoff time.Time) {
	l.visitors.Range(func(k, v any) bool {
		if time.Unix(0, v.(*visitor).lastSeen.Load()).Before(cutoff) {
			l.visitors.Delete(k)
		}
		return true
	})
}

func (l *IPRateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !l.getLimiter(ip).Allow() {
			l.log.Warn("rate limit exceeded", zap.String("ip", ip), zap.String("path", c.Request.URL.Path))
			response.TooManyRequests(c, "Too many requests, please try again later")
			return
		}
		c.Next()
	}
}
