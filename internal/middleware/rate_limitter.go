package middleware

import (
	"net/http"
	"sync"
	"time"

	"VoiceAssistant/pkg/response"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL       = 10 * time.Minute
	limiterSweepInterval = time.Minute
)

var (
	ErrTooManyRequests = response.NewError(http.StatusTooManyRequests, "too many requests")
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiter keeps one token bucket per client IP and forgets clients that
// have been idle for limiterIdleTTL.
type rateLimiter struct {
	bucket    map[string]*clientLimiter
	rate      rate.Limit
	burstSize int
	lastSweep time.Time
	now       func() time.Time
	mutex     sync.Mutex
}

func newRateLimiter(reqRate rate.Limit, burstSize int) *rateLimiter {
	return &rateLimiter{
		bucket:    make(map[string]*clientLimiter),
		rate:      reqRate,
		burstSize: burstSize,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (r *rateLimiter) GetLimiterFrom(ip string) *rate.Limiter {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	now := r.now()
	if now.Sub(r.lastSweep) >= limiterSweepInterval {
		for key, cl := range r.bucket {
			if now.Sub(cl.lastSeen) >= limiterIdleTTL {
				delete(r.bucket, key)
			}
		}
		r.lastSweep = now
	}

	cl, exist := r.bucket[ip]
	if !exist {
		cl = &clientLimiter{limiter: rate.NewLimiter(r.rate, r.burstSize)}
		r.bucket[ip] = cl
	}
	cl.lastSeen = now

	return cl.limiter
}

func (m *middleware) NewRateLimiter(ctx *fiber.Ctx) error {
	clientIP := ctx.IP()
	limiter := m.rateLimitter.GetLimiterFrom(clientIP)

	if !limiter.Allow() {
		m.log.Warnf("too many requests for IP %s", clientIP)
		return ctx.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": ErrTooManyRequests.Error(),
		})
	}

	return ctx.Next()
}
