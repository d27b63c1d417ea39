package sessions

import (
	"membergate/common"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Login attempts per client IP: 5 per minute with a burst of 5. Failed
// credentials already cost a remote round trip, so the limiter sits in
// front of the login route only.
const loginRatePerMinute = 5

// visitorIdleTimeout is how long an IP has to stay quiet before its
// limiter entry is dropped. An entry is never dropped while the IP keeps
// hitting the route, so an exhausted limiter stays exhausted.
const visitorIdleTimeout = 10 * time.Minute

const sweepInterval = time.Minute

type visitorLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type loginRateLimiter struct {
	visitors map[string]*visitorLimiter
	mu       sync.Mutex
}

var activeLoginLimiter = newLoginRateLimiter()

func newLoginRateLimiter() *loginRateLimiter {
	rl := &loginRateLimiter{visitors: map[string]*visitorLimiter{}}
	go rl.sweepLoop()
	return rl
}

func (rl *loginRateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if visitor, exists := rl.visitors[ip]; exists {
		visitor.lastSeen = time.Now()
		return visitor.limiter
	}

	visitor := &visitorLimiter{
		limiter:  rate.NewLimiter(rate.Every(time.Minute/loginRatePerMinute), loginRatePerMinute),
		lastSeen: time.Now(),
	}
	rl.visitors[ip] = visitor
	return visitor.limiter
}

func (rl *loginRateLimiter) evictIdle(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, visitor := range rl.visitors {
		if now.Sub(visitor.lastSeen) > visitorIdleTimeout {
			delete(rl.visitors, ip)
		}
	}
}

func (rl *loginRateLimiter) sweepLoop() {
	for {
		time.Sleep(sweepInterval)
		rl.evictIdle(time.Now())
	}
}

func LoginRateLimitFilter() gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := activeLoginLimiter.getLimiter(c.ClientIP())
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				&common.ErrorBody{Code: "common.too_many_requests", Message: "too many login attempts"})
			return
		}
		c.Next()
	}
}
