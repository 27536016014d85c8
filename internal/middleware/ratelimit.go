package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/guttosm/tickerrank/internal/domain/dto"
)

const (
	defaultRPS   = 1.0 // sustained requests per second per client
	defaultBurst = 60
	idleTTL      = 3 * time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type visitors struct {
	mu    sync.Mutex
	rps   rate.Limit
	burst int
	byIP  map[string]*visitor
	swept time.Time
}

func (v *visitors) get(ip string, now time.Time) *rate.Limiter {
	v.mu.Lock()
	defer v.mu.Unlock()

	if now.Sub(v.swept) > idleTTL {
		for k, vis := range v.byIP {
			if now.Sub(vis.lastSeen) > idleTTL {
				delete(v.byIP, k)
			}
		}
		v.swept = now
	}

	vis, ok := v.byIP[ip]
	if !ok {
		vis = &visitor{limiter: rate.NewLimiter(v.rps, v.burst)}
		v.byIP[ip] = vis
	}
	vis.lastSeen = now
	return vis.limiter
}

// RateLimiter limits each client IP to a token bucket of 60 requests refilled
// at one per second.
func RateLimiter() gin.HandlerFunc {
	return NewRateLimiter(defaultRPS, defaultBurst)
}

// NewRateLimiter returns a per-client-IP token bucket middleware. Requests
// over the budget get 429 Too Many Requests.
//
// Usage:
//
//	router := gin.New()
//	router.Use(middleware.NewRateLimiter(5, 10))
func NewRateLimiter(rps float64, burst int) gin.HandlerFunc {
	store := &visitors{rps: rate.Limit(rps), burst: burst, byIP: make(map[string]*visitor)}
	return func(c *gin.Context) {
		if !store.get(c.ClientIP(), time.Now()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse("rate limit exceeded", nil))
			return
		}
		c.Next()
	}
}
