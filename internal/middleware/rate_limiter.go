package middleware

import (
	"net/http"
	"sync"
	"time"

	"bodega/internal/apierror"

	"github.com/gin-gonic/gin"
)

// ipWindow counts requests from one client inside the current window.
type ipWindow struct {
	mu      sync.Mutex
	count   int
	expires time.Time
}

var (
	ipWindows   = make(map[string]*ipWindow)
	ipWindowsMu sync.Mutex
)

// RateLimiter caps requests per client IP over a fixed window. The counter
// resets when the window expires rather than sliding, which is enough to
// keep a runaway client from starving the audit endpoints.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		ipWindowsMu.Lock()
		w, ok := ipWindows[ip]
		if !ok {
			w = &ipWindow{}
			ipWindows[ip] = w
		}
		ipWindowsMu.Unlock()

		w.mu.Lock()
		defer w.mu.Unlock()

		now := time.Now()
		if now.After(w.expires) {
			w.count = 0
			w.expires = now.Add(window)
		}

		w.count++
		if w.count > limit {
			c.Header("Retry-After", w.expires.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas solicitudes. Intente nuevamente en un momento."))
			return
		}
		c.Next()
	}
}

// Expired windows are purged on a timer so the map does not grow with every
// IP that ever hit the API.

const purgeInterval = 5 * time.Minute

func init() {
	go purgeWindows()
}

func purgeWindows() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()

		ipWindowsMu.Lock()
		for ip, w := range ipWindows {
			w.mu.Lock()
			if now.After(w.expires) {
				delete(ipWindows, ip)
			}
			w.mu.Unlock()
		}
		ipWindowsMu.Unlock()
	}
}
