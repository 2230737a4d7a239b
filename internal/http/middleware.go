// Package http provides the API server, middleware, and the metrics server.
package http

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/riskforge/compliance/internal/httputil"
)

// CustomLoggerMiddleware logs one structured line per HTTP request.
func CustomLoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Info("http request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		)
	}
}

// maxRateLimitEntries bounds the per-client limiter map; stale entries are
// evicted once the map grows past this size.
const maxRateLimitEntries = 10_000

// clientLimiter pairs a token-bucket limiter with its last use for eviction.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiters tracks one limiter per client address.
type rateLimiters struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	perSec  rate.Limit
	burst   int
}

func (r *rateLimiters) get(clientIP string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.clients) > maxRateLimitEntries {
		r.evictStale()
	}

	entry, ok := r.clients[clientIP]
	if !ok {
		entry = &clientLimiter{limiter: rate.NewLimiter(r.perSec, r.burst)}
		r.clients[clientIP] = entry
	}
	entry.lastSeen = time.Now()

	return entry.limiter
}

// evictStale drops limiters idle for over a minute. Called with the lock held.
func (r *rateLimiters) evictStale() {
	cutoff := time.Now().Add(-time.Minute)
	for ip, entry := range r.clients {
		if entry.lastSeen.Before(cutoff) {
			delete(r.clients, ip)
		}
	}
}

// RateLimitMiddleware limits requests per client address with a token bucket.
// Requests over the limit receive 429 Too Many Requests.
func RateLimitMiddleware(requestsPerSec float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	limiters := &rateLimiters{
		clients: make(map[string]*clientLimiter),
		perSec:  rate.Limit(requestsPerSec),
		burst:   burst,
	}

	return func(c *gin.Context) {
		if !limiters.get(c.ClientIP()).Allow() {
			logger.Warn("rate limit exceeded", slog.String("client_ip", c.ClientIP()))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, httputil.ErrorResponse{
				Error:   "rate_limited",
				Message: "Too many requests, slow down",
			})
			return
		}

		c.Next()
	}
}
