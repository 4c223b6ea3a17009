package httpapi

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs method/path/status/duration around every request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

// Recovery turns a panic in a handler into a 500 JSON error instead of
// killing the process.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("panic recovered", "error", r, "path", c.Request.URL.Path)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("internal error: %v", r)})
			}
		}()
		c.Next()
	}
}

type rateLimitEntry struct {
	count       int
	windowStart time.Time
}

// RateLimit returns a fixed-window per-client-IP limiter. Applied to
// POST /export, since export jobs are the one endpoint expensive enough
// (disk writes, potential AI calls) to need throttling.
func RateLimit(limit int, window time.Duration) gin.HandlerFunc {
	var mu sync.Mutex
	entries := make(map[string]*rateLimitEntry)

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			mu.Lock()
			cutoff := time.Now().Add(-window)
			for k, e := range entries {
				if e.windowStart.Before(cutoff) {
					delete(entries, k)
				}
			}
			mu.Unlock()
		}
	}()

	return func(c *gin.Context) {
		key := c.ClientIP()
		now := time.Now()

		mu.Lock()
		e, ok := entries[key]
		if !ok || now.Sub(e.windowStart) >= window {
			e = &rateLimitEntry{count: 0, windowStart: now}
			entries[key] = e
		}
		e.count++
		count := e.count
		retryAfter := window - now.Sub(e.windowStart)
		mu.Unlock()

		if count > limit {
			c.Writer.Header().Set("Retry-After", fmt.Sprintf("%.0f", retryAfter.Seconds()))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded, try again later"})
			return
		}
		c.Next()
	}
}
