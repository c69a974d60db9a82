package api

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/frijal/ArtikelHub/internal/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BasicAuth protects the whole site with one user/password pair. /health
// stays open for probes.
func BasicAuth(user, pass string) gin.HandlerFunc {
	const realm = "Restricted"
	uBytes := []byte(user)
	pBytes := []byte(pass)

	return func(c *gin.Context) {
		if c.Request.URL.Path == "/health" {
			c.Next()
			return
		}
		u, p, ok := c.Request.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(u), uBytes) != 1 ||
			subtle.ConstantTimeCompare([]byte(p), pBytes) != 1 {
			c.Header("WWW-Authenticate", `Basic realm="`+realm+`"`)
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}

// Metrics records request counts and latency per route template.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		metrics.ObserveHTTPRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}

// RequestLogger logs one line per request.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("took", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		if status >= http.StatusInternalServerError {
			log.Warn("request", fields...)
			return
		}
		log.Debug("request", fields...)
	}
}
