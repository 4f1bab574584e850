package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"royalty-backend/pkg/metrics"
)

// Metrics records request latency labelled by the matched route template,
// so /books/1 and /books/2 share one series.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		metrics.ObserveHTTPRequest(c.FullPath(), c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
