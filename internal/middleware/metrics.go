package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// requestObserver is the slice of the metrics service the middleware needs.
type requestObserver interface {
	ObserveRequest(method, route, status string, elapsed time.Duration)
}

// Metrics records latency and volume per route. The route template, not
// the raw path, is used as the label to keep cardinality bounded.
func Metrics(observer requestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		observer.ObserveRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(started))
	}
}
