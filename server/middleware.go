package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/phuslu/log"
	"github.com/rustyeddy/pricepaths/pkg/id"
)

const requestIDKey = "request_id"

// requestLogger tags each request with an id and logs it once it
// completes.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = id.New()
		}
		c.Set(requestIDKey, rid)
		c.Header("X-Request-ID", rid)

		start := time.Now()
		c.Next()

		e := log.Info()
		if c.Writer.Status() >= 500 {
			e = log.Error()
		}
		e.Str("request_id", rid).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("query", c.Request.URL.RawQuery).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("http request")
	}
}
