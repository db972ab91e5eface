package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/team-task-api/internal/metrics"
)

// RequestLogger logs every request and response and counts it in the
// request metrics.
func RequestLogger(logger *log.Logger) gin.HandlerFunc {
	logger = logger.WithPrefix("http")
	return func(c *gin.Context) {
		start := time.Now()
		logger.Debug("request",
			"method", c.Request.Method,
			"uri", c.Request.RequestURI,
			"addr", c.ClientIP())

		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		metrics.ObserveRequest(c.Request.Method, route, status)

		size := c.Writer.Size()
		if size < 0 {
			size = 0
		}
		kv := []any{
			"method", c.Request.Method,
			"route", route,
			"status", fmt.Sprintf("%d %s", status, http.StatusText(status)),
			"bytes", humanize.Bytes(uint64(size)),
			"time", time.Since(start),
		}
		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("response", append(kv, "errors", c.Errors.String())...)
		default:
			logger.Debug("response", kv...)
		}
	}
}
