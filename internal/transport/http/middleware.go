package http

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/msoohome/storefront/internal/metrics"
)

const requestIDKey = "request_id"

// RequestID propagates X-Request-ID, generating one when the client did
// not send it.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set("X-Request-ID", rid)
		c.Next()
	}
}

// Logger writes one structured line per request.
func Logger(logger *log.Entry) gin.HandlerFunc {
	if logger == nil {
		logger = log.NewEntry(log.New())
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.WithFields(log.Fields{
			"request_id": c.GetString(requestIDKey),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).String(),
		}).Info("request handled")
	}
}

// Metrics records request counters and latencies. Routes are labelled by
// the matched pattern, not the raw path, to keep cardinality bounded.
func Metrics(m *metrics.HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		m.RequestStarted()
		start := time.Now()
		c.Next()
		m.RequestFinished()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RecordRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
