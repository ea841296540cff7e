package middleware

import (
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/training/practice/internal/response"
)

// HeaderClientVersion is informational only and never changes behavior.
const HeaderClientVersion = "X-Client-Version"

// RequestLogger binds a request-scoped logger to the request context and,
// while enabled is set, writes one access log line per request. enabled may
// be flipped at runtime. It must run after response.RequestIDMiddleware.
func RequestLogger(log zerolog.Logger, enabled *atomic.Bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqID := response.RequestID(c)

		reqLog := log.With().Str("request_id", reqID).Logger()
		c.Request = c.Request.WithContext(reqLog.WithContext(c.Request.Context()))

		c.Next()

		if enabled == nil || !enabled.Load() {
			return
		}

		status := c.Writer.Status()
		evt := reqLog.Info()
		switch {
		case status >= 500:
			evt = reqLog.Error()
		case status >= 400:
			evt = reqLog.Warn()
		}

		clientVersion := c.GetHeader(HeaderClientVersion)
		if clientVersion == "" {
			clientVersion = "1.0"
		}

		evt.
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Str("uri", c.Request.URL.RequestURI()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Str("client_version", clientVersion).
			Msg("HTTP request")
	}
}
