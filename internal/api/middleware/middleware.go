// Package middleware provides HTTP middleware for the report API.
package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bizhealth/reportgen/pkg/errors"
	"github.com/bizhealth/reportgen/pkg/idgen"
	"github.com/bizhealth/reportgen/pkg/logger"
	"github.com/bizhealth/reportgen/pkg/telemetry"
)

// Keys shared between the middleware chain and the handlers
const (
	HeaderRequestID     = "X-Request-ID"
	ContextKeyRequestID = "request_id"
	// ContextKeyRunID is set by handlers that build or read a report run
	ContextKeyRunID = "run_id"
)

// LoggerConfig holds the configuration for the Logger middleware
type LoggerConfig struct {
	// AccessLog logs successful requests at info level. Failed requests are
	// always logged.
	AccessLog bool
}

// Logger records request metrics and logs each request with its request id
// and, when a handler touched one, the report run id.
func Logger(cfg *LoggerConfig) gin.HandlerFunc {
	accessLog := cfg != nil && cfg.AccessLog

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		// Unmatched routes are grouped to keep metric cardinality bounded
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		telemetry.GetMetrics().RecordHTTPRequest(c.Request.Context(), c.Request.Method, route, status, latency.Seconds())

		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", latency),
		}
		if id := c.GetString(ContextKeyRequestID); id != "" {
			fields = append(fields, zap.String(ContextKeyRequestID, id))
		}
		if runID := c.GetString(ContextKeyRunID); runID != "" {
			fields = append(fields, zap.String(logger.FieldRunID, runID))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("error", c.Errors.String()))
		}

		switch {
		case status >= 500:
			logger.Error("Server error", fields...)
		case status >= 400:
			logger.Warn("Client error", fields...)
		case accessLog:
			logger.Info("Request", fields...)
		}
	}
}

// Recovery turns a panicking handler into a 500 response
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("Panic recovered",
					zap.Any("error", err),
					zap.ByteString("stack", debug.Stack()),
					zap.String("path", c.Request.URL.Path),
					zap.String("method", c.Request.Method),
					zap.String(ContextKeyRequestID, c.GetString(ContextKeyRequestID)),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					errorBody(c, errors.ErrCodeInternal, "Internal server error"))
			}
		}()
		c.Next()
	}
}

// CORS allows whitelisted origins to call the report API
func CORS(allowedOrigins []string) gin.HandlerFunc {
	originSet := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		originSet[origin] = true
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		allowed := origin != "" && originSet[origin]

		if allowed {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, "+HeaderRequestID)
			c.Header("Access-Control-Expose-Headers", "Content-Length, Content-Type, "+HeaderRequestID)
			c.Header("Access-Control-Max-Age", "86400")
		}

		if c.Request.Method == http.MethodOptions {
			if allowed {
				c.AbortWithStatus(http.StatusNoContent)
			} else {
				c.AbortWithStatus(http.StatusForbidden)
			}
			return
		}

		c.Next()
	}
}

// RequestID propagates the caller's X-Request-ID or assigns a new one
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.Request.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = idgen.NewRequestID()
		}
		c.Set(ContextKeyRequestID, requestID)
		c.Header(HeaderRequestID, requestID)
		c.Next()
	}
}

// ErrorHandler renders the last error attached with c.Error. Outside debug
// mode the messages of internal errors are hidden.
func ErrorHandler(debugMode bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		if appErr, ok := errors.AsAppError(err); ok {
			msg := appErr.Message
			if appErr.HTTPStatus() >= http.StatusInternalServerError && !debugMode {
				msg = "Internal server error"
			}
			c.JSON(appErr.HTTPStatus(), errorBody(c, appErr.Code, msg))
			return
		}

		msg := "Internal server error"
		if debugMode {
			msg = err.Error()
		}
		c.JSON(http.StatusInternalServerError, errorBody(c, errors.ErrCodeInternal, msg))
	}
}

// errorBody is the JSON shape of every API error
func errorBody(c *gin.Context, code errors.ErrorCode, msg string) gin.H {
	body := gin.H{
		"code":    code,
		"message": msg,
	}
	if id := c.GetString(ContextKeyRequestID); id != "" {
		body[ContextKeyRequestID] = id
	}
	if runID := c.GetString(ContextKeyRunID); runID != "" {
		body[ContextKeyRunID] = runID
	}
	return body
}
