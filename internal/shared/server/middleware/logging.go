package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"makeup-backend/internal/shared/metrics"
	"makeup-backend/internal/shared/telemetry"
)

// Context keys handlers set so the request log can correlate entities.
const (
	PhotoIDKey          = "photoId"
	AnalysisIDKey       = "analysisId"
	StatusTransitionKey = "statusTransition"
)

// Logging writes one request.complete line per request. Probe routes log
// at debug, 4xx at warn and 5xx at error.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		metrics.IncHTTPResponse(statusClass(status))

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      status,
			"duration_ms": float64(time.Since(start).Microseconds()) / 1000.0,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if id, ok := IdentityFromContext(c); ok {
			fields["user_id"] = id.UserID
			fields["is_guest"] = id.IsGuest
		}
		for key, ctxKey := range map[string]string{
			"photo_id":          PhotoIDKey,
			"analysis_id":       AnalysisIDKey,
			"status_transition": StatusTransitionKey,
		} {
			if v := c.GetString(ctxKey); v != "" {
				fields[key] = v
			}
		}
		if errs := c.Errors.ByType(gin.ErrorTypeAny); len(errs) > 0 {
			fields["errors"] = errs.String()
		}

		switch {
		case status >= http.StatusInternalServerError:
			telemetry.Error("request.complete", fields)
		case status >= http.StatusBadRequest:
			telemetry.Warn("request.complete", fields)
		case isProbe(c.FullPath()):
			telemetry.Debug("request.complete", fields)
		default:
			telemetry.Info("request.complete", fields)
		}
	}
}

func isProbe(route string) bool {
	_, ok := publicPaths[route]
	return ok
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
