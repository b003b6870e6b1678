package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"makeup-backend/internal/account"
	"makeup-backend/internal/analyses"
	"makeup-backend/internal/photos"
	"makeup-backend/internal/profiles"
	"makeup-backend/internal/shared/config"
	"makeup-backend/internal/shared/metrics"
	"makeup-backend/internal/shared/server/middleware"
	"makeup-backend/internal/shared/server/respond"
)

// RouterDeps carries the handlers mounted under /api/v1.
type RouterDeps struct {
	Config          config.Config
	PhotoHandler    *photos.Handler
	AnalysisHandler *analyses.Handler
	ProfileHandler  *profiles.Handler
	AccountHandler  *account.Handler
	RateLimits      map[string]middleware.RateLimitRule
	// Ready backs /api/v1/ready; nil means always ready.
	Ready func(ctx context.Context) error
}

// DefaultRateLimits are per-principal token buckets for each route group.
func DefaultRateLimits() map[string]middleware.RateLimitRule {
	return map[string]middleware.RateLimitRule{
		middleware.GroupDefault:  {Rate: 10, Burst: 30},
		middleware.GroupPolling:  {Rate: 2, Burst: 5},
		middleware.GroupUpload:   {Rate: 0.2, Burst: 5},
		middleware.GroupAnalysis: {Rate: 0.2, Burst: 3},
	}
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	rules := deps.RateLimits
	if rules == nil {
		rules = DefaultRateLimits()
	}

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules:    rules,
			GroupFor: rateLimitGroup,
		}),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true, "env": deps.Config.Env})
	})
	api.GET("/ready", func(c *gin.Context) {
		if deps.Ready != nil {
			if err := deps.Ready(c.Request.Context()); err != nil {
				respond.Error(c, http.StatusServiceUnavailable, "not_ready", "dependencies unavailable", gin.H{"error": err.Error()})
				return
			}
		}
		respond.OK(c, gin.H{"ready": true})
	})
	api.GET("/metrics", metrics.Handler())
	registerMeRoutes(api)

	if deps.ProfileHandler != nil {
		deps.ProfileHandler.RegisterRoutes(api)
	}
	if deps.PhotoHandler != nil {
		deps.PhotoHandler.RegisterRoutes(api)
	}
	if deps.AnalysisHandler != nil {
		deps.AnalysisHandler.RegisterRoutes(api)
	}
	if deps.AccountHandler != nil {
		deps.AccountHandler.RegisterRoutes(api)
	}

	return r
}

func rateLimitGroup(c *gin.Context) string {
	route := c.FullPath()
	method := c.Request.Method
	switch {
	case method == http.MethodGet && route == "/api/v1/analyses/:id":
		return middleware.GroupPolling
	case method == http.MethodPost && strings.HasSuffix(route, "/analyze"):
		return middleware.GroupAnalysis
	case method == http.MethodPost && (route == "/api/v1/photos" || strings.HasPrefix(route, "/api/v1/uploads/")):
		return middleware.GroupUpload
	case route == "/api/v1/health" || route == "/api/v1/ready" || route == "/api/v1/metrics":
		return "none"
	default:
		return middleware.GroupDefault
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
