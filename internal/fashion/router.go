package fashion

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"style-finder/internal/shared/metrics"
	"style-finder/internal/shared/server/middleware"
	"style-finder/internal/shared/server/respond"
)

const analyzeRateGroup = "ANALYZE"

// RouterOpts configures the API engine.
type RouterOpts struct {
	AllowOrigins []string
	AnalyzeRate  middleware.RateLimitRule
	// Limiter is shared across engines when set. Tests inject a clock here.
	Limiter *middleware.RateLimiter
}

// NewRouter constructs the API engine with middleware and routes registered.
func NewRouter(h *Handler, opts RouterOpts) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = h.maxUploadBytes()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(opts.AllowOrigins),
		middleware.RateLimit(middleware.RateLimitConfig{
			GroupFor: rateGroup,
			Limiter:  opts.Limiter,
			Rules: map[string]middleware.RateLimitRule{
				analyzeRateGroup: opts.AnalyzeRate,
			},
		}),
	)

	r.GET("/healthz", func(c *gin.Context) {
		respond.OK(c, gin.H{"ok": true})
	})
	r.GET("/metrics", metrics.Handler())
	h.RegisterRoutes(r)

	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "not_found", "Route not found", nil)
	})
	return r
}

func rateGroup(c *gin.Context) string {
	if c.Request.Method == http.MethodPost && c.FullPath() == "/api/analyze" {
		return analyzeRateGroup
	}
	return ""
}
