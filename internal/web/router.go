package web

import (
	"net/http"

	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"

	"style-finder/internal/shared/metrics"
	"style-finder/internal/shared/server/middleware"
	"style-finder/internal/shared/server/respond"
)

// RouterOpts configures the front-end engine.
type RouterOpts struct {
	SecureCookies bool
}

// NewRouter constructs the front-end engine with middleware and routes
// registered.
func NewRouter(h *Handler, opts RouterOpts) *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(parseTemplates())
	r.MaxMultipartMemory = h.maxUploadBytes() + multipartSlack

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
	)
	r.Use(static.Serve("/static", newEmbeddedAssets()))

	r.GET("/healthz", func(c *gin.Context) {
		respond.OK(c, gin.H{"ok": true})
	})
	r.GET("/metrics", metrics.Handler())

	pages := r.Group("/", middleware.Session(opts.SecureCookies))
	h.RegisterRoutes(pages)

	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "not_found", "Page not found", nil)
	})
	return r
}
