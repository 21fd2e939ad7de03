package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"videoflix/repository"
	"videoflix/service"
)

// App is what the HTTP handlers need.
type App struct {
	Catalog  *service.CatalogService
	Progress *service.ProgressService
	Streams  *service.StreamService
	Tokens   repository.TokenRepository
}

type handlers struct {
	app *App
}

func NewRouter(logger zerolog.Logger, app *App) *gin.Engine {
	h := &handlers{app: app}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))
	addHealth(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/video/:id/stream/:resolution/:filename", h.stream)
	r.HEAD("/video/:id/stream/:resolution/:filename", h.stream)
	r.GET("/video/:id/thumbnail", h.thumbnail)
	r.HEAD("/video/:id/thumbnail", h.thumbnail)

	authed := r.Group("/", authenticate(app.Tokens))
	authed.GET("/videos", h.listVideos)
	authed.GET("/video/:id", h.videoDetail)

	private := authed.Group("/", requireAuth)
	private.POST("/upload", h.upload)
	private.POST("/video/progress", h.updateProgress)
	private.GET("/video/continue", h.continueWatching)
	private.GET("/jobs/:id", h.jobStatus)

	r.NoRoute(func(c *gin.Context) {
		abortDetail(c, http.StatusNotFound, "Not found.")
	})
	return r
}

func addHealth(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})
}
