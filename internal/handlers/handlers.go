// Package handlers exposes the HTTP API: generate, preview and export styled
// codes back out of the artifact service.
package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/qrstudio/qrstudio/internal/artifact"
)

// Handler carries the dependencies shared by all HTTP endpoints.
type Handler struct {
	log     *slog.Logger
	service *artifact.Service
}

// New returns a Handler bound to the given service.
func New(log *slog.Logger, service *artifact.Service) *Handler {
	return &Handler{log: log, service: service}
}

// Register mounts all API routes on the router.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/healthz", h.Health)
	api := r.Group("/api")
	{
		api.POST("/generate", h.Generate)
		api.GET("/preview", h.Preview)
		api.POST("/export", h.Export)
		api.GET("/formats", h.Formats)
	}
}

// Health answers load-balancer checks.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}
