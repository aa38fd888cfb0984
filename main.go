package main

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/qrstudio/qrstudio/internal/artifact"
	"github.com/qrstudio/qrstudio/internal/config"
	"github.com/qrstudio/qrstudio/internal/export"
	"github.com/qrstudio/qrstudio/internal/handlers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	level, _ := cfg.SlogLevel()
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	registry := export.NewRegistry(cfg.MaxCanvasPixels)
	service, err := artifact.New(log, registry, cfg.ArtifactDir, cfg.PreviewCacheSize)
	if err != nil {
		log.Error("init artifact service", slog.Any("error", err))
		os.Exit(1)
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	handlers.New(log, service).Register(r)

	log.Info("listening", slog.String("addr", cfg.Addr))
	if err := r.Run(cfg.Addr); err != nil {
		log.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
