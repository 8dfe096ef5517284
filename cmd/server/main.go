package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"factory-scoring-service/internal/adapters/primary/http/handlers"
	"factory-scoring-service/internal/adapters/primary/http/middleware"
	"factory-scoring-service/internal/app"
	"factory-scoring-service/internal/config"
	"factory-scoring-service/internal/logger"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logCloser := logger.Init(cfg.Logger)
	defer logCloser.Close()

	// The service does not start without a loaded model.
	initCtx, cancelInit := context.WithTimeout(context.Background(), 5*time.Minute)
	rt, err := app.Bootstrap(initCtx, cfg)
	cancelInit()
	if err != nil {
		log.Fatalf("init model: %v", err)
	}
	defer rt.Close()

	h := handlers.New(rt.Scoring, rt.SchemaDoc)

	// Setup router
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery())

	api := router.Group("/api/v1")
	h.RegisterRoutes(api)
	router.POST("/score", h.Score)

	router.GET("/healthz", func(c *gin.Context) {
		if !rt.Scoring.Ready() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": "model not loaded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced shutdown: %v", err)
	}

	log.Info("server stopped")
}
