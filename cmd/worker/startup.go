package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"school-library-backend/internal/config"
	"school-library-backend/internal/infrastructure/queue"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const healthAddr = ":9999"

// startServices performs health checks then exposes the worker probe endpoints
func startServices(ctx context.Context, cfg *config.Config) error {
	log.Info().Str("app", cfg.App.Name).Msg("Library worker starting")

	redis := queue.NewRedisClient(cfg.Redis)
	defer redis.Close()

	checks := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"Redis Connection", redis.HealthCheck},
	}

	for _, check := range checks {
		if err := check.fn(ctx); err != nil {
			log.Error().Err(err).Str("check", check.name).Msg("Health check failed")
			return fmt.Errorf("%s failed: %w", check.name, err)
		}
		log.Info().Str("check", check.name).Msg("Health check OK")
	}

	go startHealthCheckServer(ctx)
	return nil
}

func startHealthCheckServer(ctx context.Context) {
	router := gin.New()
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "service": "library-worker"})
	})
	router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "READY"})
	})

	srv := &http.Server{Addr: healthAddr, Handler: router, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", healthAddr).Msg("[Health] Starting health check server")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("[Health] Failed to start")
	}
}
