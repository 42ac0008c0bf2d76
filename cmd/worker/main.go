package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"school-library-backend/pkg/container"
	"school-library-backend/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()
	logger.Init(os.Getenv("APP_ENV"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize container
	c, err := container.NewContainer(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("[Container] Failed to initialize")
	}
	defer c.Cleanup()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("[Config] Invalid configuration")
	}

	handlers := initializeHandlers(c)
	srv := setupAsynqServer(cfg, handlers)
	scheduler := setupScheduler(cfg)

	if err := startServices(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("[Startup] Health check failed")
	}

	<-ctx.Done()

	log.Info().Msg("[Shutdown] Gracefully stopping...")
	scheduler.Shutdown()
	srv.Shutdown()
	log.Info().Msg("[Shutdown] Stopped")
}
