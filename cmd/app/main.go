package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"VoiceAssistant/internal/config"
	"VoiceAssistant/pkg/log"

	"github.com/joho/godotenv"
)

func main() {
	logger := log.NewLogger()
	if err := godotenv.Load(); err != nil {
		logger.Warnf("No .env file loaded: %v", err)
	}

	env, err := config.LoadEnv()
	if err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}

	fiberApp := config.NewFiber(logger, env.MaxUploadSize)
	validator := config.NewValidator()

	server, err := config.NewServer(
		config.WithFiber(fiberApp),
		config.WithLogger(logger),
		config.WithEnv(env),
		config.WithValidator(validator),
		config.WithUtils(),
		config.WithDocumentStore(),
		config.WithLocker(),
		config.WithAssetBackend(),
		config.WithMiddleware(),
	)
	if err != nil {
		logger.Fatal(err)
	}

	server.RegisterHandler()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Run(); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.WithFields(log.Fields{
		"port":           env.AppPort,
		"scope_mode":     env.ScopeMode,
		"storage_driver": env.StorageDriver,
		"lock_driver":    env.LockDriver,
	}).Info("Server started successfully")

	<-sigChan
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Error during shutdown: %v", err)
	}
}
