package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MOULOUNDOU/Senchambre/internal/app"
	"github.com/MOULOUNDOU/Senchambre/internal/config"
	"github.com/MOULOUNDOU/Senchambre/internal/handlers"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger := cfg.NewLogger()
	if logger.IsLevelEnabled(logrus.DebugLevel) {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open storage and seed
	a, err := app.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("Startup error: %v", err)
	}
	defer a.Close()

	// Periodic cleanup of sessions and verification codes
	go a.RunCleanup(ctx, cfg.CleanupInterval)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.NewRouter(a.Service, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("shutdown error")
		}
	}()

	logger.Infof("Server started at http://localhost:%s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("Server start error: %v", err)
	}
	logger.Info("server stopped")
}
