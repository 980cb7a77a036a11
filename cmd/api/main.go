package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/joonhok/docuguide/backend/internal/config"
	"github.com/joonhok/docuguide/backend/internal/gateway"
	"github.com/joonhok/docuguide/backend/internal/handler"
	citationservice "github.com/joonhok/docuguide/backend/internal/service/citation"
	sessionservice "github.com/joonhok/docuguide/backend/internal/service/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := newLogger()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	inference := gateway.New(cfg.Inference.BaseURL, cfg.Inference.Timeout, logger)
	sessions := sessionservice.NewRegistry(inference, cfg.Chat.SessionTTL, cfg.Chat.SuggestionLimit, logger)
	resolver := citationservice.NewResolver(cfg.Inference.FileBaseURL)

	router := handler.NewRouter(inference, sessions, resolver, logger)

	logger.Info("docuguide backend starting",
		zap.String("addr", cfg.Server.Addr),
		zap.String("inference", inference.BaseURL()))

	if err := runServer(ctx, cfg.Server.Addr, router); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func newLogger() (*zap.Logger, error) {
	if os.Getenv("APP_ENV") == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func runServer(ctx context.Context, addr string, router http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
