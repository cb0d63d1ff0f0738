package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/splitmate/splitmate/internal/auth"
	"github.com/splitmate/splitmate/internal/config"
	"github.com/splitmate/splitmate/internal/engine"
	"github.com/splitmate/splitmate/internal/events"
	"github.com/splitmate/splitmate/internal/handlers"
	"github.com/splitmate/splitmate/internal/storage/sqlite"
	"github.com/splitmate/splitmate/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eng := engine.New(store)
	go eng.Run(ctx)

	// Redis is optional: without it the event bus is off and this instance
	// only reacts to its own writes.
	var publisher *events.Publisher
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer client.Close()
		publisher = events.NewPublisher(client)

		consumer, _ := os.Hostname()
		if consumer == "" {
			consumer = "splitmate"
		}
		subscriber := events.NewSubscriber(client, "splitmate-recompute", consumer, func(ctx context.Context, event events.Event) error {
			eng.Trigger(event.GroupID, "event")
			return nil
		})
		go func() {
			if err := subscriber.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("Event subscriber stopped", "error", err)
			}
		}()
		slog.Info("Event bus connected", "addr", cfg.RedisAddr, "consumer", consumer)
	}

	authenticator := auth.NewPasswordAuthenticator(store)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTExpiryDuration)

	router := handlers.New(store, authenticator, jwtManager, eng, publisher).Router()

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Shutdown incomplete", "error", err)
	}
}
