package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"chat-relay/infrastructure/transport"
	"chat-relay/joke"
	"chat-relay/moderation"
	"chat-relay/runtime"
	"chat-relay/runtime/workers"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and centralizes
// error reporting, so 'defer' cleanup executes before the process exits and the
// entry point stays testable.
func run() error {
	// 1. Configuration & Logger
	// A local .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := validator.New().Struct(config); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Moderation (optional)
	var moderator *moderation.Moderator
	if config.EnableModeration {
		mask, err := MaskRune(config.ModerationMask)
		if err != nil {
			return err
		}
		moderator, err = moderation.NewModerator(moderation.DefaultWords(), mask)
		if err != nil {
			return fmt.Errorf("moderation setup: %w", err)
		}
		log.Info("Moderation enabled", "words", len(moderation.DefaultWords()))
	}

	// 3. Core components
	registry := runtime.NewRegistry()
	jokes := joke.NewClient(log, config.JokeBaseURL, config.JokeTimeout)

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Background workers under supervision
	sup := workers.NewSupervisor(log)
	sup.Add(workers.NewTelemetryWorker(log, registry, config.StatsInterval))
	go sup.Run(ctx)

	// 6. HTTP server with the websocket endpoint
	handler := transport.NewHandler(log, registry, jokes, moderator,
		config.AllowedOrigins, config.SendBufferSize, config.InboxSize,
		config.JokeTimeout)

	mux := http.NewServeMux()
	mux.Handle("GET /chat/{room}", handler)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	server := &http.Server{Addr: address, Handler: mux}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting chat relay", "address", address, "at", time.Now().UTC())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 8. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
	sup.Stop()
	log.Info("Program stopped cleanly")

	return nil
}
