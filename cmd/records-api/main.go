// main is the entry point of the student records API.
//
// Startup sequence:
//  1. Load configuration from a YAML file
//  2. Initialise the logger
//  3. Connect to the record store, retrying every 5 s until it is up
//  4. Register the HTTP routes behind the CORS allow-list
//  5. Start the HTTP server in a separate goroutine
//  6. Block until an OS signal (Ctrl+C / kill) arrives
//  7. Gracefully shut down: finish in-flight requests, then exit
//
// Running the server:
//
//	go run ./cmd/records-api --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/records-api
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/revathy-s/student-records-api/internal/config"
	"github.com/revathy-s/student-records-api/internal/http/handlers/record"
	"github.com/revathy-s/student-records-api/internal/http/middleware"
	"github.com/revathy-s/student-records-api/internal/storage"
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting records-api",
		slog.String("env", cfg.Env),
		slog.String("version", "1.0.0"),
	)

	// The process refuses to serve without a store: Open blocks, retrying
	// on a fixed delay, until the connection and first ping succeed.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg, log)
	if err != nil {
		log.Error("shutdown requested before storage came up",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	log.Info("storage initialised", slog.String("driver", cfg.Database.Driver))

	// Background ping supervisor: the pool re-dials dropped connections
	// itself, this just makes outages visible in the logs.
	go storage.Supervise(ctx, store, 30*time.Second, log)

	// Route table:
	//   POST   /users       → create a record
	//   GET    /users       → list all records
	//   PATCH  /users/{id}  → full-record update
	//   DELETE /users/{id}  → delete a record
	router := http.NewServeMux()
	router.HandleFunc("POST /users", record.New(store))
	router.HandleFunc("GET /users", record.GetList(store))
	router.HandleFunc("PATCH /users/{id}", record.Update(store))
	router.HandleFunc("DELETE /users/{id}", record.Delete(store))

	server := &http.Server{
		Addr:    cfg.HTTPServer.Addr,
		Handler: middleware.CORS(cfg.AllowedOrigins, router),

		// Timeouts guard against slow-client attacks.
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		if err := server.ListenAndServe(); err != nil &&
			err != http.ErrServerClosed {
			log.Error("server encountered an error",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	log.Info("shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown server gracefully",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}

// setupLogger returns a *slog.Logger configured for the given
// environment: human-readable text at debug level for dev, JSON for
// staging and prod.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default: // "dev" and anything unrecognised
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	}
}
