// Package storage defines the Storage interface — the contract any
// record-store backend must satisfy — plus the connect-retry and
// supervision logic shared by all backends.
//
// Handlers depend only on this interface, never on a concrete driver.
// Swapping backends is a config change, and tests pass a stub or an
// in-memory SQLite store without touching the handlers.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/revathy-s/student-records-api/internal/config"
	"github.com/revathy-s/student-records-api/internal/storage/postgres"
	"github.com/revathy-s/student-records-api/internal/storage/sqlite"
	"github.com/revathy-s/student-records-api/internal/types"
)

// Storage is the record-store contract.
//
// Update and Delete report the number of rows affected so the service
// layer can tell "matched nothing" apart from success instead of the
// store masking it.
type Storage interface {
	// CreateRecord inserts a new record and returns the store-assigned
	// primary-key id.
	CreateRecord(ctx context.Context, rec types.Record) (int64, error)

	// ListRecords returns every record in store-native order.
	// Returns an empty slice (not nil) when the table is empty.
	ListRecords(ctx context.Context) ([]types.Record, error)

	// UpdateRecord overwrites all non-id fields of the row matching id
	// and returns the number of rows affected (0 when id matched nothing).
	UpdateRecord(ctx context.Context, id int64, rec types.Record) (int64, error)

	// DeleteRecord removes the row matching id, if present, and returns
	// the number of rows affected.
	DeleteRecord(ctx context.Context, id int64) (int64, error)

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error

	// Close releases the underlying connections.
	Close() error
}

// connectRetryDelay is the fixed wait between connection attempts at
// startup. No backoff growth and no attempt limit: the process keeps
// retrying until the store comes up or ctx is canceled.
const connectRetryDelay = 5 * time.Second

// Open establishes a store connection for the configured driver,
// retrying on a fixed delay until it succeeds. Each failure is logged;
// the only way Open returns an error is ctx cancellation.
func Open(ctx context.Context, cfg *config.Config, log *slog.Logger) (Storage, error) {
	switch cfg.Database.Driver {
	case "", "postgres", "sqlite":
	default:
		// A typo in config can never connect; retrying it would loop
		// forever. Fail fast instead.
		return nil, fmt.Errorf("storage.Open: unknown driver %q", cfg.Database.Driver)
	}

	for {
		store, err := open(cfg)
		if err == nil {
			if err = store.Ping(ctx); err == nil {
				return store, nil
			}
			_ = store.Close()
		}

		log.Error("store connection failed, retrying",
			slog.String("driver", cfg.Database.Driver),
			slog.Duration("retry_in", connectRetryDelay),
			slog.String("error", err.Error()),
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(connectRetryDelay):
		}
	}
}

func open(cfg *config.Config) (Storage, error) {
	switch cfg.Database.Driver {
	case "sqlite":
		return sqlite.New(cfg)
	case "", "postgres":
		return postgres.New(cfg)
	default:
		return nil, fmt.Errorf("storage.open: unknown driver %q", cfg.Database.Driver)
	}
}

// Supervise pings the store on a fixed interval until ctx is canceled,
// logging availability transitions. The pool underneath re-dials dropped
// connections on its own; this loop exists so an outage shows up in the
// logs as it happens rather than on the next unlucky request.
func Supervise(ctx context.Context, store Storage, interval time.Duration, log *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	healthy := true
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := store.Ping(ctx)
			switch {
			case err != nil && healthy:
				healthy = false
				log.Error("store became unreachable", slog.String("error", err.Error()))
			case err == nil && !healthy:
				healthy = true
				log.Info("store connection re-established")
			}
		}
	}
}
