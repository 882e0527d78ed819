// Package postgres provides the PostgreSQL-backed implementation of the
// record store using Go's standard database/sql package on top of the
// pgx driver.
//
// The *sql.DB underneath is a connection pool, safe for concurrent use:
// broken connections are discarded and re-dialed transparently, so a
// dropped store link surfaces to in-flight callers as an error rather
// than an indefinite hang.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/revathy-s/student-records-api/internal/config"
	"github.com/revathy-s/student-records-api/internal/types"

	// Blank import: registers pgx as a database/sql driver named "pgx".
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Postgres implements the storage contract over a pooled Postgres
// connection.
type Postgres struct {
	db *sql.DB
}

// New opens a pooled connection to the configured Postgres database and
// creates the users table if it does not already exist.
func New(cfg *config.Config) (*Postgres, error) {
	sslmode := "disable"
	if cfg.Database.SSL {
		sslmode = "require"
	}

	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		sslmode,
	)

	// sql.Open validates the DSN but does not dial yet; the first real
	// connection happens on the CREATE TABLE below.
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: open db: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id     BIGSERIAL PRIMARY KEY,
			name   TEXT    NOT NULL,
			reg_no TEXT    NOT NULL,
			dept   TEXT    NOT NULL,
			year   INTEGER NOT NULL,
			mail   TEXT    NOT NULL
		)
	`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres.New: create table: %w", err)
	}

	return &Postgres{db: db}, nil
}

// CreateRecord inserts one row and returns the assigned id.
// Postgres has no LastInsertId, so the insert uses RETURNING.
func (p *Postgres) CreateRecord(ctx context.Context, rec types.Record) (int64, error) {
	var id int64
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO users (name, reg_no, dept, year, mail)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		rec.Name, rec.RegNo, rec.Dept, rec.Year, rec.Mail,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("CreateRecord: insert: %w", err)
	}
	return id, nil
}

// ListRecords returns every row in store-native order.
func (p *Postgres) ListRecords(ctx context.Context) ([]types.Record, error) {
	rows, err := p.db.QueryContext(ctx,
		"SELECT id, name, reg_no, dept, year, mail FROM users",
	)
	if err != nil {
		return nil, fmt.Errorf("ListRecords: query: %w", err)
	}
	defer rows.Close()

	records := make([]types.Record, 0)
	for rows.Next() {
		var rec types.Record
		if err := rows.Scan(
			&rec.ID, &rec.Name, &rec.RegNo, &rec.Dept, &rec.Year, &rec.Mail,
		); err != nil {
			return nil, fmt.Errorf("ListRecords: scan row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListRecords: rows iteration: %w", err)
	}

	return records, nil
}

// UpdateRecord overwrites all non-id columns of the matching row.
func (p *Postgres) UpdateRecord(ctx context.Context, id int64, rec types.Record) (int64, error) {
	result, err := p.db.ExecContext(ctx,
		`UPDATE users SET name = $1, reg_no = $2, dept = $3, year = $4, mail = $5
		 WHERE id = $6`,
		rec.Name, rec.RegNo, rec.Dept, rec.Year, rec.Mail, id,
	)
	if err != nil {
		return 0, fmt.Errorf("UpdateRecord: exec: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("UpdateRecord: rows affected: %w", err)
	}
	return affected, nil
}

// DeleteRecord removes the matching row, if any.
func (p *Postgres) DeleteRecord(ctx context.Context, id int64) (int64, error) {
	result, err := p.db.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return 0, fmt.Errorf("DeleteRecord: exec: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("DeleteRecord: rows affected: %w", err)
	}
	return affected, nil
}

// Ping verifies the store is reachable.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Close releases the connection pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}
