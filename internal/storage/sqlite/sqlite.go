// Package sqlite provides the SQLite-backed implementation of the
// record store. SQLite keeps everything in a single file (or memory),
// needs no server process, and is the backend used for local
// development and in tests.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/revathy-s/student-records-api/internal/config"
	"github.com/revathy-s/student-records-api/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

// SQLite implements the storage contract over a local SQLite database.
type SQLite struct {
	db *sql.DB
}

// New opens the SQLite database at cfg.Database.Path and creates the
// users table if it does not already exist.
func New(cfg *config.Config) (*SQLite, error) {
	db, err := sql.Open("sqlite3", cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id     INTEGER PRIMARY KEY AUTOINCREMENT,
			name   TEXT    NOT NULL,
			reg_no TEXT    NOT NULL,
			dept   TEXT    NOT NULL,
			year   INTEGER NOT NULL,
			mail   TEXT    NOT NULL
		)
	`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{db: db}, nil
}

// CreateRecord inserts one row and returns the auto-generated id.
func (s *SQLite) CreateRecord(ctx context.Context, rec types.Record) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO users (name, reg_no, dept, year, mail) VALUES (?, ?, ?, ?, ?)",
		rec.Name, rec.RegNo, rec.Dept, rec.Year, rec.Mail,
	)
	if err != nil {
		return 0, fmt.Errorf("CreateRecord: insert: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("CreateRecord: last insert id: %w", err)
	}
	return id, nil
}

// ListRecords returns every row in store-native order.
func (s *SQLite) ListRecords(ctx context.Context) ([]types.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		// Explicit column list — SELECT * would break Scan ordering the
		// day a column is added.
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

// UpdateRecord overwrites all non-id columns of the matching row and
// reports how many rows matched.
func (s *SQLite) UpdateRecord(ctx context.Context, id int64, rec types.Record) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"UPDATE users SET name = ?, reg_no = ?, dept = ?, year = ?, mail = ? WHERE id = ?",
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
func (s *SQLite) DeleteRecord(ctx context.Context, id int64) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return 0, fmt.Errorf("DeleteRecord: exec: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("DeleteRecord: rows affected: %w", err)
	}
	return affected, nil
}

// Ping verifies the database file is usable.
func (s *SQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
