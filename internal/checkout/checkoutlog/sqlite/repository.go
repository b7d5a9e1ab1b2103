// Package sqlite provides a SQLite-backed implementation of
// checkoutlog.Repository and checkoutlog.Reader.
//
// WAL mode is enabled on Open so a status read never blocks a write from an
// in-flight checkout.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jortega/bookshop/internal/checkout/checkoutlog"

	// Register the pure-Go SQLite driver. modernc.org/sqlite avoids CGO,
	// so the binary builds and runs on Alpine without a toolchain.
	_ "modernc.org/sqlite"
)

// schema is the DDL executed once on startup. The table is append-only:
// each row is an immutable event in a checkout's lifecycle, and the state
// of a checkout is its most recent row.
const schema = `
CREATE TABLE IF NOT EXISTS checkout_logs (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,

    -- Identifier of the purchase attempt. Not UNIQUE: one row per transition.
    checkout_id  TEXT NOT NULL,

    -- Lifecycle state at the time the row was written.
    status       TEXT NOT NULL,

    -- Orchestrator stage that just finished or failed (e.g. "payment").
    stage        TEXT NOT NULL DEFAULT '',

    -- Human-readable failure reason on FAILED rows.
    reason       TEXT NOT NULL DEFAULT '',

    -- HTTP request ID active when the row was written, for joining with
    -- the access log. Empty for direct library use.
    request_id   TEXT NOT NULL DEFAULT '',

    -- RFC3339 stored as TEXT, SQLite idiom.
    updated_at   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_checkout_logs_checkout_id
    ON checkout_logs(checkout_id, updated_at);
`

// Repository is the SQLite implementation of checkoutlog.Repository.
type Repository struct {
	db *sql.DB
}

var (
	_ checkoutlog.Repository = (*Repository)(nil)
	_ checkoutlog.Reader     = (*Repository)(nil)
)

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Repository, error) {
	// The pure-Go driver takes pragmas as DSN query parameters. WAL allows
	// concurrent readers; busy_timeout waits for locks instead of failing.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &Repository{db: db}, nil
}

// Close releases the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Save appends one entry.
func (r *Repository) Save(ctx context.Context, entry *checkoutlog.Entry) error {
	const q = `
		INSERT INTO checkout_logs
			(checkout_id, status, stage, reason, request_id, updated_at)
		VALUES
			(?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.CheckoutID,
		string(entry.Status),
		entry.Stage,
		entry.Reason,
		entry.RequestID,
		entry.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save checkout log for %q: %w", entry.CheckoutID, err)
	}
	return nil
}

// Latest returns the most recent entry for a checkout ID.
func (r *Repository) Latest(ctx context.Context, checkoutID string) (*checkoutlog.Entry, error) {
	const q = `
		SELECT checkout_id, status, stage, reason, request_id, updated_at
		FROM   checkout_logs
		WHERE  checkout_id = ?
		ORDER  BY updated_at DESC, id DESC
		LIMIT  1`

	row := r.db.QueryRowContext(ctx, q, checkoutID)

	var entry checkoutlog.Entry
	var updatedAt string
	err := row.Scan(
		&entry.CheckoutID,
		&entry.Status,
		&entry.Stage,
		&entry.Reason,
		&entry.RequestID,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("sqlite: checkout %q not found", checkoutID)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get latest for %q: %w", checkoutID, err)
	}

	entry.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("sqlite: parse updated_at %q: %w", updatedAt, err)
	}

	return &entry, nil
}
