// Package sqlite provides a SQLite-backed implementation of sagalog.Repository.
//
// WAL mode is enabled on Open so the HTTP handlers can read a run history while a
// pipeline run is appending to it.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jcmexdev/order-splitter/internal/coordinator/sagalog"

	// Pure-Go driver, no CGO.
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS split_runs (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,

    -- One pipeline invocation; several rows per run.
    run_id          TEXT        NOT NULL,

    -- Remote id of the original order.
    order_id        TEXT        NOT NULL,

    status          TEXT        NOT NULL,
    step            TEXT        NOT NULL DEFAULT '',

    -- JSON detail of the transition, NULL when there is none.
    detail          TEXT,

    error_messages  TEXT        NOT NULL DEFAULT '[]',
    trace_id        TEXT        NOT NULL DEFAULT '',
    span_id         TEXT        NOT NULL DEFAULT '',

    -- RFC3339 TEXT; SQLite has no datetime type.
    recorded_at     TEXT        NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_split_runs_order_id ON split_runs(order_id, recorded_at);
CREATE INDEX IF NOT EXISTS idx_split_runs_run_id ON split_runs(run_id);
`

// Repository is the SQLite implementation of sagalog.Repository and sagalog.Reader.
type Repository struct {
	db *sql.DB
}

var (
	_ sagalog.Repository = (*Repository)(nil)
	_ sagalog.Reader     = (*Repository)(nil)
)

// Open opens (or creates) the database at path and applies the schema.
//
//	repo, err := sqlite.Open("./data/split-runs.db")
func Open(path string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// Single writer.
	db.SetMaxOpenConns(1)

	if err := applySchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repository{db: db}, nil
}

// Close releases the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Save appends an entry. It is safe to call concurrently.
func (r *Repository) Save(ctx context.Context, entry *sagalog.Entry) error {
	const q = `
		INSERT INTO split_runs
			(run_id, order_id, status, step, detail, error_messages, trace_id, span_id, recorded_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.RunID,
		entry.OrderID,
		string(entry.Status),
		entry.Step,
		nullableString(entry.Detail),
		entry.ErrorMessages,
		entry.TraceID,
		entry.SpanID,
		formatTime(entry.RecordedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save entry for order %q: %w", entry.OrderID, err)
	}
	return nil
}

// ListByOrder returns every entry recorded for orderID, oldest first.
func (r *Repository) ListByOrder(ctx context.Context, orderID string) ([]sagalog.Entry, error) {
	const q = `
		SELECT run_id, order_id, status, step, COALESCE(detail, ''), error_messages,
		       trace_id, span_id, recorded_at
		FROM   split_runs
		WHERE  order_id = ?
		ORDER  BY recorded_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list entries for order %q: %w", orderID, err)
	}
	defer rows.Close()

	var entries []sagalog.Entry
	for rows.Next() {
		var (
			entry      sagalog.Entry
			recordedAt string
		)
		if err := rows.Scan(
			&entry.RunID,
			&entry.OrderID,
			&entry.Status,
			&entry.Step,
			&entry.Detail,
			&entry.ErrorMessages,
			&entry.TraceID,
			&entry.SpanID,
			&recordedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scan entry for order %q: %w", orderID, err)
		}
		if entry.RecordedAt, err = parseRFC3339(recordedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate entries for order %q: %w", orderID, err)
	}
	return entries, nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return nil
}

// nullableString stores NULL instead of an empty TEXT.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
