// Package sqlite persists factors and comparisons in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/semblance/pkg/semblance/internalerr"
	"github.com/cognicore/semblance/pkg/semblance/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// Open opens a SQLite database with WAL mode enabled and creates the
// schema if it does not exist.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS factors (
	id TEXT PRIMARY KEY,
	name TEXT,
	kind TEXT NOT NULL,
	text TEXT,
	raw TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS comparisons (
	id TEXT PRIMARY KEY,
	left_id TEXT NOT NULL,
	right_id TEXT NOT NULL,
	implies INTEGER NOT NULL,
	implied_by INTEGER NOT NULL,
	means INTEGER NOT NULL,
	contradicts INTEGER NOT NULL,
	consistent INTEGER NOT NULL,
	explanation TEXT,
	created_at TEXT NOT NULL,
	FOREIGN KEY(left_id) REFERENCES factors(id),
	FOREIGN KEY(right_id) REFERENCES factors(id)
);

CREATE INDEX IF NOT EXISTS idx_comparisons_left ON comparisons(left_id);
CREATE INDEX IF NOT EXISTS idx_comparisons_right ON comparisons(right_id);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// PutFactor inserts or replaces a factor record.
func (s *sqliteStore) PutFactor(ctx context.Context, rec store.Factor) error {
	if rec.ID == "" {
		return fmt.Errorf("%w: factor record without an id", internalerr.ErrInvalidInput)
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO factors (id, name, kind, text, raw, created_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	name = excluded.name,
	kind = excluded.kind,
	text = excluded.text,
	raw = excluded.raw`,
		rec.ID, rec.Name, rec.Kind, rec.Text, rec.Raw, rec.CreatedAt.UTC().Format(time.RFC3339Nano))
	return err
}

// GetFactor returns a factor by ID.
func (s *sqliteStore) GetFactor(ctx context.Context, id string) (store.Factor, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, name, kind, text, raw, created_at FROM factors WHERE id = ?`, id)

	var rec store.Factor
	var createdAt string
	err := row.Scan(&rec.ID, &rec.Name, &rec.Kind, &rec.Text, &rec.Raw, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Factor{}, fmt.Errorf("%w: factor %q", internalerr.ErrNotFound, id)
	}
	if err != nil {
		return store.Factor{}, err
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return rec, nil
}

// ListFactors returns all stored factors, oldest first.
func (s *sqliteStore) ListFactors(ctx context.Context) ([]store.Factor, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, name, kind, text, raw, created_at FROM factors ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Factor
	for rows.Next() {
		var rec store.Factor
		var createdAt string
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Kind, &rec.Text, &rec.Raw, &createdAt); err != nil {
			return nil, err
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// PutComparison inserts or replaces a comparison record.
func (s *sqliteStore) PutComparison(ctx context.Context, rec store.Comparison) error {
	if rec.ID == "" {
		return fmt.Errorf("%w: comparison record without an id", internalerr.ErrInvalidInput)
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO comparisons (id, left_id, right_id, implies, implied_by, means, contradicts, consistent, explanation, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	left_id = excluded.left_id,
	right_id = excluded.right_id,
	implies = excluded.implies,
	implied_by = excluded.implied_by,
	means = excluded.means,
	contradicts = excluded.contradicts,
	consistent = excluded.consistent,
	explanation = excluded.explanation`,
		rec.ID, rec.LeftID, rec.RightID,
		boolToInt(rec.Implies), boolToInt(rec.ImpliedBy), boolToInt(rec.Means),
		boolToInt(rec.Contradicts), boolToInt(rec.Consistent),
		rec.Explanation, rec.CreatedAt.UTC().Format(time.RFC3339Nano))
	return err
}

// ListComparisons returns comparisons that involve the given factor on
// either side, oldest first.
func (s *sqliteStore) ListComparisons(ctx context.Context, factorID string) ([]store.Comparison, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, left_id, right_id, implies, implied_by, means, contradicts, consistent, explanation, created_at
FROM comparisons
WHERE left_id = ? OR right_id = ?
ORDER BY created_at, id`, factorID, factorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Comparison
	for rows.Next() {
		var rec store.Comparison
		var implies, impliedBy, means, contradicts, consistent int
		var createdAt string
		if err := rows.Scan(&rec.ID, &rec.LeftID, &rec.RightID,
			&implies, &impliedBy, &means, &contradicts, &consistent,
			&rec.Explanation, &createdAt); err != nil {
			return nil, err
		}
		rec.Implies = implies != 0
		rec.ImpliedBy = impliedBy != 0
		rec.Means = means != 0
		rec.Contradicts = contradicts != 0
		rec.Consistent = consistent != 0
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
