package marker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/phuslu/log"
	_ "modernc.org/sqlite"
)

// ErrAlreadyMarked is returned by Claim when another writer created the
// record first.
var ErrAlreadyMarked = errors.New("marker already set")

// SQLiteMarker keeps the sentinel as a keyed row. Creation is a single
// conditional insert, so exactly one writer wins.
type SQLiteMarker struct {
	db  *sql.DB
	key string
}

// NewSQLiteMarker opens (or creates) the database holding the sentinel row.
func NewSQLiteMarker(dbPath, key string) (*SQLiteMarker, error) {
	if key == "" {
		key = "stock_report"
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS run_markers (
		name       TEXT PRIMARY KEY,
		created_at INTEGER NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.Info().Str("path", dbPath).Str("key", key).Msg("sqlite marker opened")
	return &SQLiteMarker{db: db, key: key}, nil
}

func (m *SQLiteMarker) Exists(ctx context.Context) (bool, error) {
	var n int
	err := m.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM run_markers WHERE name = ?`, m.key).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query marker: %w", err)
	}
	return n > 0, nil
}

// Mark creates the row if absent. Marking twice is not an error.
func (m *SQLiteMarker) Mark(ctx context.Context) error {
	err := m.Claim(ctx)
	if errors.Is(err, ErrAlreadyMarked) {
		return nil
	}
	return err
}

// Claim atomically creates the row and reports ErrAlreadyMarked if it was
// already present.
func (m *SQLiteMarker) Claim(ctx context.Context) error {
	res, err := m.db.ExecContext(ctx,
		`INSERT INTO run_markers (name, created_at) VALUES (?, ?) ON CONFLICT(name) DO NOTHING`,
		m.key, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("insert marker: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert marker: %w", err)
	}
	if n == 0 {
		return ErrAlreadyMarked
	}
	return nil
}

func (m *SQLiteMarker) Close() error {
	return m.db.Close()
}
