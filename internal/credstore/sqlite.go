package credstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/phuslu/log"
	_ "modernc.org/sqlite"

	"stockreport/internal/model"
)

// DefaultTable is the credential table name.
const DefaultTable = "email_credentials"

// SQLiteStore reads credentials from a SQLite table keyed by email_id.
type SQLiteStore struct {
	db    *sql.DB
	table string
}

// NewSQLiteStore opens (or creates) the database and ensures the table exists.
func NewSQLiteStore(dbPath, table string) (*SQLiteStore, error) {
	if table == "" {
		table = DefaultTable
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	s := &SQLiteStore{db: db, table: table}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.Info().Str("path", dbPath).Str("table", table).Msg("credential store opened")
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %q (
		email_id      TEXT PRIMARY KEY,
		email_address TEXT NOT NULL
	)`, s.table))
	return err
}

// Scan reads every record in the table.
func (s *SQLiteStore) Scan(ctx context.Context) ([]model.Credential, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`SELECT email_id, email_address FROM %q ORDER BY email_id`, s.table))
	if err != nil {
		return nil, fmt.Errorf("scan credentials: %w", err)
	}
	defer rows.Close()

	var out []model.Credential
	for rows.Next() {
		var c model.Credential
		if err := rows.Scan(&c.Role, &c.Address); err != nil {
			return nil, fmt.Errorf("scan credential row: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Put inserts or replaces one record.
func (s *SQLiteStore) Put(ctx context.Context, c model.Credential) error {
	_, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %q (email_id, email_address) VALUES (?, ?)
			ON CONFLICT(email_id) DO UPDATE SET email_address = excluded.email_address`, s.table),
		c.Role, c.Address)
	if err != nil {
		return fmt.Errorf("put credential %s: %w", c.Role, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
