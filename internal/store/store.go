// Package store persists transaction snapshots in SQLite. It is the
// storage collaborator for the analysis packages, which only ever see
// the plain []model.Transaction it returns.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/shopspring/decimal"

	"github.com/flowcast-dev/flowcast/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS transactions (
	id          TEXT PRIMARY KEY,
	booked_at   TEXT NOT NULL,
	amount      TEXT NOT NULL,
	currency    TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	merchant    TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_transactions_booked_at ON transactions (booked_at);
`

// Store is a SQLite-backed transaction snapshot store.
type Store struct {
	db *sql.DB
}

// Open opens the store at path, creating the file and schema if
// needed. WAL mode keeps concurrent readers cheap.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL", path))
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put upserts transactions by id inside one SQL transaction, so
// re-importing the same file can neither half-apply nor duplicate
// rows. Every record must carry an id and a booked date.
func (s *Store) Put(ctx context.Context, txns []model.Transaction) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (id, booked_at, amount, currency, description, merchant)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			booked_at   = excluded.booked_at,
			amount      = excluded.amount,
			currency    = excluded.currency,
			description = excluded.description,
			merchant    = excluded.merchant`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, t := range txns {
		if t.ID == "" {
			return fmt.Errorf("transaction with description %q has no id", t.Description)
		}
		if t.BookedAt.IsZero() {
			return fmt.Errorf("transaction %s has no booked date", t.ID)
		}
		_, err := stmt.ExecContext(ctx,
			t.ID,
			t.BookedAt.UTC().Format(time.RFC3339),
			t.Amount.String(),
			t.Currency,
			t.Description,
			t.Merchant,
		)
		if err != nil {
			return fmt.Errorf("upserting transaction %s: %w", t.ID, err)
		}
	}
	return tx.Commit()
}

// All returns the full snapshot ordered by booked date then id, the
// order the analyzer requires. A row whose stored amount or date fails
// to parse fails the whole read; bad data must not reach the
// statistics.
func (s *Store) All(ctx context.Context) ([]model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, booked_at, amount, currency, description, merchant
		FROM transactions
		ORDER BY booked_at, id`)
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer rows.Close()

	var txns []model.Transaction
	for rows.Next() {
		var id, bookedAt, amount, currency, description, merchant string
		if err := rows.Scan(&id, &bookedAt, &amount, &currency, &description, &merchant); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		ts, err := time.Parse(time.RFC3339, bookedAt)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: parsing booked_at %q: %w", id, bookedAt, err)
		}
		amt, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: parsing amount %q: %w", id, amount, err)
		}

		txns = append(txns, model.Transaction{
			ID:          id,
			BookedAt:    ts,
			Amount:      amt,
			Currency:    currency,
			Description: description,
			Merchant:    merchant,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return txns, nil
}

// Count returns the number of stored transactions.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting transactions: %w", err)
	}
	return n, nil
}
