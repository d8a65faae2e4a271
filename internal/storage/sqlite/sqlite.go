// Package sqlite implements the storage interfaces on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/untoldecay/Catnip/internal/storage"
)

// SQLiteStorage implements storage.Storage on a single SQLite file.
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

var _ storage.Storage = (*SQLiteStorage)(nil)

// New opens (creating if needed) the database at path and applies the
// schema. Transactions begin in IMMEDIATE mode so writers acquire the
// write lock early; this serializes concurrent batches instead of
// deadlocking them.
func New(ctx context.Context, path string) (*SQLiteStorage, error) {
	// file: prefix as required by the ncruces/go-sqlite3 driver.
	dsn := fmt.Sprintf("file:%s?_txlock=immediate&_pragma=busy_timeout(10000)&_pragma=journal_mode(wal)&_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLiteStorage{db: db, path: path}
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate applies the schema. Idempotent.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if s.db == nil {
		return storage.ErrDBNotInitialized
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// RunInTransaction executes fn within a single database transaction.
func (s *SQLiteStorage) RunInTransaction(ctx context.Context, fn func(tx storage.Transaction) error) (err error) {
	if s.db == nil {
		return storage.ErrDBNotInitialized
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&sqlTx{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStorage) Path() string { return s.path }

// UnderlyingDB returns the underlying *sql.DB connection.
func (s *SQLiteStorage) UnderlyingDB() *sql.DB { return s.db }

// queryer is the subset of database/sql both *sql.Tx and *sql.DB
// satisfy; the per-entity stores are written against it once and bound
// to either.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// sqlTx binds the per-entity stores to one open transaction.
type sqlTx struct {
	tx *sql.Tx
}

var _ storage.Transaction = (*sqlTx)(nil)

func (t *sqlTx) Affiliations() storage.AffiliationStore { return &affiliationStore{q: t.tx} }
func (t *sqlTx) Livers() storage.LiverStore             { return &liverStore{q: t.tx} }
func (t *sqlTx) Channels() storage.ChannelStore         { return &channelStore{q: t.tx} }
func (t *sqlTx) Videos() storage.VideoStore             { return &videoStore{q: t.tx} }

// The storage-level accessors return stores that wrap every call in
// its own transaction: begin, operation, commit on success, rollback
// on error. This is the repository facade the HTTP and RPC egress
// components use.

func (s *SQLiteStorage) Affiliations() storage.AffiliationStore { return &affiliationRepo{s: s} }
func (s *SQLiteStorage) Livers() storage.LiverStore             { return &liverRepo{s: s} }
func (s *SQLiteStorage) Channels() storage.ChannelStore         { return &channelRepo{s: s} }
func (s *SQLiteStorage) Videos() storage.VideoStore             { return &videoRepo{s: s} }

// withTx runs a single-result operation inside its own transaction.
func withTx[T any](ctx context.Context, s *SQLiteStorage, fn func(tx storage.Transaction) (T, error)) (T, error) {
	var out T
	err := s.RunInTransaction(ctx, func(tx storage.Transaction) error {
		var err error
		out, err = fn(tx)
		return err
	})
	return out, err
}
