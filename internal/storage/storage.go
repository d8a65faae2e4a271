// Package storage defines the repository interfaces over the relational
// store of record. It is the sole surface the RPC and HTTP components
// see; the reconciliation engine drives it through a Transaction so an
// entire ingest batch commits or rolls back as one unit.
package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/untoldecay/Catnip/internal/types"
)

// ErrNotFound is returned by keyed operations (Delete, SignatureOf,
// Update) when the row is absent. Reads that can legitimately miss
// (FetchByID, FetchByName) return nil instead.
var ErrNotFound = errors.New("record not found")

// ErrDBNotInitialized is returned when attempting to use a storage
// feature before the database has been opened.
var ErrDBNotInitialized = errors.New("database not initialized")

// AffiliationStore is the per-entity capability set for affiliations.
//
// Mutating operations return the persisted state: Insert returns the
// inserted row, Update returns (before, after), Delete returns the
// deleted key or ErrNotFound.
type AffiliationStore interface {
	Insert(ctx context.Context, a types.Affiliation) (types.Affiliation, error)
	Update(ctx context.Context, a types.Affiliation) (before, after types.Affiliation, err error)
	Delete(ctx context.Context, id types.AffiliationID) (types.AffiliationID, error)

	// Exists is the combined predicate: true when a row matches the
	// record's primary key or its name.
	Exists(ctx context.Context, a types.Affiliation) (bool, error)
	SignatureOf(ctx context.Context, id types.AffiliationID) (types.UpdateSignature, error)

	FetchAll(ctx context.Context) ([]types.Affiliation, error)
	FetchByID(ctx context.Context, id types.AffiliationID) (*types.Affiliation, error)
	FetchByName(ctx context.Context, name string) (*types.Affiliation, error)
}

// LiverStore is the per-entity capability set for livers.
type LiverStore interface {
	Insert(ctx context.Context, l types.Liver) (types.Liver, error)
	Update(ctx context.Context, l types.Liver) (before, after types.Liver, err error)
	Delete(ctx context.Context, id types.LiverID) (types.LiverID, error)

	Exists(ctx context.Context, l types.Liver) (bool, error)
	SignatureOf(ctx context.Context, id types.LiverID) (types.UpdateSignature, error)

	FetchAll(ctx context.Context) ([]types.Liver, error)
	FetchByID(ctx context.Context, id types.LiverID) (*types.Liver, error)
	FetchByName(ctx context.Context, name string) (*types.Liver, error)
	// FetchByAffiliation lists livers attached to one affiliation.
	// An unknown affiliation yields an empty list.
	FetchByAffiliation(ctx context.Context, id types.AffiliationID) ([]types.Liver, error)
}

// ChannelStore is the per-entity capability set for channels.
type ChannelStore interface {
	Insert(ctx context.Context, c types.Channel) (types.Channel, error)
	Update(ctx context.Context, c types.Channel) (before, after types.Channel, err error)
	Delete(ctx context.Context, id types.ChannelID) (types.ChannelID, error)

	Exists(ctx context.Context, c types.Channel) (bool, error)
	SignatureOf(ctx context.Context, id types.ChannelID) (types.UpdateSignature, error)

	FetchAll(ctx context.Context) ([]types.Channel, error)
	FetchByID(ctx context.Context, id types.ChannelID) (*types.Channel, error)
}

// VideoStore is the per-entity capability set for videos.
type VideoStore interface {
	Insert(ctx context.Context, v types.Video) (types.Video, error)
	Update(ctx context.Context, v types.Video) (before, after types.Video, err error)
	Delete(ctx context.Context, id types.VideoID) (types.VideoID, error)

	Exists(ctx context.Context, v types.Video) (bool, error)
	SignatureOf(ctx context.Context, id types.VideoID) (types.UpdateSignature, error)

	FetchAll(ctx context.Context) ([]types.Video, error)
	FetchByID(ctx context.Context, id types.VideoID) (*types.Video, error)
	// FetchUpcoming lists videos that have a scheduled start but have
	// not started yet, ordered by scheduled start.
	FetchUpcoming(ctx context.Context) ([]types.Video, error)
}

// Transaction exposes the per-entity stores bound to one database
// transaction. All operations obtained from the same Transaction share
// the connection, so a later operation sees earlier operations'
// effects (read-your-writes within a batch).
type Transaction interface {
	Affiliations() AffiliationStore
	Livers() LiverStore
	Channels() ChannelStore
	Videos() VideoStore
}

// Storage is the storage backend handle.
//
// The embedded Transaction methods return stores whose every call runs
// in its own transaction (begin, operation, commit or rollback); the
// reconciliation engine instead uses RunInTransaction to hold one
// transaction across a whole batch.
type Storage interface {
	Transaction

	// RunInTransaction executes fn within a database transaction.
	//   - fn returns nil: the transaction is committed
	//   - fn returns an error: the transaction is rolled back
	//   - fn panics: the transaction is rolled back and the panic re-raised
	RunInTransaction(ctx context.Context, fn func(tx Transaction) error) error

	// Migrate applies the schema. Idempotent.
	Migrate(ctx context.Context) error

	Close() error
	Path() string

	// UnderlyingDB returns the underlying *sql.DB connection.
	// Direct database access bypasses the storage layer; use with caution.
	UnderlyingDB() *sql.DB
}
