// Package catnip provides a minimal public API for embedding the
// reconciliation service's storage layer in other Go programs.
//
// Most consumers should use the HTTP API or the ingestion RPC. This
// package exports only the essential types and functions needed by
// programs that want to read or reconcile the store directly.
package catnip

import (
	"context"

	"github.com/untoldecay/Catnip/internal/storage"
	"github.com/untoldecay/Catnip/internal/storage/sqlite"
	"github.com/untoldecay/Catnip/internal/types"
)

// Storage is the interface for catnip storage operations
type Storage = storage.Storage

// Transaction provides atomic multi-operation support within a
// database transaction. Use Storage.RunInTransaction() to obtain one.
type Transaction = storage.Transaction

// ErrNotFound is returned by keyed operations when the row is absent.
var ErrNotFound = storage.ErrNotFound

// NewSQLiteStorage opens (creating if needed) a catnip database at the
// given path and applies the schema.
func NewSQLiteStorage(ctx context.Context, dbPath string) (Storage, error) {
	return sqlite.New(ctx, dbPath)
}

// Core types from internal/types
type (
	Affiliation     = types.Affiliation
	Liver           = types.Liver
	Channel         = types.Channel
	Video           = types.Video
	AffiliationID   = types.AffiliationID
	LiverID         = types.LiverID
	ChannelID       = types.ChannelID
	VideoID         = types.VideoID
	UpdateSignature = types.UpdateSignature
)

// NowSignature returns the current UTC minute encoded as YYYYMMDDHHMM.
func NowSignature() UpdateSignature {
	return types.NowSignature()
}
