// Package reconcile implements the per-snapshot decision procedure:
// given an ingested snapshot and its tombstone flag, choose exactly one
// of insert, update, delete, or skip against the store of record.
//
// A batch runs in arrival order under one shared transaction; the first
// error aborts the whole batch so partial commits cannot happen.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/untoldecay/Catnip/internal/storage"
	"github.com/untoldecay/Catnip/internal/types"
)

// Item is one drained stream element: the decoded snapshot plus the
// sender's delete intent.
type Item[T any] struct {
	Record    T
	Tombstone bool
}

// Driver is the capability set the engine needs per entity kind, bound
// to the batch transaction. One implementation exists per entity; all
// of them delegate to the storage layer and the record's own
// version/equality methods.
type Driver[T any] interface {
	Exists(ctx context.Context, rec T) (bool, error)
	// Fetch returns the stored row with the record's primary key, or
	// storage.ErrNotFound.
	Fetch(ctx context.Context, rec T) (T, error)
	Insert(ctx context.Context, rec T) (T, error)
	Update(ctx context.Context, rec T) (before, after T, err error)
	Delete(ctx context.Context, rec T) error

	Stamp(rec T, sig types.UpdateSignature) T
	Version(rec T) types.UpdateSignature
	ContentEqual(a, b T) bool
	PrimaryName(rec T) string
	SecondaryName(rec T) string
}

// Run processes a drained batch in arrival order. The caller is
// expected to invoke it inside storage.RunInTransaction so the whole
// batch commits or rolls back together. The returned Summary carries
// the decision counters; elapsed fields are the caller's to fill.
//
// Any storage error is fatal to the batch and names the offending
// item.
func Run[T any](ctx context.Context, log *slog.Logger, drv Driver[T], items []Item[T]) (*Summary, error) {
	sum := &Summary{Received: len(items)}
	for i, item := range items {
		if err := applyOne(ctx, log, drv, item, sum); err != nil {
			return nil, fmt.Errorf("item %d (%s): %w", i, drv.SecondaryName(item.Record), err)
		}
	}
	return sum, nil
}

func applyOne[T any](ctx context.Context, log *slog.Logger, drv Driver[T], item Item[T], sum *Summary) error {
	rec := item.Record

	exists, err := drv.Exists(ctx, rec)
	if err != nil {
		return fmt.Errorf("exists: %w", err)
	}

	if !exists {
		if item.Tombstone {
			// Tombstone for an absent key is a no-op.
			log.Debug("skip", "reason", "orphan tombstone", "key", drv.SecondaryName(rec))
			sum.Skipped++
			return nil
		}
		if drv.Version(rec).IsIrregular() {
			rec = drv.Stamp(rec, types.NowSignature())
		}
		ins, err := drv.Insert(ctx, rec)
		if err != nil {
			return fmt.Errorf("insert: %w", err)
		}
		log.Info("insert", "key", drv.SecondaryName(ins), "signature", drv.Version(ins))
		sum.Inserted++
		return nil
	}

	if item.Tombstone {
		if err := drv.Delete(ctx, rec); err != nil {
			return fmt.Errorf("delete: %w", err)
		}
		log.Warn("delete", "key", drv.SecondaryName(rec))
		sum.Deleted++
		return nil
	}

	stored, err := drv.Fetch(ctx, rec)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// exists() matched by name only; there is no row with this
			// key to compare against or update.
			log.Debug("skip", "reason", "name match without key", "key", drv.SecondaryName(rec))
			sum.Skipped++
			return nil
		}
		return fmt.Errorf("fetch: %w", err)
	}

	if drv.ContentEqual(rec, stored) {
		// Same content modulo version: no newer information, even when
		// the incoming signature is higher.
		log.Debug("skip", "reason", "content equal", "key", drv.SecondaryName(rec))
		sum.Skipped++
		return nil
	}

	sig := drv.Version(rec)
	if sig.IsIrregular() || !sig.Newer(drv.Version(stored)) {
		log.Debug("skip", "reason", "stale signature", "key", drv.SecondaryName(rec),
			"incoming", sig, "stored", drv.Version(stored))
		sum.Skipped++
		return nil
	}

	old, upd, err := drv.Update(ctx, rec)
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}
	log.Info("update", "key", drv.SecondaryName(upd),
		"old", drv.PrimaryName(old), "new", drv.PrimaryName(upd))
	sum.Updated++
	return nil
}
