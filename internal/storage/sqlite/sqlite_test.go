package sqlite

import (
	"errors"
	"testing"

	"github.com/untoldecay/Catnip/internal/storage"
	"github.com/untoldecay/Catnip/internal/types"
)

func TestMigrateIsIdempotent(t *testing.T) {
	e := newTestEnv(t)
	for i := 0; i < 3; i++ {
		if err := e.Store.Migrate(e.Ctx); err != nil {
			t.Fatalf("Migrate run %d failed: %v", i, err)
		}
	}
}

func TestRunInTransactionRollsBackOnError(t *testing.T) {
	e := newTestEnv(t)

	wantErr := errors.New("boom")
	err := e.Store.RunInTransaction(e.Ctx, func(tx storage.Transaction) error {
		if _, err := tx.Affiliations().Insert(e.Ctx, types.NewAffiliation(1, "Alpha", 202401010000)); err != nil {
			return err
		}
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("RunInTransaction = %v, want %v", err, wantErr)
	}

	got, err := e.Store.Affiliations().FetchByID(e.Ctx, 1)
	if err != nil {
		t.Fatalf("FetchByID failed: %v", err)
	}
	if got != nil {
		t.Error("insert must not be visible after rollback")
	}
}

func TestRunInTransactionReadYourWrites(t *testing.T) {
	e := newTestEnv(t)

	err := e.Store.RunInTransaction(e.Ctx, func(tx storage.Transaction) error {
		if _, err := tx.Affiliations().Insert(e.Ctx, types.NewAffiliation(1, "Alpha", 202401010000)); err != nil {
			return err
		}
		// The insert from this same transaction must satisfy the FK.
		_, err := tx.Livers().Insert(e.Ctx, types.NewLiver(10, ptr(int64(1)), "Aki", "Aki", 202401010000))
		return err
	})
	if err != nil {
		t.Fatalf("RunInTransaction failed: %v", err)
	}

	liver, err := e.Store.Livers().FetchByID(e.Ctx, 10)
	if err != nil {
		t.Fatalf("FetchByID failed: %v", err)
	}
	if liver == nil || liver.AffiliationID == nil || *liver.AffiliationID != 1 {
		t.Errorf("liver = %+v, want affiliated with 1", liver)
	}
}

func TestRunInTransactionRollsBackOnPanic(t *testing.T) {
	e := newTestEnv(t)

	func() {
		defer func() {
			if recover() == nil {
				t.Error("panic must propagate")
			}
		}()
		_ = e.Store.RunInTransaction(e.Ctx, func(tx storage.Transaction) error {
			if _, err := tx.Affiliations().Insert(e.Ctx, types.NewAffiliation(1, "Alpha", 202401010000)); err != nil {
				return err
			}
			panic("boom")
		})
	}()

	got, err := e.Store.Affiliations().FetchByID(e.Ctx, 1)
	if err != nil {
		t.Fatalf("FetchByID failed: %v", err)
	}
	if got != nil {
		t.Error("insert must not be visible after panic rollback")
	}
}
