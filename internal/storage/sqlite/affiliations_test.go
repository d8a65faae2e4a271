package sqlite

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/untoldecay/Catnip/internal/storage"
	"github.com/untoldecay/Catnip/internal/types"
)

func TestAffiliationInsertReturnsPersistedRow(t *testing.T) {
	e := newTestEnv(t)

	ins := e.CreateAffiliation(1, "Alpha", 202401010000)
	want := types.NewAffiliation(1, "Alpha", 202401010000)
	if diff := cmp.Diff(want, ins); diff != "" {
		t.Errorf("inserted row mismatch (-want +got):\n%s", diff)
	}
}

func TestAffiliationInsertDuplicateKeyFails(t *testing.T) {
	e := newTestEnv(t)
	e.CreateAffiliation(1, "Alpha", 202401010000)

	_, err := e.Store.Affiliations().Insert(e.Ctx, types.NewAffiliation(1, "Other", 202401010000))
	if err == nil {
		t.Fatal("duplicate primary key insert must fail")
	}
}

func TestAffiliationUpdateReturnsBeforeAndAfter(t *testing.T) {
	e := newTestEnv(t)
	e.CreateAffiliation(1, "Alpha", 202401010000)

	before, after, err := e.Store.Affiliations().Update(e.Ctx, types.NewAffiliation(1, "Alpha2", 202401020000))
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if before.Name != "Alpha" || int64(before.Signature) != 202401010000 {
		t.Errorf("before = %+v, want original row", before)
	}
	if after.Name != "Alpha2" || int64(after.Signature) != 202401020000 {
		t.Errorf("after = %+v, want updated row", after)
	}
}

func TestAffiliationUpdateMissingRowIsNotFound(t *testing.T) {
	e := newTestEnv(t)

	_, _, err := e.Store.Affiliations().Update(e.Ctx, types.NewAffiliation(9, "Ghost", 202401010000))
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Update on absent row = %v, want ErrNotFound", err)
	}
}

func TestAffiliationDelete(t *testing.T) {
	e := newTestEnv(t)
	e.CreateAffiliation(1, "Alpha", 202401010000)

	deleted, err := e.Store.Affiliations().Delete(e.Ctx, 1)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted id = %d, want 1", deleted)
	}

	got, err := e.Store.Affiliations().FetchByID(e.Ctx, 1)
	if err != nil {
		t.Fatalf("FetchByID failed: %v", err)
	}
	if got != nil {
		t.Error("row must be gone after delete")
	}

	if _, err := e.Store.Affiliations().Delete(e.Ctx, 1); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second delete = %v, want ErrNotFound", err)
	}
}

func TestAffiliationExistsByKeyOrName(t *testing.T) {
	e := newTestEnv(t)
	e.CreateAffiliation(1, "Alpha", 202401010000)

	tests := []struct {
		name   string
		record types.Affiliation
		want   bool
	}{
		{"by key", types.NewAffiliation(1, "Renamed", 0), true},
		{"by name", types.NewAffiliation(99, "Alpha", 0), true},
		{"neither", types.NewAffiliation(99, "Beta", 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Store.Affiliations().Exists(e.Ctx, tt.record)
			if err != nil {
				t.Fatalf("Exists failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Exists = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAffiliationSignatureOf(t *testing.T) {
	e := newTestEnv(t)
	e.CreateAffiliation(1, "Alpha", 202401010000)

	sig, err := e.Store.Affiliations().SignatureOf(e.Ctx, 1)
	if err != nil {
		t.Fatalf("SignatureOf failed: %v", err)
	}
	if int64(sig) != 202401010000 {
		t.Errorf("SignatureOf = %d, want 202401010000", sig)
	}

	if _, err := e.Store.Affiliations().SignatureOf(e.Ctx, 9); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("SignatureOf absent = %v, want ErrNotFound", err)
	}
}

func TestAffiliationFetchByName(t *testing.T) {
	e := newTestEnv(t)
	e.CreateAffiliation(1, "Alpha", 202401010000)

	got, err := e.Store.Affiliations().FetchByName(e.Ctx, "Alpha")
	if err != nil {
		t.Fatalf("FetchByName failed: %v", err)
	}
	if got == nil || got.ID != 1 {
		t.Errorf("FetchByName = %+v, want id 1", got)
	}

	// Exact equality, not prefix matching.
	got, err = e.Store.Affiliations().FetchByName(e.Ctx, "Alph")
	if err != nil {
		t.Fatalf("FetchByName failed: %v", err)
	}
	if got != nil {
		t.Error("prefix must not match")
	}
}

func TestAffiliationFetchAll(t *testing.T) {
	e := newTestEnv(t)
	e.CreateAffiliation(1, "Alpha", 202401010000)
	e.CreateAffiliation(2, "Beta", 202401010000)

	all, err := e.Store.Affiliations().FetchAll(e.Ctx)
	if err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("FetchAll returned %d rows, want 2", len(all))
	}
}
