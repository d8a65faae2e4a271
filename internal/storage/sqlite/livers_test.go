package sqlite

import (
	"testing"

	"github.com/untoldecay/Catnip/internal/types"
)

func TestLiverInsertWithAndWithoutAffiliation(t *testing.T) {
	e := newTestEnv(t)
	e.CreateAffiliation(1, "Alpha", 202401010000)

	affiliated := e.CreateLiver(10, ptr(int64(1)), "Aki", 202401010000)
	if affiliated.AffiliationID == nil || *affiliated.AffiliationID != 1 {
		t.Errorf("AffiliationID = %v, want 1", affiliated.AffiliationID)
	}

	indie := e.CreateLiver(11, nil, "Ibuki", 202401010000)
	if indie.AffiliationID != nil {
		t.Errorf("AffiliationID = %v, want nil", indie.AffiliationID)
	}
}

func TestLiverForeignKeyEnforced(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.Store.Livers().Insert(e.Ctx, types.NewLiver(10, ptr(int64(99)), "Aki", "Aki", 202401010000))
	if err == nil {
		t.Fatal("insert referencing a missing affiliation must fail")
	}
}

func TestLiverAffiliationDeleteSetsNull(t *testing.T) {
	e := newTestEnv(t)
	e.CreateAffiliation(1, "Alpha", 202401010000)
	e.CreateLiver(10, ptr(int64(1)), "Aki", 202401010000)

	if _, err := e.Store.Affiliations().Delete(e.Ctx, 1); err != nil {
		t.Fatalf("Delete affiliation failed: %v", err)
	}

	got, err := e.Store.Livers().FetchByID(e.Ctx, 10)
	if err != nil {
		t.Fatalf("FetchByID failed: %v", err)
	}
	if got == nil {
		t.Fatal("liver must survive its affiliation's deletion")
	}
	if got.AffiliationID != nil {
		t.Errorf("AffiliationID = %v, want nil after parent delete", got.AffiliationID)
	}
}

func TestLiverFetchByAffiliation(t *testing.T) {
	e := newTestEnv(t)
	e.CreateAffiliation(1, "Alpha", 202401010000)
	e.CreateAffiliation(2, "Beta", 202401010000)
	e.CreateLiver(10, ptr(int64(1)), "Aki", 202401010000)
	e.CreateLiver(11, ptr(int64(1)), "Botan", 202401010000)
	e.CreateLiver(12, ptr(int64(2)), "Chloe", 202401010000)
	e.CreateLiver(13, nil, "Dola", 202401010000)

	filtered, err := e.Store.Livers().FetchByAffiliation(e.Ctx, 1)
	if err != nil {
		t.Fatalf("FetchByAffiliation failed: %v", err)
	}
	if len(filtered) != 2 {
		t.Errorf("got %d livers, want 2", len(filtered))
	}

	none, err := e.Store.Livers().FetchByAffiliation(e.Ctx, 42)
	if err != nil {
		t.Fatalf("FetchByAffiliation failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("unknown affiliation returned %d livers, want 0", len(none))
	}
}

func TestLiverUpdateChangesAffiliation(t *testing.T) {
	e := newTestEnv(t)
	e.CreateAffiliation(1, "Alpha", 202401010000)
	e.CreateAffiliation(2, "Beta", 202401010000)
	e.CreateLiver(10, ptr(int64(1)), "Aki", 202401010000)

	moved := types.NewLiver(10, ptr(int64(2)), "Aki", "Aki", 202401020000)
	before, after, err := e.Store.Livers().Update(e.Ctx, moved)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if before.AffiliationID == nil || *before.AffiliationID != 1 {
		t.Errorf("before.AffiliationID = %v, want 1", before.AffiliationID)
	}
	if after.AffiliationID == nil || *after.AffiliationID != 2 {
		t.Errorf("after.AffiliationID = %v, want 2", after.AffiliationID)
	}
}
