package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/untoldecay/Catnip/internal/storage/sqlite"
	"github.com/untoldecay/Catnip/internal/types"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestAPI(t *testing.T) (*httptest.Server, *sqlite.SQLiteStorage) {
	t.Helper()
	store, err := sqlite.New(context.Background(), filepath.Join(t.TempDir(), "catnip.db"))
	if err != nil {
		t.Fatalf("sqlite.New failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	srv := httptest.NewServer(NewServer(store, discard, "0", "1").Router())
	t.Cleanup(srv.Close)
	return srv, store
}

func get(t *testing.T, srv *httptest.Server, path string, wantStatus int, out any) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s failed: %v", path, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != wantStatus {
		t.Fatalf("GET %s = %d, want %d", path, resp.StatusCode, wantStatus)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("GET %s: invalid JSON: %v", path, err)
		}
	}
}

func TestIndexReportsAPIInfo(t *testing.T) {
	srv, _ := newTestAPI(t)

	var info Info
	get(t, srv, "/", http.StatusOK, &info)
	if info.APIName != "catnip" || info.MajorVersion != "0" || info.MinorVersion != "1" {
		t.Errorf("info = %+v", info)
	}
	if info.Repository == "" {
		t.Error("repository must be set")
	}
}

func TestAffiliationRoutes(t *testing.T) {
	srv, store := newTestAPI(t)
	ctx := context.Background()
	if _, err := store.Affiliations().Insert(ctx, types.NewAffiliation(1, "Alpha", 202401010000)); err != nil {
		t.Fatal(err)
	}

	var list []types.Affiliation
	get(t, srv, "/affiliations", http.StatusOK, &list)
	if len(list) != 1 || list[0].Name != "Alpha" {
		t.Errorf("list = %+v", list)
	}

	var one types.Affiliation
	get(t, srv, "/affiliations/1", http.StatusOK, &one)
	if one.ID != 1 {
		t.Errorf("one = %+v", one)
	}

	get(t, srv, "/affiliations/99", http.StatusNotFound, nil)
	get(t, srv, "/affiliations/abc", http.StatusBadRequest, nil)
}

func TestLiversFiltered(t *testing.T) {
	srv, store := newTestAPI(t)
	ctx := context.Background()
	if _, err := store.Affiliations().Insert(ctx, types.NewAffiliation(1, "Alpha", 202401010000)); err != nil {
		t.Fatal(err)
	}
	aff := int64(1)
	if _, err := store.Livers().Insert(ctx, types.NewLiver(10, &aff, "Aki", "Aki", 202401010000)); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Livers().Insert(ctx, types.NewLiver(11, nil, "Ibuki", "Ibuki", 202401010000)); err != nil {
		t.Fatal(err)
	}

	var all []types.Liver
	get(t, srv, "/livers", http.StatusOK, &all)
	if len(all) != 2 {
		t.Errorf("got %d livers, want 2", len(all))
	}

	var filtered []types.Liver
	get(t, srv, "/livers/filtered?affiliated=1", http.StatusOK, &filtered)
	if len(filtered) != 1 || filtered[0].ID != 10 {
		t.Errorf("filtered = %+v", filtered)
	}

	var empty []types.Liver
	get(t, srv, "/livers/filtered?affiliated=42", http.StatusOK, &empty)
	if len(empty) != 0 {
		t.Errorf("unknown affiliation must yield an empty list, got %+v", empty)
	}

	get(t, srv, "/livers/filtered?affiliated=abc", http.StatusBadRequest, nil)
}

func TestUpcomings(t *testing.T) {
	srv, store := newTestAPI(t)
	ctx := context.Background()

	will := time.Now().Add(time.Hour).UTC()
	started := time.Now().UTC()
	if _, err := store.Videos().Insert(ctx, types.VideoBuilder{
		ID: "scheduled", Title: "soon", WillStartAt: &will, Signature: 202401010000,
	}.Build()); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Videos().Insert(ctx, types.VideoBuilder{
		ID: "live", Title: "now", WillStartAt: &will, StartedAt: &started, Signature: 202401010000,
	}.Build()); err != nil {
		t.Fatal(err)
	}

	var upcoming []types.Video
	get(t, srv, "/upcomings", http.StatusOK, &upcoming)
	if len(upcoming) != 1 || upcoming[0].ID != "scheduled" {
		t.Errorf("upcoming = %+v", upcoming)
	}
}

func TestEmptyListsAreJSONArrays(t *testing.T) {
	srv, _ := newTestAPI(t)

	for _, path := range []string{"/affiliations", "/livers", "/channels", "/upcomings"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if string(body) != "[]\n" {
			t.Errorf("GET %s body = %q, want empty JSON array", path, string(body))
		}
	}
}
