package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/untoldecay/Catnip/internal/types"
)

// testEnv provides a test environment with common setup and helpers.
// Use newTestEnv(t) to create a test environment with automatic cleanup.
type testEnv struct {
	t     *testing.T
	Store *SQLiteStorage
	Ctx   context.Context
}

// newTestEnv creates a new test environment with a configured store.
// The store is automatically cleaned up when the test completes.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return &testEnv{
		t:     t,
		Store: newTestStore(t),
		Ctx:   context.Background(),
	}
}

func newTestStore(t *testing.T) *SQLiteStorage {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catnip.db")
	store, err := New(context.Background(), path)
	if err != nil {
		t.Fatalf("New(%q) failed: %v", path, err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// CreateAffiliation inserts an affiliation with the given attributes.
func (e *testEnv) CreateAffiliation(id int64, name string, sig int64) types.Affiliation {
	e.t.Helper()
	ins, err := e.Store.Affiliations().Insert(e.Ctx, types.NewAffiliation(id, name, sig))
	if err != nil {
		e.t.Fatalf("Insert affiliation %d failed: %v", id, err)
	}
	return ins
}

// CreateLiver inserts a liver; affiliation may be nil.
func (e *testEnv) CreateLiver(id int64, affiliation *int64, name string, sig int64) types.Liver {
	e.t.Helper()
	ins, err := e.Store.Livers().Insert(e.Ctx, types.NewLiver(id, affiliation, name, name, sig))
	if err != nil {
		e.t.Fatalf("Insert liver %d failed: %v", id, err)
	}
	return ins
}

// CreateChannel inserts a channel; liver may be nil.
func (e *testEnv) CreateChannel(id string, liver *int64, sig int64) types.Channel {
	e.t.Helper()
	var liverID *types.LiverID
	if liver != nil {
		v := types.LiverID(*liver)
		liverID = &v
	}
	ins, err := e.Store.Channels().Insert(e.Ctx, types.ChannelBuilder{
		ID:          types.ChannelID(id),
		LiverID:     liverID,
		LogoURL:     "https://example.com/logo.png",
		PublishedAt: time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC),
		Description: "a channel",
		Signature:   types.UpdateSignature(sig),
	}.Build())
	if err != nil {
		e.t.Fatalf("Insert channel %s failed: %v", id, err)
	}
	return ins
}

// CreateVideo inserts a video; channel may be nil.
func (e *testEnv) CreateVideo(id string, channel *string, willStartAt, startedAt *time.Time, sig int64) types.Video {
	e.t.Helper()
	var channelID *types.ChannelID
	if channel != nil {
		v := types.ChannelID(*channel)
		channelID = &v
	}
	ins, err := e.Store.Videos().Insert(e.Ctx, types.VideoBuilder{
		ID:          types.VideoID(id),
		ChannelID:   channelID,
		Title:       "stream " + id,
		WillStartAt: willStartAt,
		StartedAt:   startedAt,
		Signature:   types.UpdateSignature(sig),
	}.Build())
	if err != nil {
		e.t.Fatalf("Insert video %s failed: %v", id, err)
	}
	return ins
}

func ptr[T any](v T) *T { return &v }
