package sqlite

import (
	"errors"
	"testing"
	"time"

	"github.com/untoldecay/Catnip/internal/storage"
	"github.com/untoldecay/Catnip/internal/types"
)

func TestChannelRoundTrip(t *testing.T) {
	e := newTestEnv(t)
	e.CreateLiver(10, nil, "Aki", 202401010000)

	ins := e.CreateChannel("UC1", ptr(int64(10)), 202401010000)
	got, err := e.Store.Channels().FetchByID(e.Ctx, "UC1")
	if err != nil {
		t.Fatalf("FetchByID failed: %v", err)
	}
	if got == nil {
		t.Fatal("channel not found after insert")
	}
	if !ins.ContentEquals(*got) || got.Signature != ins.Signature {
		t.Errorf("round trip mismatch: inserted %+v, fetched %+v", ins, *got)
	}
	if !got.PublishedAt.Equal(ins.PublishedAt) {
		t.Errorf("PublishedAt = %v, want %v", got.PublishedAt, ins.PublishedAt)
	}
}

func TestChannelExistsIsKeyOnly(t *testing.T) {
	e := newTestEnv(t)
	e.CreateChannel("UC1", nil, 202401010000)

	exists, err := e.Store.Channels().Exists(e.Ctx, types.ChannelBuilder{ID: "UC1"}.Build())
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Error("existing key must be found")
	}

	exists, err = e.Store.Channels().Exists(e.Ctx, types.ChannelBuilder{ID: "UC2"}.Build())
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Error("unknown key must not exist")
	}
}

func TestChannelUpdateReturnsBeforeAndAfter(t *testing.T) {
	e := newTestEnv(t)
	e.CreateChannel("UC1", nil, 202401010000)

	changed := types.ChannelBuilder{
		ID:          "UC1",
		LogoURL:     "https://example.com/new.png",
		PublishedAt: time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC),
		Description: "updated description",
		Signature:   202401020000,
	}.Build()
	before, after, err := e.Store.Channels().Update(e.Ctx, changed)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if before.Description != "a channel" {
		t.Errorf("before.Description = %q, want original", before.Description)
	}
	if after.Description != "updated description" || int64(after.Signature) != 202401020000 {
		t.Errorf("after = %+v, want updated row", after)
	}
}

func TestChannelDeleteMissingIsNotFound(t *testing.T) {
	e := newTestEnv(t)

	if _, err := e.Store.Channels().Delete(e.Ctx, "UC9"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Delete absent = %v, want ErrNotFound", err)
	}
}
