package sqlite

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/untoldecay/Catnip/internal/types"
)

func TestVideoRoundTripPreservesTimestamps(t *testing.T) {
	e := newTestEnv(t)
	e.CreateChannel("UC1", nil, 202401010000)

	published := time.Date(2024, 3, 4, 5, 6, 7, 123456789, time.UTC)
	will := published.Add(24 * time.Hour)
	ins := e.Store
	v, err := ins.Videos().Insert(e.Ctx, types.VideoBuilder{
		ID:          "v1",
		ChannelID:   ptr(types.ChannelID("UC1")),
		Title:       "premiere",
		PublishedAt: &published,
		WillStartAt: &will,
		Signature:   202403040506,
	}.Build())
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := ins.Videos().FetchByID(e.Ctx, "v1")
	if err != nil {
		t.Fatalf("FetchByID failed: %v", err)
	}
	if got == nil {
		t.Fatal("video not found after insert")
	}
	if diff := cmp.Diff(v, *got); diff != "" {
		t.Errorf("round trip mismatch (-inserted +fetched):\n%s", diff)
	}
	if got.PublishedAt == nil || !got.PublishedAt.Equal(published) {
		t.Errorf("PublishedAt = %v, want %v", got.PublishedAt, published)
	}
	if got.UpdatedAt != nil || got.StartedAt != nil {
		t.Error("unset timestamps must stay nil")
	}
}

func TestVideoFetchUpcoming(t *testing.T) {
	e := newTestEnv(t)

	now := time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)
	later := now.Add(2 * time.Hour)
	soon := now.Add(time.Hour)

	e.CreateVideo("started", nil, &now, &now, 202401010000)
	e.CreateVideo("later", nil, &later, nil, 202401010000)
	e.CreateVideo("soon", nil, &soon, nil, 202401010000)
	e.CreateVideo("unscheduled", nil, nil, nil, 202401010000)

	upcoming, err := e.Store.Videos().FetchUpcoming(e.Ctx)
	if err != nil {
		t.Fatalf("FetchUpcoming failed: %v", err)
	}
	if len(upcoming) != 2 {
		t.Fatalf("got %d upcoming videos, want 2", len(upcoming))
	}
	if upcoming[0].ID != "soon" || upcoming[1].ID != "later" {
		t.Errorf("order = [%s %s], want [soon later]", upcoming[0].ID, upcoming[1].ID)
	}
}

func TestVideoChannelDeleteSetsNull(t *testing.T) {
	e := newTestEnv(t)
	e.CreateChannel("UC1", nil, 202401010000)
	e.CreateVideo("v1", ptr("UC1"), nil, nil, 202401010000)

	if _, err := e.Store.Channels().Delete(e.Ctx, "UC1"); err != nil {
		t.Fatalf("Delete channel failed: %v", err)
	}

	got, err := e.Store.Videos().FetchByID(e.Ctx, "v1")
	if err != nil {
		t.Fatalf("FetchByID failed: %v", err)
	}
	if got == nil {
		t.Fatal("video must survive its channel's deletion")
	}
	if got.ChannelID != nil {
		t.Errorf("ChannelID = %v, want nil after parent delete", got.ChannelID)
	}
}
