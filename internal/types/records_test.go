package types

import (
	"testing"
	"time"
)

func TestAffiliationContentEqualsIgnoresSignature(t *testing.T) {
	a := NewAffiliation(1, "Alpha", 202401010000)
	b := NewAffiliation(1, "Alpha", 202401020000)
	if !a.ContentEquals(b) {
		t.Error("records differing only in signature must be content equal")
	}

	c := NewAffiliation(1, "Alpha2", 202401010000)
	if a.ContentEquals(c) {
		t.Error("records with different names must not be content equal")
	}
}

func TestLiverContentEqualsAffiliationPointer(t *testing.T) {
	aff := int64(1)
	a := NewLiver(10, &aff, "Aki", "あき", 202401010000)

	sameAff := int64(1)
	b := NewLiver(10, &sameAff, "Aki", "あき", 0)
	if !a.ContentEquals(b) {
		t.Error("equal affiliation ids behind distinct pointers must compare equal")
	}

	c := NewLiver(10, nil, "Aki", "あき", 202401010000)
	if a.ContentEquals(c) {
		t.Error("affiliated and unaffiliated records must differ")
	}
	if !c.ContentEquals(c) {
		t.Error("nil affiliation must compare equal to itself")
	}
}

func TestChannelBuilderDefaults(t *testing.T) {
	ch := ChannelBuilder{ID: "UC123"}.Build()
	if ch.PublishedAt.IsZero() {
		t.Error("builder must default PublishedAt")
	}

	at := time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)
	ch = ChannelBuilder{ID: "UC123", PublishedAt: at}.Build()
	if !ch.PublishedAt.Equal(at) {
		t.Errorf("PublishedAt = %v, want %v", ch.PublishedAt, at)
	}
}

func TestVideoBuilderThumbnailDefault(t *testing.T) {
	v := VideoBuilder{ID: "abc123"}.Build()
	want := "https://img.youtube.com/vi/abc123/maxresdefault.jpg"
	if v.ThumbnailURL != want {
		t.Errorf("ThumbnailURL = %q, want %q", v.ThumbnailURL, want)
	}

	v = VideoBuilder{ID: "abc123", ThumbnailURL: "https://example.com/t.jpg"}.Build()
	if v.ThumbnailURL != "https://example.com/t.jpg" {
		t.Error("explicit thumbnail must not be overridden")
	}
}

func TestVideoContentEqualsTimestamps(t *testing.T) {
	at := time.Date(2024, 3, 4, 5, 6, 7, 123456789, time.UTC)
	later := at.Add(time.Hour)

	a := VideoBuilder{ID: "v1", Title: "live", WillStartAt: &at}.Build()
	b := VideoBuilder{ID: "v1", Title: "live", WillStartAt: &at}.Build()
	if !a.ContentEquals(b) {
		t.Error("identical videos must be content equal")
	}

	// Same wall-clock instant in another zone still compares equal.
	inZone := at.In(time.FixedZone("JST", 9*3600))
	c := VideoBuilder{ID: "v1", Title: "live", WillStartAt: &inZone}.Build()
	if !a.ContentEquals(c) {
		t.Error("timestamp comparison must be instant-based, not zone-based")
	}

	d := VideoBuilder{ID: "v1", Title: "live", WillStartAt: &later}.Build()
	if a.ContentEquals(d) {
		t.Error("different timestamps must not be content equal")
	}

	e := VideoBuilder{ID: "v1", Title: "live"}.Build()
	if a.ContentEquals(e) {
		t.Error("set and unset timestamps must not be content equal")
	}
}
