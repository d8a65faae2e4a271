package types

import (
	"fmt"
	"time"
)

// Video is a live/archived stream entry, optionally attached to a
// channel. All timestamps are optional: upstream collectors learn them
// at different points in a stream's lifecycle.
type Video struct {
	ID           VideoID         `json:"video_id"`
	ChannelID    *ChannelID      `json:"channel_id,omitempty"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	PublishedAt  *time.Time      `json:"published_at,omitempty"`
	UpdatedAt    *time.Time      `json:"updated_at,omitempty"`
	WillStartAt  *time.Time      `json:"will_start_at,omitempty"`
	StartedAt    *time.Time      `json:"started_at,omitempty"`
	ThumbnailURL string          `json:"thumbnail_url"`
	Signature    UpdateSignature `json:"update_signatures"`
}

// VideoBuilder assembles a Video. The zero value supplies benign
// sentinels; ThumbnailURL defaults to the platform thumbnail derived
// from the video ID.
type VideoBuilder struct {
	ID           VideoID
	ChannelID    *ChannelID
	Title        string
	Description  string
	PublishedAt  *time.Time
	UpdatedAt    *time.Time
	WillStartAt  *time.Time
	StartedAt    *time.Time
	ThumbnailURL string
	Signature    UpdateSignature
}

func (b VideoBuilder) Build() Video {
	if b.ThumbnailURL == "" && b.ID != "" {
		b.ThumbnailURL = DefaultThumbnail(b.ID)
	}
	return Video{
		ID:           b.ID,
		ChannelID:    b.ChannelID,
		Title:        b.Title,
		Description:  b.Description,
		PublishedAt:  b.PublishedAt,
		UpdatedAt:    b.UpdatedAt,
		WillStartAt:  b.WillStartAt,
		StartedAt:    b.StartedAt,
		ThumbnailURL: b.ThumbnailURL,
		Signature:    b.Signature,
	}
}

// DefaultThumbnail derives the platform thumbnail URL for a video.
func DefaultThumbnail(id VideoID) string {
	return fmt.Sprintf("https://img.youtube.com/vi/%s/maxresdefault.jpg", string(id))
}

func (v Video) Version() UpdateSignature { return v.Signature }

func (v Video) WithSignature(sig UpdateSignature) Video {
	v.Signature = sig
	return v
}

// ContentEquals compares every mutable field except the signature.
// Timestamps compare at the precision the wire encoding carries.
func (v Video) ContentEquals(other Video) bool {
	return v.ID == other.ID &&
		equalIDPtr(v.ChannelID, other.ChannelID) &&
		v.Title == other.Title &&
		v.Description == other.Description &&
		equalTimePtr(v.PublishedAt, other.PublishedAt) &&
		equalTimePtr(v.UpdatedAt, other.UpdatedAt) &&
		equalTimePtr(v.WillStartAt, other.WillStartAt) &&
		equalTimePtr(v.StartedAt, other.StartedAt) &&
		v.ThumbnailURL == other.ThumbnailURL
}

func (v Video) PrimaryName() string { return v.Title }

func (v Video) SecondaryName() string { return string(v.ID) }

func equalTimePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
