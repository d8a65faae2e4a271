package types

import "time"

// Channel is a platform channel, optionally attached to a liver.
type Channel struct {
	ID          ChannelID       `json:"channel_id"`
	LiverID     *LiverID        `json:"liver_id,omitempty"`
	LogoURL     string          `json:"logo_url"`
	PublishedAt time.Time       `json:"published_at"`
	Description string          `json:"description"`
	Signature   UpdateSignature `json:"update_signatures"`
}

// ChannelBuilder assembles a Channel. The zero value supplies benign
// sentinels; PublishedAt defaults to the build time when unset.
type ChannelBuilder struct {
	ID          ChannelID
	LiverID     *LiverID
	LogoURL     string
	PublishedAt time.Time
	Description string
	Signature   UpdateSignature
}

func (b ChannelBuilder) Build() Channel {
	if b.PublishedAt.IsZero() {
		b.PublishedAt = time.Now().UTC()
	}
	return Channel{
		ID:          b.ID,
		LiverID:     b.LiverID,
		LogoURL:     b.LogoURL,
		PublishedAt: b.PublishedAt,
		Description: b.Description,
		Signature:   b.Signature,
	}
}

func (c Channel) Version() UpdateSignature { return c.Signature }

func (c Channel) WithSignature(sig UpdateSignature) Channel {
	c.Signature = sig
	return c
}

// ContentEquals compares every mutable field except the signature.
// Timestamps compare at the precision the wire encoding carries.
func (c Channel) ContentEquals(other Channel) bool {
	return c.ID == other.ID &&
		equalIDPtr(c.LiverID, other.LiverID) &&
		c.LogoURL == other.LogoURL &&
		c.PublishedAt.Equal(other.PublishedAt) &&
		c.Description == other.Description
}

func (c Channel) PrimaryName() string { return string(c.ID) }

func (c Channel) SecondaryName() string {
	if c.LiverID == nil {
		return "0"
	}
	return c.LiverID.String()
}
