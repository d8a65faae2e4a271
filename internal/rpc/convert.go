package rpc

import (
	"github.com/untoldecay/Catnip/internal/types"
)

// Wire-to-record conversions. Each returns the decoded snapshot plus
// the tombstone flag; a negative override_at is honored as the legacy
// tombstone encoding.

func affiliationFromMsg(m AffiliationMsg) (types.Affiliation, bool) {
	return types.NewAffiliation(m.ID, m.Name, m.OverrideAt), m.Delete || m.OverrideAt < 0
}

func liverFromMsg(m LiverMsg) (types.Liver, bool) {
	return types.NewLiver(m.ID, m.AffiliationID, m.Name, m.LocalizedName, m.OverrideAt),
		m.Delete || m.OverrideAt < 0
}

func channelFromMsg(m ChannelMsg) (types.Channel, bool) {
	var liverID *types.LiverID
	if m.LiverID != nil {
		v := types.LiverID(*m.LiverID)
		liverID = &v
	}
	rec := types.ChannelBuilder{
		ID:          types.ChannelID(m.ID),
		LiverID:     liverID,
		LogoURL:     m.LogoURL,
		PublishedAt: m.PublishedAt,
		Description: m.Description,
		Signature:   types.UpdateSignature(m.OverrideAt),
	}.Build()
	return rec, m.Delete || m.OverrideAt < 0
}

func videoFromMsg(m VideoMsg) (types.Video, bool) {
	var channelID *types.ChannelID
	if m.ChannelID != nil {
		v := types.ChannelID(*m.ChannelID)
		channelID = &v
	}
	rec := types.VideoBuilder{
		ID:           types.VideoID(m.ID),
		ChannelID:    channelID,
		Title:        m.Title,
		Description:  m.Description,
		PublishedAt:  m.PublishedAt,
		UpdatedAt:    m.UpdatedAt,
		WillStartAt:  m.WillStartAt,
		StartedAt:    m.StartedAt,
		ThumbnailURL: m.ThumbnailURL,
		Signature:    types.UpdateSignature(m.OverrideAt),
	}.Build()
	return rec, m.Delete || m.OverrideAt < 0
}

// Record-to-wire conversions for the fetch_all streams.

func msgFromAffiliation(a types.Affiliation) AffiliationMsg {
	return AffiliationMsg{
		ID:         int64(a.ID),
		Name:       a.Name,
		OverrideAt: int64(a.Signature),
	}
}

func msgFromLiver(l types.Liver) LiverMsg {
	var aff *int64
	if l.AffiliationID != nil {
		v := int64(*l.AffiliationID)
		aff = &v
	}
	return LiverMsg{
		ID:            int64(l.ID),
		AffiliationID: aff,
		Name:          l.Name,
		LocalizedName: l.LocalizedName,
		OverrideAt:    int64(l.Signature),
	}
}

func msgFromChannel(c types.Channel) ChannelMsg {
	var liver *int64
	if c.LiverID != nil {
		v := int64(*c.LiverID)
		liver = &v
	}
	return ChannelMsg{
		ID:          string(c.ID),
		LiverID:     liver,
		LogoURL:     c.LogoURL,
		PublishedAt: c.PublishedAt,
		Description: c.Description,
		OverrideAt:  int64(c.Signature),
	}
}

func msgFromVideo(v types.Video) VideoMsg {
	var channel *string
	if v.ChannelID != nil {
		s := string(*v.ChannelID)
		channel = &s
	}
	return VideoMsg{
		ID:           string(v.ID),
		ChannelID:    channel,
		Title:        v.Title,
		Description:  v.Description,
		PublishedAt:  v.PublishedAt,
		UpdatedAt:    v.UpdatedAt,
		WillStartAt:  v.WillStartAt,
		StartedAt:    v.StartedAt,
		ThumbnailURL: v.ThumbnailURL,
		OverrideAt:   int64(v.Signature),
	}
}
