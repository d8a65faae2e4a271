// Package types defines the entity records and identifier types shared
// by the storage layer, the reconciliation engine, and both serving
// surfaces.
package types

import "fmt"

// AffiliationID identifies an agency/affiliation row.
type AffiliationID int64

// LiverID identifies a liver (talent) row.
type LiverID int64

// ChannelID identifies a channel row. Channel IDs are opaque strings
// assigned by the upstream platform.
type ChannelID string

// VideoID identifies a video row.
type VideoID string

func (id AffiliationID) Int64() int64 { return int64(id) }

func (id LiverID) Int64() int64 { return int64(id) }

func (id ChannelID) Value() string { return string(id) }

func (id VideoID) Value() string { return string(id) }

func (id AffiliationID) String() string { return fmt.Sprintf("affiliation_id: %d", int64(id)) }

func (id LiverID) String() string { return fmt.Sprintf("liver_id: %d", int64(id)) }

func (id ChannelID) String() string { return fmt.Sprintf("channel_id: %s", string(id)) }

func (id VideoID) String() string { return fmt.Sprintf("video_id: %s", string(id)) }
