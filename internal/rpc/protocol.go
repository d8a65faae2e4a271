// Package rpc implements the ingestion protocol: line-delimited JSON
// over a unix or TCP socket.
//
// Every connection carries exactly one operation. The client sends a
// Request line first. For ingest operations it then streams one
// StreamItem per line (each wrapping a wire record) and terminates the
// stream with {"done":true}; the server drains the stream, reconciles
// it under one database transaction, and replies with a single
// Response whose data is the batch summary. For fetch operations the
// server answers with a paced stream of StreamItem lines terminated by
// {"done":true}.
package rpc

import (
	"encoding/json"
	"time"
)

// Operation constants for all catnip RPC calls.
const (
	OpPing   = "ping"
	OpStatus = "status"

	OpIngestAffiliations = "ingest_affiliations"
	OpIngestLivers       = "ingest_livers"
	OpIngestChannels     = "ingest_channels"
	OpIngestVideos       = "ingest_videos"

	OpFetchAllAffiliations = "fetch_all_affiliations"
	OpFetchAllLivers       = "fetch_all_livers"
	OpFetchAllChannels     = "fetch_all_channels"
	OpFetchAllVideos       = "fetch_all_videos"
)

// Request represents an RPC request from a collector to the server.
type Request struct {
	Operation     string `json:"operation"`
	RequestID     string `json:"request_id,omitempty"`
	ClientVersion string `json:"client_version,omitempty"` // informational; not checked by the server
}

// Response represents the single reply the server writes for an
// operation.
type Response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// StreamItem frames one element of a record stream in either
// direction. Exactly one field is set per line.
type StreamItem struct {
	Record json.RawMessage `json:"record,omitempty"`
	Done   bool            `json:"done,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusInfo is the data payload of the status operation.
type StatusInfo struct {
	Version      string `json:"version"`
	UptimeSecs   int64  `json:"uptime_secs"`
	DatabasePath string `json:"database_path"`
	Requests     int64  `json:"requests"`
}

// AffiliationMsg is the wire form of an affiliation snapshot.
// override_at maps to the snapshot's update signature; delete marks a
// tombstone (a negative override_at is the legacy tombstone form).
type AffiliationMsg struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	OverrideAt int64  `json:"override_at"`
	Delete     bool   `json:"delete,omitempty"`
}

// LiverMsg is the wire form of a liver snapshot.
type LiverMsg struct {
	ID            int64  `json:"id"`
	AffiliationID *int64 `json:"affiliation_id,omitempty"`
	Name          string `json:"name"`
	LocalizedName string `json:"localized_name"`
	OverrideAt    int64  `json:"override_at"`
	Delete        bool   `json:"delete,omitempty"`
}

// ChannelMsg is the wire form of a channel snapshot. Timestamps are
// RFC 3339 with nanoseconds.
type ChannelMsg struct {
	ID          string    `json:"id"`
	LiverID     *int64    `json:"liver_id,omitempty"`
	LogoURL     string    `json:"logo_url"`
	PublishedAt time.Time `json:"published_at"`
	Description string    `json:"description"`
	OverrideAt  int64     `json:"override_at"`
	Delete      bool      `json:"delete,omitempty"`
}

// VideoMsg is the wire form of a video snapshot.
type VideoMsg struct {
	ID           string     `json:"id"`
	ChannelID    *string    `json:"channel_id,omitempty"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
	WillStartAt  *time.Time `json:"will_start_at,omitempty"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	ThumbnailURL string     `json:"thumbnail_url,omitempty"`
	OverrideAt   int64      `json:"override_at"`
	Delete       bool       `json:"delete,omitempty"`
}
