package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when an ad record or asset blob does not resolve.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is returned when no advertiser identifier was supplied.
	ErrUnauthorized = errors.New("advertiser identifier required")
	// ErrSlotEmpty is returned when a slot has no live ads left to rotate.
	ErrSlotEmpty = errors.New("slot has no ads")
	// ErrRangeNotSatisfiable is returned for malformed or out-of-bounds byte ranges.
	ErrRangeNotSatisfiable = errors.New("range not satisfiable")
)

// DefaultMimeType is applied when neither the upload form nor the asset
// itself declares a content type.
const DefaultMimeType = "video/mp4"

// DefaultAssetMimeType is served for records whose type field is absent.
const DefaultAssetMimeType = "application/octet-stream"

type Ad struct {
	Slot        string `json:"slot"`
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Type        string `json:"type"`
	Advertiser  string `json:"advertiser"`
	Destination string `json:"destination"`
	Impressions int64  `json:"impressions"`
	AssetURL    string `json:"asset"`
	CounterURL  string `json:"counter"`
	RedirectURL string `json:"redirect"`
}

// Key identifies the record in the store and its asset blob.
func (a Ad) Key() AdKey {
	return AdKey{Slot: a.Slot, ID: a.ID}
}

// AdKey is the (slot, id) pair identifying one ad record.
type AdKey struct {
	Slot string
	ID   int64
}

func (k AdKey) String() string {
	return fmt.Sprintf("%s-%d", k.Slot, k.ID)
}

// AdvertiserID is the opaque caller-supplied advertiser identifier. It may be
// a path-like composite key; only its trailing segment partitions the click log.
type AdvertiserID string

func (a AdvertiserID) IsZero() bool {
	return strings.TrimSpace(string(a)) == ""
}

// Partition returns the trailing path segment used as the click log
// partition key.
func (a AdvertiserID) Partition() string {
	segments := strings.Split(string(a), "/")
	return segments[len(segments)-1]
}
