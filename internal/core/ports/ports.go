package ports

import (
	"context"

	"github.com/esdrassantos06/go-adserver/internal/core/domain"
)

// AdRepository is the typed surface over the key-value store: ad hashes,
// per-slot rotation lists, per-advertiser index sets and the global id
// counter. Mutating primitives (NextID, IncrementImpressions, RotateSlot)
// must be single atomic store operations.
type AdRepository interface {
	// NextID returns a new id from the store's global monotonic counter.
	NextID(ctx context.Context) (int64, error)
	SaveAd(ctx context.Context, ad domain.Ad) error
	// GetAd resolves a record, coercing stored fields once at this boundary.
	// Returns domain.ErrNotFound when the record does not exist.
	GetAd(ctx context.Context, slot string, id int64) (domain.Ad, error)
	// IncrementImpressions atomically bumps the impression counter.
	// Returns domain.ErrNotFound when the record does not exist.
	IncrementImpressions(ctx context.Context, slot string, id int64) error

	PushRotation(ctx context.Context, slot string, id int64) error
	// RotateSlot atomically moves the next id to the back of the slot's
	// rotation list and returns it. Returns domain.ErrSlotEmpty when the
	// list is empty.
	RotateSlot(ctx context.Context, slot string) (int64, error)
	// RemoveFromRotation evicts all occurrences of id from the slot's list.
	RemoveFromRotation(ctx context.Context, slot string, id int64) error

	AddToAdvertiserIndex(ctx context.Context, advertiser domain.AdvertiserID, key domain.AdKey) error
	ListAdvertiserAdKeys(ctx context.Context, advertiser domain.AdvertiserID) ([]domain.AdKey, error)

	// WipeAll deletes every key in the store's namespace.
	WipeAll(ctx context.Context) error
}

// ClickLogRepository is the append-only relational redirect log.
type ClickLogRepository interface {
	Insert(ctx context.Context, partition string, adID int64, userKey, userAgent string) error
	ListByAdvertiser(ctx context.Context, partition string) ([]domain.ClickRow, error)
	// Reset recreates the log table from scratch.
	Reset(ctx context.Context) error
}

// AssetRepository stores write-once-then-read-many binary blobs keyed by
// (slot, id).
type AssetRepository interface {
	Save(ctx context.Context, key domain.AdKey, data []byte) error
	// Load returns domain.ErrNotFound when no blob exists for the key.
	Load(ctx context.Context, key domain.AdKey) ([]byte, error)
	Reset(ctx context.Context) error
}

// UploadInput carries one ad upload through the lifecycle steps.
type UploadInput struct {
	Slot          string
	Advertiser    domain.AdvertiserID
	Title         string
	MimeType      string // explicit hint from the upload form
	AssetMimeType string // content type declared by the multipart asset
	Destination   string
	Asset         []byte
	BaseURL       string
}

type AdService interface {
	Upload(ctx context.Context, in UploadInput) (domain.Ad, error)
	Get(ctx context.Context, slot string, id int64) (domain.Ad, error)
	// NextAd picks the slot's next ad, evicting stale rotation entries as
	// they are discovered. Returns domain.ErrSlotEmpty when nothing is left.
	NextAd(ctx context.Context, slot string) (domain.Ad, error)
	CountImpression(ctx context.Context, slot string, id int64) error
	// RecordClick appends a click log entry and returns the redirect target.
	RecordClick(ctx context.Context, slot string, id int64, userKey, userAgent string) (string, error)
	// Initialize wipes the key-value namespace, the click log and the
	// asset store.
	Initialize(ctx context.Context) error
}

type ReportService interface {
	Summary(ctx context.Context, advertiser domain.AdvertiserID) (domain.Report, error)
	Final(ctx context.Context, advertiser domain.AdvertiserID) (domain.Report, error)
}

type AssetService interface {
	Serve(ctx context.Context, slot string, id int64, rangeHeader string) (domain.AssetContent, error)
}
