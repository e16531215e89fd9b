// Package testutils provides in-memory repository implementations mirroring
// the atomic semantics of the real stores, for exercising the core services
// without Redis or Postgres.
package testutils

import (
	"context"
	"slices"
	"sync"

	"github.com/esdrassantos06/go-adserver/internal/core/domain"
)

// MemAdRepo is an in-memory ports.AdRepository. A single mutex stands in for
// the per-operation atomicity the Redis primitives provide.
type MemAdRepo struct {
	mu        sync.Mutex
	nextID    int64
	Ads       map[domain.AdKey]domain.Ad
	Rotations map[string][]int64
	Index     map[domain.AdvertiserID][]domain.AdKey
}

func NewMemAdRepo() *MemAdRepo {
	return &MemAdRepo{
		Ads:       make(map[domain.AdKey]domain.Ad),
		Rotations: make(map[string][]int64),
		Index:     make(map[domain.AdvertiserID][]domain.AdKey),
	}
}

func (r *MemAdRepo) NextID(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	return r.nextID, nil
}

func (r *MemAdRepo) SaveAd(_ context.Context, ad domain.Ad) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Ads[ad.Key()] = ad
	return nil
}

func (r *MemAdRepo) GetAd(_ context.Context, slot string, id int64) (domain.Ad, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ad, ok := r.Ads[domain.AdKey{Slot: slot, ID: id}]
	if !ok {
		return domain.Ad{}, domain.ErrNotFound
	}
	return ad, nil
}

func (r *MemAdRepo) IncrementImpressions(_ context.Context, slot string, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := domain.AdKey{Slot: slot, ID: id}
	ad, ok := r.Ads[key]
	if !ok {
		return domain.ErrNotFound
	}
	ad.Impressions++
	r.Ads[key] = ad
	return nil
}

func (r *MemAdRepo) PushRotation(_ context.Context, slot string, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Rotations[slot] = append(r.Rotations[slot], id)
	return nil
}

// RotateSlot moves the tail to the head and returns it, matching the LMOVE
// RIGHT LEFT rotation of the Redis adapter.
func (r *MemAdRepo) RotateSlot(_ context.Context, slot string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.Rotations[slot]
	if len(list) == 0 {
		return 0, domain.ErrSlotEmpty
	}
	tail := list[len(list)-1]
	r.Rotations[slot] = append([]int64{tail}, list[:len(list)-1]...)
	return tail, nil
}

func (r *MemAdRepo) RemoveFromRotation(_ context.Context, slot string, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.Rotations[slot][:0:0]
	for _, entry := range r.Rotations[slot] {
		if entry != id {
			list = append(list, entry)
		}
	}
	r.Rotations[slot] = list
	return nil
}

func (r *MemAdRepo) AddToAdvertiserIndex(_ context.Context, advertiser domain.AdvertiserID, key domain.AdKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !slices.Contains(r.Index[advertiser], key) {
		r.Index[advertiser] = append(r.Index[advertiser], key)
	}
	return nil
}

func (r *MemAdRepo) ListAdvertiserAdKeys(_ context.Context, advertiser domain.AdvertiserID) ([]domain.AdKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.Index[advertiser]), nil
}

func (r *MemAdRepo) WipeAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID = 0
	r.Ads = make(map[domain.AdKey]domain.Ad)
	r.Rotations = make(map[string][]int64)
	r.Index = make(map[domain.AdvertiserID][]domain.AdKey)
	return nil
}

// MemClickLog is an in-memory ports.ClickLogRepository.
type MemClickLog struct {
	mu   sync.Mutex
	Rows map[string][]domain.ClickRow
}

func NewMemClickLog() *MemClickLog {
	return &MemClickLog{Rows: make(map[string][]domain.ClickRow)}
}

func (l *MemClickLog) Insert(_ context.Context, partition string, adID int64, userKey, userAgent string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Rows[partition] = append(l.Rows[partition], domain.ClickRow{
		AdID:      adID,
		UserKey:   userKey,
		UserAgent: userAgent,
	})
	return nil
}

func (l *MemClickLog) ListByAdvertiser(_ context.Context, partition string) ([]domain.ClickRow, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.Rows[partition]), nil
}

func (l *MemClickLog) Reset(_ context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Rows = make(map[string][]domain.ClickRow)
	return nil
}

// MemAssetRepo is an in-memory ports.AssetRepository.
type MemAssetRepo struct {
	mu    sync.Mutex
	Blobs map[domain.AdKey][]byte
}

func NewMemAssetRepo() *MemAssetRepo {
	return &MemAssetRepo{Blobs: make(map[domain.AdKey][]byte)}
}

func (r *MemAssetRepo) Save(_ context.Context, key domain.AdKey, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Blobs[key] = slices.Clone(data)
	return nil
}

func (r *MemAssetRepo) Load(_ context.Context, key domain.AdKey) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, ok := r.Blobs[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return slices.Clone(data), nil
}

func (r *MemAssetRepo) Reset(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Blobs = make(map[domain.AdKey][]byte)
	return nil
}
