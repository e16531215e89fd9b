package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/esdrassantos06/go-adserver/internal/core/domain"
	"github.com/esdrassantos06/go-adserver/internal/core/ports"
)

type DefaultAdService struct {
	Repo   ports.AdRepository
	Clicks ports.ClickLogRepository
	Assets ports.AssetRepository
	Logger *slog.Logger
}

func NewAdService(repo ports.AdRepository, clicks ports.ClickLogRepository, assets ports.AssetRepository, logger *slog.Logger) ports.AdService {
	return &DefaultAdService{Repo: repo, Clicks: clicks, Assets: assets, Logger: logger}
}

// Upload runs the lifecycle steps in order: id, record, asset blob, rotation
// list, advertiser index. A failure after the record is written leaves an
// orphan that the self-healing read paths tolerate; nothing is rolled back.
func (s *DefaultAdService) Upload(ctx context.Context, in ports.UploadInput) (domain.Ad, error) {
	id, err := s.Repo.NextID(ctx)
	if err != nil {
		return domain.Ad{}, fmt.Errorf("next ad id: %w", err)
	}

	mimeType := in.MimeType
	if mimeType == "" {
		mimeType = in.AssetMimeType
	}
	if mimeType == "" {
		mimeType = domain.DefaultMimeType
	}

	ad := domain.Ad{
		Slot:        in.Slot,
		ID:          id,
		Title:       in.Title,
		Type:        mimeType,
		Advertiser:  string(in.Advertiser),
		Destination: in.Destination,
		Impressions: 0,
		AssetURL:    fmt.Sprintf("%s/slots/%s/ads/%d/asset", in.BaseURL, in.Slot, id),
		CounterURL:  fmt.Sprintf("%s/slots/%s/ads/%d/count", in.BaseURL, in.Slot, id),
		RedirectURL: fmt.Sprintf("%s/slots/%s/ads/%d/redirect", in.BaseURL, in.Slot, id),
	}

	if err := s.Repo.SaveAd(ctx, ad); err != nil {
		return domain.Ad{}, fmt.Errorf("save ad %s: %w", ad.Key(), err)
	}
	if err := s.Assets.Save(ctx, ad.Key(), in.Asset); err != nil {
		return domain.Ad{}, fmt.Errorf("save asset %s: %w", ad.Key(), err)
	}
	if err := s.Repo.PushRotation(ctx, in.Slot, id); err != nil {
		return domain.Ad{}, fmt.Errorf("register rotation %s: %w", ad.Key(), err)
	}
	if err := s.Repo.AddToAdvertiserIndex(ctx, in.Advertiser, ad.Key()); err != nil {
		return domain.Ad{}, fmt.Errorf("register advertiser index %s: %w", ad.Key(), err)
	}

	// Read back through the store so the caller sees the normalized record.
	return s.Repo.GetAd(ctx, in.Slot, id)
}

func (s *DefaultAdService) Get(ctx context.Context, slot string, id int64) (domain.Ad, error) {
	return s.Repo.GetAd(ctx, slot, id)
}

// NextAd rotates the slot's list and resolves the returned id. Ids without a
// backing record are evicted from the list and the rotation retried; each
// stale iteration strictly shrinks the list, so the loop terminates when a
// live record is found or the list runs empty.
func (s *DefaultAdService) NextAd(ctx context.Context, slot string) (domain.Ad, error) {
	for {
		id, err := s.Repo.RotateSlot(ctx, slot)
		if err != nil {
			return domain.Ad{}, err
		}

		ad, err := s.Repo.GetAd(ctx, slot, id)
		if err == nil {
			return ad, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return domain.Ad{}, err
		}

		if err := s.Repo.RemoveFromRotation(ctx, slot, id); err != nil {
			return domain.Ad{}, fmt.Errorf("evict stale ad %d from slot %s: %w", id, slot, err)
		}
		s.Logger.Warn("evicted stale rotation entry", "slot", slot, "ad_id", id)
	}
}

func (s *DefaultAdService) CountImpression(ctx context.Context, slot string, id int64) error {
	return s.Repo.IncrementImpressions(ctx, slot, id)
}

// RecordClick appends one row to the click log, partitioned by the trailing
// segment of the ad's advertiser identifier, and returns the destination URL.
func (s *DefaultAdService) RecordClick(ctx context.Context, slot string, id int64, userKey, userAgent string) (string, error) {
	ad, err := s.Repo.GetAd(ctx, slot, id)
	if err != nil {
		return "", err
	}

	partition := domain.AdvertiserID(ad.Advertiser).Partition()
	if err := s.Clicks.Insert(ctx, partition, ad.ID, userKey, userAgent); err != nil {
		return "", fmt.Errorf("append click log: %w", err)
	}

	return ad.Destination, nil
}

// Initialize wipes all three stores. The click log reset recreates the table,
// so a partial failure here is surfaced rather than masked.
func (s *DefaultAdService) Initialize(ctx context.Context) error {
	if err := s.Repo.WipeAll(ctx); err != nil {
		return fmt.Errorf("wipe ad store: %w", err)
	}
	if err := s.Clicks.Reset(ctx); err != nil {
		return fmt.Errorf("reset click log: %w", err)
	}
	if err := s.Assets.Reset(ctx); err != nil {
		return fmt.Errorf("reset asset store: %w", err)
	}
	s.Logger.Info("stores initialized")
	return nil
}
