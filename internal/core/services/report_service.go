package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/esdrassantos06/go-adserver/internal/core/domain"
	"github.com/esdrassantos06/go-adserver/internal/core/ports"
)

type DefaultReportService struct {
	Repo   ports.AdRepository
	Clicks ports.ClickLogRepository
	Logger *slog.Logger
}

func NewReportService(repo ports.AdRepository, clicks ports.ClickLogRepository, logger *slog.Logger) ports.ReportService {
	return &DefaultReportService{Repo: repo, Clicks: clicks, Logger: logger}
}

// Summary builds the per-ad report for an advertiser: live record and
// impressions from the key-value store, click counts overlaid from the
// relational log. Ads with no log rows keep zero clicks.
func (s *DefaultReportService) Summary(ctx context.Context, advertiser domain.AdvertiserID) (domain.Report, error) {
	if advertiser.IsZero() {
		return nil, domain.ErrUnauthorized
	}

	report, err := s.baseReport(ctx, advertiser)
	if err != nil {
		return nil, err
	}

	clicks, err := s.readLog(ctx, advertiser)
	if err != nil {
		return nil, err
	}
	for adID, events := range clicks {
		key := strconv.FormatInt(adID, 10)
		entry, ok := report[key]
		if !ok {
			// Log rows for an ad missing from the advertiser index have no
			// report row to update.
			continue
		}
		entry.Clicks = len(events)
		report[key] = entry
	}

	return report, nil
}

// Final is Summary plus per-ad demographic breakdowns grouped by gender,
// user-agent and decade-bucketed age.
func (s *DefaultReportService) Final(ctx context.Context, advertiser domain.AdvertiserID) (domain.Report, error) {
	if advertiser.IsZero() {
		return nil, domain.ErrUnauthorized
	}

	report, err := s.baseReport(ctx, advertiser)
	if err != nil {
		return nil, err
	}

	clicks, err := s.readLog(ctx, advertiser)
	if err != nil {
		return nil, err
	}
	for key, entry := range report {
		adID, _ := strconv.ParseInt(key, 10, 64)
		events := clicks[adID]
		entry.Clicks = len(events)
		entry.Breakdown = domain.NewBreakdown(events)
		report[key] = entry
	}

	return report, nil
}

// baseReport seeds one entry per advertiser index key. Index entries whose
// record no longer resolves are skipped silently; the index is never pruned.
func (s *DefaultReportService) baseReport(ctx context.Context, advertiser domain.AdvertiserID) (domain.Report, error) {
	keys, err := s.Repo.ListAdvertiserAdKeys(ctx, advertiser)
	if err != nil {
		return nil, fmt.Errorf("list advertiser ads: %w", err)
	}

	report := make(domain.Report, len(keys))
	for _, key := range keys {
		ad, err := s.Repo.GetAd(ctx, key.Slot, key.ID)
		if errors.Is(err, domain.ErrNotFound) {
			s.Logger.Debug("skipping dangling index entry", "advertiser", advertiser, "key", key.String())
			continue
		}
		if err != nil {
			return nil, err
		}
		report[strconv.FormatInt(ad.ID, 10)] = domain.ReportEntry{
			Ad:          ad,
			Impressions: ad.Impressions,
			Clicks:      0,
		}
	}
	return report, nil
}

// readLog fetches the advertiser's redirect rows in one query and groups the
// decoded events by ad id.
func (s *DefaultReportService) readLog(ctx context.Context, advertiser domain.AdvertiserID) (map[int64][]domain.ClickEvent, error) {
	rows, err := s.Clicks.ListByAdvertiser(ctx, advertiser.Partition())
	if err != nil {
		return nil, fmt.Errorf("read click log: %w", err)
	}

	grouped := make(map[int64][]domain.ClickEvent, len(rows))
	for _, row := range rows {
		event := domain.NewClickEvent(row)
		grouped[event.AdID] = append(grouped[event.AdID], event)
	}
	return grouped, nil
}
