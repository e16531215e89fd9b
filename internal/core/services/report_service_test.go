package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esdrassantos06/go-adserver/internal/core/domain"
	"github.com/esdrassantos06/go-adserver/internal/core/ports"
	"github.com/esdrassantos06/go-adserver/internal/core/services"
	"github.com/esdrassantos06/go-adserver/internal/testutils"
)

const advertiser = domain.AdvertiserID("companies/acme")

// seedReportData registers two ads for the advertiser and three clicks
// against the first one.
func seedReportData(t *testing.T, repo *testutils.MemAdRepo, clicks *testutils.MemClickLog) {
	t.Helper()
	ctx := context.Background()

	ads := []domain.Ad{
		{Slot: "sidebar", ID: 1, Title: "Spring Sale", Advertiser: string(advertiser), Impressions: 10},
		{Slot: "banner", ID: 2, Title: "Summer Sale", Advertiser: string(advertiser), Impressions: 5},
	}
	for _, ad := range ads {
		require.NoError(t, repo.SaveAd(ctx, ad))
		require.NoError(t, repo.AddToAdvertiserIndex(ctx, advertiser, ad.Key()))
	}

	rows := []domain.ClickRow{
		{AdID: 1, UserKey: "0/25", UserAgent: "Mozilla/5.0"},
		{AdID: 1, UserKey: "1/34", UserAgent: ""},
		{AdID: 1, UserKey: "", UserAgent: "Safari/604.1"},
	}
	for _, row := range rows {
		require.NoError(t, clicks.Insert(ctx, advertiser.Partition(), row.AdID, row.UserKey, row.UserAgent))
	}
}

func newReportService() (ports.ReportService, *testutils.MemAdRepo, *testutils.MemClickLog) {
	repo := testutils.NewMemAdRepo()
	clicks := testutils.NewMemClickLog()
	return services.NewReportService(repo, clicks, discardLogger()), repo, clicks
}

func TestSummaryOverlaysClicks(t *testing.T) {
	svc, repo, clicks := newReportService()
	seedReportData(t, repo, clicks)

	report, err := svc.Summary(context.Background(), advertiser)
	require.NoError(t, err)
	require.Len(t, report, 2)

	assert.Equal(t, 3, report["1"].Clicks)
	assert.Equal(t, int64(10), report["1"].Impressions)
	assert.Equal(t, "Spring Sale", report["1"].Ad.Title)
	assert.Nil(t, report["1"].Breakdown)

	assert.Equal(t, 0, report["2"].Clicks)
	assert.Equal(t, int64(5), report["2"].Impressions)
}

func TestSummaryRequiresAdvertiser(t *testing.T) {
	svc, _, _ := newReportService()

	_, err := svc.Summary(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.Summary(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestSummaryUnknownAdvertiserIsEmpty(t *testing.T) {
	svc, _, _ := newReportService()

	report, err := svc.Summary(context.Background(), "companies/nobody")
	require.NoError(t, err)
	assert.Empty(t, report)
}

func TestSummarySkipsDanglingIndexEntries(t *testing.T) {
	svc, repo, clicks := newReportService()
	seedReportData(t, repo, clicks)

	// Index entry whose record was lost; the index is never pruned.
	require.NoError(t, repo.AddToAdvertiserIndex(context.Background(), advertiser, domain.AdKey{Slot: "sidebar", ID: 99}))

	report, err := svc.Summary(context.Background(), advertiser)
	require.NoError(t, err)
	assert.Len(t, report, 2)
	assert.NotContains(t, report, "99")
}

func TestSummaryIgnoresUnindexedLogRows(t *testing.T) {
	svc, repo, clicks := newReportService()
	seedReportData(t, repo, clicks)

	require.NoError(t, clicks.Insert(context.Background(), advertiser.Partition(), 42, "0/25", "Mozilla/5.0"))

	report, err := svc.Summary(context.Background(), advertiser)
	require.NoError(t, err)
	assert.Len(t, report, 2)
	assert.NotContains(t, report, "42")
}

func TestFinalBreakdowns(t *testing.T) {
	svc, repo, clicks := newReportService()
	seedReportData(t, repo, clicks)

	report, err := svc.Final(context.Background(), advertiser)
	require.NoError(t, err)
	require.Len(t, report, 2)

	first := report["1"]
	assert.Equal(t, 3, first.Clicks)
	require.NotNil(t, first.Breakdown)
	assert.Equal(t, map[string]int{"female": 1, "male": 1, "unknown": 1}, first.Breakdown.Gender)
	assert.Equal(t, map[string]int{"Mozilla/5.0": 1, "unknown": 1, "Safari/604.1": 1}, first.Breakdown.Agents)
	assert.Equal(t, map[string]int{"2": 1, "3": 1, "unknown": 1}, first.Breakdown.Generations)

	// An ad without clicks still carries empty histograms, not nil.
	second := report["2"]
	assert.Equal(t, 0, second.Clicks)
	require.NotNil(t, second.Breakdown)
	assert.Empty(t, second.Breakdown.Gender)
	assert.Empty(t, second.Breakdown.Agents)
	assert.Empty(t, second.Breakdown.Generations)
}

func TestFinalHistogramsSumToClickCount(t *testing.T) {
	svc, repo, clicks := newReportService()
	seedReportData(t, repo, clicks)

	report, err := svc.Final(context.Background(), advertiser)
	require.NoError(t, err)

	for id, entry := range report {
		for name, histogram := range map[string]map[string]int{
			"gender":      entry.Breakdown.Gender,
			"agents":      entry.Breakdown.Agents,
			"generations": entry.Breakdown.Generations,
		} {
			total := 0
			for _, count := range histogram {
				total += count
			}
			assert.Equalf(t, entry.Clicks, total, "ad %s histogram %s", id, name)
		}
	}
}

func TestFinalRequiresAdvertiser(t *testing.T) {
	svc, _, _ := newReportService()

	_, err := svc.Final(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
