package services_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esdrassantos06/go-adserver/internal/core/domain"
	"github.com/esdrassantos06/go-adserver/internal/core/ports"
	"github.com/esdrassantos06/go-adserver/internal/core/services"
	"github.com/esdrassantos06/go-adserver/internal/testutils"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newAdService() (ports.AdService, *testutils.MemAdRepo, *testutils.MemClickLog, *testutils.MemAssetRepo) {
	repo := testutils.NewMemAdRepo()
	clicks := testutils.NewMemClickLog()
	assets := testutils.NewMemAssetRepo()
	return services.NewAdService(repo, clicks, assets, discardLogger()), repo, clicks, assets
}

func uploadInput(slot string) ports.UploadInput {
	return ports.UploadInput{
		Slot:        slot,
		Advertiser:  "companies/acme",
		Title:       "Spring Sale",
		Destination: "https://example.com/landing",
		Asset:       []byte("0123456789"),
		BaseURL:     "http://ads.test",
	}
}

func TestUploadCreatesRecord(t *testing.T) {
	svc, repo, _, assets := newAdService()
	ctx := context.Background()

	ad, err := svc.Upload(ctx, uploadInput("sidebar"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), ad.ID)
	assert.Equal(t, "sidebar", ad.Slot)
	assert.Equal(t, "Spring Sale", ad.Title)
	assert.Equal(t, "companies/acme", ad.Advertiser)
	assert.Equal(t, "https://example.com/landing", ad.Destination)
	assert.Equal(t, int64(0), ad.Impressions)
	assert.Equal(t, "http://ads.test/slots/sidebar/ads/1/asset", ad.AssetURL)
	assert.Equal(t, "http://ads.test/slots/sidebar/ads/1/count", ad.CounterURL)
	assert.Equal(t, "http://ads.test/slots/sidebar/ads/1/redirect", ad.RedirectURL)

	assert.Equal(t, []int64{1}, repo.Rotations["sidebar"])
	assert.Equal(t, []domain.AdKey{{Slot: "sidebar", ID: 1}}, repo.Index["companies/acme"])
	assert.Equal(t, []byte("0123456789"), assets.Blobs[ad.Key()])
}

func TestUploadMimeTypeDefaulting(t *testing.T) {
	tests := []struct {
		name     string
		hint     string
		declared string
		want     string
	}{
		{name: "explicit hint wins", hint: "image/png", declared: "video/webm", want: "image/png"},
		{name: "declared type next", hint: "", declared: "video/webm", want: "video/webm"},
		{name: "fixed default last", hint: "", declared: "", want: domain.DefaultMimeType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _, _ := newAdService()
			in := uploadInput("sidebar")
			in.MimeType = tt.hint
			in.AssetMimeType = tt.declared

			ad, err := svc.Upload(context.Background(), in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ad.Type)
		})
	}
}

func TestUploadIDsAreGlobalAcrossSlots(t *testing.T) {
	svc, _, _, _ := newAdService()
	ctx := context.Background()

	first, err := svc.Upload(ctx, uploadInput("sidebar"))
	require.NoError(t, err)
	second, err := svc.Upload(ctx, uploadInput("banner"))
	require.NoError(t, err)
	third, err := svc.Upload(ctx, uploadInput("sidebar"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.Equal(t, int64(3), third.ID)
}

func TestNextAdCyclesThroughSlot(t *testing.T) {
	svc, _, _, _ := newAdService()
	ctx := context.Background()

	for range 3 {
		_, err := svc.Upload(ctx, uploadInput("sidebar"))
		require.NoError(t, err)
	}

	var scan []int64
	for range 3 {
		ad, err := svc.NextAd(ctx, "sidebar")
		require.NoError(t, err)
		scan = append(scan, ad.ID)
	}

	// One full scan serves each ad exactly once, newest first.
	assert.Equal(t, []int64{3, 2, 1}, scan)

	// The cycle closes: the next call returns the first ad again.
	ad, err := svc.NextAd(ctx, "sidebar")
	require.NoError(t, err)
	assert.Equal(t, int64(3), ad.ID)
}

func TestNextAdEvictsStaleEntries(t *testing.T) {
	svc, repo, _, _ := newAdService()
	ctx := context.Background()

	for _, id := range []int64{1, 2, 3} {
		require.NoError(t, repo.PushRotation(ctx, "sidebar", id))
	}
	for _, id := range []int64{1, 3} {
		require.NoError(t, repo.SaveAd(ctx, domain.Ad{Slot: "sidebar", ID: id}))
	}

	var served []int64
	for range 4 {
		ad, err := svc.NextAd(ctx, "sidebar")
		require.NoError(t, err)
		served = append(served, ad.ID)
	}

	// The stale id is skipped transparently and the survivors keep rotating
	// in their relative order.
	assert.Equal(t, []int64{3, 1, 3, 1}, served)
	assert.NotContains(t, repo.Rotations["sidebar"], int64(2))
}

func TestNextAdEmptySlot(t *testing.T) {
	svc, _, _, _ := newAdService()

	_, err := svc.NextAd(context.Background(), "sidebar")
	assert.ErrorIs(t, err, domain.ErrSlotEmpty)
}

func TestNextAdFullyStaleSlotTerminates(t *testing.T) {
	svc, repo, _, _ := newAdService()
	ctx := context.Background()

	for _, id := range []int64{5, 6, 7} {
		require.NoError(t, repo.PushRotation(ctx, "sidebar", id))
	}

	_, err := svc.NextAd(ctx, "sidebar")
	assert.ErrorIs(t, err, domain.ErrSlotEmpty)
	assert.Empty(t, repo.Rotations["sidebar"])
}

func TestCountImpression(t *testing.T) {
	svc, _, _, _ := newAdService()
	ctx := context.Background()

	ad, err := svc.Upload(ctx, uploadInput("sidebar"))
	require.NoError(t, err)

	for range 3 {
		require.NoError(t, svc.CountImpression(ctx, ad.Slot, ad.ID))
	}

	got, err := svc.Get(ctx, ad.Slot, ad.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Impressions)
}

func TestCountImpressionMissingAd(t *testing.T) {
	svc, _, _, _ := newAdService()

	err := svc.CountImpression(context.Background(), "sidebar", 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordClick(t *testing.T) {
	svc, _, clicks, _ := newAdService()
	ctx := context.Background()

	ad, err := svc.Upload(ctx, uploadInput("sidebar"))
	require.NoError(t, err)

	destination, err := svc.RecordClick(ctx, ad.Slot, ad.ID, "0/25", "Mozilla/5.0")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/landing", destination)

	// The log is partitioned by the advertiser identifier's trailing segment.
	require.Len(t, clicks.Rows["acme"], 1)
	assert.Equal(t, domain.ClickRow{AdID: ad.ID, UserKey: "0/25", UserAgent: "Mozilla/5.0"}, clicks.Rows["acme"][0])
}

func TestRecordClickMissingAd(t *testing.T) {
	svc, _, _, _ := newAdService()

	_, err := svc.RecordClick(context.Background(), "sidebar", 42, "", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInitializeWipesEverything(t *testing.T) {
	svc, repo, clicks, assets := newAdService()
	ctx := context.Background()

	ad, err := svc.Upload(ctx, uploadInput("sidebar"))
	require.NoError(t, err)
	_, err = svc.RecordClick(ctx, ad.Slot, ad.ID, "0/25", "Mozilla/5.0")
	require.NoError(t, err)

	require.NoError(t, svc.Initialize(ctx))

	assert.Empty(t, repo.Ads)
	assert.Empty(t, repo.Rotations["sidebar"])
	assert.Empty(t, repo.Index["companies/acme"])
	assert.Empty(t, clicks.Rows)
	assert.Empty(t, assets.Blobs)

	// The id sequence restarts with the store.
	fresh, err := svc.Upload(ctx, uploadInput("sidebar"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), fresh.ID)
}
