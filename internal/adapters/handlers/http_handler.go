package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/esdrassantos06/go-adserver/internal/adapters/middleware"
	"github.com/esdrassantos06/go-adserver/internal/core/domain"
	"github.com/esdrassantos06/go-adserver/internal/core/ports"
)

type HTTPHandler struct {
	Ads     ports.AdService
	Reports ports.ReportService
	Assets  ports.AssetService
}

func NewHTTPHandler(ads ports.AdService, reports ports.ReportService, assets ports.AssetService) *HTTPHandler {
	return &HTTPHandler{
		Ads:     ads,
		Reports: reports,
		Assets:  assets,
	}
}

type ErrorResponse struct {
	Error string `json:"error" example:"not_found"`
}

func notFound(c fiber.Ctx) error {
	return c.Status(404).JSON(ErrorResponse{Error: "not_found"})
}

func adID(c fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func advertiserFromLocals(c fiber.Ctx) (domain.AdvertiserID, bool) {
	advertiser, ok := c.Locals(middleware.LocalsKey).(domain.AdvertiserID)
	return advertiser, ok
}

// UploadAd godoc
// @Summary      Upload an ad into a slot
// @Description  Creates an ad record from a multipart form (title, type, destination, asset file), registers it in the slot's rotation and the advertiser's index, and returns the created record.
// @Tags         ads
// @Accept       multipart/form-data
// @Produce      json
// @Param        slot         path      string  true   "Slot name"
// @Param        X-Advertiser-Id  header  string  true  "Advertiser identifier"
// @Param        title        formData  string  true   "Ad title"
// @Param        type         formData  string  false  "Mime type override"
// @Param        destination  formData  string  true   "Redirect destination URL"
// @Param        asset        formData  file    true   "Ad asset payload"
// @Success      200  {object}  domain.Ad
// @Failure      400  {object}  ErrorResponse  "Missing advertiser id or asset"
// @Failure      500  {object}  ErrorResponse
// @Router       /slots/{slot}/ads [post]
func (h *HTTPHandler) UploadAd(c fiber.Ctx) error {
	advertiser, ok := advertiserFromLocals(c)
	if !ok {
		return c.Status(400).JSON(ErrorResponse{Error: "advertiser id required"})
	}

	fileHeader, err := c.FormFile("asset")
	if err != nil {
		return c.Status(400).JSON(ErrorResponse{Error: "asset file required"})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(400).JSON(ErrorResponse{Error: "asset file unreadable"})
	}
	defer file.Close()
	asset, err := io.ReadAll(file)
	if err != nil {
		return c.Status(400).JSON(ErrorResponse{Error: "asset file unreadable"})
	}

	ad, err := h.Ads.Upload(c.Context(), ports.UploadInput{
		Slot:          c.Params("slot"),
		Advertiser:    advertiser,
		Title:         c.FormValue("title"),
		MimeType:      c.FormValue("type"),
		AssetMimeType: fileHeader.Header.Get("Content-Type"),
		Destination:   c.FormValue("destination"),
		Asset:         asset,
		BaseURL:       c.BaseURL(),
	})
	if err != nil {
		return c.Status(500).JSON(ErrorResponse{Error: "An error occurred while uploading the ad"})
	}

	return c.JSON(ad)
}

// NextAd godoc
// @Summary      Pick the slot's next ad
// @Description  Rotates the slot and redirects to the chosen ad record. Stale rotation entries are evicted transparently.
// @Tags         ads
// @Produce      json
// @Param        slot  path  string  true  "Slot name"
// @Success      302  {string}  string  "Redirect to the chosen ad"
// @Failure      404  {object}  ErrorResponse  "Slot has no ads"
// @Router       /slots/{slot}/ad [get]
func (h *HTTPHandler) NextAd(c fiber.Ctx) error {
	slot := c.Params("slot")

	ad, err := h.Ads.NextAd(c.Context(), slot)
	if err != nil {
		if errors.Is(err, domain.ErrSlotEmpty) {
			return notFound(c)
		}
		return c.Status(500).JSON(ErrorResponse{Error: "An error occurred while picking an ad"})
	}

	return c.Redirect().Status(fiber.StatusFound).To(fmt.Sprintf("/slots/%s/ads/%d", slot, ad.ID))
}

// GetAd godoc
// @Summary      Fetch an ad record
// @Tags         ads
// @Produce      json
// @Param        slot  path  string  true  "Slot name"
// @Param        id    path  int     true  "Ad id"
// @Success      200  {object}  domain.Ad
// @Failure      404  {object}  ErrorResponse
// @Router       /slots/{slot}/ads/{id} [get]
func (h *HTTPHandler) GetAd(c fiber.Ctx) error {
	id, ok := adID(c)
	if !ok {
		return notFound(c)
	}

	ad, err := h.Ads.Get(c.Context(), c.Params("slot"), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return notFound(c)
		}
		return c.Status(500).JSON(ErrorResponse{Error: "An error occurred while fetching the ad"})
	}

	return c.JSON(ad)
}

// ServeAsset godoc
// @Summary      Serve an ad's asset payload
// @Description  Returns the full payload, or a partial slice for a well-formed single byte range. Multiple ranges and non-byte units are not satisfiable.
// @Tags         ads
// @Produce      octet-stream
// @Param        slot   path    string  true   "Slot name"
// @Param        id     path    int     true   "Ad id"
// @Param        Range  header  string  false  "Single byte range, e.g. bytes=0-4"
// @Success      200  {string}  binary
// @Success      206  {string}  binary
// @Failure      404  {object}  ErrorResponse
// @Failure      416  {string}  string
// @Router       /slots/{slot}/ads/{id}/asset [get]
func (h *HTTPHandler) ServeAsset(c fiber.Ctx) error {
	id, ok := adID(c)
	if !ok {
		return notFound(c)
	}

	content, err := h.Assets.Serve(c.Context(), c.Params("slot"), id, c.Get("Range"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return notFound(c)
		case errors.Is(err, domain.ErrRangeNotSatisfiable):
			return c.SendStatus(fiber.StatusRequestedRangeNotSatisfiable)
		default:
			return c.Status(500).JSON(ErrorResponse{Error: "An error occurred while loading the asset"})
		}
	}

	c.Set(fiber.HeaderContentType, content.ContentType)
	if content.Partial {
		c.Set(fiber.HeaderContentRange, content.ContentRange)
		return c.Status(fiber.StatusPartialContent).Send(content.Data)
	}
	return c.Send(content.Data)
}

// CountImpression godoc
// @Summary      Count one impression
// @Tags         ads
// @Produce      json
// @Param        slot  path  string  true  "Slot name"
// @Param        id    path  int     true  "Ad id"
// @Success      204  {string}  string  "Counted"
// @Failure      404  {object}  ErrorResponse
// @Router       /slots/{slot}/ads/{id}/count [post]
func (h *HTTPHandler) CountImpression(c fiber.Ctx) error {
	id, ok := adID(c)
	if !ok {
		return notFound(c)
	}

	if err := h.Ads.CountImpression(c.Context(), c.Params("slot"), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return notFound(c)
		}
		return c.Status(500).JSON(ErrorResponse{Error: "An error occurred while counting the impression"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// RedirectClick godoc
// @Summary      Log a click-through and redirect to the destination
// @Tags         ads
// @Produce      json
// @Param        slot  path  string  true  "Slot name"
// @Param        id    path  int     true  "Ad id"
// @Success      302  {string}  string  "Redirect to the ad destination"
// @Failure      404  {object}  ErrorResponse
// @Router       /slots/{slot}/ads/{id}/redirect [get]
func (h *HTTPHandler) RedirectClick(c fiber.Ctx) error {
	id, ok := adID(c)
	if !ok {
		return notFound(c)
	}

	destination, err := h.Ads.RecordClick(c.Context(), c.Params("slot"), id, c.Cookies("isuad"), c.Get("User-Agent"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return notFound(c)
		}
		return c.Status(500).JSON(ErrorResponse{Error: "An error occurred while logging the click"})
	}

	return c.Redirect().Status(fiber.StatusFound).To(destination)
}

// Report godoc
// @Summary      Advertiser summary report
// @Description  Per-ad impressions and click counts for the calling advertiser.
// @Tags         reports
// @Produce      json
// @Param        X-Advertiser-Id  header  string  true  "Advertiser identifier"
// @Success      200  {object}  domain.Report
// @Failure      401  {object}  ErrorResponse
// @Router       /me/report [get]
func (h *HTTPHandler) Report(c fiber.Ctx) error {
	return h.report(c, h.Reports.Summary)
}

// FinalReport godoc
// @Summary      Advertiser final report
// @Description  Summary report plus per-ad gender, user-agent and generation breakdowns.
// @Tags         reports
// @Produce      json
// @Param        X-Advertiser-Id  header  string  true  "Advertiser identifier"
// @Success      200  {object}  domain.Report
// @Failure      401  {object}  ErrorResponse
// @Router       /me/final_report [get]
func (h *HTTPHandler) FinalReport(c fiber.Ctx) error {
	return h.report(c, h.Reports.Final)
}

func (h *HTTPHandler) report(c fiber.Ctx, build func(ctx context.Context, advertiser domain.AdvertiserID) (domain.Report, error)) error {
	advertiser, ok := advertiserFromLocals(c)
	if !ok {
		return c.Status(401).JSON(ErrorResponse{Error: "Unauthorized: advertiser id required"})
	}

	report, err := build(c.Context(), advertiser)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return c.Status(401).JSON(ErrorResponse{Error: "Unauthorized: advertiser id required"})
		}
		return c.Status(500).JSON(ErrorResponse{Error: "An error occurred while building the report"})
	}

	return c.JSON(report)
}

// Initialize godoc
// @Summary      Reset all stores
// @Description  Wipes the key-value namespace, recreates the click log table and empties the asset directory.
// @Tags         admin
// @Produce      plain
// @Success      200  {string}  string  "OK"
// @Failure      500  {object}  ErrorResponse
// @Router       /initialize [post]
func (h *HTTPHandler) Initialize(c fiber.Ctx) error {
	if err := h.Ads.Initialize(c.Context()); err != nil {
		return c.Status(500).JSON(ErrorResponse{Error: "An error occurred while initializing"})
	}
	return c.SendString("OK")
}
