package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/esdrassantos06/go-adserver/internal/core/domain"
	"github.com/esdrassantos06/go-adserver/internal/core/ports"
)

// Single byte-range only; multiple ranges and non-byte units are rejected.
var rangePattern = regexp.MustCompile(`^bytes=(\d+)?-(\d+)?$`)

type DefaultAssetService struct {
	Repo   ports.AdRepository
	Assets ports.AssetRepository
}

func NewAssetService(repo ports.AdRepository, assets ports.AssetRepository) ports.AssetService {
	return &DefaultAssetService{Repo: repo, Assets: assets}
}

// Serve resolves the record and its blob, then applies the byte-range
// contract: no header returns the full payload, a well-formed single range
// returns an inclusive partial slice, anything else is unsatisfiable.
func (s *DefaultAssetService) Serve(ctx context.Context, slot string, id int64, rangeHeader string) (domain.AssetContent, error) {
	ad, err := s.Repo.GetAd(ctx, slot, id)
	if err != nil {
		return domain.AssetContent{}, err
	}

	data, err := s.Assets.Load(ctx, ad.Key())
	if err != nil {
		// A record without its blob violates the store invariant; surface it
		// instead of mapping to a 404.
		if errors.Is(err, domain.ErrNotFound) {
			return domain.AssetContent{}, fmt.Errorf("asset blob missing for %s", ad.Key())
		}
		return domain.AssetContent{}, fmt.Errorf("load asset %s: %w", ad.Key(), err)
	}

	contentType := ad.Type
	if contentType == "" {
		contentType = domain.DefaultAssetMimeType
	}

	if rangeHeader == "" {
		return domain.AssetContent{Data: data, ContentType: contentType}, nil
	}

	match := rangePattern.FindStringSubmatch(rangeHeader)
	if match == nil {
		return domain.AssetContent{}, domain.ErrRangeNotSatisfiable
	}
	rawStart, rawEnd := match[1], match[2]
	if rawStart == "" && rawEnd == "" {
		return domain.AssetContent{}, domain.ErrRangeNotSatisfiable
	}

	size := int64(len(data))
	start, end := int64(0), size-1
	if rawStart != "" {
		start, err = strconv.ParseInt(rawStart, 10, 64)
		if err != nil {
			return domain.AssetContent{}, domain.ErrRangeNotSatisfiable
		}
	}
	if rawEnd != "" {
		end, err = strconv.ParseInt(rawEnd, 10, 64)
		if err != nil {
			return domain.AssetContent{}, domain.ErrRangeNotSatisfiable
		}
	}

	if start >= size || end >= size || start > end {
		return domain.AssetContent{}, domain.ErrRangeNotSatisfiable
	}

	return domain.AssetContent{
		Data:         data[start : end+1],
		ContentType:  contentType,
		Partial:      true,
		ContentRange: fmt.Sprintf("bytes %d-%d/%d", start, end, size),
	}, nil
}
