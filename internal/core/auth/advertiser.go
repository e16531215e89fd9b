package auth

import (
	"strings"

	"github.com/esdrassantos06/go-adserver/internal/core/domain"
)

// HeaderName carries the opaque advertiser identifier on every
// advertiser-facing request.
const HeaderName = "X-Advertiser-Id"

// AdvertiserFromHeader validates the raw header value and returns the typed
// identifier. Returns domain.ErrUnauthorized when the header is absent or
// blank.
func AdvertiserFromHeader(value string) (domain.AdvertiserID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", domain.ErrUnauthorized
	}
	return domain.AdvertiserID(value), nil
}
