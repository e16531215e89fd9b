package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esdrassantos06/go-adserver/internal/core/domain"
)

func TestAdvertiserFromHeader(t *testing.T) {
	advertiser, err := AdvertiserFromHeader("companies/acme")
	require.NoError(t, err)
	assert.Equal(t, domain.AdvertiserID("companies/acme"), advertiser)

	advertiser, err = AdvertiserFromHeader("  acme  ")
	require.NoError(t, err)
	assert.Equal(t, domain.AdvertiserID("acme"), advertiser)
}

func TestAdvertiserFromHeaderRejectsBlank(t *testing.T) {
	for _, value := range []string{"", "   "} {
		_, err := AdvertiserFromHeader(value)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	}
}
