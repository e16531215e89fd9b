package middleware

import (
	"github.com/gofiber/fiber/v3"

	"github.com/esdrassantos06/go-adserver/internal/core/auth"
)

// LocalsKey is where the parsed advertiser identifier is stashed for
// handlers downstream.
const LocalsKey = "advertiserID"

type AdvertiserMiddleware struct{}

func NewAdvertiserMiddleware() *AdvertiserMiddleware {
	return &AdvertiserMiddleware{}
}

// Extract parses the advertiser header when present and continues either
// way; handlers that need the identifier decide their own failure status.
func (am *AdvertiserMiddleware) Extract(c fiber.Ctx) error {
	if advertiser, err := auth.AdvertiserFromHeader(c.Get(auth.HeaderName)); err == nil {
		c.Locals(LocalsKey, advertiser)
	}
	return c.Next()
}

// RequireAdvertiser rejects requests without an advertiser identifier. The
// report endpoints treat a missing identifier as an authorization failure.
func (am *AdvertiserMiddleware) RequireAdvertiser(c fiber.Ctx) error {
	advertiser, err := auth.AdvertiserFromHeader(c.Get(auth.HeaderName))
	if err != nil {
		return c.Status(401).JSON(fiber.Map{
			"error": "Unauthorized: advertiser id required",
		})
	}

	c.Locals(LocalsKey, advertiser)

	return c.Next()
}
