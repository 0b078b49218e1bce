package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/mathieu-neron/tubestats/internal/middleware"
	"github.com/mathieu-neron/tubestats/internal/service"
	"github.com/mathieu-neron/tubestats/internal/youtube"
)

// writeServiceError maps analysis failures onto the API error envelope.
// "Nothing to show" is not a failure: it answers 200 with an info message.
func writeServiceError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInsufficientData):
		return c.JSON(fiber.Map{"info": err.Error()})
	case youtube.IsNotFound(err):
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Channel not found")
	}

	switch youtube.KindOf(err) {
	case youtube.KindQuota:
		return middleware.ErrorResponse(c, fiber.StatusTooManyRequests, "QUOTA_EXCEEDED",
			"YouTube API quota exhausted. Try again later.")
	case youtube.KindCredential:
		return middleware.ErrorResponse(c, fiber.StatusBadGateway, "INVALID_CREDENTIAL",
			"YouTube API key was rejected")
	case youtube.KindOther:
		return middleware.ErrorResponse(c, fiber.StatusBadGateway, "UPSTREAM_ERROR",
			"YouTube API request failed")
	}

	middleware.Logger.Error().Err(err).Str("path", c.Path()).Msg("unhandled analysis error")
	return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Analysis failed")
}
