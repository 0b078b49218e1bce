package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/mathieu-neron/tubestats/internal/middleware"
	"github.com/mathieu-neron/tubestats/internal/service"
)

type AnalysisHandler struct {
	svc        *service.AnalysisService
	defaultMax int
}

func NewAnalysisHandler(svc *service.AnalysisService, defaultMax int) *AnalysisHandler {
	return &AnalysisHandler{svc: svc, defaultMax: defaultMax}
}

// KeywordAnalysis handles GET /api/keywords/analysis?q=&max=
func (h *AnalysisHandler) KeywordAnalysis(c fiber.Ctx) error {
	query, errMsg := middleware.ValidateQuery(c.Query("q"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	maxResults, errMsg := middleware.ValidateMaxResults(c.Query("max"), h.defaultMax)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	res, err := h.svc.AnalyzeKeyword(c.Context(), query, maxResults)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(res)
}

// SearchChannels handles GET /api/channels/search?q=&max=
func (h *AnalysisHandler) SearchChannels(c fiber.Ctx) error {
	query, errMsg := middleware.ValidateQuery(c.Query("q"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	maxResults, errMsg := middleware.ValidateMaxResults(c.Query("max"), 10)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	channels, err := h.svc.SearchChannels(c.Context(), query, maxResults)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(fiber.Map{"channels": channels, "count": len(channels)})
}

// ChannelAnalysis handles GET /api/channels/:channelId/analysis?max=
func (h *AnalysisHandler) ChannelAnalysis(c fiber.Ctx) error {
	channelID, errMsg := middleware.ValidateChannelID(c.Params("channelId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	maxResults, errMsg := middleware.ValidateMaxResults(c.Query("max"), h.defaultMax)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	res, err := h.svc.AnalyzeChannel(c.Context(), channelID, maxResults)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(res)
}

// SaveChannel handles POST /api/channels/:channelId/history
// The channel is analyzed and its summary upserted. A failed save still
// returns the analysis, with saved=false and a notice.
func (h *AnalysisHandler) SaveChannel(c fiber.Ctx) error {
	channelID, errMsg := middleware.ValidateChannelID(c.Params("channelId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	maxResults, errMsg := middleware.ValidateMaxResults(c.Query("max"), h.defaultMax)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	res, err := h.svc.SaveChannel(c.Context(), channelID, maxResults)
	if err != nil {
		if errors.Is(err, service.ErrHistoryWrite) && res != nil {
			return c.JSON(fiber.Map{
				"saved":    false,
				"notice":   "Analysis complete, but it could not be saved to history.",
				"analysis": res,
			})
		}
		return writeServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"saved":    true,
		"entry":    res.Entry,
		"analysis": res,
	})
}

// Benchmark handles GET /api/benchmark?ids=a,b,c
func (h *AnalysisHandler) Benchmark(c fiber.Ctx) error {
	ids, errMsg := middleware.ValidateChannelIDs(c.Query("ids"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	res, err := h.svc.Benchmark(c.Context(), ids)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(res)
}
