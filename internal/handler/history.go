package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/mathieu-neron/tubestats/internal/service"
)

type HistoryHandler struct {
	svc *service.AnalysisService
}

func NewHistoryHandler(svc *service.AnalysisService) *HistoryHandler {
	return &HistoryHandler{svc: svc}
}

// List handles GET /api/history
func (h *HistoryHandler) List(c fiber.Ctx) error {
	entries := h.svc.History(c.Context())
	return c.JSON(fiber.Map{"entries": entries, "count": len(entries)})
}

// Clear handles DELETE /api/history
func (h *HistoryHandler) Clear(c fiber.Ctx) error {
	if err := h.svc.ClearHistory(c.Context()); err != nil {
		return c.JSON(fiber.Map{
			"cleared": false,
			"notice":  "History could not be cleared.",
		})
	}
	return c.JSON(fiber.Map{"cleared": true})
}
