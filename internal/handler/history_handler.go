package handler

import (
	"strings"
	"time"

	"go-clinic-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type HistoryHandler struct {
	historyService service.HistoryService
}

func NewHistoryHandler(historyService service.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

// GetFeed returns the merged audit feed, newest first.
// Query params: types (comma-separated, e.g. "SALE,CASH_MOVEMENT")
// GET /api/v1/history
func (h *HistoryHandler) GetFeed(c *fiber.Ctx) error {
	var filter []service.HistoryEventType
	if raw := c.Query("types"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			filter = append(filter, service.HistoryEventType(strings.TrimSpace(t)))
		}
	}

	feed, err := h.historyService.Feed(filter)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to build history feed"})
	}
	return c.JSON(feed)
}

// GetDaySummary aggregates one day of register activity.
// Query params: day (YYYY-MM-DD, default today)
// GET /api/v1/history/summary
func (h *HistoryHandler) GetDaySummary(c *fiber.Ctx) error {
	day := time.Now()
	if raw := c.Query("day"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid day, expected YYYY-MM-DD"})
		}
		day = parsed
	}

	summary, err := h.historyService.DaySummary(day)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to build day summary"})
	}
	return c.JSON(summary)
}
