package handler

import (
	"go-retail-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

const defaultReportDays = 7

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// GetSummary handles GET /api/v1/reports/summary
func (h *ReportHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.service.GetSummary(c.UserContext())
	if err != nil {
		return fail(c, 500, "Failed to fetch summary")
	}
	return respond(c, 200, summary)
}

// GetDailySales handles GET /api/v1/reports/daily-sales?days=7
func (h *ReportHandler) GetDailySales(c *fiber.Ctx) error {
	days := c.QueryInt("days", defaultReportDays)
	if days <= 0 {
		days = defaultReportDays
	}

	series, err := h.service.GetDailySales(c.UserContext(), days)
	if err != nil {
		return fail(c, 500, "Failed to fetch daily sales")
	}
	return respond(c, 200, series)
}
