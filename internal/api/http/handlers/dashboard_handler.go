package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/interference-service/internal/api/dto"
	"github.com/spec-kit/interference-service/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DashboardHandler serves the aggregation views.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Workload GET /api/dashboard/workload.
func (h *DashboardHandler) Workload(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": dto.NewWorkloadResponses(h.dashboard.TechnicianWorkload(c.UserContext()))})
}

// Activity GET /api/dashboard/activity?limit=N. A missing or non-positive
// limit uses the configured default.
func (h *DashboardHandler) Activity(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	return c.JSON(fiber.Map{"data": dto.NewReportResponses(h.dashboard.RecentActivity(c.UserContext(), limit))})
}

// Summary GET /api/dashboard/summary.
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": dto.NewSummaryResponse(h.dashboard.Summary(c.UserContext()))})
}

// Export GET /api/dashboard/workload.xlsx.
func (h *DashboardHandler) Export(c *fiber.Ctx) error {
	buffer, err := h.dashboard.ExportWorkbook(c.UserContext())
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="workload-%s.xlsx"`, time.Now().UTC().Format("20060102")))
	return c.Send(buffer.Bytes())
}
