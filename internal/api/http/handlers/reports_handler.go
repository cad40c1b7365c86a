package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/interference-service/internal/api/dto"
	"github.com/spec-kit/interference-service/internal/domain"
	"github.com/spec-kit/interference-service/internal/service"
)

// ReportsHandler serves report intake, lifecycle and assignment endpoints.
type ReportsHandler struct {
	reports     *service.ReportService
	lifecycle   *service.LifecycleService
	assignments *service.AssignmentService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reports *service.ReportService, lifecycle *service.LifecycleService, assignments *service.AssignmentService) *ReportsHandler {
	return &ReportsHandler{reports: reports, lifecycle: lifecycle, assignments: assignments}
}

// Create POST /api/reports.
func (h *ReportsHandler) Create(c *fiber.Ctx) error {
	var req service.CreateReportInput
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	report, err := h.reports.CreateReport(c.UserContext(), actorID(c), req)
	if err != nil {
		return err
	}
	setVersionTag(c, report.Version)
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewReportResponse(report)})
}

// List GET /api/reports?status=&technician_id=.
func (h *ReportsHandler) List(c *fiber.Ctx) error {
	var filter service.ReportFilter
	if raw := c.Query("status"); raw != "" {
		status := domain.ReportStatus(raw)
		switch status {
		case domain.ReportStatusPending, domain.ReportStatusInvestigating, domain.ReportStatusResolved:
		default:
			return invalidField("status", "must be one of: pending investigating resolved")
		}
		filter.Status = &status
	}
	if raw := c.Query("technician_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return invalidField("technician_id", "must be a positive integer")
		}
		filter.TechnicianID = &id
	}
	reports := h.reports.ListReports(c.UserContext(), filter)
	return c.JSON(fiber.Map{"data": dto.NewReportResponses(reports)})
}

// Get GET /api/reports/:id.
func (h *ReportsHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	report, err := h.reports.GetReport(c.UserContext(), id)
	if err != nil {
		return err
	}
	setVersionTag(c, report.Version)
	return c.JSON(fiber.Map{"data": dto.NewReportResponse(report)})
}

// History GET /api/reports/:id/history.
func (h *ReportsHandler) History(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	entries, err := h.reports.ListHistory(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewHistoryResponses(entries)})
}

// Advance POST /api/reports/:id/advance.
func (h *ReportsHandler) Advance(c *fiber.Ctx) error {
	id, opts, err := h.mutationTarget(c)
	if err != nil {
		return err
	}
	report, err := h.lifecycle.Advance(c.UserContext(), id, opts)
	return h.respond(c, report, err)
}

// Assign POST /api/reports/:id/assign/:technicianId.
func (h *ReportsHandler) Assign(c *fiber.Ctx) error {
	id, opts, err := h.mutationTarget(c)
	if err != nil {
		return err
	}
	technicianID, err := paramID(c, "technicianId")
	if err != nil {
		return err
	}
	report, err := h.assignments.Assign(c.UserContext(), id, technicianID, opts)
	return h.respond(c, report, err)
}

// Unassign POST /api/reports/:id/unassign.
func (h *ReportsHandler) Unassign(c *fiber.Ctx) error {
	id, opts, err := h.mutationTarget(c)
	if err != nil {
		return err
	}
	report, err := h.assignments.Unassign(c.UserContext(), id, opts)
	return h.respond(c, report, err)
}

// UpdateNotes PUT /api/reports/:id/notes.
func (h *ReportsHandler) UpdateNotes(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateNotesRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	version, err := expectedVersion(c, req.Version)
	if err != nil {
		return err
	}
	report, err := h.assignments.UpdateNotes(c.UserContext(), id, req.Notes, service.MutationOptions{
		ActorID:         actorID(c),
		ExpectedVersion: version,
	})
	return h.respond(c, report, err)
}

// mutationTarget reads the report id and the optional version pin of a
// bodiless mutation.
func (h *ReportsHandler) mutationTarget(c *fiber.Ctx) (int64, service.MutationOptions, error) {
	id, err := paramID(c, "id")
	if err != nil {
		return 0, service.MutationOptions{}, err
	}
	var req dto.VersionedRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return 0, service.MutationOptions{}, invalidPayload()
		}
	}
	version, err := expectedVersion(c, req.Version)
	if err != nil {
		return 0, service.MutationOptions{}, err
	}
	return id, service.MutationOptions{ActorID: actorID(c), ExpectedVersion: version}, nil
}

func (h *ReportsHandler) respond(c *fiber.Ctx, report domain.Report, err error) error {
	if err != nil {
		return err
	}
	setVersionTag(c, report.Version)
	return c.JSON(fiber.Map{"data": dto.NewReportResponse(report)})
}
