package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/interference-service/internal/api/dto"
	"github.com/spec-kit/interference-service/internal/service"
)

// TechniciansHandler serves the technician roster.
type TechniciansHandler struct {
	technicians *service.TechnicianService
}

// NewTechniciansHandler constructs handler.
func NewTechniciansHandler(technicians *service.TechnicianService) *TechniciansHandler {
	return &TechniciansHandler{technicians: technicians}
}

// Create POST /api/technicians.
func (h *TechniciansHandler) Create(c *fiber.Ctx) error {
	var req service.CreateTechnicianInput
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	tech, err := h.technicians.CreateTechnician(c.UserContext(), actorID(c), req)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTechnicianResponse(tech)})
}

// List GET /api/technicians.
func (h *TechniciansHandler) List(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": dto.NewTechnicianResponses(h.technicians.ListTechnicians(c.UserContext()))})
}

// ListAvailable GET /api/technicians/available.
func (h *TechniciansHandler) ListAvailable(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": dto.NewTechnicianResponses(h.technicians.ListAvailableTechnicians(c.UserContext()))})
}

// Get GET /api/technicians/:id.
func (h *TechniciansHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	tech, err := h.technicians.GetTechnician(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTechnicianResponse(tech)})
}
