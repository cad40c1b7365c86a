package dto

import (
	"time"

	"github.com/spec-kit/interference-service/internal/domain"
)

// TechnicianResponse is the wire form of a technician.
type TechnicianResponse struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Specialization string    `json:"specialization"`
	ContactNumber  string    `json:"contact_number"`
	Email          string    `json:"email"`
	IsAvailable    bool      `json:"is_available"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewTechnicianResponse maps a technician.
func NewTechnicianResponse(t domain.Technician) TechnicianResponse {
	return TechnicianResponse{
		ID:             t.ID,
		Name:           t.Name,
		Specialization: t.Specialization,
		ContactNumber:  t.ContactNumber,
		Email:          t.Email,
		IsAvailable:    t.IsAvailable,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

// NewTechnicianResponses maps a roster.
func NewTechnicianResponses(techs []domain.Technician) []TechnicianResponse {
	out := make([]TechnicianResponse, 0, len(techs))
	for _, t := range techs {
		out = append(out, NewTechnicianResponse(t))
	}
	return out
}
