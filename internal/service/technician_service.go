package service

import (
	"context"
	"strings"

	"github.com/spec-kit/interference-service/internal/domain"
	"github.com/spec-kit/interference-service/internal/events"
)

// CreateTechnicianInput is the roster payload. Availability is derived and
// cannot be supplied.
type CreateTechnicianInput struct {
	Name           string `json:"name" validate:"required,max=200"`
	Specialization string `json:"specialization" validate:"required,max=100"`
	ContactNumber  string `json:"contact_number" validate:"required,phone,max=40"`
	Email          string `json:"email" validate:"required,email"`
}

// TechnicianService manages the technician roster.
type TechnicianService struct {
	base
	validator *Validator
}

// NewTechnicianService creates the service.
func NewTechnicianService(deps Dependencies) *TechnicianService {
	v := deps.Validator
	if v == nil {
		v = NewValidator()
	}
	return &TechnicianService{base: newBase(deps), validator: v}
}

// CreateTechnician adds an available technician.
func (s *TechnicianService) CreateTechnician(ctx context.Context, actorID string, in CreateTechnicianInput) (domain.Technician, error) {
	if err := s.validator.Struct(in); err != nil {
		return domain.Technician{}, err
	}

	tech, err := s.store.InsertTechnician(ctx, domain.Technician{
		Name:           strings.TrimSpace(in.Name),
		Specialization: strings.TrimSpace(in.Specialization),
		ContactNumber:  strings.TrimSpace(in.ContactNumber),
		Email:          strings.TrimSpace(in.Email),
	})
	if err != nil {
		return domain.Technician{}, err
	}

	s.publish(ctx, events.EventTechnicianCreated, 0, actorID, events.TechnicianCreatedPayload{
		TechnicianID:   tech.ID,
		Name:           tech.Name,
		Specialization: tech.Specialization,
	})
	return tech, nil
}

// ListTechnicians returns the roster ordered by id.
func (s *TechnicianService) ListTechnicians(_ context.Context) []domain.Technician {
	return s.store.Technicians()
}

// ListAvailableTechnicians returns technicians with no unresolved assignment.
func (s *TechnicianService) ListAvailableTechnicians(_ context.Context) []domain.Technician {
	all := s.store.Technicians()
	out := make([]domain.Technician, 0, len(all))
	for _, t := range all {
		if t.IsAvailable {
			out = append(out, t)
		}
	}
	return out
}

// GetTechnician returns one technician.
func (s *TechnicianService) GetTechnician(_ context.Context, id int64) (domain.Technician, error) {
	return s.store.Technician(id)
}
