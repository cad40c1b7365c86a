package service

import (
	"context"
	"unicode/utf8"

	"github.com/spec-kit/interference-service/internal/domain"
	"github.com/spec-kit/interference-service/internal/events"
	"github.com/spec-kit/interference-service/internal/store"
	apperrors "github.com/spec-kit/interference-service/pkg/util/errorutil"
)

const (
	maxNotesLength     = 5000
	notesPreviewLength = 80
)

// AssignmentService links technicians to reports. Technician availability
// follows from the assignment and is recomputed by the store in the same commit.
type AssignmentService struct {
	base
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps Dependencies) *AssignmentService {
	return &AssignmentService{base: newBase(deps)}
}

// Assign gives the report to technicianID, superseding any previous assignee.
// Resolved reports are frozen.
func (s *AssignmentService) Assign(ctx context.Context, reportID, technicianID int64, opts MutationOptions) (domain.Report, error) {
	var previous *int64
	report, err := s.mutate(ctx, "assign", reportID, opts, func(tx *store.Tx) error {
		if _, err := tx.Technician(technicianID); err != nil {
			return err
		}
		if tx.Report.IsResolved() {
			return apperrors.NewInvalidOperation("resolved reports cannot be assigned", map[string]any{
				"report_id":     reportID,
				"technician_id": technicianID,
			})
		}

		var oldValue any
		previous = nil
		if current := tx.Report.AssignedTechnicianID; current != nil {
			oldValue = *current
			if *current != technicianID {
				prior := *current
				previous = &prior
			}
		}
		assignedAt := tx.Now
		assignee := technicianID
		tx.Report.AssignedTechnicianID = &assignee
		tx.Report.AssignedAt = &assignedAt

		tx.Record(domain.ChangeTypeAssignee,
			map[string]any{"technician_id": oldValue},
			map[string]any{"technician_id": technicianID})
		return nil
	})
	if err != nil {
		return domain.Report{}, err
	}

	s.publish(ctx, events.EventReportAssigned, report.ID, opts.ActorID, events.ReportAssignedPayload{
		TechnicianID:         technicianID,
		PreviousTechnicianID: previous,
	})
	return report, nil
}

// Unassign clears the assignment and keeps the notes. On an unassigned
// report it returns the report unchanged.
func (s *AssignmentService) Unassign(ctx context.Context, reportID int64, opts MutationOptions) (domain.Report, error) {
	var freed *int64
	report, err := s.mutate(ctx, "unassign", reportID, opts, func(tx *store.Tx) error {
		if !tx.Report.IsAssigned() {
			tx.Skip()
			return nil
		}
		id := *tx.Report.AssignedTechnicianID
		freed = &id
		tx.Report.AssignedTechnicianID = nil
		tx.Report.AssignedAt = nil
		tx.Record(domain.ChangeTypeAssignee,
			map[string]any{"technician_id": id},
			map[string]any{"technician_id": nil})
		return nil
	})
	if err != nil {
		return domain.Report{}, err
	}

	if freed != nil {
		s.publish(ctx, events.EventReportUnassigned, report.ID, opts.ActorID, events.ReportUnassignedPayload{
			TechnicianID: *freed,
		})
	}
	return report, nil
}

// UpdateNotes replaces the technician notes of an assigned, unresolved report.
func (s *AssignmentService) UpdateNotes(ctx context.Context, reportID int64, notes string, opts MutationOptions) (domain.Report, error) {
	if utf8.RuneCountInString(notes) > maxNotesLength {
		return domain.Report{}, apperrors.NewValidationError("validation failed", map[string]any{
			"report_id": reportID,
			"fields":    map[string]string{"notes": "must be at most 5000 characters"},
		})
	}

	var technicianID int64
	report, err := s.mutate(ctx, "update_notes", reportID, opts, func(tx *store.Tx) error {
		if !tx.Report.IsAssigned() {
			return apperrors.NewInvalidOperation("notes require an assigned technician", map[string]any{"report_id": reportID})
		}
		if tx.Report.IsResolved() {
			return apperrors.NewInvalidOperation("notes are frozen on resolved reports", map[string]any{"report_id": reportID})
		}
		technicianID = *tx.Report.AssignedTechnicianID

		var oldValue any
		if tx.Report.TechnicianNotes != nil {
			oldValue = *tx.Report.TechnicianNotes
		}
		text := notes
		tx.Report.TechnicianNotes = &text
		tx.Record(domain.ChangeTypeNotes,
			map[string]any{"notes": oldValue},
			map[string]any{"notes": text})
		return nil
	})
	if err != nil {
		return domain.Report{}, err
	}

	s.publish(ctx, events.EventReportNotesUpdated, report.ID, opts.ActorID, events.ReportNotesUpdatedPayload{
		TechnicianID: technicianID,
		NotesPreview: preview(notes, notesPreviewLength),
	})
	return report, nil
}

func preview(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}
