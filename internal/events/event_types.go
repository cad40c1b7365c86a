package events

import (
	"time"

	"github.com/spec-kit/interference-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventReportCreated       EventType = "report_created"
	EventReportStatusChanged EventType = "report_status_changed"
	EventReportAssigned      EventType = "report_assigned"
	EventReportUnassigned    EventType = "report_unassigned"
	EventReportNotesUpdated  EventType = "report_notes_updated"
	EventTechnicianCreated   EventType = "technician_created"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ReportID  int64       `json:"report_id,omitempty"`
	ActorID   string      `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ReportCreatedPayload payload.
type ReportCreatedPayload struct {
	ServiceType      domain.ServiceType      `json:"service_type"`
	InterferenceType domain.InterferenceType `json:"interference_type"`
	ReporterName     string                  `json:"reporter_name"`
}

// ReportStatusChangedPayload payload.
type ReportStatusChangedPayload struct {
	OldStatus domain.ReportStatus `json:"old_status"`
	NewStatus domain.ReportStatus `json:"new_status"`
}

// ReportAssignedPayload payload.
type ReportAssignedPayload struct {
	TechnicianID         int64  `json:"technician_id"`
	PreviousTechnicianID *int64 `json:"previous_technician_id,omitempty"`
}

// ReportUnassignedPayload payload.
type ReportUnassignedPayload struct {
	TechnicianID int64 `json:"technician_id"`
}

// ReportNotesUpdatedPayload payload.
type ReportNotesUpdatedPayload struct {
	TechnicianID int64  `json:"technician_id"`
	NotesPreview string `json:"notes_preview"`
}

// TechnicianCreatedPayload payload.
type TechnicianCreatedPayload struct {
	TechnicianID   int64  `json:"technician_id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
}
