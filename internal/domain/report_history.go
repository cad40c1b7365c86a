package domain

import "time"

// ReportChangeType captures what changed in a history entry.
type ReportChangeType string

const (
	ChangeTypeCreated  ReportChangeType = "CREATED"
	ChangeTypeStatus   ReportChangeType = "STATUS_CHANGE"
	ChangeTypeAssignee ReportChangeType = "ASSIGNEE_CHANGE"
	ChangeTypeNotes    ReportChangeType = "NOTES_CHANGE"
)

// ReportHistory is an immutable audit trail entry.
type ReportHistory struct {
	ID          int64
	ReportID    int64
	ChangedByID *string
	ChangeType  ReportChangeType
	OldValue    map[string]any
	NewValue    map[string]any
	CreatedAt   time.Time
}
