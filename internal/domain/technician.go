package domain

import "time"

// Technician models a field worker who can be assigned to reports.
// IsAvailable is derived from assignments and is maintained by the store.
type Technician struct {
	ID             int64
	Name           string
	Specialization string
	ContactNumber  string
	Email          string
	IsAvailable    bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
