package store

import (
	"context"
	"errors"
	"time"

	"github.com/spec-kit/interference-service/internal/domain"
	apperrors "github.com/spec-kit/interference-service/pkg/util/errorutil"
)

// Mutation describes one change to a single report.
type Mutation struct {
	ReportID int64
	// ExpectedVersion must match the stored version; zero skips the check.
	ExpectedVersion int64
	ActorID         *string
	Apply           func(tx *Tx) error
}

// Tx exposes the staged report and read access to technicians while a
// mutation holds the write lock.
type Tx struct {
	Report  *domain.Report
	Now     time.Time
	store   *Store
	actorID *string
	history []domain.ReportHistory
	skipped bool
}

// Technician looks up a technician inside the mutation.
func (tx *Tx) Technician(id int64) (domain.Technician, error) {
	t, ok := tx.store.technicians[id]
	if !ok {
		return domain.Technician{}, technicianNotFound(id)
	}
	return *t, nil
}

// Record appends a history entry to the commit.
func (tx *Tx) Record(change domain.ReportChangeType, oldValue, newValue map[string]any) {
	tx.history = append(tx.history, tx.store.newHistoryLocked(tx.Report.ID, tx.actorID, change, oldValue, newValue, tx.Now))
}

// Skip marks the mutation as a no-op; the stored report is returned untouched.
func (tx *Tx) Skip() {
	tx.skipped = true
}

// MutateReport applies m under the write lock. The report, the recomputed
// availability of every technician it was or is assigned to, and the history
// entries are journaled and published together or not at all.
func (s *Store) MutateReport(ctx context.Context, m Mutation) (domain.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.reports[m.ReportID]
	if !ok {
		return domain.Report{}, reportNotFound(m.ReportID)
	}
	if m.ExpectedVersion != 0 && current.Version != m.ExpectedVersion {
		return domain.Report{}, apperrors.NewConflict("report was modified concurrently", map[string]any{
			"report_id":        m.ReportID,
			"expected_version": m.ExpectedVersion,
			"current_version":  current.Version,
		})
	}

	staged := current.Clone()
	tx := &Tx{Report: &staged, Now: s.now(), store: s, actorID: m.ActorID}
	if err := m.Apply(tx); err != nil {
		return domain.Report{}, err
	}
	if tx.skipped {
		return current.Clone(), nil
	}
	if err := checkAssignment(&staged, s); err != nil {
		return domain.Report{}, err
	}

	staged.ID = current.ID
	staged.CreatedAt = current.CreatedAt
	staged.UpdatedAt = tx.Now
	staged.Version = current.Version + 1

	touched := make([]int64, 0, 2)
	if current.AssignedTechnicianID != nil {
		touched = append(touched, *current.AssignedTechnicianID)
	}
	if staged.AssignedTechnicianID != nil {
		touched = append(touched, *staged.AssignedTechnicianID)
	}
	changed := s.recomputeLocked(touched, &staged, tx.Now)

	commit := Commit{Report: &staged, Technicians: changed, History: tx.history}
	if err := s.commitLocked(ctx, commit); err != nil {
		return domain.Report{}, err
	}

	s.reports[staged.ID] = &staged
	for i := range changed {
		tech := changed[i]
		s.technicians[tech.ID] = &tech
	}
	s.history[staged.ID] = append(s.history[staged.ID], tx.history...)
	return staged.Clone(), nil
}

func checkAssignment(r *domain.Report, s *Store) error {
	if (r.AssignedTechnicianID == nil) != (r.AssignedAt == nil) {
		return apperrors.NewInternalError(errors.New("assigned technician and assigned time must be set together"))
	}
	if r.AssignedTechnicianID != nil {
		if _, ok := s.technicians[*r.AssignedTechnicianID]; !ok {
			return technicianNotFound(*r.AssignedTechnicianID)
		}
	}
	return nil
}
