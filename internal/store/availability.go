package store

import (
	"time"

	"github.com/spec-kit/interference-service/internal/domain"
)

// Busy reports whether technicianID holds any report that is not resolved.
func Busy(technicianID int64, reports []domain.Report) bool {
	for i := range reports {
		if holds(&reports[i], technicianID) {
			return true
		}
	}
	return false
}

func holds(r *domain.Report, technicianID int64) bool {
	return r.AssignedTechnicianID != nil && *r.AssignedTechnicianID == technicianID && !r.IsResolved()
}

// busyLocked evaluates Busy over the stored reports, with staged standing in
// for the stored report of the same id.
func (s *Store) busyLocked(technicianID int64, staged *domain.Report) bool {
	for id, r := range s.reports {
		candidate := r
		if staged != nil && id == staged.ID {
			candidate = staged
		}
		if holds(candidate, technicianID) {
			return true
		}
	}
	return false
}

// recomputeLocked returns updated copies of the technicians in ids whose
// availability differs once staged is applied.
func (s *Store) recomputeLocked(ids []int64, staged *domain.Report, now time.Time) []domain.Technician {
	var changed []domain.Technician
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		tech, ok := s.technicians[id]
		if !ok {
			continue
		}
		available := !s.busyLocked(id, staged)
		if tech.IsAvailable == available {
			continue
		}
		updated := *tech
		updated.IsAvailable = available
		updated.UpdatedAt = now
		changed = append(changed, updated)
	}
	return changed
}

// BusyCount returns how many technicians are currently unavailable.
func (s *Store) BusyCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, t := range s.technicians {
		if !t.IsAvailable {
			n++
		}
	}
	return n
}
