package service

import (
	"bytes"
	"context"
	"sort"

	"github.com/spec-kit/interference-service/internal/domain"
	"github.com/spec-kit/interference-service/internal/export"
	"github.com/spec-kit/interference-service/internal/store"
)

// DefaultRecentActivityLimit applies when a caller passes a non-positive limit.
const DefaultRecentActivityLimit = 5

// DashboardService derives read-only views from a store snapshot.
type DashboardService struct {
	store        *store.Store
	defaultLimit int
}

// NewDashboardService creates the service. A non-positive defaultLimit
// falls back to DefaultRecentActivityLimit.
func NewDashboardService(s *store.Store, defaultLimit int) *DashboardService {
	if defaultLimit <= 0 {
		defaultLimit = DefaultRecentActivityLimit
	}
	return &DashboardService{store: s, defaultLimit: defaultLimit}
}

// TechnicianWorkload returns one row per technician holding at least one report.
func (s *DashboardService) TechnicianWorkload(_ context.Context) []domain.WorkloadStat {
	snap := s.store.Snapshot()
	return Workload(snap.Reports, snap.Technicians)
}

// RecentActivity returns the most recently updated reports.
func (s *DashboardService) RecentActivity(_ context.Context, limit int) []domain.Report {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	return RecentActivity(s.store.Reports(), limit)
}

// ActiveReportCount counts reports that are not resolved.
func (s *DashboardService) ActiveReportCount(_ context.Context) int {
	return Summarize(s.store.Snapshot()).Active
}

// ResolvedReportCount counts resolved reports.
func (s *DashboardService) ResolvedReportCount(_ context.Context) int {
	return Summarize(s.store.Snapshot()).Resolved
}

// Summary returns the dashboard counters from one snapshot.
func (s *DashboardService) Summary(_ context.Context) domain.ReportSummary {
	return Summarize(s.store.Snapshot())
}

// ExportWorkbook renders workload and recent activity as an XLSX workbook.
func (s *DashboardService) ExportWorkbook(_ context.Context) (*bytes.Buffer, error) {
	snap := s.store.Snapshot()
	return export.DashboardWorkbook(
		Workload(snap.Reports, snap.Technicians),
		RecentActivity(snap.Reports, s.defaultLimit),
	)
}

// Workload groups reports by assigned technician. Unassigned reports are
// ignored and rows are ordered by technician id.
func Workload(reports []domain.Report, technicians []domain.Technician) []domain.WorkloadStat {
	type acc struct {
		active, resolved int
		minutes          float64
		timed            int
	}
	byTech := make(map[int64]*acc)
	for i := range reports {
		r := &reports[i]
		if r.AssignedTechnicianID == nil {
			continue
		}
		a, ok := byTech[*r.AssignedTechnicianID]
		if !ok {
			a = &acc{}
			byTech[*r.AssignedTechnicianID] = a
		}
		if !r.IsResolved() {
			a.active++
			continue
		}
		a.resolved++
		if r.AssignedAt != nil && r.ResolvedAt != nil {
			a.minutes += r.ResolvedAt.Sub(*r.AssignedAt).Minutes()
			a.timed++
		}
	}

	out := make([]domain.WorkloadStat, 0, len(byTech))
	for _, t := range technicians {
		a, ok := byTech[t.ID]
		if !ok {
			continue
		}
		row := domain.WorkloadStat{Technician: t, ActiveCount: a.active, ResolvedCount: a.resolved}
		if a.timed > 0 {
			avg := a.minutes / float64(a.timed)
			row.AverageResolutionMinutes = &avg
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Technician.ID < out[j].Technician.ID })
	return out
}

// RecentActivity orders reports by UpdatedAt descending, ties by id
// ascending, and keeps the first limit.
func RecentActivity(reports []domain.Report, limit int) []domain.Report {
	sorted := make([]domain.Report, len(reports))
	copy(sorted, reports)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].UpdatedAt.Equal(sorted[j].UpdatedAt) {
			return sorted[i].UpdatedAt.After(sorted[j].UpdatedAt)
		}
		return sorted[i].ID < sorted[j].ID
	})
	if limit >= 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// Summarize counts reports by status and technicians by availability.
func Summarize(snap store.Snapshot) domain.ReportSummary {
	var sum domain.ReportSummary
	sum.Total = len(snap.Reports)
	for _, r := range snap.Reports {
		switch r.Status {
		case domain.ReportStatusPending:
			sum.Pending++
		case domain.ReportStatusInvestigating:
			sum.Investigating++
		case domain.ReportStatusResolved:
			sum.Resolved++
		}
	}
	sum.Active = sum.Total - sum.Resolved
	for _, t := range snap.Technicians {
		if t.IsAvailable {
			sum.AvailableTechnicians++
		} else {
			sum.BusyTechnicians++
		}
	}
	return sum
}
