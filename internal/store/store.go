// Package store holds the in-memory source of truth for reports and
// technicians. Every mutation commits the report, the availability of the
// technicians it touches and its history entries as one unit.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/spec-kit/interference-service/internal/domain"
	apperrors "github.com/spec-kit/interference-service/pkg/util/errorutil"
)

// Journal durably records a commit before it becomes visible to readers.
type Journal interface {
	Commit(ctx context.Context, c Commit) error
}

// Commit is the unit of work handed to the journal.
type Commit struct {
	Report      *domain.Report
	Technicians []domain.Technician
	History     []domain.ReportHistory
}

// State is a complete dataset used to seed the store on startup.
type State struct {
	Reports     []domain.Report
	Technicians []domain.Technician
	History     []domain.ReportHistory
}

// Snapshot is a consistent read of reports and technicians taken under one lock.
type Snapshot struct {
	Reports     []domain.Report
	Technicians []domain.Technician
}

// Option configures a Store.
type Option func(*Store)

// WithJournal makes every commit go through j first.
func WithJournal(j Journal) Option {
	return func(s *Store) {
		s.journal = j
	}
}

// WithJournalTimeout bounds each journal commit. The write lock is held
// while the journal runs, so a slow database stalls readers for at most d.
func WithJournalTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.journalTimeout = d
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Store is safe for concurrent use. Mutations hold the write lock through
// the journal commit so state is only visible once it is durable.
type Store struct {
	mu               sync.RWMutex
	reports          map[int64]*domain.Report
	technicians      map[int64]*domain.Technician
	history          map[int64][]domain.ReportHistory
	lastReportID     int64
	lastTechnicianID int64
	lastHistoryID    int64
	journal          Journal
	journalTimeout   time.Duration
	now              func() time.Time
}

// New builds an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		reports:     make(map[int64]*domain.Report),
		technicians: make(map[int64]*domain.Technician),
		history:     make(map[int64][]domain.ReportHistory),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the store contents with state. Id counters continue above
// the highest loaded id and technician availability is recomputed.
func (s *Store) Load(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reports = make(map[int64]*domain.Report, len(state.Reports))
	s.technicians = make(map[int64]*domain.Technician, len(state.Technicians))
	s.history = make(map[int64][]domain.ReportHistory)

	for _, r := range state.Reports {
		report := r.Clone()
		s.reports[report.ID] = &report
		s.lastReportID = max(s.lastReportID, report.ID)
	}
	for _, t := range state.Technicians {
		tech := t
		s.technicians[tech.ID] = &tech
		s.lastTechnicianID = max(s.lastTechnicianID, tech.ID)
	}
	for _, h := range state.History {
		s.history[h.ReportID] = append(s.history[h.ReportID], h)
		s.lastHistoryID = max(s.lastHistoryID, h.ID)
	}
	for id, tech := range s.technicians {
		tech.IsAvailable = !s.busyLocked(id, nil)
	}
}

// InsertReport stores a new pending, unassigned report.
func (s *Store) InsertReport(ctx context.Context, r domain.Report, actorID *string) (domain.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.lastReportID++
	report := r.Clone()
	report.ID = s.lastReportID
	report.Status = domain.ReportStatusPending
	report.AssignedTechnicianID = nil
	report.AssignedAt = nil
	report.TechnicianNotes = nil
	report.ResolvedAt = nil
	report.Version = 1
	report.CreatedAt = now
	report.UpdatedAt = now

	entry := s.newHistoryLocked(report.ID, actorID, domain.ChangeTypeCreated, nil, map[string]any{
		"status": string(report.Status),
	}, now)

	if err := s.commitLocked(ctx, Commit{Report: &report, History: []domain.ReportHistory{entry}}); err != nil {
		return domain.Report{}, err
	}
	s.reports[report.ID] = &report
	s.history[report.ID] = append(s.history[report.ID], entry)
	return report.Clone(), nil
}

// InsertTechnician stores a new technician. New technicians are available.
func (s *Store) InsertTechnician(ctx context.Context, t domain.Technician) (domain.Technician, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.lastTechnicianID++
	tech := t
	tech.ID = s.lastTechnicianID
	tech.IsAvailable = true
	tech.CreatedAt = now
	tech.UpdatedAt = now

	if err := s.commitLocked(ctx, Commit{Technicians: []domain.Technician{tech}}); err != nil {
		return domain.Technician{}, err
	}
	s.technicians[tech.ID] = &tech
	return tech, nil
}

// Report returns a copy of the report with id.
func (s *Store) Report(id int64) (domain.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reports[id]
	if !ok {
		return domain.Report{}, reportNotFound(id)
	}
	return r.Clone(), nil
}

// Technician returns a copy of the technician with id.
func (s *Store) Technician(id int64) (domain.Technician, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.technicians[id]
	if !ok {
		return domain.Technician{}, technicianNotFound(id)
	}
	return *t, nil
}

// Reports returns every report ordered by id.
func (s *Store) Reports() []domain.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reportsLocked()
}

// Technicians returns every technician ordered by id.
func (s *Store) Technicians() []domain.Technician {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.techniciansLocked()
}

// Snapshot returns reports and technicians read under the same lock.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Reports: s.reportsLocked(), Technicians: s.techniciansLocked()}
}

// History returns the audit trail of a report, oldest first.
func (s *Store) History(reportID int64) ([]domain.ReportHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.reports[reportID]; !ok {
		return nil, reportNotFound(reportID)
	}
	entries := s.history[reportID]
	out := make([]domain.ReportHistory, len(entries))
	copy(out, entries)
	return out, nil
}

func (s *Store) reportsLocked() []domain.Report {
	out := make([]domain.Report, 0, len(s.reports))
	for _, r := range s.reports {
		out = append(out, r.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) techniciansLocked() []domain.Technician {
	out := make([]domain.Technician, 0, len(s.technicians))
	for _, t := range s.technicians {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) newHistoryLocked(reportID int64, actorID *string, change domain.ReportChangeType, oldValue, newValue map[string]any, at time.Time) domain.ReportHistory {
	s.lastHistoryID++
	var actor *string
	if actorID != nil {
		id := *actorID
		actor = &id
	}
	return domain.ReportHistory{
		ID:          s.lastHistoryID,
		ReportID:    reportID,
		ChangedByID: actor,
		ChangeType:  change,
		OldValue:    oldValue,
		NewValue:    newValue,
		CreatedAt:   at,
	}
}

func (s *Store) commitLocked(ctx context.Context, c Commit) error {
	if s.journal == nil {
		return nil
	}
	if s.journalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.journalTimeout)
		defer cancel()
	}
	if err := s.journal.Commit(ctx, c); err != nil {
		return apperrors.NewInternalError(fmt.Errorf("journal commit: %w", err))
	}
	return nil
}

func reportNotFound(id int64) error {
	return apperrors.NewNotFound("report", map[string]any{"report_id": id})
}

func technicianNotFound(id int64) error {
	return apperrors.NewNotFound("technician", map[string]any{"technician_id": id})
}
