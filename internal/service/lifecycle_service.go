package service

import (
	"context"

	"github.com/spec-kit/interference-service/internal/domain"
	"github.com/spec-kit/interference-service/internal/events"
	"github.com/spec-kit/interference-service/internal/store"
)

// LifecycleService moves reports around the status cycle.
type LifecycleService struct {
	base
}

// NewLifecycleService creates the service.
func NewLifecycleService(deps Dependencies) *LifecycleService {
	return &LifecycleService{base: newBase(deps)}
}

// Advance moves the report to the next status: pending, investigating,
// resolved, then back to pending. Assignment does not gate the transition.
// Entering resolved stamps ResolvedAt; leaving it clears the stamp.
func (s *LifecycleService) Advance(ctx context.Context, reportID int64, opts MutationOptions) (domain.Report, error) {
	var from, to domain.ReportStatus
	report, err := s.mutate(ctx, "advance", reportID, opts, func(tx *store.Tx) error {
		from = tx.Report.Status
		to = from.Next()
		tx.Report.Status = to
		if to == domain.ReportStatusResolved {
			resolvedAt := tx.Now
			tx.Report.ResolvedAt = &resolvedAt
		} else {
			tx.Report.ResolvedAt = nil
		}
		tx.Record(domain.ChangeTypeStatus,
			map[string]any{"status": string(from)},
			map[string]any{"status": string(to)})
		return nil
	})
	if err != nil {
		return domain.Report{}, err
	}

	s.publish(ctx, events.EventReportStatusChanged, report.ID, opts.ActorID, events.ReportStatusChangedPayload{
		OldStatus: from,
		NewStatus: to,
	})
	return report, nil
}
