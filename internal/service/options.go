package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/interference-service/internal/domain"
	"github.com/spec-kit/interference-service/internal/events"
	"github.com/spec-kit/interference-service/internal/observability"
	"github.com/spec-kit/interference-service/internal/store"
	apperrors "github.com/spec-kit/interference-service/pkg/util/errorutil"
)

// Dependencies bundles what the report services share.
type Dependencies struct {
	Store      *store.Store
	Validator  *Validator
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Metrics    *observability.Metrics
}

// MutationOptions carries the caller identity and the report version the
// caller last saw. A zero ExpectedVersion uses the version current at call time.
type MutationOptions struct {
	ActorID         string
	ExpectedVersion int64
}

func (o MutationOptions) actor() *string {
	if o.ActorID == "" {
		return nil
	}
	id := o.ActorID
	return &id
}

// base holds the plumbing every report service needs.
type base struct {
	store      *store.Store
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

func newBase(deps Dependencies) base {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return base{store: deps.Store, dispatcher: deps.Dispatcher, logger: logger, metrics: deps.Metrics}
}

// mutate runs apply as one versioned store mutation and records its outcome.
func (b base) mutate(ctx context.Context, op string, reportID int64, opts MutationOptions, apply func(tx *store.Tx) error) (domain.Report, error) {
	report, err := b.runMutation(ctx, reportID, opts, apply)
	b.metrics.RecordMutation(op, mutationOutcome(err))
	if err != nil && !apperrors.IsConflict(err) && apperrors.ToDomainError(err).HTTPStatus >= 500 {
		b.logger.Error("report mutation failed", zap.String("operation", op), zap.Int64("report_id", reportID), zap.Error(err))
	}
	return report, err
}

func (b base) runMutation(ctx context.Context, reportID int64, opts MutationOptions, apply func(tx *store.Tx) error) (domain.Report, error) {
	version := opts.ExpectedVersion
	if version == 0 {
		current, err := b.store.Report(reportID)
		if err != nil {
			return domain.Report{}, err
		}
		version = current.Version
	}
	return b.store.MutateReport(ctx, store.Mutation{
		ReportID:        reportID,
		ExpectedVersion: version,
		ActorID:         opts.actor(),
		Apply:           apply,
	})
}

func (b base) publish(ctx context.Context, eventType events.EventType, reportID int64, actorID string, payload any) {
	if b.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ReportID:  reportID,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
	if err := b.dispatcher.Publish(ctx, event); err != nil {
		b.logger.Warn("event publish failed",
			zap.String("event_type", string(eventType)),
			zap.Int64("report_id", reportID),
			zap.Error(err))
	}
}

func mutationOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case apperrors.IsConflict(err):
		return "conflict"
	case apperrors.IsNotFound(err), apperrors.IsInvalidOperation(err), apperrors.IsValidation(err):
		return "rejected"
	default:
		return "error"
	}
}
