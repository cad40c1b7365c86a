package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/interference-service/internal/domain"
	"github.com/spec-kit/interference-service/internal/events"
	"github.com/spec-kit/interference-service/internal/service"
	apperrors "github.com/spec-kit/interference-service/pkg/util/errorutil"
)

func TestAdvanceCyclesBackToStart(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	r := f.createReport(t)

	want := []domain.ReportStatus{
		domain.ReportStatusInvestigating,
		domain.ReportStatusResolved,
		domain.ReportStatusPending,
	}
	current := r
	for _, status := range want {
		next, err := f.lifecycle.Advance(ctx, r.ID, service.MutationOptions{ActorID: "user-1"})
		require.NoError(t, err)
		assert.Equal(t, status, next.Status)
		assert.True(t, next.UpdatedAt.After(current.UpdatedAt))
		assert.Equal(t, current.Version+1, next.Version)
		current = next
	}
	assert.Equal(t, r.Status, current.Status)

	history, err := f.reports.ListHistory(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, history, 4)
	assert.Equal(t, domain.ChangeTypeCreated, history[0].ChangeType)
	assert.Equal(t, "resolved", history[2].NewValue["status"])
}

func TestAdvanceTracksResolution(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	r := f.createReport(t)

	investigating, err := f.lifecycle.Advance(ctx, r.ID, service.MutationOptions{})
	require.NoError(t, err)
	assert.Nil(t, investigating.ResolvedAt)

	resolved, err := f.lifecycle.Advance(ctx, r.ID, service.MutationOptions{})
	require.NoError(t, err)
	require.NotNil(t, resolved.ResolvedAt)
	assert.Equal(t, resolved.UpdatedAt, *resolved.ResolvedAt)

	reopened, err := f.lifecycle.Advance(ctx, r.ID, service.MutationOptions{})
	require.NoError(t, err)
	assert.Nil(t, reopened.ResolvedAt)
}

func TestAdvanceRecomputesAvailability(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	r := f.createReport(t)
	tech := f.createTechnician(t, "Sam Ortiz")

	_, err := f.assignments.Assign(ctx, r.ID, tech.ID, service.MutationOptions{})
	require.NoError(t, err)
	assert.False(t, f.technician(t, tech.ID).IsAvailable)

	_, err = f.lifecycle.Advance(ctx, r.ID, service.MutationOptions{})
	require.NoError(t, err)
	assert.False(t, f.technician(t, tech.ID).IsAvailable)

	resolved, err := f.lifecycle.Advance(ctx, r.ID, service.MutationOptions{})
	require.NoError(t, err)
	require.NotNil(t, resolved.AssignedTechnicianID)
	assert.True(t, f.technician(t, tech.ID).IsAvailable)

	_, err = f.lifecycle.Advance(ctx, r.ID, service.MutationOptions{})
	require.NoError(t, err)
	assert.False(t, f.technician(t, tech.ID).IsAvailable)
}

func TestAdvanceErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.lifecycle.Advance(ctx, 404, service.MutationOptions{})
	require.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, int64(404), apperrors.ToDomainError(err).Details["report_id"])

	r := f.createReport(t)
	_, err = f.lifecycle.Advance(ctx, r.ID, service.MutationOptions{ExpectedVersion: r.Version + 5})
	require.True(t, apperrors.IsConflict(err))

	stored, err := f.reports.GetReport(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReportStatusPending, stored.Status)
	assert.Equal(t, r.Version, stored.Version)
}

func TestAdvancePublishesStatusChange(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	r := f.createReport(t)

	_, err := f.lifecycle.Advance(context.Background(), r.ID, service.MutationOptions{ActorID: "user-9"})
	require.NoError(t, err)

	assert.Equal(t, []events.EventType{events.EventReportCreated, events.EventReportStatusChanged}, f.events.types())
	last := f.events.events[len(f.events.events)-1]
	assert.Equal(t, "user-9", last.ActorID)
	assert.Equal(t, events.ReportStatusChangedPayload{
		OldStatus: domain.ReportStatusPending,
		NewStatus: domain.ReportStatusInvestigating,
	}, last.Payload)
}
