package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/interference-service/internal/domain"
	"github.com/spec-kit/interference-service/internal/events"
	"github.com/spec-kit/interference-service/internal/service"
	apperrors "github.com/spec-kit/interference-service/pkg/util/errorutil"
)

func TestAssignAndUnassignAvailability(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	r := f.createReport(t)
	tech := f.createTechnician(t, "Sam Ortiz")
	assert.True(t, tech.IsAvailable)

	assigned, err := f.assignments.Assign(ctx, r.ID, tech.ID, service.MutationOptions{})
	require.NoError(t, err)
	require.NotNil(t, assigned.AssignedTechnicianID)
	require.NotNil(t, assigned.AssignedAt)
	assert.Equal(t, tech.ID, *assigned.AssignedTechnicianID)
	assert.Equal(t, assigned.UpdatedAt, *assigned.AssignedAt)
	assert.False(t, f.technician(t, tech.ID).IsAvailable)

	unassigned, err := f.assignments.Unassign(ctx, r.ID, service.MutationOptions{})
	require.NoError(t, err)
	assert.Nil(t, unassigned.AssignedTechnicianID)
	assert.Nil(t, unassigned.AssignedAt)
	assert.True(t, f.technician(t, tech.ID).IsAvailable)
}

func TestUnassignKeepsTechnicianBusyWithOtherWork(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	first := f.createReport(t)
	second := f.createReport(t)
	tech := f.createTechnician(t, "Sam Ortiz")

	_, err := f.assignments.Assign(ctx, first.ID, tech.ID, service.MutationOptions{})
	require.NoError(t, err)
	_, err = f.assignments.Assign(ctx, second.ID, tech.ID, service.MutationOptions{})
	require.NoError(t, err)

	_, err = f.assignments.Unassign(ctx, first.ID, service.MutationOptions{})
	require.NoError(t, err)
	assert.False(t, f.technician(t, tech.ID).IsAvailable)
}

func TestAssignSupersedesPreviousTechnician(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	r := f.createReport(t)
	first := f.createTechnician(t, "Sam Ortiz")
	second := f.createTechnician(t, "Ana Lima")

	_, err := f.assignments.Assign(ctx, r.ID, first.ID, service.MutationOptions{})
	require.NoError(t, err)
	reassigned, err := f.assignments.Assign(ctx, r.ID, second.ID, service.MutationOptions{ActorID: "user-2"})
	require.NoError(t, err)

	assert.Equal(t, second.ID, *reassigned.AssignedTechnicianID)
	assert.True(t, f.technician(t, first.ID).IsAvailable)
	assert.False(t, f.technician(t, second.ID).IsAvailable)

	last := f.events.events[len(f.events.events)-1]
	payload, ok := last.Payload.(events.ReportAssignedPayload)
	require.True(t, ok)
	require.NotNil(t, payload.PreviousTechnicianID)
	assert.Equal(t, first.ID, *payload.PreviousTechnicianID)

	history, err := f.reports.ListHistory(ctx, r.ID)
	require.NoError(t, err)
	entry := history[len(history)-1]
	assert.Equal(t, domain.ChangeTypeAssignee, entry.ChangeType)
	assert.Equal(t, first.ID, entry.OldValue["technician_id"])
	assert.Equal(t, second.ID, entry.NewValue["technician_id"])
	require.NotNil(t, entry.ChangedByID)
	assert.Equal(t, "user-2", *entry.ChangedByID)
}

func TestAssignSameTechnicianRefreshesAssignedAt(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	r := f.createReport(t)
	tech := f.createTechnician(t, "Sam Ortiz")

	first, err := f.assignments.Assign(ctx, r.ID, tech.ID, service.MutationOptions{})
	require.NoError(t, err)
	again, err := f.assignments.Assign(ctx, r.ID, tech.ID, service.MutationOptions{})
	require.NoError(t, err)

	assert.True(t, again.AssignedAt.After(*first.AssignedAt))
	assert.False(t, f.technician(t, tech.ID).IsAvailable)

	assigned := f.events.ofType(events.EventReportAssigned)
	require.Len(t, assigned, 2)
	payload, ok := assigned[1].Payload.(events.ReportAssignedPayload)
	require.True(t, ok)
	assert.Equal(t, tech.ID, payload.TechnicianID)
	assert.Nil(t, payload.PreviousTechnicianID)

	note, ok := service.Render(assigned[1])
	require.True(t, ok)
	assert.Equal(t, fmt.Sprintf("Report #%d assigned to technician %d", r.ID, tech.ID), note.Subject)
}

func TestAssignRejections(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("unknown report", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		tech := f.createTechnician(t, "Sam Ortiz")
		_, err := f.assignments.Assign(ctx, 99, tech.ID, service.MutationOptions{})
		require.True(t, apperrors.IsNotFound(err))
	})

	t.Run("unknown technician", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		r := f.createReport(t)
		_, err := f.assignments.Assign(ctx, r.ID, 77, service.MutationOptions{})
		require.True(t, apperrors.IsNotFound(err))
		assert.Equal(t, int64(77), apperrors.ToDomainError(err).Details["technician_id"])
	})

	t.Run("resolved report is left unchanged", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		r := f.createReport(t)
		tech := f.createTechnician(t, "Sam Ortiz")
		_, err := f.lifecycle.Advance(ctx, r.ID, service.MutationOptions{})
		require.NoError(t, err)
		resolved, err := f.lifecycle.Advance(ctx, r.ID, service.MutationOptions{})
		require.NoError(t, err)

		_, err = f.assignments.Assign(ctx, r.ID, tech.ID, service.MutationOptions{})
		require.True(t, apperrors.IsInvalidOperation(err))

		stored, err := f.reports.GetReport(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, resolved, stored)
		assert.True(t, f.technician(t, tech.ID).IsAvailable)
		assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.Mutations.WithLabelValues("assign", "rejected")), 0)
	})
}

func TestConcurrentAssignOneWins(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	r := f.createReport(t)
	t1 := f.createTechnician(t, "Sam Ortiz")
	t2 := f.createTechnician(t, "Ana Lima")

	techs := []int64{t1.ID, t2.ID}
	results := make([]error, len(techs))
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i, techID := range techs {
		wg.Add(1)
		go func(i int, techID int64) {
			defer wg.Done()
			<-start
			_, results[i] = f.assignments.Assign(ctx, r.ID, techID, service.MutationOptions{ExpectedVersion: r.Version})
		}(i, techID)
	}
	close(start)
	wg.Wait()

	winner, loser := -1, -1
	for i, err := range results {
		if err == nil {
			winner = i
			continue
		}
		require.True(t, apperrors.IsConflict(err), "unexpected error: %v", err)
		loser = i
	}
	require.NotEqual(t, -1, winner)
	require.NotEqual(t, -1, loser)

	stored, err := f.reports.GetReport(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, techs[winner], *stored.AssignedTechnicianID)
	assert.False(t, f.technician(t, techs[winner]).IsAvailable)
	assert.True(t, f.technician(t, techs[loser]).IsAvailable)
}

func TestUnassignOnUnassignedReportIsNoop(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	r := f.createReport(t)

	got, err := f.assignments.Unassign(ctx, r.ID, service.MutationOptions{})
	require.NoError(t, err)
	assert.Equal(t, r, got)
	assert.Equal(t, []events.EventType{events.EventReportCreated}, f.events.types())

	_, err = f.assignments.Unassign(ctx, 404, service.MutationOptions{})
	require.True(t, apperrors.IsNotFound(err))
}

func TestUnassignRetainsNotes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	r := f.createReport(t)
	tech := f.createTechnician(t, "Sam Ortiz")

	_, err := f.assignments.Assign(ctx, r.ID, tech.ID, service.MutationOptions{})
	require.NoError(t, err)
	_, err = f.assignments.UpdateNotes(ctx, r.ID, "Replaced splitter at the pole", service.MutationOptions{})
	require.NoError(t, err)

	unassigned, err := f.assignments.Unassign(ctx, r.ID, service.MutationOptions{})
	require.NoError(t, err)
	require.NotNil(t, unassigned.TechnicianNotes)
	assert.Equal(t, "Replaced splitter at the pole", *unassigned.TechnicianNotes)
}

func TestUpdateNotes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("unassigned report", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		r := f.createReport(t)
		_, err := f.assignments.UpdateNotes(ctx, r.ID, "checked", service.MutationOptions{})
		require.True(t, apperrors.IsInvalidOperation(err))
	})

	t.Run("resolved report", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		r := f.createReport(t)
		tech := f.createTechnician(t, "Sam Ortiz")
		_, err := f.assignments.Assign(ctx, r.ID, tech.ID, service.MutationOptions{})
		require.NoError(t, err)
		_, err = f.lifecycle.Advance(ctx, r.ID, service.MutationOptions{})
		require.NoError(t, err)
		_, err = f.lifecycle.Advance(ctx, r.ID, service.MutationOptions{})
		require.NoError(t, err)

		_, err = f.assignments.UpdateNotes(ctx, r.ID, "late note", service.MutationOptions{})
		require.True(t, apperrors.IsInvalidOperation(err))
	})

	t.Run("replaces notes", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		r := f.createReport(t)
		tech := f.createTechnician(t, "Sam Ortiz")
		_, err := f.assignments.Assign(ctx, r.ID, tech.ID, service.MutationOptions{})
		require.NoError(t, err)

		_, err = f.assignments.UpdateNotes(ctx, r.ID, "first visit", service.MutationOptions{})
		require.NoError(t, err)
		updated, err := f.assignments.UpdateNotes(ctx, r.ID, "second visit", service.MutationOptions{})
		require.NoError(t, err)
		assert.Equal(t, "second visit", *updated.TechnicianNotes)

		history, err := f.reports.ListHistory(ctx, r.ID)
		require.NoError(t, err)
		entry := history[len(history)-1]
		assert.Equal(t, domain.ChangeTypeNotes, entry.ChangeType)
		assert.Equal(t, "first visit", entry.OldValue["notes"])
	})
}

func TestAssignmentPairingHolds(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	r := f.createReport(t)
	tech := f.createTechnician(t, "Sam Ortiz")

	check := func(rep domain.Report) {
		assert.Equal(t, rep.AssignedTechnicianID == nil, rep.AssignedAt == nil)
		assert.False(t, rep.UpdatedAt.Before(rep.CreatedAt))
	}

	steps := []func() (domain.Report, error){
		func() (domain.Report, error) { return f.assignments.Assign(ctx, r.ID, tech.ID, service.MutationOptions{}) },
		func() (domain.Report, error) { return f.lifecycle.Advance(ctx, r.ID, service.MutationOptions{}) },
		func() (domain.Report, error) { return f.assignments.Unassign(ctx, r.ID, service.MutationOptions{}) },
		func() (domain.Report, error) { return f.lifecycle.Advance(ctx, r.ID, service.MutationOptions{}) },
		func() (domain.Report, error) { return f.lifecycle.Advance(ctx, r.ID, service.MutationOptions{}) },
		func() (domain.Report, error) { return f.assignments.Assign(ctx, r.ID, tech.ID, service.MutationOptions{}) },
	}
	for _, step := range steps {
		rep, err := step()
		require.NoError(t, err)
		check(rep)
	}
}
