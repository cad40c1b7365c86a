package repository_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/interference-service/internal/domain"
	"github.com/spec-kit/interference-service/internal/repository"
)

var reportColumns = []string{
	"id", "reporter_name", "address", "phone_number", "email", "service_type",
	"channel_affected", "internet_details", "interference_type", "description",
	"time_observed", "status", "assigned_technician_id", "assigned_at",
	"technician_notes", "resolved_at", "version", "created_at", "updated_at",
}

var technicianColumns = []string{
	"id", "name", "specialization", "contact_number", "email", "is_available", "created_at", "updated_at",
}

var historyColumns = []string{
	"id", "report_id", "changed_by_id", "change_type", "old_value", "new_value", "created_at",
}

func TestLoadState(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	t.Run("error - report query fails", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(regexp.QuoteMeta(repository.SelectReportsSQL)).WillReturnError(assert.AnError)

		_, err = repository.LoadState(ctx, mock, zap.NewNop())

		require.ErrorIs(t, err, assert.AnError)
		require.ErrorContains(t, err, "failed to query reports")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - technician scan fails", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(regexp.QuoteMeta(repository.SelectReportsSQL)).
			WillReturnRows(pgxmock.NewRows(reportColumns))
		mock.ExpectQuery(regexp.QuoteMeta(repository.SelectTechniciansSQL)).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("not-a-number"))

		_, err = repository.LoadState(ctx, mock, zap.NewNop())

		require.ErrorContains(t, err, "failed to scan technician")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - rebuilds reports, technicians and history", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		techID := int64(2)
		actor := "user-1"
		details := []byte(`{"download_speed":12.5,"wifi_affected":true,"ethernet_affected":false}`)

		mock.ExpectQuery(regexp.QuoteMeta(repository.SelectReportsSQL)).
			WillReturnRows(pgxmock.NewRows(reportColumns).AddRow(
				int64(7), "Dana Reyes", "12 Harbour Road", "555-0100", "dana@example.com", "INTERNET",
				(*string)(nil), details, "INTERNET_SLOW", "Speeds drop every night",
				now, "investigating", &techID, &now,
				(*string)(nil), (*time.Time)(nil), int64(3), now, now,
			))
		mock.ExpectQuery(regexp.QuoteMeta(repository.SelectTechniciansSQL)).
			WillReturnRows(pgxmock.NewRows(technicianColumns).AddRow(
				int64(2), "Sam Ortiz", "Internet", "555-0111", "sam@example.com", false, now, now,
			))
		mock.ExpectQuery(regexp.QuoteMeta(repository.SelectHistorySQL)).
			WillReturnRows(pgxmock.NewRows(historyColumns).AddRow(
				int64(9), int64(7), &actor, "STATUS_CHANGE",
				[]byte(`{"status":"pending"}`), []byte(`{"status":"investigating"}`), now,
			))

		state, err := repository.LoadState(ctx, mock, zap.NewNop())
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())

		require.Len(t, state.Reports, 1)
		r := state.Reports[0]
		assert.Equal(t, int64(7), r.ID)
		assert.Equal(t, domain.ServiceTypeInternet, r.ServiceType)
		assert.Equal(t, domain.ReportStatusInvestigating, r.Status)
		require.NotNil(t, r.InternetDetails)
		require.NotNil(t, r.InternetDetails.DownloadSpeed)
		assert.InDelta(t, 12.5, *r.InternetDetails.DownloadSpeed, 0.001)
		assert.True(t, r.InternetDetails.WifiAffected)
		require.NotNil(t, r.AssignedTechnicianID)
		assert.Equal(t, int64(2), *r.AssignedTechnicianID)

		require.Len(t, state.Technicians, 1)
		assert.Equal(t, "Sam Ortiz", state.Technicians[0].Name)

		require.Len(t, state.History, 1)
		h := state.History[0]
		assert.Equal(t, domain.ChangeTypeStatus, h.ChangeType)
		assert.Equal(t, "pending", h.OldValue["status"])
		assert.Equal(t, "investigating", h.NewValue["status"])
	})
	t.Run("success - malformed internet details are dropped", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		core, logs := observer.New(zapcore.WarnLevel)

		mock.ExpectQuery(regexp.QuoteMeta(repository.SelectReportsSQL)).
			WillReturnRows(pgxmock.NewRows(reportColumns).AddRow(
				int64(8), "Lee Park", "4 Mill Lane", "555-0122", "lee@example.com", "INTERNET",
				(*string)(nil), []byte("{not json"), "INTERNET_INTERMITTENT", "Connection drops hourly",
				now, "pending", (*int64)(nil), (*time.Time)(nil),
				(*string)(nil), (*time.Time)(nil), int64(1), now, now,
			))
		mock.ExpectQuery(regexp.QuoteMeta(repository.SelectTechniciansSQL)).
			WillReturnRows(pgxmock.NewRows(technicianColumns))
		mock.ExpectQuery(regexp.QuoteMeta(repository.SelectHistorySQL)).
			WillReturnRows(pgxmock.NewRows(historyColumns))

		state, err := repository.LoadState(ctx, mock, zap.New(core))
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())

		require.Len(t, state.Reports, 1)
		assert.Equal(t, int64(8), state.Reports[0].ID)
		assert.Nil(t, state.Reports[0].InternetDetails)

		entries := logs.FilterMessage("skipping malformed internet details").All()
		require.Len(t, entries, 1)
		assert.Equal(t, int64(8), entries[0].ContextMap()["report_id"])
	})
}
