package repository

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/interference-service/internal/domain"
	"github.com/spec-kit/interference-service/internal/store"
)

// LoadState reads every report, technician and history entry so the store
// can be rebuilt after a restart. A report whose internet_details column
// cannot be decoded is kept without details and logged.
func LoadState(ctx context.Context, db Database, logger *zap.Logger) (store.State, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var state store.State

	reports, err := loadReports(ctx, db, logger)
	if err != nil {
		return store.State{}, err
	}
	state.Reports = reports

	technicians, err := loadTechnicians(ctx, db)
	if err != nil {
		return store.State{}, err
	}
	state.Technicians = technicians

	history, err := loadHistory(ctx, db)
	if err != nil {
		return store.State{}, err
	}
	state.History = history

	return state, nil
}

func loadReports(ctx context.Context, db Database, logger *zap.Logger) ([]domain.Report, error) {
	rows, err := db.Query(ctx, SelectReportsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	var out []domain.Report
	for rows.Next() {
		var (
			r                domain.Report
			serviceType      string
			interferenceType string
			status           string
			internetDetails  []byte
		)
		if err := rows.Scan(
			&r.ID,
			&r.ReporterName,
			&r.Address,
			&r.PhoneNumber,
			&r.Email,
			&serviceType,
			&r.ChannelAffected,
			&internetDetails,
			&interferenceType,
			&r.Description,
			&r.TimeObserved,
			&status,
			&r.AssignedTechnicianID,
			&r.AssignedAt,
			&r.TechnicianNotes,
			&r.ResolvedAt,
			&r.Version,
			&r.CreatedAt,
			&r.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		r.ServiceType = domain.ServiceType(serviceType)
		r.InterferenceType = domain.InterferenceType(interferenceType)
		r.Status = domain.ReportStatus(status)
		details, err := decodeInternetDetails(internetDetails)
		if err != nil {
			logger.Warn("skipping malformed internet details",
				zap.Int64("report_id", r.ID),
				zap.Error(err),
			)
		}
		r.InternetDetails = details
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reports: %w", err)
	}
	return out, nil
}

func loadTechnicians(ctx context.Context, db Database) ([]domain.Technician, error) {
	rows, err := db.Query(ctx, SelectTechniciansSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query technicians: %w", err)
	}
	defer rows.Close()

	var out []domain.Technician
	for rows.Next() {
		var t domain.Technician
		if err := rows.Scan(
			&t.ID,
			&t.Name,
			&t.Specialization,
			&t.ContactNumber,
			&t.Email,
			&t.IsAvailable,
			&t.CreatedAt,
			&t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan technician: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate technicians: %w", err)
	}
	return out, nil
}

func loadHistory(ctx context.Context, db Database) ([]domain.ReportHistory, error) {
	rows, err := db.Query(ctx, SelectHistorySQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query report history: %w", err)
	}
	defer rows.Close()

	var out []domain.ReportHistory
	for rows.Next() {
		var (
			id, reportID       int64
			changedBy          *string
			changeType         string
			oldValue, newValue []byte
			createdAt          time.Time
		)
		if err := rows.Scan(&id, &reportID, &changedBy, &changeType, &oldValue, &newValue, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan report history: %w", err)
		}
		h := domain.ReportHistory{
			ID:          id,
			ReportID:    reportID,
			ChangedByID: changedBy,
			ChangeType:  domain.ReportChangeType(changeType),
			CreatedAt:   createdAt,
		}
		if h.OldValue, err = decodeValue(oldValue); err != nil {
			return nil, err
		}
		if h.NewValue, err = decodeValue(newValue); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate report history: %w", err)
	}
	return out, nil
}
