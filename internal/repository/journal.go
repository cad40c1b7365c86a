package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spec-kit/interference-service/internal/domain"
	"github.com/spec-kit/interference-service/internal/store"
)

// Journal writes store commits through to Postgres, one transaction per commit.
type Journal struct {
	db Database
}

// NewJournal returns a Postgres-backed store journal.
func NewJournal(db Database) *Journal {
	return &Journal{db: db}
}

var _ store.Journal = (*Journal)(nil)

// Commit persists the report, technicians and history of c atomically.
func (j *Journal) Commit(ctx context.Context, c store.Commit) error {
	tx, err := j.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := writeCommit(ctx, tx, c); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func writeCommit(ctx context.Context, db Database, c store.Commit) error {
	if c.Report != nil {
		details, err := encodeInternetDetails(c.Report.InternetDetails)
		if err != nil {
			return err
		}
		r := c.Report
		if _, err := db.Exec(ctx, UpsertReportSQL,
			r.ID,
			r.ReporterName,
			r.Address,
			r.PhoneNumber,
			r.Email,
			string(r.ServiceType),
			r.ChannelAffected,
			details,
			string(r.InterferenceType),
			r.Description,
			r.TimeObserved,
			string(r.Status),
			r.AssignedTechnicianID,
			r.AssignedAt,
			r.TechnicianNotes,
			r.ResolvedAt,
			r.Version,
			r.CreatedAt,
			r.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to upsert report %d: %w", r.ID, err)
		}
	}

	for _, t := range c.Technicians {
		if _, err := db.Exec(ctx, UpsertTechnicianSQL,
			t.ID,
			t.Name,
			t.Specialization,
			t.ContactNumber,
			t.Email,
			t.IsAvailable,
			t.CreatedAt,
			t.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to upsert technician %d: %w", t.ID, err)
		}
	}

	for _, h := range c.History {
		oldValue, err := encodeValue(h.OldValue)
		if err != nil {
			return err
		}
		newValue, err := encodeValue(h.NewValue)
		if err != nil {
			return err
		}
		if _, err := db.Exec(ctx, InsertHistorySQL,
			h.ID,
			h.ReportID,
			h.ChangedByID,
			string(h.ChangeType),
			oldValue,
			newValue,
			h.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert history %d: %w", h.ID, err)
		}
	}
	return nil
}

type internetDetailsRecord struct {
	DownloadSpeed    *float64 `json:"download_speed,omitempty"`
	UploadSpeed      *float64 `json:"upload_speed,omitempty"`
	Latency          *float64 `json:"latency,omitempty"`
	PacketLoss       *float64 `json:"packet_loss,omitempty"`
	RouterModel      *string  `json:"router_model,omitempty"`
	ModemModel       *string  `json:"modem_model,omitempty"`
	WifiAffected     bool     `json:"wifi_affected"`
	EthernetAffected bool     `json:"ethernet_affected"`
}

func encodeInternetDetails(d *domain.InternetDetails) ([]byte, error) {
	if d == nil {
		return nil, nil
	}
	data, err := json.Marshal(internetDetailsRecord(*d))
	if err != nil {
		return nil, fmt.Errorf("failed to encode internet details: %w", err)
	}
	return data, nil
}

func decodeInternetDetails(data []byte) (*domain.InternetDetails, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var rec internetDetailsRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode internet details: %w", err)
	}
	d := domain.InternetDetails(rec)
	return &d, nil
}

func encodeValue(v map[string]any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode history value: %w", err)
	}
	return data, nil
}

func decodeValue(data []byte) (map[string]any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var v map[string]any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to decode history value: %w", err)
	}
	return v, nil
}
