package dto

import (
	"time"

	"github.com/spec-kit/interference-service/internal/domain"
)

// VersionedRequest carries the report version the caller last saw. It may
// also be sent in an If-Match header.
type VersionedRequest struct {
	Version int64 `json:"version"`
}

// UpdateNotesRequest payload.
type UpdateNotesRequest struct {
	Notes   string `json:"notes"`
	Version int64  `json:"version"`
}

// InternetDetailsResponse mirrors domain.InternetDetails.
type InternetDetailsResponse struct {
	DownloadSpeed    *float64 `json:"download_speed,omitempty"`
	UploadSpeed      *float64 `json:"upload_speed,omitempty"`
	Latency          *float64 `json:"latency,omitempty"`
	PacketLoss       *float64 `json:"packet_loss,omitempty"`
	RouterModel      *string  `json:"router_model,omitempty"`
	ModemModel       *string  `json:"modem_model,omitempty"`
	WifiAffected     bool     `json:"wifi_affected"`
	EthernetAffected bool     `json:"ethernet_affected"`
}

// ReportResponse is the wire form of a report.
type ReportResponse struct {
	ID                   int64                    `json:"id"`
	ReporterName         string                   `json:"reporter_name"`
	Address              string                   `json:"address"`
	PhoneNumber          string                   `json:"phone_number"`
	Email                string                   `json:"email"`
	ServiceType          domain.ServiceType       `json:"service_type"`
	ChannelAffected      *string                  `json:"channel_affected,omitempty"`
	InternetDetails      *InternetDetailsResponse `json:"internet_details,omitempty"`
	InterferenceType     domain.InterferenceType  `json:"interference_type"`
	Description          string                   `json:"description"`
	TimeObserved         time.Time                `json:"time_observed"`
	Status               domain.ReportStatus      `json:"status"`
	AssignedTechnicianID *int64                   `json:"assigned_technician_id"`
	AssignedAt           *time.Time               `json:"assigned_at"`
	TechnicianNotes      *string                  `json:"technician_notes"`
	ResolvedAt           *time.Time               `json:"resolved_at"`
	Version              int64                    `json:"version"`
	CreatedAt            time.Time                `json:"created_at"`
	UpdatedAt            time.Time                `json:"updated_at"`
}

// HistoryResponse is one audit trail entry.
type HistoryResponse struct {
	ID          int64                   `json:"id"`
	ReportID    int64                   `json:"report_id"`
	ChangedByID *string                 `json:"changed_by_id"`
	ChangeType  domain.ReportChangeType `json:"change_type"`
	OldValue    map[string]any          `json:"old_value"`
	NewValue    map[string]any          `json:"new_value"`
	CreatedAt   time.Time               `json:"created_at"`
}

// NewReportResponse maps a report.
func NewReportResponse(r domain.Report) ReportResponse {
	resp := ReportResponse{
		ID:                   r.ID,
		ReporterName:         r.ReporterName,
		Address:              r.Address,
		PhoneNumber:          r.PhoneNumber,
		Email:                r.Email,
		ServiceType:          r.ServiceType,
		ChannelAffected:      r.ChannelAffected,
		InterferenceType:     r.InterferenceType,
		Description:          r.Description,
		TimeObserved:         r.TimeObserved,
		Status:               r.Status,
		AssignedTechnicianID: r.AssignedTechnicianID,
		AssignedAt:           r.AssignedAt,
		TechnicianNotes:      r.TechnicianNotes,
		ResolvedAt:           r.ResolvedAt,
		Version:              r.Version,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
	if r.InternetDetails != nil {
		d := InternetDetailsResponse(*r.InternetDetails)
		resp.InternetDetails = &d
	}
	return resp
}

// NewReportResponses maps a list of reports.
func NewReportResponses(reports []domain.Report) []ReportResponse {
	out := make([]ReportResponse, 0, len(reports))
	for _, r := range reports {
		out = append(out, NewReportResponse(r))
	}
	return out
}

// NewHistoryResponses maps audit entries.
func NewHistoryResponses(entries []domain.ReportHistory) []HistoryResponse {
	out := make([]HistoryResponse, 0, len(entries))
	for _, h := range entries {
		out = append(out, HistoryResponse{
			ID:          h.ID,
			ReportID:    h.ReportID,
			ChangedByID: h.ChangedByID,
			ChangeType:  h.ChangeType,
			OldValue:    h.OldValue,
			NewValue:    h.NewValue,
			CreatedAt:   h.CreatedAt,
		})
	}
	return out
}
