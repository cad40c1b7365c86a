package service

import (
	"context"
	"strings"
	"time"

	"github.com/spec-kit/interference-service/internal/domain"
	"github.com/spec-kit/interference-service/internal/events"
)

// InternetDetailsInput carries line measurements for internet reports.
type InternetDetailsInput struct {
	DownloadSpeed    *float64 `json:"download_speed" validate:"omitempty,gte=0"`
	UploadSpeed      *float64 `json:"upload_speed" validate:"omitempty,gte=0"`
	Latency          *float64 `json:"latency" validate:"omitempty,gte=0"`
	PacketLoss       *float64 `json:"packet_loss" validate:"omitempty,gte=0,lte=100"`
	RouterModel      *string  `json:"router_model" validate:"omitempty,max=100"`
	ModemModel       *string  `json:"modem_model" validate:"omitempty,max=100"`
	WifiAffected     bool     `json:"wifi_affected"`
	EthernetAffected bool     `json:"ethernet_affected"`
}

// CreateReportInput is the intake payload.
type CreateReportInput struct {
	ReporterName     string                  `json:"reporter_name" validate:"required,max=200"`
	Address          string                  `json:"address" validate:"required,max=500"`
	PhoneNumber      string                  `json:"phone_number" validate:"required,phone,max=40"`
	Email            string                  `json:"email" validate:"required,email"`
	ServiceType      domain.ServiceType      `json:"service_type" validate:"required,oneof=TV INTERNET BOTH"`
	ChannelAffected  *string                 `json:"channel_affected" validate:"omitempty,max=100"`
	InternetDetails  *InternetDetailsInput   `json:"internet_details"`
	InterferenceType domain.InterferenceType `json:"interference_type" validate:"required,interference"`
	Description      string                  `json:"description" validate:"required,min=10,max=5000"`
	TimeObserved     time.Time               `json:"time_observed" validate:"required"`
}

// ReportFilter narrows ListReports. Nil fields match everything.
type ReportFilter struct {
	Status       *domain.ReportStatus
	TechnicianID *int64
}

// ReportService handles intake and read access to reports.
type ReportService struct {
	base
	validator *Validator
}

// NewReportService creates the service.
func NewReportService(deps Dependencies) *ReportService {
	v := deps.Validator
	if v == nil {
		v = NewValidator()
	}
	return &ReportService{base: newBase(deps), validator: v}
}

// CreateReport validates in and stores a new pending report.
func (s *ReportService) CreateReport(ctx context.Context, actorID string, in CreateReportInput) (domain.Report, error) {
	if err := s.validator.Struct(in); err != nil {
		s.metrics.RecordMutation("create", mutationOutcome(err))
		return domain.Report{}, err
	}

	report := domain.Report{
		ReporterName:     strings.TrimSpace(in.ReporterName),
		Address:          strings.TrimSpace(in.Address),
		PhoneNumber:      strings.TrimSpace(in.PhoneNumber),
		Email:            strings.TrimSpace(in.Email),
		ServiceType:      in.ServiceType,
		InterferenceType: in.InterferenceType,
		Description:      strings.TrimSpace(in.Description),
		TimeObserved:     in.TimeObserved.UTC(),
	}
	if in.ServiceType.AffectsTV() {
		channel := strings.TrimSpace(*in.ChannelAffected)
		report.ChannelAffected = &channel
	}
	if in.ServiceType.AffectsInternet() {
		d := domain.InternetDetails(*in.InternetDetails)
		report.InternetDetails = &d
	}

	created, err := s.store.InsertReport(ctx, report, MutationOptions{ActorID: actorID}.actor())
	s.metrics.RecordMutation("create", mutationOutcome(err))
	if err != nil {
		return domain.Report{}, err
	}

	s.publish(ctx, events.EventReportCreated, created.ID, actorID, events.ReportCreatedPayload{
		ServiceType:      created.ServiceType,
		InterferenceType: created.InterferenceType,
		ReporterName:     created.ReporterName,
	})
	return created, nil
}

// ListReports returns reports matching filter ordered by id.
func (s *ReportService) ListReports(_ context.Context, filter ReportFilter) []domain.Report {
	all := s.store.Reports()
	out := make([]domain.Report, 0, len(all))
	for _, r := range all {
		if filter.Status != nil && r.Status != *filter.Status {
			continue
		}
		if filter.TechnicianID != nil && (r.AssignedTechnicianID == nil || *r.AssignedTechnicianID != *filter.TechnicianID) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// GetReport returns one report.
func (s *ReportService) GetReport(_ context.Context, id int64) (domain.Report, error) {
	return s.store.Report(id)
}

// ListHistory returns the audit trail of a report, oldest first.
func (s *ReportService) ListHistory(_ context.Context, id int64) ([]domain.ReportHistory, error) {
	return s.store.History(id)
}

