package dto

import "github.com/spec-kit/interference-service/internal/domain"

// WorkloadResponse is one technician workload row.
type WorkloadResponse struct {
	Technician               TechnicianResponse `json:"technician"`
	ActiveCount              int                `json:"active_count"`
	ResolvedCount            int                `json:"resolved_count"`
	AverageResolutionMinutes *float64           `json:"average_resolution_minutes,omitempty"`
}

// SummaryResponse backs the dashboard cards.
type SummaryResponse struct {
	Total                int `json:"total"`
	Pending              int `json:"pending"`
	Investigating        int `json:"investigating"`
	Resolved             int `json:"resolved"`
	Active               int `json:"active"`
	AvailableTechnicians int `json:"available_technicians"`
	BusyTechnicians      int `json:"busy_technicians"`
}

// NewWorkloadResponses maps workload rows.
func NewWorkloadResponses(rows []domain.WorkloadStat) []WorkloadResponse {
	out := make([]WorkloadResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, WorkloadResponse{
			Technician:               NewTechnicianResponse(r.Technician),
			ActiveCount:              r.ActiveCount,
			ResolvedCount:            r.ResolvedCount,
			AverageResolutionMinutes: r.AverageResolutionMinutes,
		})
	}
	return out
}

// NewSummaryResponse maps the summary counters.
func NewSummaryResponse(s domain.ReportSummary) SummaryResponse {
	return SummaryResponse(s)
}
