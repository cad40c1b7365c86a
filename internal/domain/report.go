package domain

import "time"

// ServiceType identifies which service the interference affects.
type ServiceType string

const (
	ServiceTypeTV       ServiceType = "TV"
	ServiceTypeInternet ServiceType = "INTERNET"
	ServiceTypeBoth     ServiceType = "BOTH"
)

// AffectsTV reports whether the service type covers television.
func (s ServiceType) AffectsTV() bool {
	return s == ServiceTypeTV || s == ServiceTypeBoth
}

// AffectsInternet reports whether the service type covers internet access.
func (s ServiceType) AffectsInternet() bool {
	return s == ServiceTypeInternet || s == ServiceTypeBoth
}

// InterferenceType enumerates the observed symptom.
type InterferenceType string

const (
	InterferenceTVSignalLoss         InterferenceType = "TV_SIGNAL_LOSS"
	InterferenceTVDistortion         InterferenceType = "TV_DISTORTION"
	InterferenceTVAudioIssues        InterferenceType = "TV_AUDIO_ISSUES"
	InterferenceTVChannelFreezing    InterferenceType = "TV_CHANNEL_FREEZING"
	InterferenceTVPixelation         InterferenceType = "TV_PIXELATION"
	InterferenceInternetSlow         InterferenceType = "INTERNET_SLOW"
	InterferenceInternetIntermittent InterferenceType = "INTERNET_INTERMITTENT"
	InterferenceInternetNoConnection InterferenceType = "INTERNET_NO_CONNECTION"
	InterferenceInternetHighLatency  InterferenceType = "INTERNET_HIGH_LATENCY"
	InterferenceOther                InterferenceType = "OTHER"
)

var tvInterference = map[InterferenceType]struct{}{
	InterferenceTVSignalLoss:      {},
	InterferenceTVDistortion:      {},
	InterferenceTVAudioIssues:     {},
	InterferenceTVChannelFreezing: {},
	InterferenceTVPixelation:      {},
}

var internetInterference = map[InterferenceType]struct{}{
	InterferenceInternetSlow:         {},
	InterferenceInternetIntermittent: {},
	InterferenceInternetNoConnection: {},
	InterferenceInternetHighLatency:  {},
}

// IsTV reports whether the type belongs to the television subset.
func (t InterferenceType) IsTV() bool {
	_, ok := tvInterference[t]
	return ok
}

// IsInternet reports whether the type belongs to the internet subset.
func (t InterferenceType) IsInternet() bool {
	_, ok := internetInterference[t]
	return ok
}

// CompatibleWith reports whether the symptom can occur on the given service.
func (t InterferenceType) CompatibleWith(s ServiceType) bool {
	switch {
	case t == InterferenceOther:
		return true
	case t.IsTV():
		return s.AffectsTV()
	case t.IsInternet():
		return s.AffectsInternet()
	default:
		return false
	}
}

// ReportStatus enumerates lifecycle states for reports.
type ReportStatus string

const (
	ReportStatusPending       ReportStatus = "pending"
	ReportStatusInvestigating ReportStatus = "investigating"
	ReportStatusResolved      ReportStatus = "resolved"
)

// Next returns the following status in the pending -> investigating -> resolved -> pending cycle.
func (s ReportStatus) Next() ReportStatus {
	switch s {
	case ReportStatusPending:
		return ReportStatusInvestigating
	case ReportStatusInvestigating:
		return ReportStatusResolved
	default:
		return ReportStatusPending
	}
}

// InternetDetails carries line measurements for internet reports.
type InternetDetails struct {
	DownloadSpeed    *float64
	UploadSpeed      *float64
	Latency          *float64
	PacketLoss       *float64
	RouterModel      *string
	ModemModel       *string
	WifiAffected     bool
	EthernetAffected bool
}

// Report is the aggregate for a single interference incident.
type Report struct {
	ID                   int64
	ReporterName         string
	Address              string
	PhoneNumber          string
	Email                string
	ServiceType          ServiceType
	ChannelAffected      *string
	InternetDetails      *InternetDetails
	InterferenceType     InterferenceType
	Description          string
	TimeObserved         time.Time
	Status               ReportStatus
	AssignedTechnicianID *int64
	AssignedAt           *time.Time
	TechnicianNotes      *string
	ResolvedAt           *time.Time
	Version              int64
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// IsAssigned reports whether a technician currently holds the report.
func (r *Report) IsAssigned() bool {
	return r.AssignedTechnicianID != nil
}

// IsResolved reports whether the report is in the resolved state.
func (r *Report) IsResolved() bool {
	return r.Status == ReportStatusResolved
}

// Clone returns a deep copy so callers never share pointers with the store.
func (r Report) Clone() Report {
	out := r
	out.ChannelAffected = cloneString(r.ChannelAffected)
	out.AssignedTechnicianID = cloneInt64(r.AssignedTechnicianID)
	out.AssignedAt = cloneTime(r.AssignedAt)
	out.TechnicianNotes = cloneString(r.TechnicianNotes)
	out.ResolvedAt = cloneTime(r.ResolvedAt)
	if r.InternetDetails != nil {
		d := *r.InternetDetails
		d.DownloadSpeed = cloneFloat(d.DownloadSpeed)
		d.UploadSpeed = cloneFloat(d.UploadSpeed)
		d.Latency = cloneFloat(d.Latency)
		d.PacketLoss = cloneFloat(d.PacketLoss)
		d.RouterModel = cloneString(d.RouterModel)
		d.ModemModel = cloneString(d.ModemModel)
		out.InternetDetails = &d
	}
	return out
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
