package domain

// WorkloadStat summarises the reports assigned to one technician.
type WorkloadStat struct {
	Technician    Technician
	ActiveCount   int
	ResolvedCount int
	// AverageResolutionMinutes is nil when the technician has no resolved
	// report carrying both an assignment and a resolution time.
	AverageResolutionMinutes *float64
}

// ReportSummary backs the dashboard counters.
type ReportSummary struct {
	Total                int
	Pending              int
	Investigating        int
	Resolved             int
	Active               int
	AvailableTechnicians int
	BusyTechnicians      int
}
