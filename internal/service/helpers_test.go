package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/interference-service/internal/domain"
	"github.com/spec-kit/interference-service/internal/events"
	"github.com/spec-kit/interference-service/internal/observability"
	"github.com/spec-kit/interference-service/internal/service"
	"github.com/spec-kit/interference-service/internal/store"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Minute)
	return c.now
}

type capturedEvents struct {
	mu     sync.Mutex
	events []events.Event
}

func (c *capturedEvents) handle(_ context.Context, e events.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
	return nil
}

func (c *capturedEvents) ofType(et events.EventType) []events.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []events.Event
	for _, e := range c.events {
		if e.Type == et {
			out = append(out, e)
		}
	}
	return out
}

func (c *capturedEvents) types() []events.EventType {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]events.EventType, 0, len(c.events))
	for _, e := range c.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	store       *store.Store
	reports     *service.ReportService
	lifecycle   *service.LifecycleService
	assignments *service.AssignmentService
	technicians *service.TechnicianService
	dashboard   *service.DashboardService
	metrics     *observability.Metrics
	events      *capturedEvents
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	c := &clock{now: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)}
	st := store.New(store.WithClock(c.Now))

	dispatcher := events.NewInMemoryDispatcher()
	captured := &capturedEvents{}
	dispatcher.SubscribeAll(captured.handle)

	deps := service.Dependencies{
		Store:      st,
		Validator:  service.NewValidator(),
		Dispatcher: dispatcher,
		Logger:     zap.NewNop(),
		Metrics:    observability.NewMetrics(),
	}
	return &fixture{
		store:       st,
		reports:     service.NewReportService(deps),
		lifecycle:   service.NewLifecycleService(deps),
		assignments: service.NewAssignmentService(deps),
		technicians: service.NewTechnicianService(deps),
		dashboard:   service.NewDashboardService(st, 0),
		metrics:     deps.Metrics,
		events:      captured,
	}
}

func ptr[T any](v T) *T {
	return &v
}

func tvInput() service.CreateReportInput {
	return service.CreateReportInput{
		ReporterName:     "Dana Reyes",
		Address:          "12 Harbour Road",
		PhoneNumber:      "+1 (555) 010-0100",
		Email:            "dana@example.com",
		ServiceType:      domain.ServiceTypeTV,
		ChannelAffected:  ptr("Channel 7"),
		InterferenceType: domain.InterferenceTVPixelation,
		Description:      "Picture breaks into blocks every evening",
		TimeObserved:     time.Date(2024, 2, 28, 19, 0, 0, 0, time.UTC),
	}
}

func internetInput() service.CreateReportInput {
	return service.CreateReportInput{
		ReporterName:     "Lee Park",
		Address:          "4 Mill Lane",
		PhoneNumber:      "555-0199",
		Email:            "lee@example.com",
		ServiceType:      domain.ServiceTypeInternet,
		InternetDetails:  &service.InternetDetailsInput{DownloadSpeed: ptr(3.5), PacketLoss: ptr(12.0), WifiAffected: true},
		InterferenceType: domain.InterferenceInternetSlow,
		Description:      "Connection crawls after sunset",
		TimeObserved:     time.Date(2024, 2, 28, 21, 0, 0, 0, time.UTC),
	}
}

func (f *fixture) createReport(t *testing.T) domain.Report {
	t.Helper()
	r, err := f.reports.CreateReport(context.Background(), "user-1", tvInput())
	require.NoError(t, err)
	return r
}

func (f *fixture) createTechnician(t *testing.T, name string) domain.Technician {
	t.Helper()
	tech, err := f.technicians.CreateTechnician(context.Background(), "user-1", service.CreateTechnicianInput{
		Name:           name,
		Specialization: "Signal",
		ContactNumber:  "555-0111",
		Email:          "tech@example.com",
	})
	require.NoError(t, err)
	return tech
}

func (f *fixture) technician(t *testing.T, id int64) domain.Technician {
	t.Helper()
	tech, err := f.technicians.GetTechnician(context.Background(), id)
	require.NoError(t, err)
	return tech
}
