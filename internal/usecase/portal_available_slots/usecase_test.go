package portal_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/scheduling"
	"github.com/m04kA/SMC-SchedulingService/internal/service/portal"
	"github.com/m04kA/SMC-SchedulingService/internal/testutil"
	"github.com/m04kA/SMC-SchedulingService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

var monday = time.Date(2025, 4, 14, 0, 0, 0, 0, time.UTC)

func newUseCases(store *testutil.Store, now time.Time) (*UseCase, *get_available_slots.UseCase) {
	availability := get_available_slots.NewUseCase(
		store,
		store,
		testutil.Appointments{Store: store},
		store,
		scheduling.Settings{StepMinutes: 30, DefaultLocation: testutil.SalonZone},
		&testutil.Metrics{},
		testutil.NopLogger{},
	).WithTimeProvider(testutil.Clock{At: now})

	gate := portal.NewService(store, store, testutil.Appointments{Store: store},
		testutil.Verifier{Sessions: testutil.CustomerSessions()}, testutil.NopLogger{})

	return NewUseCase(gate, availability, testutil.NopLogger{}), availability
}

func portalRequest() *Request {
	return &Request{
		TenantToken:  testutil.PortalToken,
		SessionToken: testutil.SessionToken,
		ServiceID:    testutil.ServiceID,
		EmployeeID:   testutil.ProviderID,
		Date:         monday,
	}
}

func TestExecute_MatchesStaffSurface(t *testing.T) {
	policies := []domain.BookingPolicy{
		{Mode: domain.BookingModeFixedHours, MinHours: 0},
		{Mode: domain.BookingModeFixedHours, MinHours: 3},
		{Mode: domain.BookingModeNextDayOnly},
	}
	nows := []time.Time{
		testutil.At(2025, 4, 13, 20, 0),
		testutil.At(2025, 4, 14, 8, 0),
		testutil.At(2025, 4, 14, 10, 59),
		testutil.At(2025, 4, 14, 15, 30),
	}

	for _, policy := range policies {
		for _, now := range nows {
			name := string(policy.Mode) + "/" + now.Format("15:04")
			t.Run(name, func(t *testing.T) {
				store := testutil.Salon(policy)
				store.AddAppointment(domain.Appointment{
					TenantID: testutil.TenantID, ProviderID: testutil.ProviderID, CustomerID: 31,
					StartAt: testutil.At(2025, 4, 14, 10, 0), DurationMinutes: 60,
				})
				uc, staff := newUseCases(store, now)

				fromPortal, err := uc.Execute(context.Background(), portalRequest())
				require.NoError(t, err)

				fromStaff, err := staff.Execute(context.Background(), &get_available_slots.Request{
					TenantID:   testutil.TenantID,
					ProviderID: testutil.ProviderID,
					ServiceID:  ptr.Ptr(testutil.ServiceID),
					Date:       monday,
					Surface:    domain.SurfaceStaff,
				})
				require.NoError(t, err)

				assert.Equal(t, fromStaff.Slots, fromPortal.Slots)
			})
		}
	}
}

func TestExecute_EditOwnAppointment(t *testing.T) {
	store := testutil.Salon(domain.BookingPolicy{Mode: domain.BookingModeFixedHours, MinHours: 4})
	own := store.AddAppointment(domain.Appointment{
		TenantID: testutil.TenantID, ProviderID: testutil.ProviderID, CustomerID: testutil.CustomerID,
		StartAt: testutil.At(2025, 4, 14, 11, 0), DurationMinutes: 60,
	})
	uc, _ := newUseCases(store, testutil.At(2025, 4, 14, 10, 0))

	req := portalRequest()
	req.AppointmentID = ptr.Ptr(own.ID)
	resp, err := uc.Execute(context.Background(), req)

	require.NoError(t, err)
	require.NotEmpty(t, resp.Slots)
	assert.Equal(t, "11:00", resp.Slots[0].String())
}

func TestExecute_Errors(t *testing.T) {
	store := testutil.Salon(domain.BookingPolicy{Mode: domain.BookingModeFixedHours})
	foreign := store.AddAppointment(domain.Appointment{
		TenantID: testutil.TenantID, ProviderID: testutil.ProviderID, CustomerID: 31,
		StartAt: testutil.At(2025, 4, 14, 11, 0), DurationMinutes: 60,
	})

	tests := []struct {
		name    string
		mutate  func(r *Request)
		wantErr error
	}{
		{name: "bad session", mutate: func(r *Request) { r.SessionToken = "expired" }, wantErr: ErrUnauthorized},
		{name: "bad tenant token", mutate: func(r *Request) { r.TenantToken = "other" }, wantErr: ErrUnauthorized},
		{name: "not a provider", mutate: func(r *Request) { r.EmployeeID = testutil.OtherStaff }, wantErr: ErrNotFound},
		{name: "unknown service", mutate: func(r *Request) { r.ServiceID = 999 }, wantErr: ErrNotFound},
		{name: "someone else's appointment", mutate: func(r *Request) { r.AppointmentID = ptr.Ptr(foreign.ID) }, wantErr: ErrNotFound},
		{name: "missing date", mutate: func(r *Request) { r.Date = time.Time{} }, wantErr: ErrInvalidInput},
		{name: "missing employee", mutate: func(r *Request) { r.EmployeeID = 0 }, wantErr: ErrInvalidInput},
		{name: "bad session with zero service", mutate: func(r *Request) { r.SessionToken = "expired"; r.ServiceID = 0 }, wantErr: ErrUnauthorized},
		{name: "bad tenant token without date", mutate: func(r *Request) { r.TenantToken = "other"; r.Date = time.Time{} }, wantErr: ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _ := newUseCases(store, testutil.At(2025, 4, 13, 20, 0))
			req := portalRequest()
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req)

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
