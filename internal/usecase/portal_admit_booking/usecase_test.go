package portal_admit_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/scheduling"
	"github.com/m04kA/SMC-SchedulingService/internal/service/portal"
	"github.com/m04kA/SMC-SchedulingService/internal/testutil"
	"github.com/m04kA/SMC-SchedulingService/internal/usecase/admit_booking"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

func newUseCase(store *testutil.Store, now time.Time, metrics *testutil.Metrics) *UseCase {
	appointments := testutil.Appointments{Store: store}
	admission := admit_booking.NewUseCase(
		appointments,
		store,
		store,
		store,
		&testutil.TxManager{},
		scheduling.Settings{StepMinutes: 30, DefaultLocation: testutil.SalonZone},
		metrics,
		testutil.NopLogger{},
	).WithTimeProvider(testutil.Clock{At: now})

	gate := portal.NewService(store, store, appointments,
		testutil.Verifier{Sessions: testutil.CustomerSessions()}, testutil.NopLogger{})

	return NewUseCase(gate, admission, testutil.NopLogger{})
}

func portalBooking(start time.Time) *Request {
	return &Request{
		TenantToken:     testutil.PortalToken,
		SessionToken:    testutil.SessionToken,
		ServiceID:       testutil.ServiceID,
		EmployeeID:      testutil.ProviderID,
		Start:           start,
		DurationMinutes: 60,
		Price:           decimal.NewFromInt(1500),
	}
}

var sundayEve = testutil.At(2025, 4, 13, 20, 0)

func TestExecute_BooksWithCatalogSnapshot(t *testing.T) {
	store := testutil.Salon(domain.BookingPolicy{Mode: domain.BookingModeFixedHours})
	metrics := &testutil.Metrics{}
	req := portalBooking(testutil.At(2025, 4, 14, 14, 0))
	req.DurationMinutes = 15
	req.Price = decimal.NewFromInt(1)

	resp, err := newUseCase(store, sundayEve, metrics).Execute(context.Background(), req)

	require.NoError(t, err)
	assert.True(t, resp.Created)
	stored := store.Appointments[resp.AppointmentID]
	require.NotNil(t, stored)
	assert.Equal(t, testutil.CustomerID, stored.CustomerID)
	assert.Equal(t, 60, stored.DurationMinutes)
	assert.True(t, stored.TotalPrice.Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, []string{"portal/admitted"}, metrics.Admissions)
}

func TestExecute_SameRulesAsStaff(t *testing.T) {
	store := testutil.Salon(domain.BookingPolicy{Mode: domain.BookingModeFixedHours, MinHours: 2})
	store.AddAppointment(domain.Appointment{
		TenantID: testutil.TenantID, ProviderID: testutil.ProviderID, CustomerID: 31,
		StartAt: testutil.At(2025, 4, 14, 15, 0), DurationMinutes: 60,
	})
	uc := newUseCase(store, testutil.At(2025, 4, 14, 10, 0), &testutil.Metrics{})

	_, err := uc.Execute(context.Background(), portalBooking(testutil.At(2025, 4, 14, 11, 0)))
	var lte *scheduling.LeadTimeError
	assert.True(t, errors.As(err, &lte))
	assert.ErrorIs(t, err, ErrPastOrTooSoon)

	_, err = uc.Execute(context.Background(), portalBooking(testutil.At(2025, 4, 14, 15, 0)))
	assert.ErrorIs(t, err, ErrSlotTaken)

	_, err = uc.Execute(context.Background(), portalBooking(testutil.At(2025, 4, 14, 17, 30)))
	assert.ErrorIs(t, err, ErrOutsideWorkingHours)
}

func TestExecute_MovesOwnAppointment(t *testing.T) {
	store := testutil.Salon(domain.BookingPolicy{Mode: domain.BookingModeFixedHours})
	own := store.AddAppointment(domain.Appointment{
		TenantID: testutil.TenantID, ProviderID: testutil.ProviderID, CustomerID: testutil.CustomerID,
		StartAt: testutil.At(2025, 4, 14, 10, 0), DurationMinutes: 60,
	})
	req := portalBooking(testutil.At(2025, 4, 14, 16, 0))
	req.AppointmentID = ptr.Ptr(own.ID)

	resp, err := newUseCase(store, sundayEve, &testutil.Metrics{}).Execute(context.Background(), req)

	require.NoError(t, err)
	assert.False(t, resp.Created)
	assert.Equal(t, own.ID, resp.AppointmentID)
	assert.True(t, store.Appointments[own.ID].StartAt.Equal(testutil.At(2025, 4, 14, 16, 0)))
}

func TestExecute_Errors(t *testing.T) {
	store := testutil.Salon(domain.BookingPolicy{Mode: domain.BookingModeFixedHours})
	foreign := store.AddAppointment(domain.Appointment{
		TenantID: testutil.TenantID, ProviderID: testutil.ProviderID, CustomerID: 31,
		StartAt: testutil.At(2025, 4, 15, 10, 0), DurationMinutes: 60,
	})

	tests := []struct {
		name    string
		mutate  func(r *Request)
		wantErr error
	}{
		{name: "expired session", mutate: func(r *Request) { r.SessionToken = "expired" }, wantErr: ErrUnauthorized},
		{name: "other salon session", mutate: func(r *Request) { r.SessionToken = "foreign-session" }, wantErr: ErrUnauthorized},
		{name: "not a provider", mutate: func(r *Request) { r.EmployeeID = testutil.OtherStaff }, wantErr: ErrNotFound},
		{name: "someone else's appointment", mutate: func(r *Request) { r.AppointmentID = ptr.Ptr(foreign.ID) }, wantErr: ErrNotFound},
		{name: "zero duration", mutate: func(r *Request) { r.DurationMinutes = 0 }, wantErr: ErrInvalidInput},
		{name: "negative price", mutate: func(r *Request) { r.Price = decimal.NewFromInt(-5) }, wantErr: ErrInvalidInput},
		{name: "missing start", mutate: func(r *Request) { r.Start = time.Time{} }, wantErr: ErrInvalidInput},
		{name: "expired session with zero service", mutate: func(r *Request) { r.SessionToken = "expired"; r.ServiceID = 0 }, wantErr: ErrUnauthorized},
		{name: "expired session with zero duration", mutate: func(r *Request) { r.SessionToken = "expired"; r.DurationMinutes = 0 }, wantErr: ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := portalBooking(testutil.At(2025, 4, 14, 14, 0))
			tt.mutate(req)

			_, err := newUseCase(store, sundayEve, &testutil.Metrics{}).Execute(context.Background(), req)

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
