package appointments

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/scheduling"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
	"github.com/m04kA/SMC-SchedulingService/internal/testutil"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

var (
	admin = domain.StaffIdentity{TenantID: testutil.TenantID, EmployeeID: 1, Role: domain.RoleAdmin}
	pro   = domain.StaffIdentity{TenantID: testutil.TenantID, EmployeeID: testutil.ProviderID, Role: domain.RoleProfessional}
	other = domain.StaffIdentity{TenantID: testutil.TenantID, EmployeeID: 12, Role: domain.RoleProfessional}
)

func newService(t *testing.T) (*Service, *testutil.Store, *domain.Appointment) {
	t.Helper()
	store := testutil.Salon(domain.BookingPolicy{Mode: domain.BookingModeFixedHours})
	a := store.AddAppointment(domain.Appointment{
		TenantID: testutil.TenantID, ProviderID: testutil.ProviderID, CustomerID: testutil.CustomerID,
		StartAt: testutil.At(2025, 4, 14, 10, 0), DurationMinutes: 60,
	})
	svc := NewService(
		testutil.Appointments{Store: store},
		store,
		&testutil.TxManager{},
		scheduling.Settings{DefaultLocation: testutil.SalonZone},
		testutil.NopLogger{},
	)
	return svc, store, a
}

func TestGetByID(t *testing.T) {
	svc, _, a := newService(t)

	resp, err := svc.GetByID(context.Background(), admin, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-04-14", resp.Date)
	assert.Equal(t, "10:00", resp.StartTime)
	assert.Equal(t, "pending", resp.Status)

	_, err = svc.GetByID(context.Background(), pro, a.ID)
	assert.NoError(t, err)

	_, err = svc.GetByID(context.Background(), other, a.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetByID(context.Background(), admin, 999)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	foreignTenant := admin
	foreignTenant.TenantID = 2
	_, err = svc.GetByID(context.Background(), foreignTenant, a.ID)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestList(t *testing.T) {
	svc, store, _ := newService(t)
	cancelled := store.AddAppointment(domain.Appointment{
		TenantID: testutil.TenantID, ProviderID: testutil.ProviderID, CustomerID: 31,
		StartAt: testutil.At(2025, 4, 14, 14, 0), DurationMinutes: 60, Status: domain.StatusCancelled,
	})
	store.AddAppointment(domain.Appointment{
		TenantID: testutil.TenantID, ProviderID: 12, CustomerID: 32,
		StartAt: testutil.At(2025, 4, 14, 15, 0), DurationMinutes: 60,
	})

	day := &models.ListRequest{
		Identity: admin,
		From:     testutil.At(2025, 4, 14, 0, 0),
		To:       testutil.At(2025, 4, 15, 0, 0),
	}

	resp, err := svc.List(context.Background(), day)
	require.NoError(t, err)
	assert.Len(t, resp.Appointments, 2)

	withCancelled := *day
	withCancelled.IncludeCancelled = true
	resp, err = svc.List(context.Background(), &withCancelled)
	require.NoError(t, err)
	assert.Len(t, resp.Appointments, 3)
	ids := make([]int64, 0, 3)
	for _, a := range resp.Appointments {
		ids = append(ids, a.ID)
	}
	assert.Contains(t, ids, cancelled.ID)

	ownOnly := *day
	ownOnly.Identity = pro
	resp, err = svc.List(context.Background(), &ownOnly)
	require.NoError(t, err)
	require.Len(t, resp.Appointments, 1)
	assert.Equal(t, testutil.ProviderID, resp.Appointments[0].ProviderID)

	foreign := *day
	foreign.Identity = pro
	foreign.ProviderID = ptr.Ptr(int64(12))
	_, err = svc.List(context.Background(), &foreign)
	assert.ErrorIs(t, err, ErrAccessDenied)

	inverted := *day
	inverted.From, inverted.To = day.To, day.From
	_, err = svc.List(context.Background(), &inverted)
	assert.ErrorIs(t, err, ErrInvalidInput)

	tooLong := *day
	tooLong.To = day.From.AddDate(0, 2, 0)
	_, err = svc.List(context.Background(), &tooLong)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateStatus(t *testing.T) {
	tests := []struct {
		name     string
		initial  domain.AppointmentStatus
		identity domain.StaffIdentity
		next     string
		wantErr  error
	}{
		{name: "confirm", initial: domain.StatusPending, identity: admin, next: "confirmed"},
		{name: "professional completes own", initial: domain.StatusConfirmed, identity: pro, next: "completed"},
		{name: "cancel confirmed", initial: domain.StatusConfirmed, identity: admin, next: "cancelled"},
		{name: "cancelled is terminal", initial: domain.StatusCancelled, identity: admin, next: "pending", wantErr: ErrInvalidTransition},
		{name: "completed is terminal", initial: domain.StatusCompleted, identity: admin, next: "cancelled", wantErr: ErrInvalidTransition},
		{name: "no way back", initial: domain.StatusConfirmed, identity: admin, next: "pending", wantErr: ErrInvalidTransition},
		{name: "unknown status", initial: domain.StatusPending, identity: admin, next: "no_show", wantErr: ErrInvalidInput},
		{name: "someone else's appointment", initial: domain.StatusPending, identity: other, next: "confirmed", wantErr: ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, a := newService(t)
			store.Appointments[a.ID].Status = tt.initial

			resp, err := svc.UpdateStatus(context.Background(), a.ID, &models.UpdateStatusRequest{
				Identity: tt.identity,
				Status:   tt.next,
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.initial, store.Appointments[a.ID].Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.next, resp.Status)
			assert.Equal(t, domain.AppointmentStatus(tt.next), store.Appointments[a.ID].Status)
		})
	}
}
