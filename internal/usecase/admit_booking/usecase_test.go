package admit_booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SchedulingService/internal/scheduling"
	"github.com/m04kA/SMC-SchedulingService/internal/testutil"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
)

var sundayEve = testutil.At(2025, 4, 13, 20, 0)

type fixture struct {
	store   *testutil.Store
	tx      *testutil.TxManager
	metrics *testutil.Metrics
	uc      *UseCase
}

func newFixture(policy domain.BookingPolicy, now time.Time) *fixture {
	store := testutil.Salon(policy)
	f := &fixture{
		store:   store,
		tx:      &testutil.TxManager{},
		metrics: &testutil.Metrics{},
	}
	f.uc = NewUseCase(
		testutil.Appointments{Store: store},
		store,
		store,
		store,
		f.tx,
		scheduling.Settings{StepMinutes: 30, DefaultLocation: testutil.SalonZone},
		f.metrics,
		testutil.NopLogger{},
	).WithTimeProvider(testutil.Clock{At: now})
	return f
}

func fixedHours(h int) domain.BookingPolicy {
	return domain.BookingPolicy{Mode: domain.BookingModeFixedHours, MinHours: h}
}

func bookingAt(start time.Time) *Request {
	return &Request{
		TenantID:        testutil.TenantID,
		ProviderID:      testutil.ProviderID,
		ServiceID:       testutil.ServiceID,
		CustomerID:      testutil.CustomerID,
		Start:           start,
		DurationMinutes: 60,
		Price:           decimal.NewFromInt(1500),
		Surface:         domain.SurfaceStaff,
	}
}

func (f *fixture) book(start time.Time) *domain.Appointment {
	return f.store.AddAppointment(domain.Appointment{
		TenantID:        testutil.TenantID,
		ProviderID:      testutil.ProviderID,
		CustomerID:      testutil.CustomerID,
		StartAt:         start,
		DurationMinutes: 60,
		TotalPrice:      decimal.NewFromInt(1500),
		Items:           []domain.LineItem{{ServiceID: testutil.ServiceID, DurationMinutes: 60, Price: decimal.NewFromInt(1500)}},
	})
}

func TestExecute_CreatesPendingAppointment(t *testing.T) {
	f := newFixture(fixedHours(0), sundayEve)
	note := "first visit"
	req := bookingAt(testutil.At(2025, 4, 14, 11, 0))
	req.Note = &note

	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.True(t, resp.Created)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.True(t, resp.StartAt.Equal(testutil.At(2025, 4, 14, 11, 0)))
	assert.True(t, resp.EndAt.Equal(testutil.At(2025, 4, 14, 12, 0)))
	assert.True(t, resp.TotalPrice.Equal(decimal.NewFromInt(1500)))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, testutil.ServiceID, resp.Items[0].ServiceID)
	assert.Equal(t, &note, resp.Note)
	assert.Len(t, f.store.Appointments, 1)
	assert.Equal(t, 1, f.tx.Calls)
	assert.Equal(t, []string{"staff/admitted"}, f.metrics.Admissions)
}

func TestExecute_StartIsConvertedToSalonZone(t *testing.T) {
	f := newFixture(fixedHours(0), sundayEve)

	// 08:00 UTC = 11:00 в зоне салона
	resp, err := f.uc.Execute(context.Background(), bookingAt(time.Date(2025, 4, 14, 8, 0, 0, 0, time.UTC)))

	require.NoError(t, err)
	assert.Equal(t, 11, resp.StartAt.In(testutil.SalonZone).Hour())
}

func TestExecute_SlotTaken(t *testing.T) {
	f := newFixture(fixedHours(0), sundayEve)
	f.store.AddAppointment(domain.Appointment{
		TenantID: testutil.TenantID, ProviderID: testutil.ProviderID, CustomerID: 31,
		StartAt: testutil.At(2025, 4, 14, 10, 30), DurationMinutes: 60,
	})

	_, err := f.uc.Execute(context.Background(), bookingAt(testutil.At(2025, 4, 14, 11, 0)))

	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Equal(t, []string{"staff/slot_taken"}, f.metrics.Admissions)
}

func TestExecute_TouchingAppointmentIsFree(t *testing.T) {
	f := newFixture(fixedHours(0), sundayEve)
	f.book(testutil.At(2025, 4, 14, 10, 0))

	_, err := f.uc.Execute(context.Background(), bookingAt(testutil.At(2025, 4, 14, 11, 0)))

	assert.NoError(t, err)
}

func TestExecute_LeadTime(t *testing.T) {
	t.Run("too soon names the policy", func(t *testing.T) {
		f := newFixture(fixedHours(2), testutil.At(2025, 4, 14, 10, 0))

		_, err := f.uc.Execute(context.Background(), bookingAt(testutil.At(2025, 4, 14, 11, 0)))

		require.ErrorIs(t, err, ErrPastOrTooSoon)
		var lte *scheduling.LeadTimeError
		require.True(t, errors.As(err, &lte))
		assert.Equal(t, 2, lte.MinHours)
		assert.False(t, lte.InPast)
		assert.Contains(t, err.Error(), "2 hour")
		assert.Equal(t, []string{"staff/too_soon"}, f.metrics.Admissions)
	})

	t.Run("exactly at threshold", func(t *testing.T) {
		f := newFixture(fixedHours(2), testutil.At(2025, 4, 14, 8, 59))

		_, err := f.uc.Execute(context.Background(), bookingAt(testutil.At(2025, 4, 14, 11, 0)))

		assert.NoError(t, err)
	})

	t.Run("in the past", func(t *testing.T) {
		f := newFixture(fixedHours(0), testutil.At(2025, 4, 14, 12, 0))

		_, err := f.uc.Execute(context.Background(), bookingAt(testutil.At(2025, 4, 14, 11, 0)))

		var lte *scheduling.LeadTimeError
		require.True(t, errors.As(err, &lte))
		assert.True(t, lte.InPast)
	})

	t.Run("next day only", func(t *testing.T) {
		f := newFixture(domain.BookingPolicy{Mode: domain.BookingModeNextDayOnly}, testutil.At(2025, 4, 14, 7, 0))

		_, err := f.uc.Execute(context.Background(), bookingAt(testutil.At(2025, 4, 14, 17, 0)))
		assert.ErrorIs(t, err, ErrPastOrTooSoon)

		_, err = f.uc.Execute(context.Background(), bookingAt(testutil.At(2025, 4, 15, 9, 0)))
		assert.NoError(t, err)
	})
}

func TestExecute_OutsideWorkingHours(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
	}{
		{name: "before opening", start: testutil.At(2025, 4, 14, 8, 30)},
		{name: "ends after closing", start: testutil.At(2025, 4, 14, 17, 30)},
		{name: "crosses break", start: testutil.At(2025, 4, 14, 11, 30)},
		{name: "rest day", start: testutil.At(2025, 4, 20, 10, 0)},
		{name: "crosses midnight", start: testutil.At(2025, 4, 14, 23, 30)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(fixedHours(0), sundayEve)

			_, err := f.uc.Execute(context.Background(), bookingAt(tt.start))

			assert.ErrorIs(t, err, ErrOutsideWorkingHours)
			assert.Empty(t, f.store.Appointments)
		})
	}
}

func TestExecute_EditKeepingTimeIsExemptFromLeadTime(t *testing.T) {
	f := newFixture(fixedHours(4), testutil.At(2025, 4, 14, 10, 30))
	own := f.book(testutil.At(2025, 4, 14, 11, 0))
	note := "bring photos"

	req := bookingAt(own.StartAt)
	req.AppointmentID = ptr.Ptr(own.ID)
	req.Note = &note
	req.Price = decimal.NewFromInt(1800)

	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.False(t, resp.Created)
	assert.Equal(t, own.ID, resp.ID)
	assert.True(t, resp.TotalPrice.Equal(decimal.NewFromInt(1800)))
	assert.Equal(t, "bring photos", *f.store.Appointments[own.ID].Note)
	require.Len(t, f.store.Appointments[own.ID].Items, 1)
	assert.True(t, f.store.Appointments[own.ID].Items[0].Price.Equal(decimal.NewFromInt(1800)))
}

func TestExecute_EditChangingTimeIsCheckedAgainstLeadTime(t *testing.T) {
	f := newFixture(fixedHours(4), testutil.At(2025, 4, 14, 10, 30))
	own := f.book(testutil.At(2025, 4, 14, 11, 0))

	req := bookingAt(testutil.At(2025, 4, 14, 13, 0))
	req.AppointmentID = ptr.Ptr(own.ID)

	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrPastOrTooSoon)
}

func TestExecute_EditDoesNotCollideWithItself(t *testing.T) {
	f := newFixture(fixedHours(0), sundayEve)
	own := f.book(testutil.At(2025, 4, 14, 10, 0))

	req := bookingAt(testutil.At(2025, 4, 14, 10, 30))
	req.AppointmentID = ptr.Ptr(own.ID)

	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.True(t, resp.StartAt.Equal(testutil.At(2025, 4, 14, 10, 30)))
	assert.True(t, f.store.Appointments[own.ID].EndAt.Equal(testutil.At(2025, 4, 14, 11, 30)))
}

func TestExecute_EditRejectsTerminalAppointments(t *testing.T) {
	for _, status := range []domain.AppointmentStatus{domain.StatusCancelled, domain.StatusCompleted} {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture(fixedHours(0), sundayEve)
			own := f.book(testutil.At(2025, 4, 14, 10, 0))
			f.store.Appointments[own.ID].Status = status

			req := bookingAt(testutil.At(2025, 4, 14, 14, 0))
			req.AppointmentID = ptr.Ptr(own.ID)

			_, err := f.uc.Execute(context.Background(), req)

			assert.ErrorIs(t, err, ErrAppointmentNotEditable)
		})
	}
}

func TestExecute_EditUnknownAppointment(t *testing.T) {
	f := newFixture(fixedHours(0), sundayEve)
	req := bookingAt(testutil.At(2025, 4, 14, 14, 0))
	req.AppointmentID = ptr.Ptr(int64(404))

	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestExecute_ProfessionalCannotMoveForeignAppointment(t *testing.T) {
	f := newFixture(fixedHours(0), sundayEve)
	const secondProvider int64 = 12
	f.store.Employees[secondProvider] = &domain.Employee{
		ID: secondProvider, TenantID: testutil.TenantID, Name: "Olga", IsProvider: true, IsActive: true,
	}
	existing := f.book(testutil.At(2025, 4, 14, 10, 0))

	req := bookingAt(testutil.At(2025, 4, 14, 14, 0))
	req.ProviderID = secondProvider
	req.AppointmentID = &existing.ID
	req.Surface = domain.SurfaceProfessional

	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrAppointmentNotFound)
	stored, getErr := f.store.GetAppointment(context.Background(), testutil.TenantID, existing.ID)
	require.NoError(t, getErr)
	assert.Equal(t, testutil.ProviderID, stored.ProviderID)
}

func TestExecute_ConcurrentWriteRejectedByStorage(t *testing.T) {
	f := newFixture(fixedHours(0), sundayEve)
	// Другая транзакция успевает записать пересекающийся интервал после проверки
	f.store.BeforeWrite = func(s *testutil.Store) {
		s.BeforeWrite = nil
		s.AddAppointment(domain.Appointment{
			TenantID: testutil.TenantID, ProviderID: testutil.ProviderID, CustomerID: 31,
			StartAt: testutil.At(2025, 4, 14, 11, 30), DurationMinutes: 30,
		})
	}

	_, err := f.uc.Execute(context.Background(), bookingAt(testutil.At(2025, 4, 14, 11, 0)))

	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Equal(t, []string{"staff/slot_taken"}, f.metrics.Admissions)
}

func TestExecute_SerializationFailureIsSlotTaken(t *testing.T) {
	f := newFixture(fixedHours(0), sundayEve)
	f.tx.CommitErr = fmt.Errorf("%w: pq: could not serialize access", txmanager.ErrSerializationFailure)

	_, err := f.uc.Execute(context.Background(), bookingAt(testutil.At(2025, 4, 14, 11, 0)))

	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestExecute_ConcurrentAdmissionsAdmitExactlyOne(t *testing.T) {
	f := newFixture(fixedHours(0), sundayEve)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := bookingAt(testutil.At(2025, 4, 14, 14, 0))
			req.CustomerID = int64(100 + i)
			_, errs[i] = f.uc.Execute(context.Background(), req)
		}(i)
	}
	wg.Wait()

	admitted := 0
	for _, err := range errs {
		if err == nil {
			admitted++
			continue
		}
		assert.ErrorIs(t, err, ErrSlotTaken)
	}
	assert.Equal(t, 1, admitted)
}

func TestExecute_CatalogChecks(t *testing.T) {
	t.Run("inactive service", func(t *testing.T) {
		f := newFixture(fixedHours(0), sundayEve)
		f.store.Services[testutil.ServiceID].IsActive = false

		_, err := f.uc.Execute(context.Background(), bookingAt(testutil.At(2025, 4, 14, 11, 0)))
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("employee is not a provider", func(t *testing.T) {
		f := newFixture(fixedHours(0), sundayEve)
		req := bookingAt(testutil.At(2025, 4, 14, 11, 0))
		req.ProviderID = testutil.OtherStaff

		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrProviderNotFound)
	})

	t.Run("unknown tenant", func(t *testing.T) {
		f := newFixture(fixedHours(0), sundayEve)
		req := bookingAt(testutil.At(2025, 4, 14, 11, 0))
		req.TenantID = 404

		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrTenantNotFound)
	})
}

func TestExecute_DatastoreFailure(t *testing.T) {
	f := newFixture(fixedHours(0), sundayEve)
	f.store.Err = errors.New("connection reset")

	_, err := f.uc.Execute(context.Background(), bookingAt(testutil.At(2025, 4, 14, 11, 0)))

	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, []string{"staff/error"}, f.metrics.Admissions)
}

func TestExecute_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Request)
	}{
		{name: "zero duration", mutate: func(r *Request) { r.DurationMinutes = 0 }},
		{name: "negative price", mutate: func(r *Request) { r.Price = decimal.NewFromInt(-1) }},
		{name: "missing start", mutate: func(r *Request) { r.Start = time.Time{} }},
		{name: "missing customer", mutate: func(r *Request) { r.CustomerID = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(fixedHours(0), sundayEve)
			req := bookingAt(testutil.At(2025, 4, 14, 11, 0))
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)

			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, []string{"staff/rejected"}, f.metrics.Admissions)
		})
	}
}

// racingAppointments отдает ошибку, которую репозиторий возвращает при 40001 внутри транзакции
type racingAppointments struct {
	testutil.Appointments
	listErr    error
	replaceErr error
}

func (r racingAppointments) List(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.Appointments.List(ctx, filter)
}

func (r racingAppointments) ReplaceItems(ctx context.Context, appointmentID int64, items []domain.LineItem) ([]domain.LineItem, error) {
	if r.replaceErr != nil {
		return nil, r.replaceErr
	}
	return r.Appointments.ReplaceItems(ctx, appointmentID, items)
}

func TestExecute_SerializationFailureInsideTransactionIsSlotTaken(t *testing.T) {
	serializationFailure := fmt.Errorf("%w: List - execute query: %v",
		appointmentRepo.ErrSlotConflict, &pq.Error{Code: "40001", Message: "could not serialize access due to concurrent update"})

	tests := []struct {
		name string
		repo func(store *testutil.Store) racingAppointments
		edit bool
	}{
		{
			name: "re-read of the provider day",
			repo: func(store *testutil.Store) racingAppointments {
				return racingAppointments{Appointments: testutil.Appointments{Store: store}, listErr: serializationFailure}
			},
		},
		{
			name: "replacing items of a moved appointment",
			repo: func(store *testutil.Store) racingAppointments {
				return racingAppointments{Appointments: testutil.Appointments{Store: store}, replaceErr: serializationFailure}
			},
			edit: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(fixedHours(0), sundayEve)
			metrics := &testutil.Metrics{}
			uc := NewUseCase(
				tt.repo(f.store),
				f.store,
				f.store,
				f.store,
				f.tx,
				scheduling.Settings{StepMinutes: 30, DefaultLocation: testutil.SalonZone},
				metrics,
				testutil.NopLogger{},
			).WithTimeProvider(testutil.Clock{At: sundayEve})

			req := bookingAt(testutil.At(2025, 4, 14, 14, 0))
			if tt.edit {
				own := f.book(testutil.At(2025, 4, 14, 10, 0))
				req.AppointmentID = ptr.Ptr(own.ID)
			}

			_, err := uc.Execute(context.Background(), req)

			require.ErrorIs(t, err, ErrSlotTaken)
			assert.NotErrorIs(t, err, ErrInternal)
			assert.Equal(t, []string{"staff/slot_taken"}, metrics.Admissions)
		})
	}
}
