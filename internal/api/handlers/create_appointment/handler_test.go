package create_appointment

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/scheduling"
	"github.com/m04kA/SMC-SchedulingService/internal/testutil"
	admitBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/admit_booking"
)

var staff = domain.StaffIdentity{TenantID: testutil.TenantID, EmployeeID: 2, Role: domain.RoleStaff}

func newHandler(store *testutil.Store, now time.Time) *Handler {
	uc := admitBooking.NewUseCase(
		testutil.Appointments{Store: store},
		store,
		store,
		store,
		&testutil.TxManager{},
		scheduling.Settings{StepMinutes: 30, DefaultLocation: testutil.SalonZone},
		&testutil.Metrics{},
		testutil.NopLogger{},
	).WithTimeProvider(testutil.Clock{At: now})
	return NewHandler(uc, testutil.NopLogger{})
}

func post(h *Handler, identity *domain.StaffIdentity, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", bytes.NewBufferString(body))
	if identity != nil {
		req = req.WithContext(middleware.WithStaffIdentity(req.Context(), *identity))
	}
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

const elevenOClock = `{"providerId":10,"serviceId":20,"customerId":30,"start":"2025-04-14T11:00:00+03:00","durationMinutes":60,"price":"1500.00"}`

func TestHandle_Created(t *testing.T) {
	store := testutil.Salon(domain.BookingPolicy{Mode: domain.BookingModeFixedHours})

	rec := post(newHandler(store, testutil.At(2025, 4, 13, 20, 0)), &staff, elevenOClock)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2025-04-14", resp.Date)
	assert.Equal(t, "11:00", resp.StartTime)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "1500", resp.TotalPrice.String())
	require.Len(t, resp.Items, 1)
	assert.Equal(t, testutil.ServiceID, resp.Items[0].ServiceID)
}

func TestHandle_SlotTaken(t *testing.T) {
	store := testutil.Salon(domain.BookingPolicy{Mode: domain.BookingModeFixedHours})
	h := newHandler(store, testutil.At(2025, 4, 13, 20, 0))

	require.Equal(t, http.StatusCreated, post(h, &staff, elevenOClock).Code)
	rec := post(h, &staff, elevenOClock)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandle_TooSoon(t *testing.T) {
	store := testutil.Salon(domain.BookingPolicy{Mode: domain.BookingModeFixedHours, MinHours: 2})

	rec := post(newHandler(store, testutil.At(2025, 4, 14, 10, 0)), &staff, elevenOClock)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "запись возможна не позднее чем за 2 ч. до начала", resp.Message)
}

func TestHandle_Rejections(t *testing.T) {
	otherPro := domain.StaffIdentity{TenantID: testutil.TenantID, EmployeeID: 12, Role: domain.RoleProfessional}

	tests := []struct {
		name     string
		identity *domain.StaffIdentity
		body     string
		wantCode int
	}{
		{name: "no identity", body: elevenOClock, wantCode: http.StatusUnauthorized},
		{name: "professional for another provider", identity: &otherPro, body: elevenOClock, wantCode: http.StatusForbidden},
		{name: "unknown field", identity: &staff, body: `{"providerId":10,"bogus":1}`, wantCode: http.StatusBadRequest},
		{name: "start without zone", identity: &staff, body: `{"providerId":10,"serviceId":20,"customerId":30,"start":"2025-04-14 11:00","durationMinutes":60,"price":"1500"}`, wantCode: http.StatusBadRequest},
		{name: "outside working hours", identity: &staff, body: `{"providerId":10,"serviceId":20,"customerId":30,"start":"2025-04-14T17:30:00+03:00","durationMinutes":60,"price":"1500"}`, wantCode: http.StatusBadRequest},
		{name: "unknown service", identity: &staff, body: `{"providerId":10,"serviceId":99,"customerId":30,"start":"2025-04-14T11:00:00+03:00","durationMinutes":60,"price":"1500"}`, wantCode: http.StatusNotFound},
		{name: "zero duration", identity: &staff, body: `{"providerId":10,"serviceId":20,"customerId":30,"start":"2025-04-14T11:00:00+03:00","durationMinutes":0,"price":"1500"}`, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.Salon(domain.BookingPolicy{Mode: domain.BookingModeFixedHours})

			rec := post(newHandler(store, testutil.At(2025, 4, 13, 20, 0)), tt.identity, tt.body)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Empty(t, store.Appointments)
		})
	}
}
