package list_appointments

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/scheduling"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
	"github.com/m04kA/SMC-SchedulingService/internal/testutil"
)

var staff = domain.StaffIdentity{TenantID: testutil.TenantID, EmployeeID: 2, Role: domain.RoleStaff}

func setup() *Handler {
	store := testutil.Salon(domain.BookingPolicy{Mode: domain.BookingModeFixedHours})
	store.AddAppointment(domain.Appointment{
		TenantID: testutil.TenantID, ProviderID: testutil.ProviderID, CustomerID: testutil.CustomerID,
		StartAt: testutil.At(2025, 4, 14, 10, 0), DurationMinutes: 60,
	})
	store.AddAppointment(domain.Appointment{
		TenantID: testutil.TenantID, ProviderID: testutil.ProviderID, CustomerID: testutil.CustomerID,
		StartAt: testutil.At(2025, 4, 14, 15, 0), DurationMinutes: 60, Status: domain.StatusCancelled,
	})
	store.AddAppointment(domain.Appointment{
		TenantID: testutil.TenantID, ProviderID: testutil.ProviderID, CustomerID: testutil.CustomerID,
		StartAt: testutil.At(2025, 4, 16, 10, 0), DurationMinutes: 60,
	})

	svc := appointments.NewService(
		testutil.Appointments{Store: store},
		store,
		&testutil.TxManager{},
		scheduling.Settings{DefaultLocation: testutil.SalonZone},
		testutil.NopLogger{},
	)
	return NewHandler(svc, testutil.NopLogger{})
}

func get(h *Handler, identity domain.StaffIdentity, query url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments?"+query.Encode(), nil)
	req = req.WithContext(middleware.WithStaffIdentity(req.Context(), identity))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func monday() url.Values {
	return url.Values{
		"from": {"2025-04-14T00:00:00+03:00"},
		"to":   {"2025-04-15T00:00:00+03:00"},
	}
}

func TestHandle_ListsDay(t *testing.T) {
	rec := get(setup(), staff, monday())

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.AppointmentListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Appointments, 1)
	assert.Equal(t, "10:00", resp.Appointments[0].StartTime)
}

func TestHandle_IncludeCancelled(t *testing.T) {
	query := monday()
	query.Set("includeCancelled", "true")

	rec := get(setup(), staff, query)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.AppointmentListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Appointments, 2)
}

func TestHandle_Rejections(t *testing.T) {
	otherPro := domain.StaffIdentity{TenantID: testutil.TenantID, EmployeeID: 12, Role: domain.RoleProfessional}

	withProvider := monday()
	withProvider.Set("providerId", "10")

	tests := []struct {
		name     string
		identity domain.StaffIdentity
		query    url.Values
		wantCode int
	}{
		{name: "missing range", identity: staff, query: url.Values{}, wantCode: http.StatusBadRequest},
		{name: "date without time", identity: staff, query: url.Values{"from": {"2025-04-14"}, "to": {"2025-04-15"}}, wantCode: http.StatusBadRequest},
		{name: "reversed range", identity: staff, query: url.Values{"from": {"2025-04-15T00:00:00Z"}, "to": {"2025-04-14T00:00:00Z"}}, wantCode: http.StatusBadRequest},
		{name: "range too long", identity: staff, query: url.Values{"from": {"2025-01-01T00:00:00Z"}, "to": {"2025-04-14T00:00:00Z"}}, wantCode: http.StatusBadRequest},
		{name: "bad provider id", identity: staff, query: url.Values{"from": {"2025-04-14T00:00:00Z"}, "to": {"2025-04-15T00:00:00Z"}, "providerId": {"x"}}, wantCode: http.StatusBadRequest},
		{name: "professional asks for another provider", identity: otherPro, query: withProvider, wantCode: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(setup(), tt.identity, tt.query)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}
