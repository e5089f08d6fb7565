package update_provider_schedule

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/settings"
	"github.com/m04kA/SMC-SchedulingService/internal/service/settings/models"
	"github.com/m04kA/SMC-SchedulingService/internal/testutil"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

var (
	admin = domain.StaffIdentity{TenantID: testutil.TenantID, EmployeeID: 1, Role: domain.RoleAdmin}
	self  = domain.StaffIdentity{TenantID: testutil.TenantID, EmployeeID: testutil.ProviderID, Role: domain.RoleProfessional}
)

func put(store *testutil.Store, identity domain.StaffIdentity, providerID, body string) *httptest.ResponseRecorder {
	svc := settings.NewService(store, store, store, &testutil.TxManager{}, domain.DefaultRestDay, testutil.NopLogger{})

	r := mux.NewRouter()
	r.HandleFunc("/api/v1/providers/{providerId}/schedule", NewHandler(svc, testutil.NopLogger{}).Handle).
		Methods(http.MethodPut)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/providers/"+providerID+"/schedule", bytes.NewBufferString(body))
	req = req.WithContext(middleware.WithStaffIdentity(req.Context(), identity))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

const mondayAndTuesday = `{"days":[
	{"weekday":1,"startTime":"10:00","endTime":"16:00","lunchStart":"13:00","lunchEnd":"14:00"},
	{"weekday":2,"startTime":"12:00","endTime":"20:00"}
]}`

func TestHandle_AdminReplacesWeek(t *testing.T) {
	store := testutil.Salon(domain.BookingPolicy{Mode: domain.BookingModeFixedHours})

	rec := put(store, admin, "10", mondayAndTuesday)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.ProviderScheduleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, testutil.ProviderID, resp.ProviderID)
	require.Len(t, resp.Days, 2)

	stored := store.Schedules[testutil.ProviderID]
	require.Len(t, stored, 2)
	assert.Equal(t, types.TimeString("10:00"), stored[0].StartTime)
	require.NotNil(t, stored[0].LunchStart)
	assert.Equal(t, types.TimeString("13:00"), *stored[0].LunchStart)
	assert.Nil(t, stored[1].LunchStart)
}

func TestHandle_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		identity   domain.StaffIdentity
		providerID string
		body       string
		wantCode   int
	}{
		{name: "professional edits own hours", identity: self, providerID: "10", body: mondayAndTuesday, wantCode: http.StatusForbidden},
		{name: "malformed provider id", identity: admin, providerID: "anna", body: mondayAndTuesday, wantCode: http.StatusBadRequest},
		{name: "unknown provider", identity: admin, providerID: "999", body: mondayAndTuesday, wantCode: http.StatusNotFound},
		{name: "employee who takes no bookings", identity: admin, providerID: "11", body: mondayAndTuesday, wantCode: http.StatusNotFound},
		{name: "ends before it starts", identity: admin, providerID: "10", body: `{"days":[{"weekday":1,"startTime":"16:00","endTime":"10:00"}]}`, wantCode: http.StatusBadRequest},
		{name: "lunch outside working hours", identity: admin, providerID: "10", body: `{"days":[{"weekday":1,"startTime":"10:00","endTime":"16:00","lunchStart":"15:30","lunchEnd":"16:30"}]}`, wantCode: http.StatusBadRequest},
		{name: "lunch without end", identity: admin, providerID: "10", body: `{"days":[{"weekday":1,"startTime":"10:00","endTime":"16:00","lunchStart":"13:00"}]}`, wantCode: http.StatusBadRequest},
		{name: "duplicate weekday", identity: admin, providerID: "10", body: `{"days":[{"weekday":1,"startTime":"10:00","endTime":"16:00"},{"weekday":1,"startTime":"11:00","endTime":"17:00"}]}`, wantCode: http.StatusBadRequest},
		{name: "weekday out of range", identity: admin, providerID: "10", body: `{"days":[{"weekday":9,"startTime":"10:00","endTime":"16:00"}]}`, wantCode: http.StatusBadRequest},
		{name: "unknown field", identity: admin, providerID: "10", body: `{"days":[],"providerId":11}`, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.Salon(domain.BookingPolicy{Mode: domain.BookingModeFixedHours})
			before := append([]domain.ProviderSchedule{}, store.Schedules[testutil.ProviderID]...)

			rec := put(store, tt.identity, tt.providerID, tt.body)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, before, store.Schedules[testutil.ProviderID])
		})
	}
}
