package get_business_days

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/settings"
	"github.com/m04kA/SMC-SchedulingService/internal/service/settings/models"
	"github.com/m04kA/SMC-SchedulingService/internal/testutil"
)

var staff = domain.StaffIdentity{TenantID: testutil.TenantID, EmployeeID: 2, Role: domain.RoleStaff}

func get(store *testutil.Store, identity *domain.StaffIdentity, restDay domain.Weekday) *httptest.ResponseRecorder {
	svc := settings.NewService(store, store, store, &testutil.TxManager{}, restDay, testutil.NopLogger{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/settings/business-days", nil)
	if identity != nil {
		req = req.WithContext(middleware.WithStaffIdentity(req.Context(), *identity))
	}
	rec := httptest.NewRecorder()
	NewHandler(svc, testutil.NopLogger{}).Handle(rec, req)
	return rec
}

func TestHandle_ReturnsWeek(t *testing.T) {
	store := testutil.Salon(domain.BookingPolicy{Mode: domain.BookingModeFixedHours})

	rec := get(store, &staff, domain.DefaultRestDay)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.BusinessDaysResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Days, 7)
	assert.True(t, resp.Days[0].IsClosed)
	assert.Equal(t, "09:00", resp.Days[1].OpenTime.String())
	require.NotNil(t, resp.Days[1].BreakStart)
	assert.Equal(t, "12:00", resp.Days[1].BreakStart.String())
}

func TestHandle_SeedsDefaultWeekWithConfiguredRestDay(t *testing.T) {
	store := testutil.Salon(domain.BookingPolicy{Mode: domain.BookingModeFixedHours})
	delete(store.BusinessDays, testutil.TenantID)

	rec := get(store, &staff, domain.Weekday(1))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.BusinessDaysResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Days, 7)
	assert.False(t, resp.Days[0].IsClosed)
	assert.True(t, resp.Days[1].IsClosed)
	assert.Len(t, store.BusinessDays[testutil.TenantID], 7)
}

func TestHandle_Failures(t *testing.T) {
	t.Run("no identity", func(t *testing.T) {
		rec := get(testutil.Salon(domain.BookingPolicy{}), nil, domain.DefaultRestDay)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("storage failure", func(t *testing.T) {
		store := testutil.Salon(domain.BookingPolicy{})
		store.Err = errors.New("connection refused")

		rec := get(store, &staff, domain.DefaultRestDay)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
