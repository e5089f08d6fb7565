package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/testutil"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims StaffClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims(role string) StaffClaims {
	return StaffClaims{
		TenantID:   1,
		EmployeeID: 10,
		Role:       role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func serveWithAuth(authHeader string) (*httptest.ResponseRecorder, *domain.StaffIdentity) {
	var seen *domain.StaffIdentity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if identity, ok := GetStaffIdentity(r.Context()); ok {
			seen = &identity
		}
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments/1", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	StaffAuth(testSecret, testutil.NopLogger{})(next).ServeHTTP(rec, req)
	return rec, seen
}

func TestStaffAuth_ValidToken(t *testing.T) {
	token := signToken(t, jwt.SigningMethodHS256, testSecret, validClaims("professional"))

	rec, identity := serveWithAuth("Bearer " + token)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, identity)
	assert.Equal(t, domain.StaffIdentity{TenantID: 1, EmployeeID: 10, Role: domain.RoleProfessional}, *identity)
}

func TestStaffAuth_Rejections(t *testing.T) {
	expired := validClaims("admin")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	noExpiry := validClaims("admin")
	noExpiry.ExpiresAt = nil

	noTenant := validClaims("admin")
	noTenant.TenantID = 0

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "not bearer", header: "Basic abc"},
		{name: "garbage", header: "Bearer not-a-jwt"},
		{name: "expired", header: "Bearer " + signToken(t, jwt.SigningMethodHS256, testSecret, expired)},
		{name: "without expiry", header: "Bearer " + signToken(t, jwt.SigningMethodHS256, testSecret, noExpiry)},
		{name: "wrong secret", header: "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte("other"), validClaims("admin"))},
		{name: "wrong algorithm", header: "Bearer " + signToken(t, jwt.SigningMethodHS512, testSecret, validClaims("admin"))},
		{name: "unknown role", header: "Bearer " + signToken(t, jwt.SigningMethodHS256, testSecret, validClaims("owner"))},
		{name: "no tenant", header: "Bearer " + signToken(t, jwt.SigningMethodHS256, testSecret, noTenant)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, identity := serveWithAuth(tt.header)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Nil(t, identity)
		})
	}
}

func TestGetStaffIdentity_Missing(t *testing.T) {
	_, ok := GetStaffIdentity(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.False(t, ok)
}
