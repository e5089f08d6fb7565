package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

const (
	msgMissingToken = "требуется авторизация"
	msgInvalidToken = "недействительный или просроченный токен"
)

type staffIdentityKey struct{}

// StaffClaims claims токена сотрудника салона
type StaffClaims struct {
	TenantID   int64  `json:"tenant_id"`
	EmployeeID int64  `json:"employee_id"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

// Identity проверяет claims и возвращает идентичность сотрудника
func (c *StaffClaims) Identity() (domain.StaffIdentity, error) {
	if c.TenantID <= 0 || c.EmployeeID <= 0 {
		return domain.StaffIdentity{}, errors.New("token without tenant_id or employee_id")
	}

	role := domain.StaffRole(c.Role)
	switch role {
	case domain.RoleAdmin, domain.RoleStaff, domain.RoleProfessional:
	default:
		return domain.StaffIdentity{}, fmt.Errorf("unknown role %q", c.Role)
	}

	return domain.StaffIdentity{TenantID: c.TenantID, EmployeeID: c.EmployeeID, Role: role}, nil
}

// StaffAuth проверяет Bearer JWT (HS256) и кладет идентичность сотрудника в контекст
func StaffAuth(secret []byte, logger Logger) func(http.Handler) http.Handler {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenString == "" {
				handlers.RespondUnauthorized(w, msgMissingToken)
				return
			}

			claims := &StaffClaims{}
			token, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
				return secret, nil
			})
			if err != nil || !token.Valid {
				logger.Warn("StaffAuth: %s %s - invalid token: %v", r.Method, r.URL.Path, err)
				handlers.RespondUnauthorized(w, msgInvalidToken)
				return
			}

			identity, err := claims.Identity()
			if err != nil {
				logger.Warn("StaffAuth: %s %s - invalid claims: %v", r.Method, r.URL.Path, err)
				handlers.RespondUnauthorized(w, msgInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithStaffIdentity(r.Context(), identity)))
		})
	}
}

// WithStaffIdentity кладет идентичность сотрудника в контекст
func WithStaffIdentity(ctx context.Context, identity domain.StaffIdentity) context.Context {
	return context.WithValue(ctx, staffIdentityKey{}, identity)
}

// GetStaffIdentity извлекает идентичность сотрудника из контекста
func GetStaffIdentity(ctx context.Context) (domain.StaffIdentity, bool) {
	identity, ok := ctx.Value(staffIdentityKey{}).(domain.StaffIdentity)
	return identity, ok
}
