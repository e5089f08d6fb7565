package portal

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// SessionVerifier проверяет сессию клиента портала во внешнем сервисе
type SessionVerifier interface {
	Verify(ctx context.Context, tenantToken, sessionToken string) (*domain.CustomerIdentity, error)
}

// TenantRepository интерфейс репозитория салонов
type TenantRepository interface {
	GetByPortalToken(ctx context.Context, token string) (*domain.Tenant, error)
}

// CatalogRepository интерфейс репозитория каталога салона
type CatalogRepository interface {
	GetService(ctx context.Context, tenantID, serviceID int64) (*domain.Service, error)
	GetEmployee(ctx context.Context, tenantID, employeeID int64) (*domain.Employee, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, tenantID, id int64) (*domain.Appointment, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
