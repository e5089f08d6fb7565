package settings

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// TenantRepository интерфейс репозитория салонов
type TenantRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Tenant, error)
	UpdateBookingPolicy(ctx context.Context, id int64, policy domain.BookingPolicy) (*domain.Tenant, error)
}

// ScheduleRepository интерфейс репозитория часов работы
type ScheduleRepository interface {
	ListBusinessDays(ctx context.Context, tenantID int64) ([]domain.BusinessDay, error)
	ReplaceBusinessDays(ctx context.Context, tenantID int64, days []domain.BusinessDay) error
	ListProviderSchedules(ctx context.Context, tenantID, providerID int64) ([]domain.ProviderSchedule, error)
	ReplaceProviderSchedules(ctx context.Context, tenantID, providerID int64, schedules []domain.ProviderSchedule) error
}

// CatalogRepository интерфейс каталога сотрудников
type CatalogRepository interface {
	GetEmployee(ctx context.Context, tenantID, employeeID int64) (*domain.Employee, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
