package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// TenantRepository интерфейс репозитория салонов
type TenantRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Tenant, error)
}

// ScheduleRepository интерфейс репозитория часов работы
type ScheduleRepository interface {
	GetBusinessDay(ctx context.Context, tenantID int64, weekday domain.Weekday) (*domain.BusinessDay, error)
	GetProviderSchedule(ctx context.Context, tenantID, providerID int64, weekday domain.Weekday) (*domain.ProviderSchedule, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// List получает записи, пересекающие интервал фильтра
	List(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
	GetByID(ctx context.Context, tenantID, id int64) (*domain.Appointment, error)
}

// CatalogRepository интерфейс каталога услуг и сотрудников
type CatalogRepository interface {
	GetService(ctx context.Context, tenantID, serviceID int64) (*domain.Service, error)
	GetEmployee(ctx context.Context, tenantID, employeeID int64) (*domain.Employee, error)
}

// MetricsRecorder интерфейс для доменных метрик
type MetricsRecorder interface {
	ObserveAvailableSlots(surface string, count int)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
