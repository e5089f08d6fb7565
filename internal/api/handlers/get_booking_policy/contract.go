package get_booking_policy

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/settings/models"
)

type SettingsService interface {
	GetBookingPolicy(ctx context.Context, identity domain.StaffIdentity) (*models.BookingPolicyResponse, error)
	UpdateBookingPolicy(ctx context.Context, req *models.UpdateBookingPolicyRequest) (*models.BookingPolicyResponse, error)
	GetBusinessDays(ctx context.Context, identity domain.StaffIdentity) (*models.BusinessDaysResponse, error)
	UpdateBusinessDays(ctx context.Context, req *models.UpdateBusinessDaysRequest) (*models.BusinessDaysResponse, error)
	GetProviderSchedule(ctx context.Context, identity domain.StaffIdentity, providerID int64) (*models.ProviderScheduleResponse, error)
	UpdateProviderSchedule(ctx context.Context, req *models.UpdateProviderScheduleRequest) (*models.ProviderScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
