package portal_admit_booking

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/portal"
	"github.com/m04kA/SMC-SchedulingService/internal/usecase/admit_booking"
)

// Gate шлюз клиентского портала
type Gate interface {
	Authorize(ctx context.Context, tenantToken, sessionToken string) (*portal.Session, error)
	ResolveOffer(ctx context.Context, tenantID, serviceID, employeeID int64) (*portal.Offer, error)
	OwnedAppointment(ctx context.Context, session *portal.Session, appointmentID int64) (*domain.Appointment, error)
}

// AdmissionUseCase общий use case допуска записи
type AdmissionUseCase interface {
	Execute(ctx context.Context, req *admit_booking.Request) (*admit_booking.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
