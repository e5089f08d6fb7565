package portal_create_booking

import (
	"context"

	portalAdmitBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/portal_admit_booking"
)

type PortalAdmitBookingUseCase interface {
	Execute(ctx context.Context, req *portalAdmitBooking.Request) (*portalAdmitBooking.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
