package portal_available_slots

import (
	"context"

	portalAvailableSlots "github.com/m04kA/SMC-SchedulingService/internal/usecase/portal_available_slots"
)

type PortalAvailableSlotsUseCase interface {
	Execute(ctx context.Context, req *portalAvailableSlots.Request) (*portalAvailableSlots.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
