package portal_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/portal"
	"github.com/m04kA/SMC-SchedulingService/internal/usecase/get_available_slots"
)

// UseCase use case слотов для клиентского портала: проверка сессии,
// затем тот же расчет, что и для сотрудников салона
type UseCase struct {
	gate         Gate
	availability AvailabilityUseCase
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(gate Gate, availability AvailabilityUseCase, logger Logger) *UseCase {
	return &UseCase{
		gate:         gate,
		availability: availability,
		logger:       logger,
	}
}

// Execute выполняет use case
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("PortalAvailableSlots: service=%d, employee=%d, date=%s",
		req.ServiceID, req.EmployeeID, req.Date.Format(domain.DateFormat))

	session, err := uc.gate.Authorize(ctx, req.TenantToken, req.SessionToken)
	if err != nil {
		return nil, mapGateError(err)
	}

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("PortalAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	offer, err := uc.gate.ResolveOffer(ctx, session.Tenant.ID, req.ServiceID, req.EmployeeID)
	if err != nil {
		return nil, mapGateError(err)
	}

	if req.AppointmentID != nil {
		if _, err := uc.gate.OwnedAppointment(ctx, session, *req.AppointmentID); err != nil {
			return nil, mapGateError(err)
		}
	}

	resp, err := uc.availability.Execute(ctx, &get_available_slots.Request{
		TenantID:               session.Tenant.ID,
		ProviderID:             offer.Provider.ID,
		ServiceID:              &offer.Service.ID,
		Date:                   req.Date,
		ServiceDurationMinutes: offer.Service.DurationMinutes,
		ExcludeAppointmentID:   req.AppointmentID,
		Surface:                domain.SurfacePortal,
	})
	if err != nil {
		switch {
		case errors.Is(err, get_available_slots.ErrInvalidInput):
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		case errors.Is(err, get_available_slots.ErrTenantNotFound),
			errors.Is(err, get_available_slots.ErrProviderNotFound),
			errors.Is(err, get_available_slots.ErrServiceNotFound),
			errors.Is(err, get_available_slots.ErrAppointmentNotFound):
			return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
		default:
			uc.logger.Error("PortalAvailableSlots: availability failed: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
	}

	return &Response{Date: resp.Date, Slots: resp.Slots}, nil
}

func mapGateError(err error) error {
	switch {
	case errors.Is(err, portal.ErrUnauthorized):
		return ErrUnauthorized
	case errors.Is(err, portal.ErrServiceNotFound),
		errors.Is(err, portal.ErrProviderNotFound),
		errors.Is(err, portal.ErrAppointmentNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	default:
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}

func validateRequest(req *Request) error {
	if req.ServiceID <= 0 || req.EmployeeID <= 0 {
		return fmt.Errorf("%w: service_id and employee_id must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if req.AppointmentID != nil && *req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointment_id must be positive", ErrInvalidInput)
	}
	return nil
}
