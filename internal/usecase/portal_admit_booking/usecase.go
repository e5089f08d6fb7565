package portal_admit_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/portal"
	"github.com/m04kA/SMC-SchedulingService/internal/usecase/admit_booking"
)

// UseCase use case записи через клиентский портал
type UseCase struct {
	gate      Gate
	admission AdmissionUseCase
	logger    Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(gate Gate, admission AdmissionUseCase, logger Logger) *UseCase {
	return &UseCase{
		gate:      gate,
		admission: admission,
		logger:    logger,
	}
}

// Execute выполняет use case: проверка сессии, снимок услуги из каталога, общий допуск записи
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("PortalAdmitBooking: service=%d, employee=%d, start=%s, edit=%v",
		req.ServiceID, req.EmployeeID, req.Start.Format(time.RFC3339), req.AppointmentID != nil)

	// Недействительная сессия отклоняется раньше любой проверки параметров записи
	session, err := uc.gate.Authorize(ctx, req.TenantToken, req.SessionToken)
	if err != nil {
		return nil, mapGateError(err)
	}

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("PortalAdmitBooking: validation failed: %v", err)
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

	if req.DurationMinutes != offer.Service.DurationMinutes || !req.Price.Equal(offer.Service.Price) {
		uc.logger.Warn("PortalAdmitBooking: submitted %d min / %s differs from catalog %d min / %s, using catalog",
			req.DurationMinutes, req.Price, offer.Service.DurationMinutes, offer.Service.Price)
	}

	resp, err := uc.admission.Execute(ctx, &admit_booking.Request{
		TenantID:        session.Tenant.ID,
		ProviderID:      offer.Provider.ID,
		ServiceID:       offer.Service.ID,
		CustomerID:      session.Customer.CustomerID,
		Start:           req.Start,
		DurationMinutes: offer.Service.DurationMinutes,
		Price:           offer.Service.Price,
		Note:            req.Note,
		AppointmentID:   req.AppointmentID,
		Surface:         domain.SurfacePortal,
	})
	if err != nil {
		return nil, mapAdmissionError(err)
	}

	return &Response{AppointmentID: resp.ID, Created: resp.Created}, nil
}

func validateRequest(req *Request) error {
	if req.ServiceID <= 0 || req.EmployeeID <= 0 {
		return fmt.Errorf("%w: service_id and employee_id must be positive", ErrInvalidInput)
	}
	if req.Start.IsZero() {
		return fmt.Errorf("%w: start is required", ErrInvalidInput)
	}
	if req.DurationMinutes <= 0 {
		return fmt.Errorf("%w: duration_minutes must be positive", ErrInvalidInput)
	}
	if req.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	if req.AppointmentID != nil && *req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointment_id must be positive", ErrInvalidInput)
	}
	return nil
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

func mapAdmissionError(err error) error {
	switch {
	case errors.Is(err, ErrPastOrTooSoon),
		errors.Is(err, ErrOutsideWorkingHours),
		errors.Is(err, ErrSlotTaken),
		errors.Is(err, ErrAppointmentNotEditable):
		return err
	case errors.Is(err, admit_booking.ErrInvalidInput):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	case errors.Is(err, admit_booking.ErrTenantNotFound),
		errors.Is(err, admit_booking.ErrServiceNotFound),
		errors.Is(err, admit_booking.ErrProviderNotFound),
		errors.Is(err, admit_booking.ErrAppointmentNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	default:
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}
