package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	tenantRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-SchedulingService/internal/scheduling"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
)

// Service сервис чтения записей и смены их статуса
type Service struct {
	appointmentRepo AppointmentRepository
	tenantRepo      TenantRepository
	txManager       TransactionManager
	settings        scheduling.Settings
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	tenantRepo TenantRepository,
	txManager TransactionManager,
	settings scheduling.Settings,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		tenantRepo:      tenantRepo,
		txManager:       txManager,
		settings:        settings,
		logger:          logger,
	}
}

// GetByID получает запись салона.
// Мастер видит только свои записи
func (s *Service) GetByID(ctx context.Context, identity domain.StaffIdentity, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for employee=%d", id, identity.EmployeeID)

	appointment, err := s.getAppointment(ctx, identity.TenantID, id)
	if err != nil {
		return nil, err
	}

	if !identity.CanActFor(appointment.ProviderID) {
		s.logger.Warn("GetByID: employee=%d has no access to appointment id=%d", identity.EmployeeID, id)
		return nil, ErrAccessDenied
	}

	loc, err := s.location(ctx, identity.TenantID)
	if err != nil {
		return nil, err
	}

	return models.FromDomainAppointment(appointment, loc), nil
}

// List получает записи салона за период [From, To)
func (s *Service) List(ctx context.Context, req *models.ListRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("List: fetching appointments for tenant=%d, period=%s to %s",
		req.Identity.TenantID, req.From.Format(time.RFC3339), req.To.Format(time.RFC3339))

	if req.From.IsZero() || req.To.IsZero() || !req.From.Before(req.To) {
		return nil, fmt.Errorf("%w: from must be before to", ErrInvalidInput)
	}
	if req.To.Sub(req.From) > models.MaxListRangeDays*24*time.Hour {
		return nil, fmt.Errorf("%w: period exceeds %d days", ErrInvalidInput, models.MaxListRangeDays)
	}

	providerID := req.ProviderID
	if req.Identity.Role == domain.RoleProfessional {
		if providerID != nil && !req.Identity.CanActFor(*providerID) {
			s.logger.Warn("List: professional=%d requested provider=%d", req.Identity.EmployeeID, *providerID)
			return nil, ErrAccessDenied
		}
		own := req.Identity.EmployeeID
		providerID = &own
	}

	appointments, err := s.appointmentRepo.List(ctx, domain.AppointmentsFilter{
		TenantID:         req.Identity.TenantID,
		ProviderID:       providerID,
		CustomerID:       req.CustomerID,
		From:             req.From,
		To:               req.To,
		IncludeCancelled: req.IncludeCancelled,
	})
	if err != nil {
		s.logger.Error("List: repository error for tenant=%d: %v", req.Identity.TenantID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	loc, err := s.location(ctx, req.Identity.TenantID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("List: fetched %d appointments for tenant=%d", len(appointments), req.Identity.TenantID)
	return models.FromDomainAppointmentList(appointments, loc), nil
}

// UpdateStatus меняет статус записи.
// Допустимы только переходы вперед: pending -> confirmed -> completed, отмена из незавершенных
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s by employee=%d",
		id, req.Status, req.Identity.EmployeeID)

	newStatus, err := models.ToDomainStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%d", req.Status, id)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	var updated *domain.Appointment
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		appointment, err := s.getAppointment(txCtx, req.Identity.TenantID, id)
		if err != nil {
			return err
		}

		if !req.Identity.CanActFor(appointment.ProviderID) {
			s.logger.Warn("UpdateStatus: employee=%d has no access to appointment id=%d", req.Identity.EmployeeID, id)
			return ErrAccessDenied
		}

		if !appointment.Status.CanTransitionTo(newStatus) {
			s.logger.Warn("UpdateStatus: appointment id=%d cannot move from %s to %s", id, appointment.Status, newStatus)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appointment.Status, newStatus)
		}

		if err := s.appointmentRepo.UpdateStatus(txCtx, req.Identity.TenantID, id, newStatus); err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", id, err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}

		appointment.Status = newStatus
		updated = appointment
		return nil
	})
	if err != nil {
		return nil, err
	}

	loc, err := s.location(ctx, req.Identity.TenantID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateStatus: appointment id=%d is now %s", id, newStatus)
	return models.FromDomainAppointment(updated, loc), nil
}

// Вспомогательные методы

func (s *Service) getAppointment(ctx context.Context, tenantID, id int64) (*domain.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("getAppointment: appointment id=%d not found in tenant=%d", id, tenantID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("getAppointment: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: getAppointment - repository error: %v", ErrInternal, err)
	}
	return appointment, nil
}

func (s *Service) location(ctx context.Context, tenantID int64) (*time.Location, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, tenantRepo.ErrTenantNotFound) {
			return nil, ErrTenantNotFound
		}
		s.logger.Error("location: repository error for tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: location - repository error: %v", ErrInternal, err)
	}

	loc, err := s.settings.Location(tenant)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return loc, nil
}
