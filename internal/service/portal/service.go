package portal

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/catalog"
	tenantRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/portalauth"
)

// Service шлюз клиентского портала: у портала нет ambient-идентичности,
// поэтому салон и клиент определяются по токенам из тела запроса
type Service struct {
	tenantRepo      TenantRepository
	catalogRepo     CatalogRepository
	appointmentRepo AppointmentRepository
	verifier        SessionVerifier
	logger          Logger
}

// NewService создает новый экземпляр шлюза портала
func NewService(
	tenantRepo TenantRepository,
	catalogRepo CatalogRepository,
	appointmentRepo AppointmentRepository,
	verifier SessionVerifier,
	logger Logger,
) *Service {
	return &Service{
		tenantRepo:      tenantRepo,
		catalogRepo:     catalogRepo,
		appointmentRepo: appointmentRepo,
		verifier:        verifier,
		logger:          logger,
	}
}

// Authorize находит салон по токену портала и проверяет сессию клиента.
// Идентичность клиента должна принадлежать тому же салону
func (s *Service) Authorize(ctx context.Context, tenantToken, sessionToken string) (*Session, error) {
	if tenantToken == "" || sessionToken == "" {
		s.logger.Warn("Authorize: missing tenant or session token")
		return nil, ErrUnauthorized
	}

	tenant, err := s.tenantRepo.GetByPortalToken(ctx, tenantToken)
	if err != nil {
		if errors.Is(err, tenantRepo.ErrTenantNotFound) {
			s.logger.Warn("Authorize: unknown tenant token")
			return nil, ErrUnauthorized
		}
		s.logger.Error("Authorize: failed to get tenant by token: %v", err)
		return nil, fmt.Errorf("%w: Authorize - repository error: %v", ErrInternal, err)
	}

	identity, err := s.verifier.Verify(ctx, tenantToken, sessionToken)
	if err != nil {
		if errors.Is(err, portalauth.ErrUnauthorized) {
			s.logger.Warn("Authorize: session rejected for tenant=%d", tenant.ID)
			return nil, ErrUnauthorized
		}
		s.logger.Error("Authorize: session verification failed for tenant=%d: %v", tenant.ID, err)
		return nil, fmt.Errorf("%w: Authorize - verifier error: %v", ErrInternal, err)
	}

	if identity.TenantID != tenant.ID {
		s.logger.Warn("Authorize: session of tenant=%d presented to tenant=%d", identity.TenantID, tenant.ID)
		return nil, ErrUnauthorized
	}

	s.logger.Info("Authorize: customer=%d authorized for tenant=%d", identity.CustomerID, tenant.ID)
	return &Session{Tenant: tenant, Customer: *identity}, nil
}

// ResolveOffer проверяет, что услуга активна, а сотрудник принимает записи в салоне
func (s *Service) ResolveOffer(ctx context.Context, tenantID, serviceID, employeeID int64) (*Offer, error) {
	service, err := s.catalogRepo.GetService(ctx, tenantID, serviceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			s.logger.Warn("ResolveOffer: service id=%d not found in tenant=%d", serviceID, tenantID)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("ResolveOffer: failed to get service id=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: ResolveOffer - repository error: %v", ErrInternal, err)
	}
	if !service.IsActive {
		s.logger.Warn("ResolveOffer: service id=%d is inactive", serviceID)
		return nil, ErrServiceNotFound
	}

	provider, err := s.catalogRepo.GetEmployee(ctx, tenantID, employeeID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrEmployeeNotFound) {
			s.logger.Warn("ResolveOffer: employee id=%d not found in tenant=%d", employeeID, tenantID)
			return nil, ErrProviderNotFound
		}
		s.logger.Error("ResolveOffer: failed to get employee id=%d: %v", employeeID, err)
		return nil, fmt.Errorf("%w: ResolveOffer - repository error: %v", ErrInternal, err)
	}
	if !provider.CanTakeBookings() {
		s.logger.Warn("ResolveOffer: employee id=%d cannot take bookings", employeeID)
		return nil, ErrProviderNotFound
	}

	return &Offer{Service: service, Provider: provider}, nil
}

// OwnedAppointment получает запись клиента сессии.
// Чужая запись неотличима от несуществующей
func (s *Service) OwnedAppointment(ctx context.Context, session *Session, appointmentID int64) (*domain.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, session.Tenant.ID, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("OwnedAppointment: appointment id=%d not found in tenant=%d", appointmentID, session.Tenant.ID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("OwnedAppointment: failed to get appointment id=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: OwnedAppointment - repository error: %v", ErrInternal, err)
	}

	if appointment.CustomerID != session.Customer.CustomerID {
		s.logger.Warn("OwnedAppointment: customer=%d is not the owner of appointment id=%d",
			session.Customer.CustomerID, appointmentID)
		return nil, ErrAppointmentNotFound
	}

	return appointment, nil
}
