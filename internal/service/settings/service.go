package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/catalog"
	tenantRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-SchedulingService/internal/service/settings/models"
)

// Service сервис настроек записи салона: политика упреждения, часы салона и часы мастеров
type Service struct {
	tenantRepo     TenantRepository
	scheduleRepo   ScheduleRepository
	catalogRepo    CatalogRepository
	txManager      TransactionManager
	defaultRestDay domain.Weekday
	logger         Logger
}

// NewService создает новый экземпляр сервиса настроек.
// defaultRestDay выходной день недели, который получает салон без настроенных часов
func NewService(
	tenantRepo TenantRepository,
	scheduleRepo ScheduleRepository,
	catalogRepo CatalogRepository,
	txManager TransactionManager,
	defaultRestDay domain.Weekday,
	logger Logger,
) *Service {
	return &Service{
		tenantRepo:     tenantRepo,
		scheduleRepo:   scheduleRepo,
		catalogRepo:    catalogRepo,
		txManager:      txManager,
		defaultRestDay: defaultRestDay,
		logger:         logger,
	}
}

// GetBookingPolicy получает политику упреждения салона
func (s *Service) GetBookingPolicy(ctx context.Context, identity domain.StaffIdentity) (*models.BookingPolicyResponse, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, identity.TenantID)
	if err != nil {
		if errors.Is(err, tenantRepo.ErrTenantNotFound) {
			s.logger.Warn("GetBookingPolicy: tenant id=%d not found", identity.TenantID)
			return nil, ErrTenantNotFound
		}
		s.logger.Error("GetBookingPolicy: repository error for tenant id=%d: %v", identity.TenantID, err)
		return nil, fmt.Errorf("%w: GetBookingPolicy - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainPolicy(tenant.Policy), nil
}

// UpdateBookingPolicy меняет политику упреждения салона.
// Доступно только администратору салона
func (s *Service) UpdateBookingPolicy(ctx context.Context, req *models.UpdateBookingPolicyRequest) (*models.BookingPolicyResponse, error) {
	s.logger.Info("UpdateBookingPolicy: tenant=%d, mode=%s, minHours=%d by employee=%d",
		req.Identity.TenantID, req.Mode, req.MinHours, req.Identity.EmployeeID)

	if !req.Identity.IsAdmin() {
		s.logger.Warn("UpdateBookingPolicy: employee=%d is not an admin", req.Identity.EmployeeID)
		return nil, ErrAccessDenied
	}

	policy := domain.BookingPolicy{Mode: domain.BookingMode(req.Mode), MinHours: req.MinHours}
	if !policy.Mode.IsValid() {
		return nil, fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, req.Mode)
	}
	if policy.MinHours < 0 || policy.MinHours > domain.MaxBookingMinHours {
		return nil, fmt.Errorf("%w: minHours must be between 0 and %d", ErrInvalidInput, domain.MaxBookingMinHours)
	}

	tenant, err := s.tenantRepo.UpdateBookingPolicy(ctx, req.Identity.TenantID, policy)
	if err != nil {
		if errors.Is(err, tenantRepo.ErrTenantNotFound) {
			return nil, ErrTenantNotFound
		}
		s.logger.Error("UpdateBookingPolicy: repository error for tenant id=%d: %v", req.Identity.TenantID, err)
		return nil, fmt.Errorf("%w: UpdateBookingPolicy - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateBookingPolicy: tenant=%d policy is now %s/%d", tenant.ID, tenant.Policy.Mode, tenant.Policy.MinHours)
	return models.FromDomainPolicy(tenant.Policy), nil
}

// GetBusinessDays получает неделю салона.
// Салон без настроенных часов получает неделю по умолчанию, она сохраняется
func (s *Service) GetBusinessDays(ctx context.Context, identity domain.StaffIdentity) (*models.BusinessDaysResponse, error) {
	var days []domain.BusinessDay
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		days, err = s.scheduleRepo.ListBusinessDays(txCtx, identity.TenantID)
		if err != nil {
			return fmt.Errorf("%w: GetBusinessDays - repository error: %v", ErrInternal, err)
		}
		if len(days) > 0 {
			return nil
		}

		s.logger.Info("GetBusinessDays: seeding default week for tenant=%d, rest day %s", identity.TenantID, s.defaultRestDay)
		days = domain.DefaultBusinessDays(identity.TenantID, s.defaultRestDay)
		if err := s.scheduleRepo.ReplaceBusinessDays(txCtx, identity.TenantID, days); err != nil {
			return fmt.Errorf("%w: GetBusinessDays - failed to seed defaults: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("GetBusinessDays: tenant=%d: %v", identity.TenantID, err)
		return nil, err
	}

	return models.FromDomainBusinessDays(days), nil
}

// UpdateBusinessDays заменяет неделю салона целиком.
// Доступно только администратору салона
func (s *Service) UpdateBusinessDays(ctx context.Context, req *models.UpdateBusinessDaysRequest) (*models.BusinessDaysResponse, error) {
	s.logger.Info("UpdateBusinessDays: tenant=%d, %d days by employee=%d",
		req.Identity.TenantID, len(req.Days), req.Identity.EmployeeID)

	if !req.Identity.IsAdmin() {
		s.logger.Warn("UpdateBusinessDays: employee=%d is not an admin", req.Identity.EmployeeID)
		return nil, ErrAccessDenied
	}

	days := models.ToDomainBusinessDays(req.Identity.TenantID, req.Days)
	if len(days) != 7 {
		return nil, fmt.Errorf("%w: expected 7 days, got %d", ErrInvalidInput, len(days))
	}

	seen := make(map[domain.Weekday]bool, len(days))
	for i := range days {
		if err := days[i].Validate(); err != nil {
			s.logger.Warn("UpdateBusinessDays: invalid day: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if seen[days[i].Weekday] {
			return nil, fmt.Errorf("%w: duplicate weekday %d", ErrInvalidInput, days[i].Weekday)
		}
		seen[days[i].Weekday] = true
	}

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.scheduleRepo.ReplaceBusinessDays(txCtx, req.Identity.TenantID, days)
	})
	if err != nil {
		s.logger.Error("UpdateBusinessDays: repository error for tenant=%d: %v", req.Identity.TenantID, err)
		return nil, fmt.Errorf("%w: UpdateBusinessDays - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBusinessDays(days), nil
}

// GetProviderSchedule получает неделю мастера.
// Мастер может смотреть только свое расписание
func (s *Service) GetProviderSchedule(ctx context.Context, identity domain.StaffIdentity, providerID int64) (*models.ProviderScheduleResponse, error) {
	if !identity.CanActFor(providerID) {
		s.logger.Warn("GetProviderSchedule: employee=%d has no access to provider=%d", identity.EmployeeID, providerID)
		return nil, ErrAccessDenied
	}

	if err := s.checkProvider(ctx, identity.TenantID, providerID); err != nil {
		return nil, err
	}

	schedules, err := s.scheduleRepo.ListProviderSchedules(ctx, identity.TenantID, providerID)
	if err != nil {
		s.logger.Error("GetProviderSchedule: repository error for provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: GetProviderSchedule - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSchedules(providerID, schedules), nil
}

// UpdateProviderSchedule заменяет неделю мастера целиком.
// Доступно только администратору салона
func (s *Service) UpdateProviderSchedule(ctx context.Context, req *models.UpdateProviderScheduleRequest) (*models.ProviderScheduleResponse, error) {
	s.logger.Info("UpdateProviderSchedule: tenant=%d, provider=%d, %d days by employee=%d",
		req.Identity.TenantID, req.ProviderID, len(req.Days), req.Identity.EmployeeID)

	if !req.Identity.IsAdmin() {
		s.logger.Warn("UpdateProviderSchedule: employee=%d is not an admin", req.Identity.EmployeeID)
		return nil, ErrAccessDenied
	}

	if err := s.checkProvider(ctx, req.Identity.TenantID, req.ProviderID); err != nil {
		return nil, err
	}

	schedules := models.ToDomainSchedules(req.Identity.TenantID, req.ProviderID, req.Days)
	if len(schedules) > 7 {
		return nil, fmt.Errorf("%w: at most 7 days, got %d", ErrInvalidInput, len(schedules))
	}

	seen := make(map[domain.Weekday]bool, len(schedules))
	for i := range schedules {
		if err := schedules[i].Validate(); err != nil {
			s.logger.Warn("UpdateProviderSchedule: invalid day: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if seen[schedules[i].Weekday] {
			return nil, fmt.Errorf("%w: duplicate weekday %d", ErrInvalidInput, schedules[i].Weekday)
		}
		seen[schedules[i].Weekday] = true
	}

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.scheduleRepo.ReplaceProviderSchedules(txCtx, req.Identity.TenantID, req.ProviderID, schedules)
	})
	if err != nil {
		s.logger.Error("UpdateProviderSchedule: repository error for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: UpdateProviderSchedule - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSchedules(req.ProviderID, schedules), nil
}

func (s *Service) checkProvider(ctx context.Context, tenantID, providerID int64) error {
	employee, err := s.catalogRepo.GetEmployee(ctx, tenantID, providerID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrEmployeeNotFound) {
			s.logger.Warn("checkProvider: employee id=%d not found in tenant=%d", providerID, tenantID)
			return ErrProviderNotFound
		}
		s.logger.Error("checkProvider: repository error for employee id=%d: %v", providerID, err)
		return fmt.Errorf("%w: checkProvider - repository error: %v", ErrInternal, err)
	}
	if !employee.IsProvider {
		s.logger.Warn("checkProvider: employee id=%d is not a provider", providerID)
		return ErrProviderNotFound
	}
	return nil
}
