package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/schedule"
	tenantRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-SchedulingService/internal/scheduling"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// UseCase use case для получения доступных слотов мастера на день.
// Один и тот же use case обслуживает staff, professional и portal поверхности
type UseCase struct {
	tenantRepo      TenantRepository
	scheduleRepo    ScheduleRepository
	appointmentRepo AppointmentRepository
	catalogRepo     CatalogRepository
	settings        scheduling.Settings
	metrics         MetricsRecorder
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	tenantRepo TenantRepository,
	scheduleRepo ScheduleRepository,
	appointmentRepo AppointmentRepository,
	catalogRepo CatalogRepository,
	settings scheduling.Settings,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		tenantRepo:      tenantRepo,
		scheduleRepo:    scheduleRepo,
		appointmentRepo: appointmentRepo,
		catalogRepo:     catalogRepo,
		settings:        settings,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: surface=%s, tenant=%d, provider=%d, date=%s, duration=%d",
		req.Surface, req.TenantID, req.ProviderID, req.Date.Format(domain.DateFormat), req.ServiceDurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем салон: зона и политика записи
	tenant, err := uc.tenantRepo.GetByID(ctx, req.TenantID)
	if err != nil {
		if errors.Is(err, tenantRepo.ErrTenantNotFound) {
			uc.logger.Warn("GetAvailableSlots: tenant id=%d not found", req.TenantID)
			return nil, ErrTenantNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get tenant id=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to get tenant: %v", ErrInternal, err)
	}

	loc, err := uc.settings.Location(tenant)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	now := uc.timeProvider.Now().In(loc)
	date := scheduling.DateIn(req.Date, loc)

	// 3. Проверяем мастера и определяем длительность
	if _, err := uc.catalogRepo.GetEmployee(ctx, req.TenantID, req.ProviderID); err != nil {
		if errors.Is(err, catalogRepo.ErrEmployeeNotFound) {
			uc.logger.Warn("GetAvailableSlots: provider id=%d not found in tenant id=%d", req.ProviderID, req.TenantID)
			return nil, ErrProviderNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get provider id=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get provider: %v", ErrInternal, err)
	}

	duration, err := uc.resolveDuration(ctx, req)
	if err != nil {
		return nil, err
	}

	// 4. Редактируемая запись: исходное время для исключения из фильтра упреждения
	var originalStart *time.Time
	if req.ExcludeAppointmentID != nil {
		original, err := uc.appointmentRepo.GetByID(ctx, req.TenantID, *req.ExcludeAppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				uc.logger.Warn("GetAvailableSlots: appointment id=%d not found", *req.ExcludeAppointmentID)
				return nil, ErrAppointmentNotFound
			}
			uc.logger.Error("GetAvailableSlots: failed to get appointment id=%d: %v", *req.ExcludeAppointmentID, err)
			return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
		}
		if original.ProviderID == req.ProviderID && original.IsActive() {
			originalStart = &original.StartAt
		}
	}

	response := &Response{
		Date:            date,
		ProviderID:      req.ProviderID,
		DurationMinutes: duration,
		Slots:           []types.TimeString{},
	}

	// 5. Прошедшие даты не предлагаются
	if scheduling.IsDateInPast(date, now) {
		uc.logger.Info("GetAvailableSlots: date %s is in the past", date.Format(domain.DateFormat))
		return uc.done(req, response), nil
	}

	// 6. Рабочее окно: часы мастера внутри часов салона
	window, ok, err := uc.resolveWindow(ctx, req, domain.WeekdayOf(date))
	if err != nil {
		return nil, err
	}
	if !ok {
		uc.logger.Info("GetAvailableSlots: no working window for provider=%d on %s", req.ProviderID, date.Format(domain.DateFormat))
		return uc.done(req, response), nil
	}

	// 7. Занятые интервалы мастера на этот день, без редактируемой записи
	dayStart, dayEnd := scheduling.DayBounds(date)
	appointments, err := uc.appointmentRepo.List(ctx, domain.AppointmentsFilter{
		TenantID:   req.TenantID,
		ProviderID: &req.ProviderID,
		From:       dayStart,
		To:         dayEnd,
		ExcludeID:  req.ExcludeAppointmentID,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	busy := projectBusy(appointments, dayStart, dayEnd)

	// 8. Слоты и фильтр упреждения
	slots := scheduling.ComputeSlots(window.SlotParams(uc.settings.StepMinutes, duration, busy))
	response.Slots = scheduling.FilterByLeadTime(scheduling.LeadTimeInput{
		Date:          date,
		Slots:         slots,
		Policy:        tenant.Policy,
		Now:           now,
		OriginalStart: originalStart,
	})

	uc.logger.Info("GetAvailableSlots: %d slots (%d before lead-time filter) for provider=%d, date=%s",
		len(response.Slots), len(slots), req.ProviderID, date.Format(domain.DateFormat))

	return uc.done(req, response), nil
}

func (uc *UseCase) resolveDuration(ctx context.Context, req *Request) (int, error) {
	if req.ServiceID == nil {
		return req.ServiceDurationMinutes, nil
	}

	service, err := uc.catalogRepo.GetService(ctx, req.TenantID, *req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found in tenant id=%d", *req.ServiceID, req.TenantID)
			return 0, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", *req.ServiceID, err)
		return 0, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if req.ServiceDurationMinutes > 0 {
		return req.ServiceDurationMinutes, nil
	}
	return service.DurationMinutes, nil
}

func (uc *UseCase) resolveWindow(ctx context.Context, req *Request, weekday domain.Weekday) (scheduling.Window, bool, error) {
	day, err := uc.scheduleRepo.GetBusinessDay(ctx, req.TenantID, weekday)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrBusinessDayNotFound) {
			return scheduling.Window{}, false, nil
		}
		uc.logger.Error("GetAvailableSlots: failed to get business day %s: %v", weekday, err)
		return scheduling.Window{}, false, fmt.Errorf("%w: failed to get business day: %v", ErrInternal, err)
	}

	schedule, err := uc.scheduleRepo.GetProviderSchedule(ctx, req.TenantID, req.ProviderID, weekday)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrProviderScheduleNotFound) {
			return scheduling.Window{}, false, nil
		}
		uc.logger.Error("GetAvailableSlots: failed to get provider schedule %s: %v", weekday, err)
		return scheduling.Window{}, false, fmt.Errorf("%w: failed to get provider schedule: %v", ErrInternal, err)
	}

	window, ok := scheduling.ResolveWindow(day, schedule)
	return window, ok, nil
}

func (uc *UseCase) done(req *Request, resp *Response) *Response {
	if uc.metrics != nil {
		uc.metrics.ObserveAvailableSlots(req.Surface, len(resp.Slots))
	}
	return resp
}
