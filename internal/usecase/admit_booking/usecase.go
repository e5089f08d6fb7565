package admit_booking

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
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// UseCase use case допуска записи: создание новой или перенос существующей
type UseCase struct {
	appointmentRepo AppointmentRepository
	tenantRepo      TenantRepository
	scheduleRepo    ScheduleRepository
	catalogRepo     CatalogRepository
	txManager       TransactionManager
	settings        scheduling.Settings
	metrics         MetricsRecorder
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	tenantRepo TenantRepository,
	scheduleRepo ScheduleRepository,
	catalogRepo CatalogRepository,
	txManager TransactionManager,
	settings scheduling.Settings,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		tenantRepo:      tenantRepo,
		scheduleRepo:    scheduleRepo,
		catalogRepo:     catalogRepo,
		txManager:       txManager,
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

// Execute выполняет use case допуска записи.
// Проверка пересечений и запись выполняются в одной сериализуемой транзакции,
// а ограничение appointments_no_overlap в БД отклоняет конкурентный дубль
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	uc.logger.Info("AdmitBooking: surface=%s, tenant=%d, provider=%d, service=%d, customer=%d, start=%s, duration=%d, edit=%v",
		req.Surface, req.TenantID, req.ProviderID, req.ServiceID, req.CustomerID,
		req.Start.Format(time.RFC3339), req.DurationMinutes, req.IsEdit())

	defer func() {
		if uc.metrics != nil {
			uc.metrics.ObserveAdmission(req.Surface, outcomeOf(err))
		}
	}()

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("AdmitBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Салон, услуга и мастер
	tenant, err := uc.getTenant(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}

	loc, err := uc.settings.Location(tenant)
	if err != nil {
		uc.logger.Error("AdmitBooking: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if err := uc.checkCatalog(ctx, req); err != nil {
		return nil, err
	}

	now := uc.timeProvider.Now().In(loc)
	start := req.Start.In(loc).Truncate(time.Minute)
	end := start.Add(time.Duration(req.DurationMinutes) * time.Minute)

	// 3. Редактирование: запись должна существовать и быть активной
	var existing *domain.Appointment
	if req.IsEdit() {
		existing, err = uc.getEditable(ctx, req.TenantID, *req.AppointmentID)
		if err != nil {
			return nil, err
		}
		// мастер переносит только свои записи
		if req.Surface == domain.SurfaceProfessional && existing.ProviderID != req.ProviderID {
			uc.logger.Warn("AdmitBooking: appointment id=%d belongs to provider=%d", existing.ID, existing.ProviderID)
			return nil, ErrAppointmentNotFound
		}
	}

	// Перенос без смены времени сохраняет исходный слот даже при нарушении политики
	keepsTime := existing != nil && existing.StartAt.Equal(start)
	keepsSlot := keepsTime && existing.ProviderID == req.ProviderID && existing.DurationMinutes == req.DurationMinutes

	// 4. Политика упреждения
	if !keepsTime {
		if err := scheduling.CheckLeadTime(tenant.Policy, start, now); err != nil {
			uc.logger.Warn("AdmitBooking: lead-time check failed for start=%s: %v", start.Format(time.RFC3339), err)
			return nil, err
		}
	}

	// 5. Интервал должен помещаться в рабочее окно мастера
	if !keepsSlot {
		if err := uc.checkWorkingHours(ctx, req, start, end); err != nil {
			return nil, err
		}
	}

	// 6. Проверка пересечений и запись в сериализуемой транзакции
	var result *domain.Appointment
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := uc.checkOverlap(txCtx, req, start, end); err != nil {
			return err
		}

		if existing == nil {
			created, err := uc.create(txCtx, req, start, end)
			if err != nil {
				return err
			}
			result = created
			return nil
		}

		updated, err := uc.move(txCtx, existing, req, start, end)
		if err != nil {
			return err
		}
		result = updated
		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrSerializationFailure) {
			uc.logger.Warn("AdmitBooking: concurrent admission for provider=%d at %s: %v",
				req.ProviderID, start.Format(time.RFC3339), err)
			return nil, ErrSlotTaken
		}
		if errors.Is(err, ErrSlotTaken) || errors.Is(err, ErrInternal) || errors.Is(err, ErrAppointmentNotFound) {
			return nil, err
		}
		uc.logger.Error("AdmitBooking: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
	}

	uc.logger.Info("AdmitBooking: admitted appointment id=%d, provider=%d, start=%s",
		result.ID, result.ProviderID, result.StartAt.Format(time.RFC3339))

	result.StartAt = result.StartAt.In(loc)
	result.EndAt = result.EndAt.In(loc)

	return toResponse(result, existing == nil), nil
}

func (uc *UseCase) getTenant(ctx context.Context, tenantID int64) (*domain.Tenant, error) {
	tenant, err := uc.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, tenantRepo.ErrTenantNotFound) {
			uc.logger.Warn("AdmitBooking: tenant id=%d not found", tenantID)
			return nil, ErrTenantNotFound
		}
		uc.logger.Error("AdmitBooking: failed to get tenant id=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: failed to get tenant: %v", ErrInternal, err)
	}
	return tenant, nil
}

// checkCatalog проверяет, что услуга и мастер принадлежат салону и активны
func (uc *UseCase) checkCatalog(ctx context.Context, req *Request) error {
	service, err := uc.catalogRepo.GetService(ctx, req.TenantID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("AdmitBooking: service id=%d not found in tenant id=%d", req.ServiceID, req.TenantID)
			return ErrServiceNotFound
		}
		uc.logger.Error("AdmitBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("AdmitBooking: service id=%d is inactive", req.ServiceID)
		return ErrServiceNotFound
	}

	provider, err := uc.catalogRepo.GetEmployee(ctx, req.TenantID, req.ProviderID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrEmployeeNotFound) {
			uc.logger.Warn("AdmitBooking: provider id=%d not found in tenant id=%d", req.ProviderID, req.TenantID)
			return ErrProviderNotFound
		}
		uc.logger.Error("AdmitBooking: failed to get provider id=%d: %v", req.ProviderID, err)
		return fmt.Errorf("%w: failed to get provider: %v", ErrInternal, err)
	}
	if !provider.CanTakeBookings() {
		uc.logger.Warn("AdmitBooking: employee id=%d cannot take bookings", req.ProviderID)
		return ErrProviderNotFound
	}

	return nil
}

func (uc *UseCase) getEditable(ctx context.Context, tenantID, appointmentID int64) (*domain.Appointment, error) {
	existing, err := uc.appointmentRepo.GetByID(ctx, tenantID, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("AdmitBooking: appointment id=%d not found", appointmentID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("AdmitBooking: failed to get appointment id=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}

	if !existing.CanBeEdited() {
		uc.logger.Warn("AdmitBooking: appointment id=%d has status %s", appointmentID, existing.Status)
		return nil, fmt.Errorf("%w: status is %s", ErrAppointmentNotEditable, existing.Status)
	}

	return existing, nil
}

// checkWorkingHours проверяет, что [start, end) лежит в рабочем окне мастера и не задевает перерыв
func (uc *UseCase) checkWorkingHours(ctx context.Context, req *Request, start, end time.Time) error {
	if !scheduling.IsSameDay(start, end.Add(-time.Nanosecond)) {
		uc.logger.Warn("AdmitBooking: interval %s-%s crosses midnight", start.Format(time.RFC3339), end.Format(time.RFC3339))
		return fmt.Errorf("%w: appointment must end on the same day", ErrOutsideWorkingHours)
	}

	weekday := domain.WeekdayOf(start)

	day, err := uc.scheduleRepo.GetBusinessDay(ctx, req.TenantID, weekday)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrBusinessDayNotFound) {
			return fmt.Errorf("%w: tenant has no hours on %s", ErrOutsideWorkingHours, weekday)
		}
		uc.logger.Error("AdmitBooking: failed to get business day %s: %v", weekday, err)
		return fmt.Errorf("%w: failed to get business day: %v", ErrInternal, err)
	}

	schedule, err := uc.scheduleRepo.GetProviderSchedule(ctx, req.TenantID, req.ProviderID, weekday)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrProviderScheduleNotFound) {
			return fmt.Errorf("%w: provider does not work on %s", ErrOutsideWorkingHours, weekday)
		}
		uc.logger.Error("AdmitBooking: failed to get provider schedule %s: %v", weekday, err)
		return fmt.Errorf("%w: failed to get provider schedule: %v", ErrInternal, err)
	}

	window, ok := scheduling.ResolveWindow(day, schedule)
	if !ok {
		return fmt.Errorf("%w: no working window on %s", ErrOutsideWorkingHours, weekday)
	}

	if !window.Fits(types.NewTimeString(start), req.DurationMinutes) {
		uc.logger.Warn("AdmitBooking: %s+%d does not fit window %s-%s",
			types.NewTimeString(start), req.DurationMinutes, window.Start, window.End)
		return fmt.Errorf("%w: %s-%s", ErrOutsideWorkingHours, window.Start, window.End)
	}

	return nil
}

// checkOverlap перечитывает записи мастера на день под блокировкой и проверяет пересечение.
// Редактируемая запись исключается из проверки
func (uc *UseCase) checkOverlap(ctx context.Context, req *Request, start, end time.Time) error {
	dayStart, dayEnd := scheduling.DayBounds(start)
	if end.After(dayEnd) {
		dayEnd = end
	}

	appointments, err := uc.appointmentRepo.List(ctx, domain.AppointmentsFilter{
		TenantID:   req.TenantID,
		ProviderID: &req.ProviderID,
		From:       dayStart,
		To:         dayEnd,
		ExcludeID:  req.AppointmentID,
	})
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrSlotConflict) {
			uc.logger.Warn("AdmitBooking: concurrent change of provider=%d day while re-reading: %v", req.ProviderID, err)
			return ErrSlotTaken
		}
		uc.logger.Error("AdmitBooking: failed to get appointments: %v", err)
		return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	for _, a := range appointments {
		if req.AppointmentID != nil && a.ID == *req.AppointmentID {
			continue
		}
		if a.IsActive() && a.Overlaps(start, end) {
			uc.logger.Warn("AdmitBooking: slot %s overlaps appointment id=%d", start.Format(time.RFC3339), a.ID)
			return ErrSlotTaken
		}
	}

	return nil
}

func (uc *UseCase) create(ctx context.Context, req *Request, start, end time.Time) (*domain.Appointment, error) {
	appointment := &domain.Appointment{
		TenantID:        req.TenantID,
		ProviderID:      req.ProviderID,
		CustomerID:      req.CustomerID,
		StartAt:         start,
		EndAt:           end,
		DurationMinutes: req.DurationMinutes,
		TotalPrice:      req.Price,
		Status:          domain.StatusPending,
		Note:            req.Note,
		Items: []domain.LineItem{{
			ServiceID:       req.ServiceID,
			DurationMinutes: req.DurationMinutes,
			Price:           req.Price,
		}},
	}

	created, err := uc.appointmentRepo.Create(ctx, appointment)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrSlotConflict) {
			uc.logger.Warn("AdmitBooking: storage rejected overlapping appointment: %v", err)
			return nil, ErrSlotTaken
		}
		uc.logger.Error("AdmitBooking: failed to create appointment: %v", err)
		return nil, fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
	}

	return created, nil
}

func (uc *UseCase) move(ctx context.Context, existing *domain.Appointment, req *Request, start, end time.Time) (*domain.Appointment, error) {
	moved := *existing
	moved.ProviderID = req.ProviderID
	moved.StartAt = start
	moved.EndAt = end
	moved.DurationMinutes = req.DurationMinutes
	moved.TotalPrice = req.Price
	moved.Note = req.Note

	updated, err := uc.appointmentRepo.Update(ctx, &moved)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrSlotConflict) {
			uc.logger.Warn("AdmitBooking: storage rejected overlapping move: %v", err)
			return nil, ErrSlotTaken
		}
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("AdmitBooking: failed to update appointment id=%d: %v", existing.ID, err)
		return nil, fmt.Errorf("%w: failed to update appointment: %v", ErrInternal, err)
	}

	// Одна услуга на запись: позиции удаляются и вставляются заново
	items, err := uc.appointmentRepo.ReplaceItems(ctx, updated.ID, []domain.LineItem{{
		ServiceID:       req.ServiceID,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
	}})
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrSlotConflict) {
			uc.logger.Warn("AdmitBooking: concurrent change while replacing items of appointment id=%d: %v", existing.ID, err)
			return nil, ErrSlotTaken
		}
		uc.logger.Error("AdmitBooking: failed to replace items of appointment id=%d: %v", existing.ID, err)
		return nil, fmt.Errorf("%w: failed to replace items: %v", ErrInternal, err)
	}
	updated.Items = items

	return updated, nil
}
