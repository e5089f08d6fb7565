package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Repository репозиторий часов работы салона и расписаний мастеров
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetBusinessDay получает часы работы салона на день недели
func (r *Repository) GetBusinessDay(ctx context.Context, tenantID int64, weekday domain.Weekday) (*domain.BusinessDay, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := businessDaysSelect().
		Where(squirrel.Eq{"tenant_id": tenantID, "weekday": int(weekday)}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBusinessDay - build select query: %v", ErrBuildQuery, err)
	}

	day, err := scanBusinessDay(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBusinessDayNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBusinessDay - scan business day: %v", ErrScanRow, err)
	}

	return day, nil
}

// ListBusinessDays получает неделю салона, отсортированную по дню недели
func (r *Repository) ListBusinessDays(ctx context.Context, tenantID int64) ([]domain.BusinessDay, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := businessDaysSelect().
		Where(squirrel.Eq{"tenant_id": tenantID}).
		OrderBy("weekday ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListBusinessDays - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBusinessDays - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	days := make([]domain.BusinessDay, 0, 7)
	for rows.Next() {
		day, err := scanBusinessDay(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListBusinessDays - scan row: %v", ErrScanRow, err)
		}
		days = append(days, *day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBusinessDays - rows error: %v", ErrScanRow, err)
	}

	return days, nil
}

// ReplaceBusinessDays заменяет неделю салона целиком.
// Вызывать внутри транзакции
func (r *Repository) ReplaceBusinessDays(ctx context.Context, tenantID int64, days []domain.BusinessDay) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("business_days").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ReplaceBusinessDays - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceBusinessDays - execute delete: %v", ErrExecQuery, err)
	}

	if len(days) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("business_days").
		Columns("tenant_id", "weekday", "is_closed", "open_time", "close_time", "break_start", "break_end")
	for _, d := range days {
		insertBuilder = insertBuilder.Values(
			tenantID,
			int(d.Weekday),
			d.IsClosed,
			d.OpenTime,
			d.CloseTime,
			d.BreakStart,
			d.BreakEnd,
		)
	}

	query, args, err = insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceBusinessDays - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceBusinessDays - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetProviderSchedule получает часы мастера на день недели
func (r *Repository) GetProviderSchedule(ctx context.Context, tenantID, providerID int64, weekday domain.Weekday) (*domain.ProviderSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := providerSchedulesSelect().
		Where(squirrel.Eq{"tenant_id": tenantID, "provider_id": providerID, "weekday": int(weekday)}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetProviderSchedule - build select query: %v", ErrBuildQuery, err)
	}

	schedule, err := scanProviderSchedule(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProviderScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetProviderSchedule - scan schedule: %v", ErrScanRow, err)
	}

	return schedule, nil
}

// ListProviderSchedules получает рабочую неделю мастера
func (r *Repository) ListProviderSchedules(ctx context.Context, tenantID, providerID int64) ([]domain.ProviderSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := providerSchedulesSelect().
		Where(squirrel.Eq{"tenant_id": tenantID, "provider_id": providerID}).
		OrderBy("weekday ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListProviderSchedules - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListProviderSchedules - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	schedules := make([]domain.ProviderSchedule, 0, 7)
	for rows.Next() {
		s, err := scanProviderSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListProviderSchedules - scan row: %v", ErrScanRow, err)
		}
		schedules = append(schedules, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListProviderSchedules - rows error: %v", ErrScanRow, err)
	}

	return schedules, nil
}

// ReplaceProviderSchedules заменяет рабочую неделю мастера.
// Отсутствующий день недели означает выходной
func (r *Repository) ReplaceProviderSchedules(ctx context.Context, tenantID, providerID int64, schedules []domain.ProviderSchedule) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("provider_schedules").
		Where(squirrel.Eq{"tenant_id": tenantID, "provider_id": providerID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ReplaceProviderSchedules - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceProviderSchedules - execute delete: %v", ErrExecQuery, err)
	}

	if len(schedules) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("provider_schedules").
		Columns("provider_id", "tenant_id", "weekday", "start_time", "end_time", "lunch_start", "lunch_end")
	for _, s := range schedules {
		insertBuilder = insertBuilder.Values(
			providerID,
			tenantID,
			int(s.Weekday),
			s.StartTime,
			s.EndTime,
			s.LunchStart,
			s.LunchEnd,
		)
	}

	query, args, err = insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceProviderSchedules - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceProviderSchedules - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

func businessDaysSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"tenant_id",
		"weekday",
		"is_closed",
		"open_time",
		"close_time",
		"break_start",
		"break_end",
	).From("business_days")
}

func providerSchedulesSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"provider_id",
		"tenant_id",
		"weekday",
		"start_time",
		"end_time",
		"lunch_start",
		"lunch_end",
	).From("provider_schedules")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBusinessDay(row rowScanner) (*domain.BusinessDay, error) {
	var day domain.BusinessDay
	var weekday int
	var breakStart, breakEnd types.TimeString

	err := row.Scan(
		&day.TenantID,
		&weekday,
		&day.IsClosed,
		&day.OpenTime,
		&day.CloseTime,
		&breakStart,
		&breakEnd,
	)
	if err != nil {
		return nil, err
	}

	day.Weekday = domain.Weekday(weekday)
	day.BreakStart = optionalTime(breakStart)
	day.BreakEnd = optionalTime(breakEnd)

	return &day, nil
}

func scanProviderSchedule(row rowScanner) (*domain.ProviderSchedule, error) {
	var s domain.ProviderSchedule
	var weekday int
	var lunchStart, lunchEnd types.TimeString

	err := row.Scan(
		&s.ProviderID,
		&s.TenantID,
		&weekday,
		&s.StartTime,
		&s.EndTime,
		&lunchStart,
		&lunchEnd,
	)
	if err != nil {
		return nil, err
	}

	s.Weekday = domain.Weekday(weekday)
	s.LunchStart = optionalTime(lunchStart)
	s.LunchEnd = optionalTime(lunchEnd)

	return &s, nil
}

// optionalTime превращает NULL колонку (пустое значение) в nil
func optionalTime(t types.TimeString) *types.TimeString {
	if t.IsZero() {
		return nil
	}
	return &t
}
