package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

var appointmentColumns = []string{
	"id",
	"tenant_id",
	"provider_id",
	"customer_id",
	"start_at",
	"end_at",
	"duration_minutes",
	"total_price",
	"status",
	"note",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с записями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает запись вместе с позициями.
// Если в контексте передана активная транзакция, использует её.
// Пересечение с другой активной записью мастера отклоняется ограничением
// appointments_no_overlap и возвращается как ErrSlotConflict
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"tenant_id",
			"provider_id",
			"customer_id",
			"start_at",
			"end_at",
			"duration_minutes",
			"total_price",
			"status",
			"note",
		).
		Values(
			a.TenantID,
			a.ProviderID,
			a.CustomerID,
			a.StartAt,
			a.EndAt,
			a.DurationMinutes,
			a.TotalPrice,
			a.Status,
			a.Note,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&a.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isSlotConflict(err) {
			return nil, fmt.Errorf("%w: Create: %v", ErrSlotConflict, err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	items, err := r.insertItems(ctx, a.ID, a.Items)
	if err != nil {
		return nil, err
	}
	a.Items = items

	return a, nil
}

// GetByID получает запись салона по ID вместе с позициями
func (r *Repository) GetByID(ctx context.Context, tenantID, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id, "tenant_id": tenantID})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	items, err := r.listItems(ctx, []int64{a.ID})
	if err != nil {
		return nil, err
	}
	a.Items = items[a.ID]

	return a, nil
}

// List получает записи, пересекающие интервал [From, To).
// Внутри транзакции строки блокируются (FOR UPDATE), чтобы проверка
// доступности и вставка новой записи выполнялись атомарно
//
// Примеры использования:
//
// 1. Занятость мастера на день (без редактируемой записи):
//    filter := domain.AppointmentsFilter{TenantID: 1, ProviderID: &providerID, From: dayStart, To: dayEnd, ExcludeID: &id}
//
// 2. Все записи клиента, включая отмененные:
//    filter := domain.AppointmentsFilter{TenantID: 1, CustomerID: &customerID, IncludeCancelled: true}
func (r *Repository) List(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"tenant_id": filter.TenantID}).
		OrderBy("start_at ASC", "id ASC")

	if filter.ProviderID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"provider_id": *filter.ProviderID})
	}
	if filter.CustomerID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
	}
	// Полуоткрытое пересечение: запись, закончившаяся ровно в From, не попадает
	if !filter.To.IsZero() {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"start_at": filter.To})
	}
	if !filter.From.IsZero() {
		selectBuilder = selectBuilder.Where(squirrel.Gt{"end_at": filter.From})
	}
	if filter.ExcludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *filter.ExcludeID})
	}
	if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": domain.StatusCancelled})
	}

	if dbmetrics.IsInTransaction(ctx) && filter.ProviderID != nil {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapDriverError(ErrExecQuery, "List - execute query", err)
	}
	defer rows.Close()

	appointments := make([]*domain.Appointment, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, a)
		ids = append(ids, a.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDriverError(ErrScanRow, "List - rows error", err)
	}

	if len(ids) == 0 {
		return appointments, nil
	}

	items, err := r.listItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, a := range appointments {
		a.Items = items[a.ID]
	}

	return appointments, nil
}

// Update переносит запись на новое время/мастера и обновляет стоимость
func (r *Repository) Update(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("provider_id", a.ProviderID).
		Set("start_at", a.StartAt).
		Set("end_at", a.EndAt).
		Set("duration_minutes", a.DurationMinutes).
		Set("total_price", a.TotalPrice).
		Set("note", a.Note).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": a.ID, "tenant_id": a.TenantID}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		if isSlotConflict(err) {
			return nil, fmt.Errorf("%w: Update: %v", ErrSlotConflict, err)
		}
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return a, nil
}

// UpdateStatus меняет статус записи
func (r *Repository) UpdateStatus(ctx context.Context, tenantID, id int64, status domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "tenant_id": tenantID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		// Возврат отмененной записи в работу может снова столкнуться с другой записью
		if isSlotConflict(err) {
			return fmt.Errorf("%w: UpdateStatus: %v", ErrSlotConflict, err)
		}
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// ReplaceItems заменяет позиции записи
func (r *Repository) ReplaceItems(ctx context.Context, appointmentID int64, items []domain.LineItem) ([]domain.LineItem, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("appointment_items").
		Where(squirrel.Eq{"appointment_id": appointmentID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ReplaceItems - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, wrapDriverError(ErrExecQuery, "ReplaceItems - execute delete", err)
	}

	return r.insertItems(ctx, appointmentID, items)
}

func (r *Repository) insertItems(ctx context.Context, appointmentID int64, items []domain.LineItem) ([]domain.LineItem, error) {
	if len(items) == 0 {
		return []domain.LineItem{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("appointment_items").
		Columns("appointment_id", "service_id", "duration_minutes", "price").
		Suffix("RETURNING id")
	for _, item := range items {
		insertBuilder = insertBuilder.Values(appointmentID, item.ServiceID, item.DurationMinutes, item.Price)
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: insertItems - build insert query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapDriverError(ErrExecQuery, "insertItems - execute insert", err)
	}
	defer rows.Close()

	result := make([]domain.LineItem, 0, len(items))
	for i := 0; rows.Next(); i++ {
		if i >= len(items) {
			break
		}
		item := items[i]
		if err := rows.Scan(&item.ID); err != nil {
			return nil, fmt.Errorf("%w: insertItems - scan id: %v", ErrScanRow, err)
		}
		item.AppointmentID = appointmentID
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDriverError(ErrScanRow, "insertItems - rows error", err)
	}

	return result, nil
}

func (r *Repository) listItems(ctx context.Context, appointmentIDs []int64) (map[int64][]domain.LineItem, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "appointment_id", "service_id", "duration_minutes", "price").
		From("appointment_items").
		Where(squirrel.Eq{"appointment_id": appointmentIDs}).
		OrderBy("appointment_id ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: listItems - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapDriverError(ErrExecQuery, "listItems - execute query", err)
	}
	defer rows.Close()

	items := make(map[int64][]domain.LineItem, len(appointmentIDs))
	for rows.Next() {
		var item domain.LineItem
		if err := rows.Scan(&item.ID, &item.AppointmentID, &item.ServiceID, &item.DurationMinutes, &item.Price); err != nil {
			return nil, fmt.Errorf("%w: listItems - scan row: %v", ErrScanRow, err)
		}
		items[item.AppointmentID] = append(items[item.AppointmentID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDriverError(ErrScanRow, "listItems - rows error", err)
	}

	return items, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var a domain.Appointment
	var note sql.NullString
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&a.ID,
		&a.TenantID,
		&a.ProviderID,
		&a.CustomerID,
		&a.StartAt,
		&a.EndAt,
		&a.DurationMinutes,
		&a.TotalPrice,
		&a.Status,
		&note,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if note.Valid {
		a.Note = &note.String
	}
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return &a, nil
}
