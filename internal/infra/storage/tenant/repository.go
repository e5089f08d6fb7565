package tenant

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

// Repository репозиторий салонов и их политики записи
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория салонов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает салон по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Tenant, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id})
}

// GetByPortalToken получает салон по публичному токену клиентского портала
func (r *Repository) GetByPortalToken(ctx context.Context, token string) (*domain.Tenant, error) {
	if token == "" {
		return nil, ErrTenantNotFound
	}
	return r.getOne(ctx, "GetByPortalToken", squirrel.Eq{"portal_token": token})
}

// UpdateBookingPolicy сохраняет политику упреждения салона
func (r *Repository) UpdateBookingPolicy(ctx context.Context, id int64, policy domain.BookingPolicy) (*domain.Tenant, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("tenants").
		Set("booking_mode", policy.Mode).
		Set("booking_min_hours", policy.MinHours).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + tenantColumns).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpdateBookingPolicy - build update query: %v", ErrBuildQuery, err)
	}

	t, err := scanTenant(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTenantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateBookingPolicy - execute update: %v", ErrExecQuery, err)
	}

	return t, nil
}

const tenantColumns = "id, name, timezone, portal_token, booking_mode, booking_min_hours, created_at, updated_at"

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Eq) (*domain.Tenant, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(tenantColumns).
		From("tenants").
		Where(where).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	t, err := scanTenant(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTenantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan tenant: %v", ErrScanRow, op, err)
	}

	return t, nil
}

func scanTenant(row *sql.Row) (*domain.Tenant, error) {
	var t domain.Tenant
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Timezone,
		&t.PortalToken,
		&t.Policy.Mode,
		&t.Policy.MinHours,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time

	return &t, nil
}
