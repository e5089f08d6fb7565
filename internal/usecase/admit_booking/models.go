package admit_booking

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Request модель запроса на создание или перенос записи
type Request struct {
	TenantID        int64
	ProviderID      int64
	ServiceID       int64
	CustomerID      int64
	Start           time.Time // момент начала, переводится в зону салона
	DurationMinutes int
	Price           decimal.Decimal
	Note            *string
	// AppointmentID задан при редактировании существующей записи
	AppointmentID *int64
	Surface       string // staff / professional / portal, только для метрик и логов
}

// IsEdit возвращает true, если запрос переносит существующую запись
func (r *Request) IsEdit() bool {
	return r.AppointmentID != nil
}

// Response модель ответа с сохраненной записью
type Response struct {
	ID              int64
	TenantID        int64
	ProviderID      int64
	CustomerID      int64
	StartAt         time.Time
	EndAt           time.Time
	DurationMinutes int
	TotalPrice      decimal.Decimal
	Status          string
	Note            *string
	Items           []Item
	Created         bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Item позиция записи
type Item struct {
	ID              int64
	ServiceID       int64
	DurationMinutes int
	Price           decimal.Decimal
}

func toResponse(a *domain.Appointment, created bool) *Response {
	items := make([]Item, 0, len(a.Items))
	for _, item := range a.Items {
		items = append(items, Item{
			ID:              item.ID,
			ServiceID:       item.ServiceID,
			DurationMinutes: item.DurationMinutes,
			Price:           item.Price,
		})
	}

	return &Response{
		ID:              a.ID,
		TenantID:        a.TenantID,
		ProviderID:      a.ProviderID,
		CustomerID:      a.CustomerID,
		StartAt:         a.StartAt,
		EndAt:           a.EndAt,
		DurationMinutes: a.DurationMinutes,
		TotalPrice:      a.TotalPrice,
		Status:          string(a.Status),
		Note:            a.Note,
		Items:           items,
		Created:         created,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}
