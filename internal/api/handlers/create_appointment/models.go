package create_appointment

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	admitBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/admit_booking"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	ProviderID      int64           `json:"providerId"`
	ServiceID       int64           `json:"serviceId"`
	CustomerID      int64           `json:"customerId"`
	Start           string          `json:"start"` // RFC3339, "2025-04-14T10:00:00+03:00"
	DurationMinutes int             `json:"durationMinutes"`
	Price           decimal.Decimal `json:"price"`
	Note            *string         `json:"note,omitempty"`
}

// ItemResponse HTTP response model позиции записи
type ItemResponse struct {
	ID              int64           `json:"id"`
	ServiceID       int64           `json:"serviceId"`
	DurationMinutes int             `json:"durationMinutes"`
	Price           decimal.Decimal `json:"price"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID              int64           `json:"id"`
	TenantID        int64           `json:"tenantId"`
	ProviderID      int64           `json:"providerId"`
	CustomerID      int64           `json:"customerId"`
	Date            string          `json:"date"`
	StartTime       string          `json:"startTime"`
	StartAt         string          `json:"startAt"`
	EndAt           string          `json:"endAt"`
	DurationMinutes int             `json:"durationMinutes"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	Status          string          `json:"status"`
	Note            *string         `json:"note,omitempty"`
	Items           []ItemResponse  `json:"items"`
	CreatedAt       string          `json:"createdAt"`
	UpdatedAt       string          `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(identity domain.StaffIdentity) (*admitBooking.Request, error) {
	start, err := time.Parse(time.RFC3339, r.Start)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}

	return &admitBooking.Request{
		TenantID:        identity.TenantID,
		ProviderID:      r.ProviderID,
		ServiceID:       r.ServiceID,
		CustomerID:      r.CustomerID,
		Start:           start,
		DurationMinutes: r.DurationMinutes,
		Price:           r.Price,
		Note:            r.Note,
		Surface:         identity.Surface(),
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response.
// Дата и время начала отдаются в зоне салона
func FromUseCaseResponse(resp *admitBooking.Response) *AppointmentResponse {
	items := make([]ItemResponse, 0, len(resp.Items))
	for _, item := range resp.Items {
		items = append(items, ItemResponse{
			ID:              item.ID,
			ServiceID:       item.ServiceID,
			DurationMinutes: item.DurationMinutes,
			Price:           item.Price,
		})
	}

	return &AppointmentResponse{
		ID:              resp.ID,
		TenantID:        resp.TenantID,
		ProviderID:      resp.ProviderID,
		CustomerID:      resp.CustomerID,
		Date:            resp.StartAt.Format(domain.DateFormat),
		StartTime:       resp.StartAt.Format(domain.TimeFormat),
		StartAt:         resp.StartAt.Format(time.RFC3339),
		EndAt:           resp.EndAt.Format(time.RFC3339),
		DurationMinutes: resp.DurationMinutes,
		TotalPrice:      resp.TotalPrice,
		Status:          resp.Status,
		Note:            resp.Note,
		Items:           items,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
