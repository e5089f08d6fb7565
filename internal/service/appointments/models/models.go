package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// MaxListRangeDays максимальный период выборки записей
const MaxListRangeDays = 31

// Request модели

// ListRequest запрос на получение записей салона за период
type ListRequest struct {
	Identity         domain.StaffIdentity
	ProviderID       *int64 // фильтр по мастеру (опционально)
	CustomerID       *int64 // фильтр по клиенту (опционально)
	From             time.Time
	To               time.Time
	IncludeCancelled bool
}

// UpdateStatusRequest запрос на смену статуса записи
type UpdateStatusRequest struct {
	Identity domain.StaffIdentity
	Status   string
}

// Response модели

// ItemResponse позиция записи
type ItemResponse struct {
	ID              int64           `json:"id"`
	ServiceID       int64           `json:"serviceId"`
	DurationMinutes int             `json:"durationMinutes"`
	Price           decimal.Decimal `json:"price"`
}

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID              int64           `json:"id"`
	TenantID        int64           `json:"tenantId"`
	ProviderID      int64           `json:"providerId"`
	CustomerID      int64           `json:"customerId"`
	Date            string          `json:"date"`      // "2025-04-14" в зоне салона
	StartTime       string          `json:"startTime"` // "10:00" в зоне салона
	StartAt         time.Time       `json:"startAt"`
	EndAt           time.Time       `json:"endAt"`
	DurationMinutes int             `json:"durationMinutes"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	Status          string          `json:"status"`
	Note            *string         `json:"note,omitempty"`
	Items           []ItemResponse  `json:"items"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO, время приводится к зоне салона
func FromDomainAppointment(a *domain.Appointment, loc *time.Location) *AppointmentResponse {
	if a == nil {
		return nil
	}

	start := a.StartAt.In(loc)
	items := make([]ItemResponse, 0, len(a.Items))
	for _, item := range a.Items {
		items = append(items, ItemResponse{
			ID:              item.ID,
			ServiceID:       item.ServiceID,
			DurationMinutes: item.DurationMinutes,
			Price:           item.Price,
		})
	}

	return &AppointmentResponse{
		ID:              a.ID,
		TenantID:        a.TenantID,
		ProviderID:      a.ProviderID,
		CustomerID:      a.CustomerID,
		Date:            start.Format(domain.DateFormat),
		StartTime:       start.Format(domain.TimeFormat),
		StartAt:         start,
		EndAt:           a.EndAt.In(loc),
		DurationMinutes: a.DurationMinutes,
		TotalPrice:      a.TotalPrice,
		Status:          string(a.Status),
		Note:            a.Note,
		Items:           items,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment, loc *time.Location) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}

	for _, a := range appointments {
		if converted := FromDomainAppointment(a, loc); converted != nil {
			resp.Appointments = append(resp.Appointments, *converted)
		}
	}

	return resp
}

// ToDomainStatus конвертирует строку в domain.AppointmentStatus с валидацией
func ToDomainStatus(status string) (domain.AppointmentStatus, error) {
	s := domain.AppointmentStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
