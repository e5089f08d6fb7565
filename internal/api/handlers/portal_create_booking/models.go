package portal_create_booking

import (
	"time"

	"github.com/shopspring/decimal"

	portalAdmitBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/portal_admit_booking"
)

// CreateBookingRequest HTTP request model формы портала
type CreateBookingRequest struct {
	TenantToken     string          `json:"tenant_token"`
	SessionToken    string          `json:"session_token"`
	ServiceID       int64           `json:"service_id"`
	EmployeeID      int64           `json:"employee_id"`
	StartISO        string          `json:"start_iso"` // RFC3339 со смещением зоны
	DurationMinutes int             `json:"duration_minutes"`
	Price           decimal.Decimal `json:"price"`
	Notes           *string         `json:"notes,omitempty"`
	AppointmentID   *int64          `json:"appointment_id,omitempty"`
}

// CreateBookingResponse HTTP response model
type CreateBookingResponse struct {
	OK            bool   `json:"ok"`
	AppointmentID int64  `json:"appointment_id,omitempty"`
	Error         string `json:"error,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() (*portalAdmitBooking.Request, error) {
	start, err := time.Parse(time.RFC3339, r.StartISO)
	if err != nil {
		return nil, err
	}

	return &portalAdmitBooking.Request{
		TenantToken:     r.TenantToken,
		SessionToken:    r.SessionToken,
		ServiceID:       r.ServiceID,
		EmployeeID:      r.EmployeeID,
		Start:           start,
		DurationMinutes: r.DurationMinutes,
		Price:           r.Price,
		Note:            r.Notes,
		AppointmentID:   r.AppointmentID,
	}, nil
}

func failure(message string) *CreateBookingResponse {
	return &CreateBookingResponse{OK: false, Error: message}
}
