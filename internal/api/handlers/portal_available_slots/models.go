package portal_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	portalAvailableSlots "github.com/m04kA/SMC-SchedulingService/internal/usecase/portal_available_slots"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// AvailableSlotsRequest HTTP request model формы портала
type AvailableSlotsRequest struct {
	TenantToken   string `json:"tenant_token"`
	SessionToken  string `json:"session_token"`
	ServiceID     int64  `json:"service_id"`
	EmployeeID    int64  `json:"employee_id"`
	Date          string `json:"date"` // "2025-04-14"
	AppointmentID *int64 `json:"appointment_id,omitempty"`
}

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	OK    bool               `json:"ok"`
	Date  string             `json:"date,omitempty"`
	Slots []types.TimeString `json:"slots"`
	Error string             `json:"error,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *AvailableSlotsRequest) ToUseCaseRequest() (*portalAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	return &portalAvailableSlots.Request{
		TenantToken:   r.TenantToken,
		SessionToken:  r.SessionToken,
		ServiceID:     r.ServiceID,
		EmployeeID:    r.EmployeeID,
		Date:          date,
		AppointmentID: r.AppointmentID,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *portalAvailableSlots.Response) *AvailableSlotsResponse {
	return &AvailableSlotsResponse{
		OK:    true,
		Date:  resp.Date.Format(domain.DateFormat),
		Slots: resp.Slots,
	}
}

func failure(message string) *AvailableSlotsResponse {
	return &AvailableSlotsResponse{OK: false, Slots: []types.TimeString{}, Error: message}
}
