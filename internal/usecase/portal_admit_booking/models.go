package portal_admit_booking

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request модель запроса записи из формы портала.
// DurationMinutes и Price приходят из формы, но сохраняются значения из каталога
type Request struct {
	TenantToken     string
	SessionToken    string
	ServiceID       int64
	EmployeeID      int64
	Start           time.Time
	DurationMinutes int
	Price           decimal.Decimal
	Note            *string
	AppointmentID   *int64 // запись клиента при переносе
}

// Response модель ответа
type Response struct {
	AppointmentID int64
	Created       bool
}
