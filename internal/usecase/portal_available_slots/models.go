package portal_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Request модель запроса слотов из формы портала
type Request struct {
	TenantToken   string
	SessionToken  string
	ServiceID     int64
	EmployeeID    int64
	Date          time.Time
	AppointmentID *int64 // запись клиента при переносе
}

// Response модель ответа со слотами
type Response struct {
	Date  time.Time
	Slots []types.TimeString
}
