package update_appointment

import (
	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers/create_appointment"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	admitBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/admit_booking"
)

// UpdateAppointmentRequest HTTP request model: тело совпадает с созданием
type UpdateAppointmentRequest struct {
	create_appointment.CreateAppointmentRequest
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case редактирования
func (r *UpdateAppointmentRequest) ToUseCaseRequest(identity domain.StaffIdentity, appointmentID int64) (*admitBooking.Request, error) {
	req, err := r.CreateAppointmentRequest.ToUseCaseRequest(identity)
	if err != nil {
		return nil, err
	}
	req.AppointmentID = &appointmentID
	return req, nil
}
