package update_appointment_status

import (
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
)

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateStatusRequest) ToServiceRequest(identity domain.StaffIdentity) *models.UpdateStatusRequest {
	return &models.UpdateStatusRequest{
		Identity: identity,
		Status:   r.Status,
	}
}
