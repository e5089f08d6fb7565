package list_appointments

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments"
)

const (
	msgInvalidQuery    = "некорректные параметры запроса: ожидаются from и to в формате RFC3339"
	msgMissingIdentity = "требуется авторизация"
	msgForbidden       = "мастер может просматривать только свои записи"
	msgInvalidRange    = "некорректный период выборки"
	msgTenantNotFound  = "салон не найден"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/appointments
// Query params: from, to (required, RFC3339), providerId, customerId, includeCancelled
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetStaffIdentity(r.Context())
	if !ok {
		h.logger.Warn("GET /appointments - Missing staff identity")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	req, err := ToServiceRequest(identity, r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /appointments - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("GET /appointments - Access denied: employee_id=%d", identity.EmployeeID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /appointments - Invalid range: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, appointments.ErrTenantNotFound):
			h.logger.Warn("GET /appointments - Tenant not found: tenant_id=%d", identity.TenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		default:
			h.logger.Error("GET /appointments - Failed to list appointments: tenant_id=%d, error=%v", identity.TenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /appointments - Appointments retrieved successfully: tenant_id=%d, count=%d",
		identity.TenantID, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}
