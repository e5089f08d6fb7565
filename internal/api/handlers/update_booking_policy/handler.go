package update_booking_policy

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/settings"
	"github.com/m04kA/SMC-SchedulingService/internal/service/settings/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingIdentity    = "требуется авторизация"
	msgForbidden          = "изменять настройки может только администратор салона"
	msgInvalidPolicy      = "некорректная политика записи"
	msgTenantNotFound     = "салон не найден"
)

type Handler struct {
	service SettingsService
	logger  Logger
}

func NewHandler(service SettingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/settings/booking-policy
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetStaffIdentity(r.Context())
	if !ok {
		h.logger.Warn("PUT /settings/booking-policy - Missing staff identity")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	var req models.UpdateBookingPolicyRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /settings/booking-policy - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.Identity = identity

	policy, err := h.service.UpdateBookingPolicy(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, settings.ErrAccessDenied):
			h.logger.Warn("PUT /settings/booking-policy - Access denied: employee_id=%d", identity.EmployeeID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, settings.ErrInvalidInput):
			h.logger.Warn("PUT /settings/booking-policy - Invalid policy: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPolicy)

		case errors.Is(err, settings.ErrTenantNotFound):
			h.logger.Warn("PUT /settings/booking-policy - Tenant not found: tenant_id=%d", identity.TenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		default:
			h.logger.Error("PUT /settings/booking-policy - Failed to update policy: tenant_id=%d, error=%v", identity.TenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /settings/booking-policy - Policy updated: tenant_id=%d, mode=%s, min_hours=%d",
		identity.TenantID, policy.Mode, policy.MinHours)
	handlers.RespondJSON(w, http.StatusOK, policy)
}
