package get_booking_policy

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/settings"
)

const (
	msgMissingIdentity = "требуется авторизация"
	msgTenantNotFound  = "салон не найден"
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

// Handle GET /api/v1/settings/booking-policy
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetStaffIdentity(r.Context())
	if !ok {
		h.logger.Warn("GET /settings/booking-policy - Missing staff identity")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	policy, err := h.service.GetBookingPolicy(r.Context(), identity)
	if err != nil {
		if errors.Is(err, settings.ErrTenantNotFound) {
			h.logger.Warn("GET /settings/booking-policy - Tenant not found: tenant_id=%d", identity.TenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)
			return
		}
		h.logger.Error("GET /settings/booking-policy - Failed to get policy: tenant_id=%d, error=%v", identity.TenantID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, policy)
}
