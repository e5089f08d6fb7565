package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	getAvailableSlots "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidProviderID   = "некорректный ID мастера"
	msgInvalidQuery        = "некорректные параметры запроса: ожидается date=YYYY-MM-DD и serviceId или durationMinutes"
	msgMissingIdentity     = "требуется авторизация"
	msgForbidden           = "мастер может просматривать только свое расписание"
	msgTenantNotFound      = "салон не найден"
	msgProviderNotFound    = "мастер не найден"
	msgServiceNotFound     = "услуга не найдена"
	msgAppointmentNotFound = "запись не найдена"
	msgInvalidInput        = "некорректные данные запроса"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/providers/{providerId}/available-slots
// Query params: date (required, YYYY-MM-DD), serviceId или durationMinutes, excludeAppointmentId
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetStaffIdentity(r.Context())
	if !ok {
		h.logger.Warn("GET /providers/{id}/available-slots - Missing staff identity")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	providerID, err := strconv.ParseInt(mux.Vars(r)["providerId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /providers/{id}/available-slots - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	if !identity.CanActFor(providerID) {
		h.logger.Warn("GET /providers/{id}/available-slots - Forbidden: employee_id=%d, provider_id=%d",
			identity.EmployeeID, providerID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	useCaseReq, err := ToUseCaseRequest(identity, providerID, r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /providers/{id}/available-slots - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrTenantNotFound):
			h.logger.Warn("GET /providers/{id}/available-slots - Tenant not found: tenant_id=%d", identity.TenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		case errors.Is(err, getAvailableSlots.ErrProviderNotFound):
			h.logger.Warn("GET /providers/{id}/available-slots - Provider not found: provider_id=%d", providerID)
			handlers.RespondNotFound(w, msgProviderNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /providers/{id}/available-slots - Service not found: provider_id=%d", providerID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrAppointmentNotFound):
			h.logger.Warn("GET /providers/{id}/available-slots - Appointment not found: provider_id=%d", providerID)
			handlers.RespondNotFound(w, msgAppointmentNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /providers/{id}/available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /providers/{id}/available-slots - Failed to get slots: tenant_id=%d, provider_id=%d, error=%v",
				identity.TenantID, providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /providers/{id}/available-slots - Slots retrieved successfully: tenant_id=%d, provider_id=%d, slots_count=%d",
		identity.TenantID, providerID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
