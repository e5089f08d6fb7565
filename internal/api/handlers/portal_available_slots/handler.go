package portal_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	portalAvailableSlots "github.com/m04kA/SMC-SchedulingService/internal/usecase/portal_available_slots"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgUnauthorized       = "сессия недействительна, войдите заново"
	msgNotFound           = "услуга, мастер или запись не найдены"
	msgInvalidInput       = "некорректные данные запроса"
	msgInternal           = "внутренняя ошибка сервера"
)

type Handler struct {
	useCase PortalAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase PortalAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/portal/available-slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req AvailableSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /portal/available-slots - Invalid request body: %v", err)
		handlers.RespondJSON(w, http.StatusBadRequest, failure(msgInvalidRequestBody))
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /portal/available-slots - Invalid date: %v", err)
		handlers.RespondJSON(w, http.StatusBadRequest, failure(msgInvalidDate))
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, portalAvailableSlots.ErrUnauthorized):
			h.logger.Warn("POST /portal/available-slots - Unauthorized")
			handlers.RespondJSON(w, http.StatusUnauthorized, failure(msgUnauthorized))

		case errors.Is(err, portalAvailableSlots.ErrNotFound):
			h.logger.Warn("POST /portal/available-slots - Not found: %v", err)
			handlers.RespondJSON(w, http.StatusNotFound, failure(msgNotFound))

		case errors.Is(err, portalAvailableSlots.ErrInvalidInput):
			h.logger.Warn("POST /portal/available-slots - Invalid input: %v", err)
			handlers.RespondJSON(w, http.StatusBadRequest, failure(msgInvalidInput))

		default:
			h.logger.Error("POST /portal/available-slots - Failed to get slots: %v", err)
			handlers.RespondJSON(w, http.StatusInternalServerError, failure(msgInternal))
		}
		return
	}

	h.logger.Info("POST /portal/available-slots - Slots retrieved successfully: service_id=%d, employee_id=%d, slots_count=%d",
		req.ServiceID, req.EmployeeID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
