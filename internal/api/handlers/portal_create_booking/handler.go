package portal_create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	portalAdmitBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/portal_admit_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStart       = "некорректное время начала, ожидается ISO 8601 со смещением зоны"
	msgUnauthorized       = "сессия недействительна, войдите заново"
	msgNotFound           = "услуга, мастер или запись не найдены"
	msgSlotTaken          = "выбранное время уже занято, выберите другое"
	msgNotEditable        = "эту запись уже нельзя изменить"
	msgOutsideHours       = "выбранное время вне рабочих часов мастера"
	msgInvalidInput       = "некорректные данные записи"
	msgInternal           = "внутренняя ошибка сервера"
)

type Handler struct {
	useCase PortalAdmitBookingUseCase
	logger  Logger
}

func NewHandler(useCase PortalAdmitBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/portal/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /portal/bookings - Invalid request body: %v", err)
		handlers.RespondJSON(w, http.StatusBadRequest, failure(msgInvalidRequestBody))
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /portal/bookings - Invalid start: %v", err)
		handlers.RespondJSON(w, http.StatusBadRequest, failure(msgInvalidStart))
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, portalAdmitBooking.ErrUnauthorized):
			h.logger.Warn("POST /portal/bookings - Unauthorized")
			handlers.RespondJSON(w, http.StatusUnauthorized, failure(msgUnauthorized))

		case errors.Is(err, portalAdmitBooking.ErrSlotTaken):
			h.logger.Warn("POST /portal/bookings - Slot taken: employee_id=%d, start=%s", req.EmployeeID, req.StartISO)
			handlers.RespondJSON(w, http.StatusConflict, failure(msgSlotTaken))

		case errors.Is(err, portalAdmitBooking.ErrAppointmentNotEditable):
			h.logger.Warn("POST /portal/bookings - Appointment not editable: %v", err)
			handlers.RespondJSON(w, http.StatusConflict, failure(msgNotEditable))

		case errors.Is(err, portalAdmitBooking.ErrPastOrTooSoon):
			h.logger.Warn("POST /portal/bookings - Lead time violated: %v", err)
			handlers.RespondJSON(w, http.StatusBadRequest, failure(handlers.LeadTimeMessage(err)))

		case errors.Is(err, portalAdmitBooking.ErrOutsideWorkingHours):
			h.logger.Warn("POST /portal/bookings - Outside working hours: %v", err)
			handlers.RespondJSON(w, http.StatusBadRequest, failure(msgOutsideHours))

		case errors.Is(err, portalAdmitBooking.ErrNotFound):
			h.logger.Warn("POST /portal/bookings - Not found: %v", err)
			handlers.RespondJSON(w, http.StatusNotFound, failure(msgNotFound))

		case errors.Is(err, portalAdmitBooking.ErrInvalidInput):
			h.logger.Warn("POST /portal/bookings - Invalid input: %v", err)
			handlers.RespondJSON(w, http.StatusBadRequest, failure(msgInvalidInput))

		default:
			h.logger.Error("POST /portal/bookings - Failed to admit booking: %v", err)
			handlers.RespondJSON(w, http.StatusInternalServerError, failure(msgInternal))
		}
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}

	h.logger.Info("POST /portal/bookings - Booking admitted: appointment_id=%d, created=%v", result.AppointmentID, result.Created)
	handlers.RespondJSON(w, status, &CreateBookingResponse{OK: true, AppointmentID: result.AppointmentID})
}
