package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	admitBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/admit_booking"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidStart        = "некорректное время начала, ожидается RFC3339"
	msgMissingIdentity     = "требуется авторизация"
	msgForbidden           = "мастер может записывать клиентов только к себе"
	msgTenantNotFound      = "салон не найден"
	msgServiceNotFound     = "услуга не найдена"
	msgProviderNotFound    = "мастер не найден"
	msgAppointmentNotFound = "запись не найдена"
	msgNotEditable         = "отмененную или завершенную запись нельзя изменить"
	msgOutsideHours        = "выбранное время вне рабочих часов мастера"
	msgSlotTaken           = "выбранное время уже занято"
	msgInvalidInput        = "некорректные данные записи"
)

type Handler struct {
	useCase AdmitBookingUseCase
	logger  Logger
}

func NewHandler(useCase AdmitBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetStaffIdentity(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Missing staff identity")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if !identity.CanActFor(req.ProviderID) {
		h.logger.Warn("POST /appointments - Forbidden: employee_id=%d, provider_id=%d", identity.EmployeeID, req.ProviderID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(identity)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStart)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		RespondAdmissionError(w, err, h.logger, "POST /appointments")
		return
	}

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, tenant_id=%d, provider_id=%d",
		result.ID, result.TenantID, result.ProviderID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

// RespondAdmissionError переводит ошибку допуска записи в HTTP ответ
func RespondAdmissionError(w http.ResponseWriter, err error, logger Logger, route string) {
	switch {
	case errors.Is(err, admitBooking.ErrSlotTaken):
		logger.Warn("%s - Slot taken: %v", route, err)
		handlers.RespondConflict(w, msgSlotTaken)

	case errors.Is(err, admitBooking.ErrAppointmentNotEditable):
		logger.Warn("%s - Appointment not editable: %v", route, err)
		handlers.RespondConflict(w, msgNotEditable)

	case errors.Is(err, admitBooking.ErrPastOrTooSoon):
		logger.Warn("%s - Lead time violated: %v", route, err)
		handlers.RespondBadRequest(w, handlers.LeadTimeMessage(err))

	case errors.Is(err, admitBooking.ErrOutsideWorkingHours):
		logger.Warn("%s - Outside working hours: %v", route, err)
		handlers.RespondBadRequest(w, msgOutsideHours)

	case errors.Is(err, admitBooking.ErrTenantNotFound):
		logger.Warn("%s - Tenant not found: %v", route, err)
		handlers.RespondNotFound(w, msgTenantNotFound)

	case errors.Is(err, admitBooking.ErrServiceNotFound):
		logger.Warn("%s - Service not found: %v", route, err)
		handlers.RespondNotFound(w, msgServiceNotFound)

	case errors.Is(err, admitBooking.ErrProviderNotFound):
		logger.Warn("%s - Provider not found: %v", route, err)
		handlers.RespondNotFound(w, msgProviderNotFound)

	case errors.Is(err, admitBooking.ErrAppointmentNotFound):
		logger.Warn("%s - Appointment not found: %v", route, err)
		handlers.RespondNotFound(w, msgAppointmentNotFound)

	case errors.Is(err, admitBooking.ErrInvalidInput):
		logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidInput)

	default:
		logger.Error("%s - Failed to admit appointment: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
