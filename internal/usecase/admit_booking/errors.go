package admit_booking

import (
	"errors"

	"github.com/m04kA/SMC-SchedulingService/internal/scheduling"
)

var (
	// ErrTenantNotFound возвращается, когда салон не найден
	ErrTenantNotFound = errors.New("admit_booking: tenant not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена или не активна
	ErrServiceNotFound = errors.New("admit_booking: service not found")

	// ErrProviderNotFound возвращается, когда мастер не найден или не принимает записи
	ErrProviderNotFound = errors.New("admit_booking: provider not found")

	// ErrAppointmentNotFound возвращается, когда редактируемая запись не найдена
	ErrAppointmentNotFound = errors.New("admit_booking: appointment not found")

	// ErrAppointmentNotEditable возвращается при попытке изменить отмененную или завершенную запись
	ErrAppointmentNotEditable = errors.New("admit_booking: appointment cannot be edited")

	// ErrPastOrTooSoon возвращается, когда время записи нарушает политику упреждения.
	// Детали доступны через errors.As(err, *scheduling.LeadTimeError)
	ErrPastOrTooSoon = scheduling.ErrPastOrTooSoon

	// ErrOutsideWorkingHours возвращается, когда интервал не помещается в рабочее окно мастера
	ErrOutsideWorkingHours = errors.New("admit_booking: outside working hours")

	// ErrSlotTaken возвращается, когда интервал пересекается с другой записью мастера
	ErrSlotTaken = errors.New("admit_booking: slot is already taken")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("admit_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("admit_booking: internal error")
)

// Исходы допуска записи для метрик
const (
	outcomeAdmitted     = "admitted"
	outcomeSlotTaken    = "slot_taken"
	outcomeTooSoon      = "too_soon"
	outcomeOutsideHours = "outside_hours"
	outcomeRejected     = "rejected"
	outcomeError        = "error"
)

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeAdmitted
	case errors.Is(err, ErrSlotTaken):
		return outcomeSlotTaken
	case errors.Is(err, ErrPastOrTooSoon):
		return outcomeTooSoon
	case errors.Is(err, ErrOutsideWorkingHours):
		return outcomeOutsideHours
	case errors.Is(err, ErrInternal):
		return outcomeError
	default:
		return outcomeRejected
	}
}
