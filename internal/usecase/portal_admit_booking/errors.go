package portal_admit_booking

import (
	"errors"

	"github.com/m04kA/SMC-SchedulingService/internal/service/portal"
	"github.com/m04kA/SMC-SchedulingService/internal/usecase/admit_booking"
)

var (
	// ErrUnauthorized возвращается при недействительном токене салона или сессии
	ErrUnauthorized = portal.ErrUnauthorized

	// ErrNotFound возвращается, когда услуга, мастер или запись клиента не найдены
	ErrNotFound = errors.New("portal_admit_booking: not found")

	// ErrPastOrTooSoon время записи нарушает политику упреждения салона
	ErrPastOrTooSoon = admit_booking.ErrPastOrTooSoon

	// ErrOutsideWorkingHours интервал не помещается в рабочее окно мастера
	ErrOutsideWorkingHours = admit_booking.ErrOutsideWorkingHours

	// ErrSlotTaken интервал уже занят
	ErrSlotTaken = admit_booking.ErrSlotTaken

	// ErrAppointmentNotEditable запись отменена или завершена
	ErrAppointmentNotEditable = admit_booking.ErrAppointmentNotEditable

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("portal_admit_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("portal_admit_booking: internal error")
)
