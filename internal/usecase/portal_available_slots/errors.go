package portal_available_slots

import (
	"errors"

	"github.com/m04kA/SMC-SchedulingService/internal/service/portal"
)

var (
	// ErrUnauthorized возвращается при недействительном токене салона или сессии
	ErrUnauthorized = portal.ErrUnauthorized

	// ErrNotFound возвращается, когда услуга, мастер или запись клиента не найдены
	ErrNotFound = errors.New("portal_available_slots: not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("portal_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("portal_available_slots: internal error")
)
