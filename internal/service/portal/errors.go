package portal

import "errors"

var (
	// ErrUnauthorized возвращается при недействительном токене салона или сессии клиента
	ErrUnauthorized = errors.New("portal: unauthorized")

	// ErrServiceNotFound возвращается, когда услуга не принадлежит салону или не активна
	ErrServiceNotFound = errors.New("portal: service not found")

	// ErrProviderNotFound возвращается, когда сотрудник не принадлежит салону или не принимает записи
	ErrProviderNotFound = errors.New("portal: provider not found")

	// ErrAppointmentNotFound возвращается, когда запись не найдена или принадлежит другому клиенту
	ErrAppointmentNotFound = errors.New("portal: appointment not found")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("portal: internal error")
)
