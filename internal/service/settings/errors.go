package settings

import "errors"

var (
	// ErrTenantNotFound возвращается, когда салон не найден
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrProviderNotFound возвращается, когда мастер не найден в салоне
	ErrProviderNotFound = errors.New("provider not found")

	// ErrAccessDenied возвращается, когда настройки меняет не администратор салона
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
