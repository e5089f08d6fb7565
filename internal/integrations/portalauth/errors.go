package portalauth

import "errors"

var (
	// ErrUnauthorized возвращается, когда токен салона или сессии недействителен либо истек
	ErrUnauthorized = errors.New("portalauth: session is invalid or expired")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("portalauth client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("portalauth client: invalid response")
)
