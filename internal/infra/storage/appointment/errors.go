package appointment

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrSlotConflict возвращается, когда БД отклонила запись из-за пересечения с другой записью мастера
	ErrSlotConflict = errors.New("appointment.repository: slot conflict")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)

// SQLSTATE коды, означающие, что слот уже занят конкурентной транзакцией
const (
	codeExclusionViolation   = "23P01"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// isSlotConflict проверяет, что ошибка драйвера означает конфликт по времени мастера
func isSlotConflict(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	switch pqErr.Code {
	case codeExclusionViolation, codeSerializationFailure, codeDeadlockDetected:
		return true
	}
	return false
}

// wrapDriverError оборачивает ошибку драйвера в base, а конфликт по времени мастера в ErrSlotConflict.
// Под SERIALIZABLE конфликт может прийти на любом запросе транзакции, включая чтение FOR UPDATE
func wrapDriverError(base error, op string, err error) error {
	if isSlotConflict(err) {
		return fmt.Errorf("%w: %s: %v", ErrSlotConflict, op, err)
	}
	return fmt.Errorf("%w: %s: %v", base, op, err)
}
