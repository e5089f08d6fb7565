package schedule

import "errors"

var (
	// ErrBusinessDayNotFound возвращается, когда для дня недели нет часов работы салона
	ErrBusinessDayNotFound = errors.New("schedule.repository: business day not found")

	// ErrProviderScheduleNotFound возвращается, когда мастер не работает в этот день недели
	ErrProviderScheduleNotFound = errors.New("schedule.repository: provider schedule not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("schedule.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("schedule.repository: failed to scan row")
)
