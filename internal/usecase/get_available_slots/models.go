package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	TenantID   int64
	ProviderID int64
	ServiceID  *int64    // если задан, услуга должна принадлежать салону
	Date       time.Time // календарная дата в зоне салона (используются только год/месяц/день)
	// ServiceDurationMinutes длительность услуги; 0 означает "взять из каталога по ServiceID"
	ServiceDurationMinutes int
	// ExcludeAppointmentID редактируемая запись: не блокирует сама себя и сохраняет свой слот
	ExcludeAppointmentID *int64
	Surface              string // staff / professional / portal, только для метрик и логов
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date            time.Time          // полночь запрошенной даты в зоне салона
	ProviderID      int64
	DurationMinutes int
	Slots           []types.TimeString // времена начала по возрастанию (кроме восстановленного исходного слота)
}
