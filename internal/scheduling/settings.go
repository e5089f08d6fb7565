package scheduling

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Settings параметры расчета слотов, общие для всех салонов
type Settings struct {
	StepMinutes int
	// DefaultLocation зона для салонов без явно заданного timezone
	DefaultLocation *time.Location
}

// Location возвращает зону салона с учетом DefaultLocation
func (s Settings) Location(t *domain.Tenant) (*time.Location, error) {
	if t.Timezone == "" && s.DefaultLocation != nil {
		return s.DefaultLocation, nil
	}
	return t.Location()
}
