package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// projectBusy переводит записи в занятые интервалы локального дня салона.
// Запись, начавшаяся накануне или заканчивающаяся завтра, обрезается границами дня
func projectBusy(appointments []*domain.Appointment, dayStart, dayEnd time.Time) []domain.BusyInterval {
	busy := make([]domain.BusyInterval, 0, len(appointments))
	loc := dayStart.Location()

	for _, a := range appointments {
		if !a.IsActive() || !a.Overlaps(dayStart, dayEnd) {
			continue
		}

		start := 0
		if a.StartAt.After(dayStart) {
			start = wallClockMinutes(a.StartAt.In(loc))
		}

		end := types.MinutesPerDay
		if a.EndAt.Before(dayEnd) {
			end = wallClockMinutes(a.EndAt.In(loc))
		}

		if end <= start {
			continue
		}

		busy = append(busy, domain.BusyInterval{
			Start:           types.FromMinutes(start),
			DurationMinutes: end - start,
		})
	}

	return busy
}

func wallClockMinutes(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
