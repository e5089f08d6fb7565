package scheduling

import (
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Window рабочее окно мастера на конкретный день
type Window struct {
	Start      types.TimeString
	End        types.TimeString
	BreakStart *types.TimeString
	BreakEnd   *types.TimeString
}

// ResolveWindow пересекает часы мастера с часами салона.
// Перерыв берется из обеда мастера, а если он не задан, из перерыва салона.
// Возвращает false, если салон закрыт, расписание отсутствует или пересечение пустое
func ResolveWindow(day *domain.BusinessDay, schedule *domain.ProviderSchedule) (Window, bool) {
	if day == nil || day.IsClosed || schedule == nil {
		return Window{}, false
	}

	start := schedule.StartTime
	if start.IsBefore(day.OpenTime) {
		start = day.OpenTime
	}
	end := schedule.EndTime
	if end.IsAfter(day.CloseTime) {
		end = day.CloseTime
	}
	if start.Minutes() < 0 || end.Minutes() < 0 || !start.IsBefore(end) {
		return Window{}, false
	}

	w := Window{Start: start, End: end}
	switch {
	case schedule.HasLunch():
		w.BreakStart, w.BreakEnd = schedule.LunchStart, schedule.LunchEnd
	case day.HasBreak():
		w.BreakStart, w.BreakEnd = day.BreakStart, day.BreakEnd
	}

	return w, true
}

// SlotParams собирает параметры калькулятора для окна
func (w Window) SlotParams(stepMinutes, serviceDuration int, busy []domain.BusyInterval) SlotParams {
	return SlotParams{
		WorkStart:       w.Start,
		WorkEnd:         w.End,
		BreakStart:      w.BreakStart,
		BreakEnd:        w.BreakEnd,
		StepMinutes:     stepMinutes,
		ServiceDuration: serviceDuration,
		Busy:            busy,
	}
}

// Fits проверяет, что интервал [start, start+duration) лежит внутри окна и не задевает перерыв
func (w Window) Fits(start types.TimeString, durationMinutes int) bool {
	s := start.Minutes()
	if s < 0 || durationMinutes <= 0 {
		return false
	}
	e := s + durationMinutes
	if s < w.Start.Minutes() || e > w.End.Minutes() {
		return false
	}
	if bs, be, ok := breakBounds(w.BreakStart, w.BreakEnd); ok && Overlaps(s, e, bs, be) {
		return false
	}
	return true
}
