package scheduling

import (
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// SlotParams входные данные калькулятора слотов на один день
type SlotParams struct {
	WorkStart       types.TimeString
	WorkEnd         types.TimeString
	BreakStart      *types.TimeString // перерыв учитывается, только если заданы обе границы
	BreakEnd        *types.TimeString
	StepMinutes     int // <= 0 означает domain.DefaultStepMinutes
	ServiceDuration int // минуты
	Busy            []domain.BusyInterval
}

// ComputeSlots возвращает отсортированный по возрастанию список времен начала,
// в которые услуга длительностью ServiceDuration помещается в рабочее окно
// и не пересекается ни с перерывом, ни с занятыми интервалами.
//
// Кандидаты перебираются от WorkStart: занятый кандидат сдвигается на шаг,
// принятый слот сдвигает следующий кандидат на конец услуги, поэтому
// предложенные слоты не пересекаются друг с другом. Шаг StepMinutes
// (по умолчанию domain.DefaultStepMinutes) применяется только к занятым кандидатам:
// на свободном дне с услугой 60 мин слоты идут 09:00, 10:00, ... и 09:30 не предлагается.
// Поэтому запись, начатая вне этой сетки, отдельно возвращается фильтром упреждения при редактировании.
// Все пересечения полуоткрытые: запись 10:00-11:00 не мешает слоту с 11:00.
func ComputeSlots(p SlotParams) []types.TimeString {
	slots := make([]types.TimeString, 0)

	workStart := p.WorkStart.Minutes()
	workEnd := p.WorkEnd.Minutes()
	if workStart < 0 || workEnd < 0 || workStart >= workEnd {
		return slots
	}
	if p.ServiceDuration <= 0 || p.ServiceDuration > workEnd-workStart {
		return slots
	}

	step := p.StepMinutes
	if step <= 0 {
		step = domain.DefaultStepMinutes
	}

	breakStart, breakEnd, hasBreak := breakBounds(p.BreakStart, p.BreakEnd)

	busy := make([][2]int, 0, len(p.Busy))
	for _, b := range p.Busy {
		start := b.Start.Minutes()
		if start < 0 || b.DurationMinutes <= 0 {
			continue
		}
		busy = append(busy, [2]int{start, start + b.DurationMinutes})
	}

	start := workStart
	for start+p.ServiceDuration <= workEnd {
		end := start + p.ServiceDuration

		if (hasBreak && Overlaps(start, end, breakStart, breakEnd)) || overlapsAny(start, end, busy) {
			start += step
			continue
		}

		slots = append(slots, types.FromMinutes(start))
		start = end
	}

	return slots
}

// Overlaps проверяет пересечение полуоткрытых интервалов [aStart, aEnd) и [bStart, bEnd)
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

func overlapsAny(start, end int, intervals [][2]int) bool {
	for _, iv := range intervals {
		if Overlaps(start, end, iv[0], iv[1]) {
			return true
		}
	}
	return false
}

func breakBounds(start, end *types.TimeString) (int, int, bool) {
	if start == nil || end == nil || start.IsZero() || end.IsZero() {
		return 0, 0, false
	}
	s, e := start.Minutes(), end.Minutes()
	if s < 0 || e < 0 || s >= e {
		return 0, 0, false
	}
	return s, e, true
}
