package scheduling

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// ErrPastOrTooSoon возвращается, когда время записи в прошлом или нарушает политику упреждения
var ErrPastOrTooSoon = errors.New("scheduling: booking is in the past or too soon")

// LeadTimeError детализирует отказ по политике упреждения
type LeadTimeError struct {
	Mode     domain.BookingMode
	MinHours int
	InPast   bool
}

func (e *LeadTimeError) Error() string {
	switch {
	case e.InPast:
		return "booking time is in the past"
	case e.Mode == domain.BookingModeNextDayOnly:
		return "bookings are accepted from the next day only"
	default:
		return fmt.Sprintf("bookings require at least %d hour(s) notice", e.MinHours)
	}
}

// Unwrap позволяет матчить ошибку через errors.Is(err, ErrPastOrTooSoon)
func (e *LeadTimeError) Unwrap() error {
	return ErrPastOrTooSoon
}

// LeadTimeInput входные данные фильтра упреждения
type LeadTimeInput struct {
	Date   time.Time // полночь запрошенной даты в зоне салона
	Slots  []types.TimeString
	Policy domain.BookingPolicy
	Now    time.Time // текущий момент в зоне салона
	// OriginalStart начало редактируемой записи (в зоне салона), если это редактирование
	OriginalStart *time.Time
}

// FilterByLeadTime отбрасывает слоты, нарушающие политику упреждения.
//
// next-day-only: на даты раньше завтрашней слотов нет.
// fixed-hours: фильтрация только на сегодня, порог now + 1 мин + MinHours ч,
// слот ровно на пороге допустим.
// Исходный слот редактируемой записи на эту дату всегда возвращается первым,
// даже если его нет в Slots: калькулятор не предлагает времена вне своей сетки.
// На прошедшие даты в обоих режимах результат пустой.
func FilterByLeadTime(in LeadTimeInput) []types.TimeString {
	result := make([]types.TimeString, 0, len(in.Slots)+1)

	if IsDateInPast(in.Date, in.Now) {
		return result
	}

	switch {
	case in.Policy.Mode == domain.BookingModeNextDayOnly && IsSameDay(in.Date, in.Now):
	case in.Policy.Mode == domain.BookingModeNextDayOnly || !IsSameDay(in.Date, in.Now):
		result = append(result, in.Slots...)
	default:
		threshold := fixedHoursThreshold(in.Now, in.Policy)
		for _, slot := range in.Slots {
			if slot.On(in.Date).Before(threshold) {
				continue
			}
			result = append(result, slot)
		}
	}

	if original, ok := originalSlotOn(in.Date, in.OriginalStart); ok && !slices.Contains(result, original) {
		result = append([]types.TimeString{original}, result...)
	}

	return result
}

// CheckLeadTime применяет ту же политику к одному моменту начала записи.
// now и start сравниваются в зоне now
func CheckLeadTime(policy domain.BookingPolicy, start, now time.Time) error {
	start = start.In(now.Location())

	if start.Before(now) {
		return &LeadTimeError{Mode: policy.Mode, MinHours: policy.EffectiveMinHours(), InPast: true}
	}

	if policy.Mode == domain.BookingModeNextDayOnly {
		if IsSameDay(start, now) {
			return &LeadTimeError{Mode: policy.Mode}
		}
		return nil
	}

	if IsSameDay(start, now) && start.Before(fixedHoursThreshold(now, policy)) {
		return &LeadTimeError{Mode: policy.Mode, MinHours: policy.EffectiveMinHours()}
	}

	return nil
}

func fixedHoursThreshold(now time.Time, policy domain.BookingPolicy) time.Time {
	return now.Add(domain.LeadTimeSafetyMargin + time.Duration(policy.EffectiveMinHours())*time.Hour)
}

func originalSlotOn(date time.Time, original *time.Time) (types.TimeString, bool) {
	if original == nil {
		return "", false
	}
	local := original.In(date.Location())
	if !IsSameDay(local, date) {
		return "", false
	}
	return types.NewTimeString(local), true
}
