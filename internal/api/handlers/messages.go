package handlers

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/scheduling"
)

const msgTooSoon = "выбранное время недоступно для записи"

// LeadTimeMessage формирует текст отказа по политике упреждения салона
func LeadTimeMessage(err error) string {
	var leadErr *scheduling.LeadTimeError
	if !errors.As(err, &leadErr) {
		return msgTooSoon
	}

	switch {
	case leadErr.InPast:
		return "нельзя записаться на прошедшее время"
	case leadErr.Mode == domain.BookingModeNextDayOnly:
		return "запись возможна только начиная со следующего дня"
	default:
		return fmt.Sprintf("запись возможна не позднее чем за %d ч. до начала", leadErr.MinHours)
	}
}
