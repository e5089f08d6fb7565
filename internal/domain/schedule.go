package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// ErrInvalidSchedule is returned when working hours violate ordering rules
var ErrInvalidSchedule = errors.New("domain: invalid schedule")

// Weekday indexes days as 0 = Sunday ... 6 = Saturday, the same convention as time.Weekday
type Weekday int

// WeekdayOf returns the weekday of a calendar date in its own location
func WeekdayOf(date time.Time) Weekday {
	return Weekday(date.Weekday())
}

// IsValid reports whether the weekday is within 0..6
func (w Weekday) IsValid() bool {
	return w >= 0 && w <= 6
}

// String returns the English weekday name
func (w Weekday) String() string {
	if !w.IsValid() {
		return fmt.Sprintf("Weekday(%d)", int(w))
	}
	return time.Weekday(w).String()
}

// BusinessDay is the salon's opening hours for one weekday
type BusinessDay struct {
	TenantID   int64
	Weekday    Weekday
	IsClosed   bool
	OpenTime   types.TimeString
	CloseTime  types.TimeString
	BreakStart *types.TimeString
	BreakEnd   *types.TimeString
}

// HasBreak returns true when both break bounds are set
func (d *BusinessDay) HasBreak() bool {
	return d.BreakStart != nil && d.BreakEnd != nil && !d.BreakStart.IsZero() && !d.BreakEnd.IsZero()
}

// Validate checks open < close and open <= breakStart < breakEnd <= close
func (d *BusinessDay) Validate() error {
	if !d.Weekday.IsValid() {
		return fmt.Errorf("%w: weekday %d out of range", ErrInvalidSchedule, d.Weekday)
	}
	if d.IsClosed {
		return nil
	}
	if err := validateHours(d.OpenTime, d.CloseTime); err != nil {
		return err
	}
	return validateBreak(d.BreakStart, d.BreakEnd, d.OpenTime, d.CloseTime)
}

// ProviderSchedule is a provider's working hours for one weekday.
// A missing row means the provider does not work that day
type ProviderSchedule struct {
	ProviderID int64
	TenantID   int64
	Weekday    Weekday
	StartTime  types.TimeString
	EndTime    types.TimeString
	LunchStart *types.TimeString
	LunchEnd   *types.TimeString
}

// HasLunch returns true when both lunch bounds are set
func (s *ProviderSchedule) HasLunch() bool {
	return s.LunchStart != nil && s.LunchEnd != nil && !s.LunchStart.IsZero() && !s.LunchEnd.IsZero()
}

// Validate checks start < end and start <= lunchStart < lunchEnd <= end
func (s *ProviderSchedule) Validate() error {
	if !s.Weekday.IsValid() {
		return fmt.Errorf("%w: weekday %d out of range", ErrInvalidSchedule, s.Weekday)
	}
	if err := validateHours(s.StartTime, s.EndTime); err != nil {
		return err
	}
	return validateBreak(s.LunchStart, s.LunchEnd, s.StartTime, s.EndTime)
}

func validateHours(start, end types.TimeString) error {
	if err := start.Validate(); err != nil {
		return fmt.Errorf("%w: start: %v", ErrInvalidSchedule, err)
	}
	if err := end.Validate(); err != nil {
		return fmt.Errorf("%w: end: %v", ErrInvalidSchedule, err)
	}
	if !start.IsBefore(end) {
		return fmt.Errorf("%w: %s must be before %s", ErrInvalidSchedule, start, end)
	}
	return nil
}

func validateBreak(breakStart, breakEnd *types.TimeString, start, end types.TimeString) error {
	hasStart := breakStart != nil && !breakStart.IsZero()
	hasEnd := breakEnd != nil && !breakEnd.IsZero()
	if !hasStart && !hasEnd {
		return nil
	}
	if hasStart != hasEnd {
		return fmt.Errorf("%w: break needs both start and end", ErrInvalidSchedule)
	}
	if err := validateHours(*breakStart, *breakEnd); err != nil {
		return err
	}
	if breakStart.IsBefore(start) || breakEnd.IsAfter(end) {
		return fmt.Errorf("%w: break %s-%s outside %s-%s", ErrInvalidSchedule, *breakStart, *breakEnd, start, end)
	}
	return nil
}

// DefaultBusinessDays returns the onboarding week: open 09:00-18:00 with a
// 12:00-13:00 break, closed on restDay
func DefaultBusinessDays(tenantID int64, restDay Weekday) []BusinessDay {
	days := make([]BusinessDay, 0, 7)
	for w := Weekday(0); w <= 6; w++ {
		if w == restDay {
			days = append(days, BusinessDay{TenantID: tenantID, Weekday: w, IsClosed: true})
			continue
		}
		breakStart := types.TimeString(DefaultBreakStart)
		breakEnd := types.TimeString(DefaultBreakEnd)
		days = append(days, BusinessDay{
			TenantID:   tenantID,
			Weekday:    w,
			OpenTime:   DefaultOpenTime,
			CloseTime:  DefaultCloseTime,
			BreakStart: &breakStart,
			BreakEnd:   &breakEnd,
		})
	}
	return days
}
