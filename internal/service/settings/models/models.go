package models

import (
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Request модели

// UpdateBookingPolicyRequest запрос на изменение политики упреждения
type UpdateBookingPolicyRequest struct {
	Identity domain.StaffIdentity `json:"-"`
	Mode     string               `json:"mode"`     // "fixed-hours" или "next-day-only"
	MinHours int                  `json:"minHours"` // используется только в режиме fixed-hours
}

// UpdateBusinessDaysRequest запрос на замену недели салона (ровно 7 дней)
type UpdateBusinessDaysRequest struct {
	Identity domain.StaffIdentity `json:"-"`
	Days     []BusinessDay        `json:"days"`
}

// UpdateProviderScheduleRequest запрос на замену недели мастера.
// Отсутствующий день означает выходной
type UpdateProviderScheduleRequest struct {
	Identity   domain.StaffIdentity `json:"-"`
	ProviderID int64                `json:"-"`
	Days       []ScheduleDay        `json:"days"`
}

// DTO

// BusinessDay часы салона на день недели (0 = воскресенье)
type BusinessDay struct {
	Weekday    int               `json:"weekday"`
	IsClosed   bool              `json:"isClosed"`
	OpenTime   types.TimeString  `json:"openTime,omitempty"`
	CloseTime  types.TimeString  `json:"closeTime,omitempty"`
	BreakStart *types.TimeString `json:"breakStart,omitempty"`
	BreakEnd   *types.TimeString `json:"breakEnd,omitempty"`
}

// ScheduleDay часы мастера на день недели (0 = воскресенье)
type ScheduleDay struct {
	Weekday    int               `json:"weekday"`
	StartTime  types.TimeString  `json:"startTime"`
	EndTime    types.TimeString  `json:"endTime"`
	LunchStart *types.TimeString `json:"lunchStart,omitempty"`
	LunchEnd   *types.TimeString `json:"lunchEnd,omitempty"`
}

// Response модели

// BookingPolicyResponse ответ с политикой упреждения
type BookingPolicyResponse struct {
	Mode     string `json:"mode"`
	MinHours int    `json:"minHours"`
}

// BusinessDaysResponse ответ с неделей салона
type BusinessDaysResponse struct {
	Days []BusinessDay `json:"days"`
}

// ProviderScheduleResponse ответ с неделей мастера
type ProviderScheduleResponse struct {
	ProviderID int64         `json:"providerId"`
	Days       []ScheduleDay `json:"days"`
}

// Методы конвертации

// FromDomainPolicy конвертирует политику в DTO
func FromDomainPolicy(p domain.BookingPolicy) *BookingPolicyResponse {
	return &BookingPolicyResponse{Mode: string(p.Mode), MinHours: p.MinHours}
}

// FromDomainBusinessDays конвертирует неделю салона в DTO
func FromDomainBusinessDays(days []domain.BusinessDay) *BusinessDaysResponse {
	resp := &BusinessDaysResponse{Days: make([]BusinessDay, 0, len(days))}
	for _, d := range days {
		resp.Days = append(resp.Days, BusinessDay{
			Weekday:    int(d.Weekday),
			IsClosed:   d.IsClosed,
			OpenTime:   d.OpenTime,
			CloseTime:  d.CloseTime,
			BreakStart: d.BreakStart,
			BreakEnd:   d.BreakEnd,
		})
	}
	return resp
}

// ToDomainBusinessDays конвертирует DTO в domain модели салона
func ToDomainBusinessDays(tenantID int64, days []BusinessDay) []domain.BusinessDay {
	result := make([]domain.BusinessDay, 0, len(days))
	for _, d := range days {
		day := domain.BusinessDay{
			TenantID: tenantID,
			Weekday:  domain.Weekday(d.Weekday),
			IsClosed: d.IsClosed,
		}
		if !d.IsClosed {
			day.OpenTime = d.OpenTime
			day.CloseTime = d.CloseTime
			day.BreakStart = d.BreakStart
			day.BreakEnd = d.BreakEnd
		}
		result = append(result, day)
	}
	return result
}

// FromDomainSchedules конвертирует неделю мастера в DTO
func FromDomainSchedules(providerID int64, schedules []domain.ProviderSchedule) *ProviderScheduleResponse {
	resp := &ProviderScheduleResponse{ProviderID: providerID, Days: make([]ScheduleDay, 0, len(schedules))}
	for _, s := range schedules {
		resp.Days = append(resp.Days, ScheduleDay{
			Weekday:    int(s.Weekday),
			StartTime:  s.StartTime,
			EndTime:    s.EndTime,
			LunchStart: s.LunchStart,
			LunchEnd:   s.LunchEnd,
		})
	}
	return resp
}

// ToDomainSchedules конвертирует DTO в domain модели мастера
func ToDomainSchedules(tenantID, providerID int64, days []ScheduleDay) []domain.ProviderSchedule {
	result := make([]domain.ProviderSchedule, 0, len(days))
	for _, d := range days {
		result = append(result, domain.ProviderSchedule{
			ProviderID: providerID,
			TenantID:   tenantID,
			Weekday:    domain.Weekday(d.Weekday),
			StartTime:  d.StartTime,
			EndTime:    d.EndTime,
			LunchStart: d.LunchStart,
			LunchEnd:   d.LunchEnd,
		})
	}
	return result
}
