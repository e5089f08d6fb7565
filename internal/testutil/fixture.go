package testutil

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Идентификаторы салона из Salon()
const (
	TenantID    int64 = 1
	ProviderID  int64 = 10
	OtherStaff  int64 = 11 // администратор, не принимает записи
	ServiceID   int64 = 20
	CustomerID  int64 = 30
	PortalToken       = "salon-portal-token"
)

// SalonZone зона салона в тестах (без зависимости от tzdata)
var SalonZone = time.FixedZone("UTC+3", 3*60*60)

// Salon наполняет хранилище типовым салоном: неделя по умолчанию (воскресенье выходной),
// мастер работает 09:00-18:00 с понедельника по субботу, услуга на 60 минут за 1500
func Salon(policy domain.BookingPolicy) *Store {
	s := NewStore()

	s.Tenants[TenantID] = &domain.Tenant{
		ID:          TenantID,
		Name:        "Salon",
		PortalToken: PortalToken,
		Policy:      policy,
	}
	s.Employees[ProviderID] = &domain.Employee{ID: ProviderID, TenantID: TenantID, Name: "Anna", IsProvider: true, IsActive: true}
	s.Employees[OtherStaff] = &domain.Employee{ID: OtherStaff, TenantID: TenantID, Name: "Admin", IsProvider: false, IsActive: true}
	s.Services[ServiceID] = &domain.Service{
		ID:              ServiceID,
		TenantID:        TenantID,
		Name:            "Haircut",
		DurationMinutes: 60,
		Price:           decimal.NewFromInt(1500),
		IsActive:        true,
	}
	s.BusinessDays[TenantID] = domain.DefaultBusinessDays(TenantID, domain.DefaultRestDay)

	schedules := make([]domain.ProviderSchedule, 0, 6)
	for w := domain.Weekday(1); w <= 6; w++ {
		schedules = append(schedules, domain.ProviderSchedule{
			ProviderID: ProviderID,
			TenantID:   TenantID,
			Weekday:    w,
			StartTime:  types.TimeString(domain.DefaultOpenTime),
			EndTime:    types.TimeString(domain.DefaultCloseTime),
		})
	}
	s.Schedules[ProviderID] = schedules

	return s
}

// At возвращает момент в зоне салона
func At(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, SalonZone)
}

// SessionToken токен сессии клиента CustomerID в салоне TenantID
const SessionToken = "customer-session"

// CustomerSessions сессии портала для Verifier
func CustomerSessions() map[string]domain.CustomerIdentity {
	return map[string]domain.CustomerIdentity{
		SessionToken:     {CustomerID: CustomerID, TenantID: TenantID},
		"foreign-session": {CustomerID: 77, TenantID: 2},
	}
}
