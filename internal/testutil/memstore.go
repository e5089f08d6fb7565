// Package testutil содержит in-memory реализации репозиториев для тестов use case и хендлеров
package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/schedule"
	tenantRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/tenant"
)

// Store in-memory состояние салонов, каталога, расписаний и записей.
// Реализует методы всех репозиториев, которые нужны use case
type Store struct {
	mu sync.Mutex

	Tenants      map[int64]*domain.Tenant
	Services     map[int64]*domain.Service
	Employees    map[int64]*domain.Employee
	BusinessDays map[int64][]domain.BusinessDay      // tenantID -> дни
	Schedules    map[int64][]domain.ProviderSchedule // providerID -> дни
	Appointments map[int64]*domain.Appointment

	// BeforeWrite вызывается перед Create/Update, позволяет смоделировать конкурентную запись
	BeforeWrite func(s *Store)
	// Err возвращается всеми методами, если задана
	Err error

	nextID int64
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		Tenants:      make(map[int64]*domain.Tenant),
		Services:     make(map[int64]*domain.Service),
		Employees:    make(map[int64]*domain.Employee),
		BusinessDays: make(map[int64][]domain.BusinessDay),
		Schedules:    make(map[int64][]domain.ProviderSchedule),
		Appointments: make(map[int64]*domain.Appointment),
		nextID:       100,
	}
}

// AddAppointment добавляет запись в обход проверок
func (s *Store) AddAppointment(a domain.Appointment) *domain.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insert(a)
}

func (s *Store) insert(a domain.Appointment) *domain.Appointment {
	if a.ID == 0 {
		s.nextID++
		a.ID = s.nextID
	}
	if a.EndAt.IsZero() {
		a.EndAt = a.StartAt.Add(time.Duration(a.DurationMinutes) * time.Minute)
	}
	if a.Status == "" {
		a.Status = domain.StatusPending
	}
	for i := range a.Items {
		s.nextID++
		a.Items[i].ID = s.nextID
		a.Items[i].AppointmentID = a.ID
	}
	stored := a
	s.Appointments[a.ID] = &stored
	return clone(&stored)
}

// Tenant repository

// GetByID получает салон
func (s *Store) GetByID(_ context.Context, id int64) (*domain.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	t, ok := s.Tenants[id]
	if !ok {
		return nil, tenantRepo.ErrTenantNotFound
	}
	copied := *t
	return &copied, nil
}

// GetByPortalToken получает салон по токену портала
func (s *Store) GetByPortalToken(_ context.Context, token string) (*domain.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, t := range s.Tenants {
		if token != "" && t.PortalToken == token {
			copied := *t
			return &copied, nil
		}
	}
	return nil, tenantRepo.ErrTenantNotFound
}

// UpdateBookingPolicy сохраняет политику салона
func (s *Store) UpdateBookingPolicy(_ context.Context, id int64, policy domain.BookingPolicy) (*domain.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	t, ok := s.Tenants[id]
	if !ok {
		return nil, tenantRepo.ErrTenantNotFound
	}
	t.Policy = policy
	copied := *t
	return &copied, nil
}

// Catalog repository

// GetService получает услугу салона
func (s *Store) GetService(_ context.Context, tenantID, serviceID int64) (*domain.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	svc, ok := s.Services[serviceID]
	if !ok || svc.TenantID != tenantID {
		return nil, catalogRepo.ErrServiceNotFound
	}
	copied := *svc
	return &copied, nil
}

// GetEmployee получает сотрудника салона
func (s *Store) GetEmployee(_ context.Context, tenantID, employeeID int64) (*domain.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	e, ok := s.Employees[employeeID]
	if !ok || e.TenantID != tenantID {
		return nil, catalogRepo.ErrEmployeeNotFound
	}
	copied := *e
	return &copied, nil
}

// Schedule repository

// GetBusinessDay получает часы салона на день недели
func (s *Store) GetBusinessDay(_ context.Context, tenantID int64, weekday domain.Weekday) (*domain.BusinessDay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, d := range s.BusinessDays[tenantID] {
		if d.Weekday == weekday {
			copied := d
			return &copied, nil
		}
	}
	return nil, scheduleRepo.ErrBusinessDayNotFound
}

// ListBusinessDays получает неделю салона
func (s *Store) ListBusinessDays(_ context.Context, tenantID int64) ([]domain.BusinessDay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	days := append([]domain.BusinessDay{}, s.BusinessDays[tenantID]...)
	sort.Slice(days, func(i, j int) bool { return days[i].Weekday < days[j].Weekday })
	return days, nil
}

// ReplaceBusinessDays заменяет неделю салона
func (s *Store) ReplaceBusinessDays(_ context.Context, tenantID int64, days []domain.BusinessDay) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.BusinessDays[tenantID] = append([]domain.BusinessDay{}, days...)
	return nil
}

// GetProviderSchedule получает часы мастера на день недели
func (s *Store) GetProviderSchedule(_ context.Context, tenantID, providerID int64, weekday domain.Weekday) (*domain.ProviderSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, sc := range s.Schedules[providerID] {
		if sc.TenantID == tenantID && sc.Weekday == weekday {
			copied := sc
			return &copied, nil
		}
	}
	return nil, scheduleRepo.ErrProviderScheduleNotFound
}

// ListProviderSchedules получает неделю мастера
func (s *Store) ListProviderSchedules(_ context.Context, tenantID, providerID int64) ([]domain.ProviderSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	result := make([]domain.ProviderSchedule, 0)
	for _, sc := range s.Schedules[providerID] {
		if sc.TenantID == tenantID {
			result = append(result, sc)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Weekday < result[j].Weekday })
	return result, nil
}

// ReplaceProviderSchedules заменяет неделю мастера
func (s *Store) ReplaceProviderSchedules(_ context.Context, tenantID, providerID int64, schedules []domain.ProviderSchedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Schedules[providerID] = append([]domain.ProviderSchedule{}, schedules...)
	return nil
}

// Appointment repository

// GetAppointment получает запись салона (GetByID занят репозиторием салонов)
func (s *Store) GetAppointment(_ context.Context, tenantID, id int64) (*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	a, ok := s.Appointments[id]
	if !ok || a.TenantID != tenantID {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	return clone(a), nil
}

// List получает записи по фильтру с полуоткрытым пересечением интервала
func (s *Store) List(_ context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	result := make([]*domain.Appointment, 0)
	for _, a := range s.Appointments {
		if !matches(a, filter) {
			continue
		}
		result = append(result, clone(a))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].StartAt.Equal(result[j].StartAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].StartAt.Before(result[j].StartAt)
	})
	return result, nil
}

// Create сохраняет запись, имитируя ограничение appointments_no_overlap
func (s *Store) Create(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	if s.BeforeWrite != nil {
		s.BeforeWrite(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if s.conflicts(a) {
		return nil, fmt.Errorf("%w: exclusion violation", appointmentRepo.ErrSlotConflict)
	}
	return s.insert(*a), nil
}

// Update переносит запись
func (s *Store) Update(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	if s.BeforeWrite != nil {
		s.BeforeWrite(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	stored, ok := s.Appointments[a.ID]
	if !ok || stored.TenantID != a.TenantID {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	if s.conflicts(a) {
		return nil, fmt.Errorf("%w: exclusion violation", appointmentRepo.ErrSlotConflict)
	}
	stored.ProviderID = a.ProviderID
	stored.StartAt = a.StartAt
	stored.EndAt = a.EndAt
	stored.DurationMinutes = a.DurationMinutes
	stored.TotalPrice = a.TotalPrice
	stored.Note = a.Note
	return clone(stored), nil
}

// UpdateStatus меняет статус записи
func (s *Store) UpdateStatus(_ context.Context, tenantID, id int64, status domain.AppointmentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	stored, ok := s.Appointments[id]
	if !ok || stored.TenantID != tenantID {
		return appointmentRepo.ErrAppointmentNotFound
	}
	stored.Status = status
	return nil
}

// ReplaceItems заменяет позиции записи
func (s *Store) ReplaceItems(_ context.Context, appointmentID int64, items []domain.LineItem) ([]domain.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	stored, ok := s.Appointments[appointmentID]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	replaced := make([]domain.LineItem, 0, len(items))
	for _, item := range items {
		s.nextID++
		item.ID = s.nextID
		item.AppointmentID = appointmentID
		replaced = append(replaced, item)
	}
	stored.Items = replaced
	return append([]domain.LineItem{}, replaced...), nil
}

func (s *Store) conflicts(a *domain.Appointment) bool {
	for _, other := range s.Appointments {
		if other.ID == a.ID || other.ProviderID != a.ProviderID || !other.IsActive() {
			continue
		}
		if other.Overlaps(a.StartAt, a.EndAt) {
			return true
		}
	}
	return false
}

func matches(a *domain.Appointment, f domain.AppointmentsFilter) bool {
	if a.TenantID != f.TenantID {
		return false
	}
	if f.ProviderID != nil && a.ProviderID != *f.ProviderID {
		return false
	}
	if f.CustomerID != nil && a.CustomerID != *f.CustomerID {
		return false
	}
	if !f.To.IsZero() && !a.StartAt.Before(f.To) {
		return false
	}
	if !f.From.IsZero() && !a.EndAt.After(f.From) {
		return false
	}
	if f.ExcludeID != nil && a.ID == *f.ExcludeID {
		return false
	}
	if !f.IncludeCancelled && a.Status == domain.StatusCancelled {
		return false
	}
	return true
}

func clone(a *domain.Appointment) *domain.Appointment {
	copied := *a
	copied.Items = append([]domain.LineItem{}, a.Items...)
	return &copied
}
