package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/portalauth"
)

// Appointments адаптирует Store к интерфейсу репозитория записей
type Appointments struct {
	*Store
}

// GetByID получает запись салона
func (a Appointments) GetByID(ctx context.Context, tenantID, id int64) (*domain.Appointment, error) {
	return a.Store.GetAppointment(ctx, tenantID, id)
}

// TxManager выполняет функцию без реальной транзакции
type TxManager struct {
	// CommitErr имитирует ошибку фиксации (например, serialization failure)
	CommitErr error
	Calls     int

	mu sync.Mutex
}

// Do выполняет fn
func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

// DoSerializable выполняет fn
func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()
	if err := fn(ctx); err != nil {
		return err
	}
	return m.CommitErr
}

// Clock фиксированное текущее время
type Clock struct {
	At time.Time
}

// Now возвращает зафиксированное время
func (c Clock) Now() time.Time {
	return c.At
}

// NopLogger логгер, который ничего не пишет
type NopLogger struct{}

func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}

// Metrics собирает доменные метрики в памяти
type Metrics struct {
	Admissions []string // surface/outcome
	SlotCounts []int

	mu sync.Mutex
}

// ObserveAdmission запоминает исход допуска
func (m *Metrics) ObserveAdmission(surface, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Admissions = append(m.Admissions, surface+"/"+outcome)
}

// ObserveAvailableSlots запоминает число слотов
func (m *Metrics) ObserveAvailableSlots(_ string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SlotCounts = append(m.SlotCounts, count)
}

// Verifier проверяет сессии портала по таблице токенов
type Verifier struct {
	// Sessions session token -> идентичность клиента
	Sessions map[string]domain.CustomerIdentity
	Err      error
}

// Verify возвращает идентичность по токену сессии
func (v Verifier) Verify(_ context.Context, _, sessionToken string) (*domain.CustomerIdentity, error) {
	if v.Err != nil {
		return nil, v.Err
	}
	identity, ok := v.Sessions[sessionToken]
	if !ok {
		return nil, portalauth.ErrUnauthorized
	}
	return &identity, nil
}
