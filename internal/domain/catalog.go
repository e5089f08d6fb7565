package domain

import "github.com/shopspring/decimal"

// Service is a bookable catalog entry
type Service struct {
	ID              int64
	TenantID        int64
	Name            string
	DurationMinutes int
	Price           decimal.Decimal
	IsActive        bool
}

// Employee is a staff member; providers perform services
type Employee struct {
	ID         int64
	TenantID   int64
	Name       string
	IsProvider bool
	IsActive   bool
}

// CanTakeBookings returns true if the employee may be booked
func (e *Employee) CanTakeBookings() bool {
	return e.IsProvider && e.IsActive
}
