package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// statusTransitions allowed forward moves; cancelled and completed are terminal
var statusTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusConfirmed, StatusCompleted, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// IsValid reports whether the status is one of the known values
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status may move to next
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Appointment is a booked visit of a customer to a provider
type Appointment struct {
	ID              int64
	TenantID        int64
	ProviderID      int64
	CustomerID      int64
	StartAt         time.Time
	EndAt           time.Time
	DurationMinutes int
	TotalPrice      decimal.Decimal
	Status          AppointmentStatus
	Note            *string

	Items []LineItem

	CreatedAt time.Time
	UpdatedAt time.Time
}

// LineItem is a service snapshot attached to an appointment
type LineItem struct {
	ID              int64
	AppointmentID   int64
	ServiceID       int64
	DurationMinutes int
	Price           decimal.Decimal
}

// IsActive returns true if the appointment still occupies the provider's time
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled
}

// CanBeEdited returns true if the appointment time or services may still change
func (a *Appointment) CanBeEdited() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// Overlaps reports whether the appointment intersects [start, end) (half-open)
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return a.StartAt.Before(end) && start.Before(a.EndAt)
}

// BusyInterval is the tenant-local projection of an appointment on one calendar day
type BusyInterval struct {
	Start           types.TimeString
	DurationMinutes int
}

// AppointmentsFilter selects appointments of a provider within [From, To)
type AppointmentsFilter struct {
	TenantID         int64
	ProviderID       *int64
	CustomerID       *int64
	From             time.Time
	To               time.Time
	ExcludeID        *int64
	IncludeCancelled bool
}
