package domain

import (
	"fmt"
	"time"
)

// BookingMode defines how the minimum lead time is enforced
type BookingMode string

const (
	// BookingModeFixedHours requires a minimum number of hours before same-day slots
	BookingModeFixedHours BookingMode = "fixed-hours"
	// BookingModeNextDayOnly only accepts bookings starting tomorrow or later
	BookingModeNextDayOnly BookingMode = "next-day-only"
)

// IsValid reports whether the mode is known
func (m BookingMode) IsValid() bool {
	return m == BookingModeFixedHours || m == BookingModeNextDayOnly
}

// BookingPolicy is the tenant-wide lead-time rule
type BookingPolicy struct {
	Mode     BookingMode
	MinHours int
}

// EffectiveMinHours treats negative values as zero
func (p BookingPolicy) EffectiveMinHours() int {
	if p.MinHours < 0 {
		return 0
	}
	return p.MinHours
}

// Tenant is a salon business; every other entity is scoped to one
type Tenant struct {
	ID          int64
	Name        string
	Timezone    string
	PortalToken string
	Policy      BookingPolicy
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Location returns the tenant's IANA time zone; an empty value means UTC
func (t *Tenant) Location() (*time.Location, error) {
	if t.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		return nil, fmt.Errorf("tenant %d: invalid timezone %q: %w", t.ID, t.Timezone, err)
	}
	return loc, nil
}

// CustomerIdentity is the result of a verified customer portal session
type CustomerIdentity struct {
	CustomerID int64
	TenantID   int64
}

// StaffRole is the role carried by an authenticated staff identity
type StaffRole string

const (
	RoleAdmin        StaffRole = "admin"
	RoleStaff        StaffRole = "staff"
	RoleProfessional StaffRole = "professional"
)

// StaffIdentity is the ambient identity of the staff and professional surfaces
type StaffIdentity struct {
	TenantID   int64
	EmployeeID int64
	Role       StaffRole
}

// CanActFor reports whether the identity may view or book the given provider
func (s StaffIdentity) CanActFor(providerID int64) bool {
	if s.Role == RoleProfessional {
		return s.EmployeeID == providerID
	}
	return true
}

// IsAdmin returns true for tenant administrators
func (s StaffIdentity) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// Surface names the booking surface the identity acts on
func (s StaffIdentity) Surface() string {
	if s.Role == RoleProfessional {
		return SurfaceProfessional
	}
	return SurfaceStaff
}
