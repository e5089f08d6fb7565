package domain

import "time"

// Default scheduling values
const (
	// DefaultStepMinutes advances a rejected slot candidate; an accepted slot advances by the service duration
	DefaultStepMinutes = 30
	DefaultRestDay     = Weekday(0) // Sunday

	DefaultOpenTime   = "09:00"
	DefaultCloseTime  = "18:00"
	DefaultBreakStart = "12:00"
	DefaultBreakEnd   = "13:00"
)

// LeadTimeSafetyMargin is added to "now" before comparing against slot starts
const LeadTimeSafetyMargin = time.Minute

// Business validation constants
const (
	MaxBookingMinHours    = 720 // 30 days
	MaxAppointmentMinutes = 720 // 12 hours
	MaxNoteLength         = 500
	MinStepMinutes        = 5
	MaxStepMinutes        = 240
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Surfaces an admission or availability request can come from
const (
	SurfaceStaff        = "staff"
	SurfaceProfessional = "professional"
	SurfacePortal       = "portal"
)
