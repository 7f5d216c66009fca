package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// AvailabilityWindow is a stylist's working-time interval for one weekday.
// Owned by stylist configuration, read-only to this service.
type AvailabilityWindow struct {
	Weekday     int // ISO weekday: 1 = Monday .. 7 = Sunday
	IsAvailable bool
	Start       types.TimeString
	End         types.TimeString
}

// DurationMinutes returns the window length in minutes (0 if unavailable or malformed)
func (w *AvailabilityWindow) DurationMinutes() int {
	if !w.IsAvailable {
		return 0
	}
	minutes, err := w.Start.MinutesBetween(w.End)
	if err != nil || minutes < 0 {
		return 0
	}
	return minutes
}

// ISOWeekday returns the ISO weekday (1 = Monday .. 7 = Sunday) of a date
func ISOWeekday(date time.Time) int {
	wd := int(date.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// DateOnly truncates a timestamp to its calendar day (local midnight)
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay returns true if both timestamps fall on the same calendar day
func SameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
