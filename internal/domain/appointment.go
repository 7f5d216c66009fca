package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusNew                AppointmentStatus = "new"
	StatusCheckedOut         AppointmentStatus = "checked_out"
	StatusNoShow             AppointmentStatus = "no_show"
	StatusCancelledByStylist AppointmentStatus = "cancelled_by_stylist"
	StatusCancelledByClient  AppointmentStatus = "cancelled_by_client"
)

// Appointment represents a persisted appointment between a stylist and a client
type Appointment struct {
	ID        int64
	UUID      uuid.UUID
	StylistID int64
	ClientID  *int64 // nil = walk-in / unknown client
	StartTime time.Time
	// DurationMinutes - snapshot of the stylist's service-time-gap at creation time.
	// The calendar slot length, independent of how many services are rendered within it.
	DurationMinutes int
	Status          AppointmentStatus
	CreatedBy       int64

	// IncludeTax / IncludeCardFee выбираются при создании записи и определяют
	// состав итоговой суммы на preview и при checkout
	IncludeTax     bool
	IncludeCardFee bool

	Services []AppointmentServiceLine

	// Totals are frozen at checkout and stay nil until then
	TotalBeforeTax *decimal.Decimal
	TotalTax       *decimal.Decimal
	TotalCardFee   *decimal.Decimal
	GrandTotal     *decimal.Decimal

	StatusHistory []AppointmentStatusHistory

	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AppointmentServiceLine is a service rendered within an appointment.
// Price, duration and name are snapshotted at line-creation time and never
// recomputed once persisted.
type AppointmentServiceLine struct {
	ID            int64
	AppointmentID int64
	ServiceID     int64
	Name          string
	RegularPrice  decimal.Decimal
	ClientPrice   decimal.Decimal
	// DurationMinutes - snapshot of the catalog service duration
	DurationMinutes int
	// IsOriginal is true for lines booked at creation time; additions after
	// creation are priced at regular price and carry IsOriginal = false
	IsOriginal    bool
	IsPriceEdited bool
}

// AppointmentStatusHistory is an immutable audit record of a status transition.
// The history is append-only and authoritative; Appointment.Status is a cached
// projection of its latest entry.
type AppointmentStatusHistory struct {
	ID            int64
	AppointmentID int64
	Status        AppointmentStatus
	UpdatedAt     time.Time
	UpdatedBy     int64
}

// IsActive returns true if the appointment counts toward stylist load
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelledByStylist && a.Status != StatusCancelledByClient
}

// IsCancelled returns true if the appointment has been cancelled by either party
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelledByStylist || a.Status == StatusCancelledByClient
}

// IsCheckedOut returns true if the appointment is checked out (totals frozen)
func (a *Appointment) IsCheckedOut() bool {
	return a.Status == StatusCheckedOut
}

// IsTerminal returns true if no further status transition is allowed
func (a *Appointment) IsTerminal() bool {
	return a.Status != StatusNew
}

// CanBeCancelled returns true if the appointment can still be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusNew
}

// CanTransitionTo returns true if the status state machine permits the transition.
// The only valid transitions are NEW -> {CHECKED_OUT, NO_SHOW, CANCELLED_BY_STYLIST,
// CANCELLED_BY_CLIENT}; all four outcomes are terminal.
func (a *Appointment) CanTransitionTo(newStatus AppointmentStatus) bool {
	if a.Status != StatusNew {
		return false
	}
	switch newStatus {
	case StatusCheckedOut, StatusNoShow, StatusCancelledByStylist, StatusCancelledByClient:
		return true
	default:
		return false
	}
}

// End returns the end of the appointment's calendar slot
func (a *Appointment) End() time.Time {
	return a.StartTime.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// Covers returns true if t falls within [StartTime, StartTime + duration)
func (a *Appointment) Covers(t time.Time) bool {
	return !t.Before(a.StartTime) && t.Before(a.End())
}

// FindServiceLine returns the persisted line for serviceID, if present
func (a *Appointment) FindServiceLine(serviceID int64) *AppointmentServiceLine {
	for i := range a.Services {
		if a.Services[i].ServiceID == serviceID {
			return &a.Services[i]
		}
	}
	return nil
}

// StylistAppointmentsFilter фильтр для получения записей стилиста
type StylistAppointmentsFilter struct {
	StylistID       int64              // Обязательный параметр
	StartFrom       *time.Time         // Начало периода (опционально)
	StartTo         *time.Time         // Конец периода (опционально, не включительно)
	Status          *AppointmentStatus // Фильтр по статусу (опционально)
	IncludeInactive bool               // Включать ли отменённые записи
}
