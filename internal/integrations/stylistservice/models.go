package stylistservice

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Stylist модель стилиста из StylistService
type Stylist struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`

	// ServiceGapMinutes фиксированная длина календарного слота записи
	// Константа уровня стилиста, не зависит от набора услуг в записи
	ServiceGapMinutes int `json:"service_gap_minutes"`

	WorkingHours WeekSchedule `json:"working_hours"`
}

// WeekSchedule недельное расписание доступности стилиста
type WeekSchedule struct {
	Monday    DaySchedule `json:"monday"`
	Tuesday   DaySchedule `json:"tuesday"`
	Wednesday DaySchedule `json:"wednesday"`
	Thursday  DaySchedule `json:"thursday"`
	Friday    DaySchedule `json:"friday"`
	Saturday  DaySchedule `json:"saturday"`
	Sunday    DaySchedule `json:"sunday"`
}

// DaySchedule расписание доступности на один день недели
type DaySchedule struct {
	IsAvailable bool    `json:"is_available"`
	StartTime   *string `json:"start_time,omitempty"` // "10:00"
	EndTime     *string `json:"end_time,omitempty"`   // "19:00"
}

// Service модель услуги из каталога стилиста
type Service struct {
	ID              int64           `json:"id"`
	StylistID       int64           `json:"stylist_id"`
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price"`
	DurationMinutes int             `json:"duration_minutes"`
}

// ErrorResponse модель ошибки от StylistService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// GapMinutes возвращает длину слота стилиста с фолбэком на значение по умолчанию
func (s *Stylist) GapMinutes() int {
	if s.ServiceGapMinutes <= 0 {
		return domain.DefaultServiceGapMinutes
	}
	return s.ServiceGapMinutes
}

// AvailabilityWindows конвертирует недельное расписание в окна доступности
// по ISO-номеру дня недели (1 = понедельник .. 7 = воскресенье)
// День без расписания или без границ трактуется как недоступный
func (s *Stylist) AvailabilityWindows() map[int]domain.AvailabilityWindow {
	days := []DaySchedule{
		s.WorkingHours.Monday,
		s.WorkingHours.Tuesday,
		s.WorkingHours.Wednesday,
		s.WorkingHours.Thursday,
		s.WorkingHours.Friday,
		s.WorkingHours.Saturday,
		s.WorkingHours.Sunday,
	}

	windows := make(map[int]domain.AvailabilityWindow, len(days))
	for i, day := range days {
		weekday := i + 1
		windows[weekday] = day.toWindow(weekday)
	}
	return windows
}

func (d DaySchedule) toWindow(weekday int) domain.AvailabilityWindow {
	if !d.IsAvailable || d.StartTime == nil || d.EndTime == nil {
		return domain.AvailabilityWindow{Weekday: weekday, IsAvailable: false}
	}

	start, err := types.NewTimeStringFromString(*d.StartTime)
	if err != nil {
		return domain.AvailabilityWindow{Weekday: weekday, IsAvailable: false}
	}
	end, err := types.NewTimeStringFromString(*d.EndTime)
	if err != nil {
		return domain.AvailabilityWindow{Weekday: weekday, IsAvailable: false}
	}

	return domain.AvailabilityWindow{
		Weekday:     weekday,
		IsAvailable: true,
		Start:       start,
		End:         end,
	}
}
