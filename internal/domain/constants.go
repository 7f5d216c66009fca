package domain

// Default configuration values
const (
	DefaultServiceGapMinutes = 60 // Длина слота записи по умолчанию, если стилист не настроил свою
)

// Business validation constants
const (
	MinDiscountPercent = 0
	MaxDiscountPercent = 100
	MinServiceGapMinutes = 5
	MaxServiceGapMinutes = 480 // 8 hours
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// CancelledStatuses список отменённых статусов
// Записи с этими статусами не учитываются при расчёте загрузки и конфликтов
var CancelledStatuses = []AppointmentStatus{
	StatusCancelledByStylist,
	StatusCancelledByClient,
}

// TerminalStatuses список терминальных статусов
// После перехода в любой из них дальнейшие изменения цены и статуса запрещены
var TerminalStatuses = []AppointmentStatus{
	StatusCheckedOut,
	StatusNoShow,
	StatusCancelledByStylist,
	StatusCancelledByClient,
}
