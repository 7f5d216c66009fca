package create_appointment

import "errors"

var (
	// ErrStylistNotFound возвращается, когда стилист не найден
	ErrStylistNotFound = errors.New("create_appointment: stylist not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге стилиста
	ErrServiceNotFound = errors.New("create_appointment: service not found")

	// ErrDayFullyBooked возвращается, когда день полностью занят (load_ratio = 1.0)
	ErrDayFullyBooked = errors.New("create_appointment: day is fully booked")

	// ErrTimeSlotTaken возвращается, когда запрошенное время пересекается с другой записью
	ErrTimeSlotTaken = errors.New("create_appointment: time slot is taken")

	// ErrStartTimeInPast возвращается, когда время начала уже прошло
	ErrStartTimeInPast = errors.New("create_appointment: start time is in the past")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
