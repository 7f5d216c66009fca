package preview_appointment

import "errors"

var (
	// ErrStylistNotFound возвращается, когда стилист не найден
	ErrStylistNotFound = errors.New("preview_appointment: stylist not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге стилиста
	ErrServiceNotFound = errors.New("preview_appointment: service not found")

	// ErrAppointmentNotFound возвращается, когда указанная запись не найдена
	// или не принадлежит стилисту
	ErrAppointmentNotFound = errors.New("preview_appointment: appointment not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("preview_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("preview_appointment: internal error")
)
