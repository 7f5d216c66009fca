package get_price_calendar

import "errors"

var (
	// ErrStylistNotFound возвращается, когда стилист не найден
	ErrStylistNotFound = errors.New("get_price_calendar: stylist not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге стилиста
	ErrServiceNotFound = errors.New("get_price_calendar: service not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_price_calendar: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_price_calendar: internal error")
)
