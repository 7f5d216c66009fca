package checkout_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("checkout_appointment: appointment not found")

	// ErrAlreadyCheckedOut возвращается при повторной попытке checkout (идемпотентная защита)
	ErrAlreadyCheckedOut = errors.New("checkout_appointment: appointment is already checked out")

	// ErrInvalidTransition возвращается, когда переход в checked_out запрещён
	// машиной состояний (запись не в статусе new)
	ErrInvalidTransition = errors.New("checkout_appointment: invalid status transition")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("checkout_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("checkout_appointment: internal error")
)
