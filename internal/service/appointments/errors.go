package appointments

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrCannotCancel возвращается, когда запись не может быть отменена
	ErrCannotCancel = errors.New("appointment cannot be cancelled")

	// ErrCheckoutRequired возвращается при попытке установить checked_out в обход checkout-flow
	ErrCheckoutRequired = errors.New("checked_out requires the checkout flow")

	// ErrCannotDelete возвращается при попытке удалить активную запись
	ErrCannotDelete = errors.New("appointment cannot be deleted")

	// ErrInvalidTransition возвращается, когда переход статуса запрещён машиной состояний
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidStatus возвращается при попытке установить неизвестный статус
	ErrInvalidStatus = errors.New("invalid appointment status")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
