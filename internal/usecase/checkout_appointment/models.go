package checkout_appointment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request модель запроса на checkout записи
type Request struct {
	AppointmentUUID uuid.UUID // Публичный UUID записи
	Actor           int64     // ID пользователя (или системного актора), выполняющего checkout
}

// Response модель ответа с зафиксированными итоговыми суммами
type Response struct {
	UUID      uuid.UUID // UUID записи
	StylistID int64     // ID стилиста
	Status    string    // Статус записи (checked_out)

	TotalBeforeTax decimal.Decimal // Сумма цен услуг до налога
	TotalTax       decimal.Decimal // Налог
	TotalCardFee   decimal.Decimal // Комиссия за карту
	GrandTotal     decimal.Decimal // Итоговая сумма

	CheckedOutAt time.Time // Время перехода в checked_out
}
