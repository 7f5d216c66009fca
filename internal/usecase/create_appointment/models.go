package create_appointment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RequestedService одна услуга в запросе на создание записи
type RequestedService struct {
	ServiceID int64 // ID услуги из каталога стилиста

	// ClientPrice явная цена, заданная стилистом вручную (опционально)
	ClientPrice *decimal.Decimal
}

// Request модель запроса на создание записи
type Request struct {
	StylistID      int64              // ID стилиста
	ClientID       *int64             // ID клиента (nil = walk-in)
	CreatedBy      int64              // ID пользователя, создающего запись
	Services       []RequestedService // Запрошенные услуги
	StartTime      time.Time          // Начало записи
	IncludeTax     bool               // Включать налог в итоговую сумму
	IncludeCardFee bool               // Включать комиссию за карту в итоговую сумму
}

// ServiceLine строка услуги созданной записи
type ServiceLine struct {
	ServiceID       int64           // ID услуги
	Name            string          // Название услуги (снапшот)
	RegularPrice    decimal.Decimal // Обычная цена без скидки
	ClientPrice     decimal.Decimal // Зафиксированная цена для клиента
	DurationMinutes int             // Длительность услуги (снапшот)
	IsPriceEdited   bool            // Цена изменена стилистом вручную
}

// Response модель ответа с созданной записью
type Response struct {
	ID              int64         // Внутренний ID записи
	UUID            uuid.UUID     // Публичный UUID записи
	StylistID       int64         // ID стилиста
	ClientID        *int64        // ID клиента (nil = walk-in)
	StartTime       time.Time     // Начало записи
	DurationMinutes int           // Длина календарного слота
	Status          string        // Статус записи (всегда new)
	Services        []ServiceLine // Зафиксированные строки услуг

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
