package preview_appointment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RequestedService одна услуга в запросе на предпросмотр
type RequestedService struct {
	ServiceID int64 // ID услуги из каталога стилиста

	// ClientPrice явная цена, заданная стилистом вручную (опционально)
	// Заменяет рассчитанную цену и помечает строку флагом isPriceEdited
	ClientPrice *decimal.Decimal
}

// Request модель запроса на предпросмотр записи
type Request struct {
	StylistID      int64              // ID стилиста
	ClientID       *int64             // ID клиента (nil = walk-in)
	Services       []RequestedService // Запрошенные услуги
	StartTime      time.Time          // Начало записи
	IncludeTax     bool               // Включать налог в итоговую сумму
	IncludeCardFee bool               // Включать комиссию за карту в итоговую сумму

	// ExistingAppointmentUUID ссылка на уже созданную запись (опционально)
	// Если указана, сохранённые строки используются как есть, а новые услуги
	// оцениваются по обычной (недисконтированной) цене
	ExistingAppointmentUUID *uuid.UUID
}

// ServiceLine строка услуги в предпросмотре
type ServiceLine struct {
	ServiceID       int64           // ID услуги
	Name            string          // Название услуги (снапшот)
	RegularPrice    decimal.Decimal // Обычная цена без скидки
	ClientPrice     decimal.Decimal // Цена для клиента
	DurationMinutes int             // Длительность услуги (снапшот)
	AppliedDiscount string          // Применённое правило скидки
	DiscountPercent int             // Процент скидки
	IsOriginal      bool            // Строка из исходного состава записи
	IsPriceEdited   bool            // Цена изменена стилистом вручную
}

// Conflict пересечение с существующей записью
type Conflict struct {
	UUID            uuid.UUID // UUID записи
	StartTime       time.Time // Начало записи
	DurationMinutes int       // Длительность слота
	Status          string    // Текущий статус
}

// Response модель ответа с предпросмотром записи
type Response struct {
	StylistID       int64         // ID стилиста
	ClientID        *int64        // ID клиента (nil = walk-in)
	StartTime       time.Time     // Начало записи
	DurationMinutes int           // Длина календарного слота (service-time-gap)
	Services        []ServiceLine // Строки услуг

	TotalBeforeTax decimal.Decimal // Сумма цен услуг до налога
	TotalTax       decimal.Decimal // Налог (рассчитывается всегда)
	TotalCardFee   decimal.Decimal // Комиссия за карту (рассчитывается всегда)
	GrandTotal     decimal.Decimal // Итоговая сумма с учётом флагов

	LoadRatio float64 // Загрузка стилиста на дату записи
	Saturated bool    // День полностью занят

	// ConflictsWith записи, чей слот содержит запрошенное время начала
	// Предпросмотр только сообщает о конфликтах, решение принимает вызывающая сторона
	ConflictsWith []Conflict
}
