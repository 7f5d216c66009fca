package get_price_calendar

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request модель запроса на получение ценового календаря
type Request struct {
	StylistID int64     // ID стилиста
	ServiceID int64     // ID услуги из каталога стилиста
	ClientID  *int64    // ID клиента для персональных скидок (nil = walk-in)
	DateFrom  time.Time // Начало периода (включительно)
	DateTo    time.Time // Конец периода (включительно)
}

// Day цена услуги на одну дату
type Day struct {
	Date            time.Time       // Дата
	Price           decimal.Decimal // Цена услуги с учётом скидки
	AppliedDiscount string          // Применённое правило скидки
	DiscountPercent int             // Процент скидки
	LoadRatio       float64         // Загрузка стилиста на дату
}

// Response модель ответа с ценовым календарём
// Полностью занятые дни (load_ratio = 1.0) в календарь не попадают
type Response struct {
	StylistID int64 // ID стилиста
	ServiceID int64 // ID услуги
	Days      []Day // Предлагаемые даты в порядке возрастания
}
