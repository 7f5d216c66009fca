package pricing

import "github.com/shopspring/decimal"

// Settings глобальные тарифы ценообразования
// Передаются явно при конструировании use case'ов, никогда не читаются из глобального состояния -
// это позволяет детерминированно тестировать расчёты с разными ставками
type Settings struct {
	// TaxRatePercent ставка налога в процентах (например, "8" = 8%)
	TaxRatePercent decimal.Decimal

	// CardFeePercent комиссия за оплату картой в процентах (например, "3" = 3%)
	CardFeePercent decimal.Decimal
}
