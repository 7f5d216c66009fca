package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// moneyScale количество знаков после запятой у денежных значений
const moneyScale = 2

var hundred = decimal.NewFromInt(100)

// Calculate вычисляет цену услуги на дату с учётом разрешённой скидки
//
// discounted_price = base_price * (1 - percent/100), усечённая (не округлённая)
// до moneyScale знаков. Kind и Percent прокидываются в результат как есть -
// они показываются клиенту ("скидка 30% за повторную запись").
//
// Спрос (demand) на цену не влияет: день с насыщенной загрузкой должен быть
// исключён из предлагаемых дат вызывающей стороной, а не оценён с наценкой.
// Параметр demand оставлен в сигнатуре, чтобы политика surge-pricing при
// необходимости менялась в одном месте.
func Calculate(basePrice decimal.Decimal, demand domain.DemandSample, discount domain.ResolvedDiscount) domain.CalculatedPrice {
	_ = demand

	percent := discount.Percent
	if percent < domain.MinDiscountPercent {
		percent = domain.MinDiscountPercent
	}
	if percent > domain.MaxDiscountPercent {
		percent = domain.MaxDiscountPercent
	}

	multiplier := hundred.Sub(decimal.NewFromInt(int64(percent)))
	price := basePrice.Mul(multiplier).Div(hundred).Truncate(moneyScale)

	return domain.CalculatedPrice{
		Price:           price,
		AppliedDiscount: discount.Kind,
		Percent:         discount.Percent,
	}
}
