package pricing

import "github.com/shopspring/decimal"

// Totals четыре итоговые суммы записи
// Ровно эти значения замораживаются на записи при checkout
type Totals struct {
	TotalBeforeTax decimal.Decimal
	TotalTax       decimal.Decimal
	TotalCardFee   decimal.Decimal
	GrandTotal     decimal.Decimal
}

// CalculateAppointmentPrices вычисляет налог, комиссию за карту и общую сумму
//
// Порядок значим: налог считается от суммы до налога и при includeTax добавляется
// к промежуточному итогу; комиссия за карту считается от промежуточного итога
// (уже содержащего налог, если он включён) и добавляется при includeCardFee.
// То есть при обоих флагах комиссия берётся поверх налога:
// 100, налог 8%, комиссия 3% -> tax=8, промежуточный итог 108, fee=3.24, итог 111.24
//
// Суммы налога и комиссии вычисляются всегда (для прозрачности ответа);
// флаги управляют только тем, входят ли они в GrandTotal.
func CalculateAppointmentPrices(totalBeforeTax decimal.Decimal, includeCardFee, includeTax bool, settings Settings) Totals {
	tax := totalBeforeTax.Mul(settings.TaxRatePercent).Div(hundred).Truncate(moneyScale)

	running := totalBeforeTax
	if includeTax {
		running = running.Add(tax)
	}

	fee := running.Mul(settings.CardFeePercent).Div(hundred).Truncate(moneyScale)
	if includeCardFee {
		running = running.Add(fee)
	}

	return Totals{
		TotalBeforeTax: totalBeforeTax,
		TotalTax:       tax,
		TotalCardFee:   fee,
		GrandTotal:     running,
	}
}
