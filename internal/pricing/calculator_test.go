package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

func TestCalculate(t *testing.T) {
	date := time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		basePrice string
		demand    float64
		discount  domain.ResolvedDiscount
		wantPrice string
	}{
		{
			name:      "no discount keeps base price",
			basePrice: "40.00",
			demand:    0.4,
			discount:  domain.NoDiscount,
			wantPrice: "40",
		},
		{
			name:      "weekday 50 percent halves the price",
			basePrice: "40.00",
			demand:    0.4,
			discount:  domain.ResolvedDiscount{Kind: domain.DiscountWeekday, Percent: 50},
			wantPrice: "20",
		},
		{
			name:      "price is truncated, not rounded",
			basePrice: "39.99",
			demand:    0,
			discount:  domain.ResolvedDiscount{Kind: domain.DiscountWeekday, Percent: 33},
			// 39.99 * 0.67 = 26.7933 -> 26.79
			wantPrice: "26.79",
		},
		{
			name:      "100 percent discount gives zero",
			basePrice: "55.50",
			demand:    0,
			discount:  domain.ResolvedDiscount{Kind: domain.DiscountFirstVisit, Percent: 100},
			wantPrice: "0",
		},
		{
			name:      "demand does not scale price",
			basePrice: "40.00",
			demand:    0.99,
			discount:  domain.NoDiscount,
			wantPrice: "40",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sample := domain.DemandSample{Date: date, LoadRatio: tt.demand}
			got := Calculate(dec(tt.basePrice), sample, tt.discount)

			assert.True(t, got.Price.Equal(dec(tt.wantPrice)),
				"price = %s, want %s", got.Price, tt.wantPrice)
			assert.Equal(t, tt.discount.Kind, got.AppliedDiscount)
			assert.Equal(t, tt.discount.Percent, got.Percent)
		})
	}
}

// TestCalculate_MondayScenario сценарий из постановки: понедельник со скидкой 50%,
// клиент с одним прошлым визитом, спрос 0.4 (не насыщен) - базовая цена 40.00 даёт 20.00
func TestCalculate_MondayScenario(t *testing.T) {
	monday := time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)
	lastVisit := monday.AddDate(0, -1, 0)

	cfg := domain.DiscountConfig{WeekdayPercents: map[int]int{1: 50}}
	resolved := ResolveDiscount(cfg, knownClient(&lastVisit), monday)

	assert.Equal(t, domain.DiscountWeekday, resolved.Kind)
	assert.Equal(t, 50, resolved.Percent)

	sample := domain.DemandSample{Date: monday, LoadRatio: 0.4}
	assert.False(t, sample.IsSaturated())

	got := Calculate(dec("40.00"), sample, resolved)
	assert.True(t, got.Price.Equal(dec("20.00")), "price = %s", got.Price)
}
