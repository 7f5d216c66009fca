package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaturatedLoadRatio is the fully-booked sentinel: a day with no capacity
// reports this value and is excluded from offerable dates
const SaturatedLoadRatio = 1.0

// DemandSample is a derived, ephemeral per-date load measurement.
// Never persisted; recomputed on every preview.
type DemandSample struct {
	Date      time.Time
	LoadRatio float64 // in [0, 1]
}

// IsSaturated returns true if the date has no remaining capacity
func (s DemandSample) IsSaturated() bool {
	return s.LoadRatio >= SaturatedLoadRatio
}

// CalculatedPrice is the immutable output of the price calculator for one
// service on one date
type CalculatedPrice struct {
	Price           decimal.Decimal
	AppliedDiscount DiscountKind
	Percent         int
}
