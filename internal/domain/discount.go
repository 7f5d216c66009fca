package domain

import "time"

// DiscountKind identifies the rule that produced a resolved discount
type DiscountKind string

const (
	DiscountNone        DiscountKind = "none"
	DiscountDateRange   DiscountKind = "date_range"
	DiscountFirstVisit  DiscountKind = "first_visit"
	DiscountRebookWeek  DiscountKind = "rebook_1w"
	DiscountRebook2Week DiscountKind = "rebook_2w"
	DiscountWeekday     DiscountKind = "weekday"
)

// DateRangeDiscount is a discount active on every date within an inclusive range
type DateRangeDiscount struct {
	From    time.Time
	To      time.Time
	Percent int
}

// Contains returns true if date's calendar day falls within the inclusive range
func (d *DateRangeDiscount) Contains(date time.Time) bool {
	day := DateOnly(date)
	return !day.Before(DateOnly(d.From)) && !day.After(DateOnly(d.To))
}

// DiscountConfig aggregates the four independent discount rule sets of a stylist.
// All percentages are in [0,100]; absent rules mean 0.
type DiscountConfig struct {
	// WeekdayPercents maps ISO weekday (1 = Monday .. 7 = Sunday) to percentage; sparse
	WeekdayPercents map[int]int

	// FirstVisitPercent applies only when the client has no prior
	// checked-out appointment with this stylist
	FirstVisitPercent int

	// RebookWeekPercent / Rebook2WeekPercent apply when the client's last
	// checked-out visit was within 7 / 14 days before the requested date
	RebookWeekPercent  int
	Rebook2WeekPercent int

	DateRanges []DateRangeDiscount
}

// ResolvedDiscount is the single best-applicable discount for one date
type ResolvedDiscount struct {
	Kind    DiscountKind
	Percent int
}

// NoDiscount is the zero-discount sentinel used when no rule applies
// and when discount configuration is missing entirely
var NoDiscount = ResolvedDiscount{Kind: DiscountNone, Percent: 0}
