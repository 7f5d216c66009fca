package models

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// WeekdayDiscount скидка на день недели (1 = понедельник .. 7 = воскресенье)
type WeekdayDiscount struct {
	Weekday int `json:"weekday"`
	Percent int `json:"percent"`
}

// DateRangeDiscount скидка на период дат (границы включительны)
type DateRangeDiscount struct {
	ValidFrom time.Time `json:"validFrom"`
	ValidTo   time.Time `json:"validTo"`
	Percent   int       `json:"percent"`
}

// DiscountConfigResponse конфигурация скидок стилиста
type DiscountConfigResponse struct {
	FirstVisitPercent  int                 `json:"firstVisitPercent"`
	Rebook1WPercent    int                 `json:"rebook1wPercent"`
	Rebook2WPercent    int                 `json:"rebook2wPercent"`
	WeekdayDiscounts   []WeekdayDiscount   `json:"weekdayDiscounts"`
	DateRangeDiscounts []DateRangeDiscount `json:"dateRangeDiscounts"`
}

// UpdateDiscountConfigRequest запрос на полную замену конфигурации скидок
type UpdateDiscountConfigRequest struct {
	FirstVisitPercent  int                 `json:"firstVisitPercent"`
	Rebook1WPercent    int                 `json:"rebook1wPercent"`
	Rebook2WPercent    int                 `json:"rebook2wPercent"`
	WeekdayDiscounts   []WeekdayDiscount   `json:"weekdayDiscounts"`
	DateRangeDiscounts []DateRangeDiscount `json:"dateRangeDiscounts"`
}

// Validate проверяет границы процентов, дней недели и периодов
func (r *UpdateDiscountConfigRequest) Validate() error {
	if err := validatePercent(r.FirstVisitPercent, "firstVisitPercent"); err != nil {
		return err
	}
	if err := validatePercent(r.Rebook1WPercent, "rebook1wPercent"); err != nil {
		return err
	}
	if err := validatePercent(r.Rebook2WPercent, "rebook2wPercent"); err != nil {
		return err
	}

	seen := make(map[int]bool, len(r.WeekdayDiscounts))
	for _, wd := range r.WeekdayDiscounts {
		if wd.Weekday < 1 || wd.Weekday > 7 {
			return fmt.Errorf("weekday must be in 1..7, got %d", wd.Weekday)
		}
		if seen[wd.Weekday] {
			return fmt.Errorf("duplicate weekday %d", wd.Weekday)
		}
		seen[wd.Weekday] = true
		if err := validatePercent(wd.Percent, "weekday percent"); err != nil {
			return err
		}
	}

	for _, dr := range r.DateRangeDiscounts {
		if dr.ValidFrom.IsZero() || dr.ValidTo.IsZero() {
			return fmt.Errorf("date range bounds are required")
		}
		if dr.ValidTo.Before(dr.ValidFrom) {
			return fmt.Errorf("validTo must not be before validFrom")
		}
		if err := validatePercent(dr.Percent, "date range percent"); err != nil {
			return err
		}
	}

	return nil
}

func validatePercent(percent int, field string) error {
	if percent < domain.MinDiscountPercent || percent > domain.MaxDiscountPercent {
		return fmt.Errorf("%s must be in %d..%d, got %d",
			field, domain.MinDiscountPercent, domain.MaxDiscountPercent, percent)
	}
	return nil
}

// ToDomainConfig конвертирует request в domain модель
func (r *UpdateDiscountConfigRequest) ToDomainConfig() *domain.DiscountConfig {
	cfg := &domain.DiscountConfig{
		FirstVisitPercent:  r.FirstVisitPercent,
		RebookWeekPercent:  r.Rebook1WPercent,
		Rebook2WeekPercent: r.Rebook2WPercent,
		WeekdayPercents:    make(map[int]int, len(r.WeekdayDiscounts)),
	}
	for _, wd := range r.WeekdayDiscounts {
		cfg.WeekdayPercents[wd.Weekday] = wd.Percent
	}
	for _, dr := range r.DateRangeDiscounts {
		cfg.DateRanges = append(cfg.DateRanges, domain.DateRangeDiscount{
			From:    dr.ValidFrom,
			To:      dr.ValidTo,
			Percent: dr.Percent,
		})
	}
	return cfg
}

// FromDomainConfig конвертирует domain модель в response
func FromDomainConfig(cfg *domain.DiscountConfig) *DiscountConfigResponse {
	resp := &DiscountConfigResponse{
		FirstVisitPercent:  cfg.FirstVisitPercent,
		Rebook1WPercent:    cfg.RebookWeekPercent,
		Rebook2WPercent:    cfg.Rebook2WeekPercent,
		WeekdayDiscounts:   make([]WeekdayDiscount, 0, len(cfg.WeekdayPercents)),
		DateRangeDiscounts: make([]DateRangeDiscount, 0, len(cfg.DateRanges)),
	}

	// Дни недели в фиксированном порядке
	for weekday := 1; weekday <= 7; weekday++ {
		if percent, ok := cfg.WeekdayPercents[weekday]; ok {
			resp.WeekdayDiscounts = append(resp.WeekdayDiscounts, WeekdayDiscount{Weekday: weekday, Percent: percent})
		}
	}

	for _, dr := range cfg.DateRanges {
		resp.DateRangeDiscounts = append(resp.DateRangeDiscounts, DateRangeDiscount{
			ValidFrom: dr.From,
			ValidTo:   dr.To,
			Percent:   dr.Percent,
		})
	}

	return resp
}
