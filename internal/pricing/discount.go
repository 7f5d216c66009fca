package pricing

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ClientHistory история клиента у конкретного стилиста
// Используется для правил first-visit и rebook
type ClientHistory struct {
	// Known - клиент известен (walk-in клиенты не проходят по правилам, зависящим от истории)
	Known bool

	// LastCheckedOutVisit дата последнего checked_out визита к этому стилисту
	// nil = визитов не было
	LastCheckedOutVisit *time.Time
}

const (
	rebookWeekDays  = 7
	rebook2WeekDays = 14
)

// ResolveDiscount выбирает единственную лучшую скидку для даты
//
// Для каждого применимого правила вычисляется процент, выигрывает максимальный.
// При равных процентах действует фиксированный порядок приоритета:
// date-range > first-visit > rebook(7д) > rebook(14д) > weekday.
// Результат всегда равен одному из настроенных процентов или 0 - правила никогда не смешиваются.
//
// Для walk-in клиента (history.Known = false) правила, зависящие от истории
// (first-visit, rebook), пропускаются целиком.
func ResolveDiscount(cfg domain.DiscountConfig, history ClientHistory, date time.Time) domain.ResolvedDiscount {
	type evaluator struct {
		kind domain.DiscountKind
		eval func() (int, bool)
	}

	// Порядок объявления задаёт приоритет при равных процентах
	evaluators := []evaluator{
		{domain.DiscountDateRange, func() (int, bool) { return dateRangePercent(cfg, date) }},
		{domain.DiscountFirstVisit, func() (int, bool) { return firstVisitPercent(cfg, history) }},
		{domain.DiscountRebookWeek, func() (int, bool) { return rebookPercent(cfg.RebookWeekPercent, rebookWeekDays, history, date) }},
		{domain.DiscountRebook2Week, func() (int, bool) { return rebookPercent(cfg.Rebook2WeekPercent, rebook2WeekDays, history, date) }},
		{domain.DiscountWeekday, func() (int, bool) { return weekdayPercent(cfg, date) }},
	}

	best := domain.NoDiscount
	for _, e := range evaluators {
		percent, ok := e.eval()
		if !ok {
			continue
		}
		// Строгое сравнение: при равенстве побеждает ранее объявленное правило
		if percent > best.Percent {
			best = domain.ResolvedDiscount{Kind: e.kind, Percent: percent}
		}
	}

	return best
}

// dateRangePercent возвращает процент активной date-range скидки
// Если дату покрывают несколько диапазонов (конфигурация пересечений не запрещает),
// детерминированно выигрывает больший процент, при равенстве - диапазон с более ранним началом
func dateRangePercent(cfg domain.DiscountConfig, date time.Time) (int, bool) {
	bestPercent := 0
	var bestFrom time.Time
	found := false

	for _, dr := range cfg.DateRanges {
		if dr.Percent <= 0 || !dr.Contains(date) {
			continue
		}
		if !found || dr.Percent > bestPercent || (dr.Percent == bestPercent && dr.From.Before(bestFrom)) {
			bestPercent = dr.Percent
			bestFrom = dr.From
			found = true
		}
	}

	return bestPercent, found
}

// firstVisitPercent применим только если у известного клиента нет ни одного
// checked_out визита к этому стилисту
func firstVisitPercent(cfg domain.DiscountConfig, history ClientHistory) (int, bool) {
	if !history.Known || history.LastCheckedOutVisit != nil {
		return 0, false
	}
	if cfg.FirstVisitPercent <= 0 {
		return 0, false
	}
	return cfg.FirstVisitPercent, true
}

// rebookPercent применим, если последний checked_out визит клиента был
// не позднее windowDays дней до запрашиваемой даты
func rebookPercent(percent int, windowDays int, history ClientHistory, date time.Time) (int, bool) {
	if !history.Known || history.LastCheckedOutVisit == nil || percent <= 0 {
		return 0, false
	}

	days := daysBetween(*history.LastCheckedOutVisit, date)
	if days < 0 || days > windowDays {
		return 0, false
	}

	return percent, true
}

func weekdayPercent(cfg domain.DiscountConfig, date time.Time) (int, bool) {
	percent, ok := cfg.WeekdayPercents[domain.ISOWeekday(date)]
	if !ok || percent <= 0 {
		return 0, false
	}
	return percent, true
}

// daysBetween возвращает количество календарных дней от from до to
func daysBetween(from, to time.Time) int {
	return int(domain.DateOnly(to).Sub(domain.DateOnly(from)) / (24 * time.Hour))
}
