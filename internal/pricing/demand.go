package pricing

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// EstimateDemand вычисляет коэффициент загрузки стилиста для каждой даты
// Результат имеет ту же длину и порядок, что и dates; функция чистая и не имеет скрытого состояния,
// расчёт для каждой даты независим от остальных
//
// Алгоритм для одной даты:
//  1. Ищем окно доступности для дня недели. Нет окна / день недоступен / нулевая
//     длительность - день считается полностью занятым (load_ratio = 1.0), а не свободным
//  2. booked = количество неотменённых записей, начинающихся в этот календарный день,
//     умноженное на service-time-gap стилиста
//  3. load_ratio = booked / длительность окна, с ограничением сверху 1.0
//     (овербукинг никогда не даёт ratio > 1)
func EstimateDemand(
	windows map[int]domain.AvailabilityWindow,
	appointments []*domain.Appointment,
	dates []time.Time,
	gapMinutes int,
) []domain.DemandSample {
	samples := make([]domain.DemandSample, len(dates))

	for i, date := range dates {
		samples[i] = estimateForDate(windows, appointments, date, gapMinutes)
	}

	return samples
}

func estimateForDate(
	windows map[int]domain.AvailabilityWindow,
	appointments []*domain.Appointment,
	date time.Time,
	gapMinutes int,
) domain.DemandSample {
	sample := domain.DemandSample{Date: date, LoadRatio: domain.SaturatedLoadRatio}

	window, ok := windows[domain.ISOWeekday(date)]
	if !ok || !window.IsAvailable {
		return sample
	}

	windowMinutes := window.DurationMinutes()
	if windowMinutes <= 0 {
		return sample
	}

	bookedMinutes := countAppointmentsOnDate(appointments, date) * gapMinutes

	ratio := float64(bookedMinutes) / float64(windowMinutes)
	if ratio > domain.SaturatedLoadRatio {
		ratio = domain.SaturatedLoadRatio
	}

	sample.LoadRatio = ratio
	return sample
}

// countAppointmentsOnDate подсчитывает неотменённые записи, начинающиеся в указанный день
// Отменённые статусы исключаются явно; все остальные (включая no_show и checked_out)
// учитываются в загрузке
func countAppointmentsOnDate(appointments []*domain.Appointment, date time.Time) int {
	count := 0
	for _, apt := range appointments {
		if !apt.IsActive() {
			continue
		}
		if domain.SameDay(apt.StartTime, date) {
			count++
		}
	}
	return count
}
