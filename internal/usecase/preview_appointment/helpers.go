package preview_appointment

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// applyOverride заменяет цену строки на явно заданную стилистом
// Флаг isPriceEdited выставляется только при реальном изменении цены
func applyOverride(line *ServiceLine, override *decimal.Decimal) {
	if override == nil {
		return
	}
	if override.Equal(line.ClientPrice) {
		return
	}
	line.ClientPrice = *override
	line.IsPriceEdited = true
}

// matchesFrozenLines сообщает, совпадают ли построенные строки с сохранённым
// снапшотом записи один в один: без добавлений, пропусков и изменённых цен.
// Только в этом случае замороженные суммы применимы к предпросмотру
func matchesFrozenLines(existing *domain.Appointment, lines []ServiceLine) bool {
	if len(lines) != len(existing.Services) {
		return false
	}
	for _, line := range lines {
		persisted := existing.FindServiceLine(line.ServiceID)
		if persisted == nil || !line.ClientPrice.Equal(persisted.ClientPrice) {
			return false
		}
	}
	return true
}

// findConflicts возвращает записи, чей слот [start, start+duration) содержит
// запрошенное время начала. Отменённые записи отфильтрованы на уровне
// репозитория; сама редактируемая запись из конфликтов исключается
func findConflicts(appointments []*domain.Appointment, startTime time.Time, existing *domain.Appointment) []Conflict {
	conflicts := make([]Conflict, 0)
	for _, apt := range appointments {
		if existing != nil && apt.UUID == existing.UUID {
			continue
		}
		if !apt.Covers(startTime) {
			continue
		}
		conflicts = append(conflicts, Conflict{
			UUID:            apt.UUID,
			StartTime:       apt.StartTime,
			DurationMinutes: apt.DurationMinutes,
			Status:          string(apt.Status),
		})
	}
	return conflicts
}
