package preview_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	stylistClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/stylistservice"
	"github.com/m04kA/SMC-AppointmentService/internal/pricing"
)

// UseCase use case для предпросмотра записи
// Предпросмотр эфемерен: ничего не пишет в БД и безопасен для повторных вызовов
type UseCase struct {
	appointmentRepo AppointmentRepository
	discountRepo    DiscountRepository
	stylistClient   StylistServiceClient
	settings        pricing.Settings
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	discountRepo DiscountRepository,
	stylistClient StylistServiceClient,
	settings pricing.Settings,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		discountRepo:    discountRepo,
		stylistClient:   stylistClient,
		settings:        settings,
		logger:          logger,
	}
}

// Execute выполняет предпросмотр записи
//
// Три пути расчёта цены строки:
//  1. Услуга уже есть в существующей записи - сохранённый снапшот используется
//     как есть, цена никогда не пересчитывается
//  2. Новая услуга в существующей записи - обычная цена без скидки
//  3. Новая запись - полный конвейер: загрузка -> скидка -> цена
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("PreviewAppointment: stylist=%d, services=%d, start=%s",
		req.StylistID, len(req.Services), req.StartTime.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("PreviewAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем стилиста
	stylist, err := uc.stylistClient.GetStylist(ctx, req.StylistID)
	if err != nil {
		if errors.Is(err, stylistClient.ErrStylistNotFound) {
			uc.logger.Warn("PreviewAppointment: stylist id=%d not found", req.StylistID)
			return nil, ErrStylistNotFound
		}
		uc.logger.Error("PreviewAppointment: failed to get stylist id=%d: %v", req.StylistID, err)
		return nil, fmt.Errorf("%w: failed to get stylist: %v", ErrInternal, err)
	}

	// 3. Загружаем существующую запись, если указана
	var existing *domain.Appointment
	if req.ExistingAppointmentUUID != nil {
		existing, err = uc.appointmentRepo.GetByUUID(ctx, *req.ExistingAppointmentUUID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				uc.logger.Warn("PreviewAppointment: appointment uuid=%s not found", req.ExistingAppointmentUUID)
				return nil, ErrAppointmentNotFound
			}
			uc.logger.Error("PreviewAppointment: failed to get appointment uuid=%s: %v", req.ExistingAppointmentUUID, err)
			return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
		}

		// Запись другого стилиста неотличима от несуществующей
		if existing.StylistID != req.StylistID {
			uc.logger.Warn("PreviewAppointment: appointment uuid=%s belongs to stylist=%d, not %d",
				req.ExistingAppointmentUUID, existing.StylistID, req.StylistID)
			return nil, ErrAppointmentNotFound
		}
	}

	// 4. Получаем записи стилиста на дату (без блокировки - проверка только информационная)
	// Окно выборки расширено назад на максимальный gap: слот, начавшийся накануне,
	// может пересекать полночь. В загрузку такие записи не попадают (счёт по SameDay)
	dayStart := domain.DateOnly(req.StartTime)
	dayEnd := dayStart.AddDate(0, 0, 1)
	fetchFrom := dayStart.Add(-time.Duration(domain.MaxServiceGapMinutes) * time.Minute)

	dayAppointments, err := uc.appointmentRepo.GetByStylistWithFilter(ctx, domain.StylistAppointmentsFilter{
		StylistID: req.StylistID,
		StartFrom: &fetchFrom,
		StartTo:   &dayEnd,
	})
	if err != nil {
		uc.logger.Error("PreviewAppointment: failed to get appointments for stylist=%d: %v", req.StylistID, err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 5. Оцениваем загрузку на дату записи
	gap := stylist.GapMinutes()
	demand := pricing.EstimateDemand(stylist.AvailabilityWindows(), dayAppointments, []time.Time{dayStart}, gap)[0]

	// 6. Разрешаем скидку - нужна только для строк совершенно новой записи
	var discount domain.ResolvedDiscount
	if existing == nil {
		discount, err = uc.resolveDiscount(ctx, req, dayStart)
		if err != nil {
			return nil, err
		}
	}

	// 7. Строим строки услуг
	lines := make([]ServiceLine, 0, len(req.Services))
	for _, requested := range req.Services {
		line, err := uc.buildLine(ctx, req, requested, existing, demand, discount)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	// 8. Считаем итоговые суммы. Для закрытой записи возвращаются замороженные
	// суммы как есть: пересчёт по текущим ставкам разошёлся бы с ними при смене конфигурации
	var totals pricing.Totals
	if existing != nil && existing.IsCheckedOut() && existing.GrandTotal != nil && matchesFrozenLines(existing, lines) {
		totals = pricing.Totals{
			TotalBeforeTax: *existing.TotalBeforeTax,
			TotalTax:       *existing.TotalTax,
			TotalCardFee:   *existing.TotalCardFee,
			GrandTotal:     *existing.GrandTotal,
		}
	} else {
		totalBeforeTax := decimal.Zero
		for _, line := range lines {
			totalBeforeTax = totalBeforeTax.Add(line.ClientPrice)
		}
		totals = pricing.CalculateAppointmentPrices(totalBeforeTax, req.IncludeCardFee, req.IncludeTax, uc.settings)
	}

	// 9. Собираем конфликты: записи, чей слот содержит запрошенное время начала
	conflicts := findConflicts(dayAppointments, req.StartTime, existing)

	durationMinutes := gap
	if existing != nil {
		durationMinutes = existing.DurationMinutes
	}

	uc.logger.Info("PreviewAppointment: stylist=%d, total=%s, loadRatio=%.2f, conflicts=%d",
		req.StylistID, totals.GrandTotal.String(), demand.LoadRatio, len(conflicts))

	return &Response{
		StylistID:       req.StylistID,
		ClientID:        req.ClientID,
		StartTime:       req.StartTime,
		DurationMinutes: durationMinutes,
		Services:        lines,
		TotalBeforeTax:  totals.TotalBeforeTax,
		TotalTax:        totals.TotalTax,
		TotalCardFee:    totals.TotalCardFee,
		GrandTotal:      totals.GrandTotal,
		LoadRatio:       demand.LoadRatio,
		Saturated:       demand.IsSaturated(),
		ConflictsWith:   conflicts,
	}, nil
}

// resolveDiscount загружает конфигурацию скидок и историю клиента и выбирает лучшую скидку
// Отсутствие конфигурации не является ошибкой - применяется нулевая скидка
func (uc *UseCase) resolveDiscount(ctx context.Context, req *Request, date time.Time) (domain.ResolvedDiscount, error) {
	cfg, err := uc.discountRepo.GetConfig(ctx, req.StylistID)
	if err != nil {
		uc.logger.Error("PreviewAppointment: failed to get discount config for stylist=%d: %v", req.StylistID, err)
		return domain.NoDiscount, fmt.Errorf("%w: failed to get discount config: %v", ErrInternal, err)
	}

	history := pricing.ClientHistory{}
	if req.ClientID != nil {
		lastVisit, err := uc.appointmentRepo.GetLastCheckedOutVisit(ctx, req.StylistID, *req.ClientID)
		if err != nil {
			uc.logger.Error("PreviewAppointment: failed to get client history: stylist=%d, client=%d: %v",
				req.StylistID, *req.ClientID, err)
			return domain.NoDiscount, fmt.Errorf("%w: failed to get client history: %v", ErrInternal, err)
		}
		history = pricing.ClientHistory{Known: true, LastCheckedOutVisit: lastVisit}
	}

	return pricing.ResolveDiscount(*cfg, history, date), nil
}

// buildLine строит одну строку услуги по одному из трёх путей расчёта
func (uc *UseCase) buildLine(
	ctx context.Context,
	req *Request,
	requested RequestedService,
	existing *domain.Appointment,
	demand domain.DemandSample,
	discount domain.ResolvedDiscount,
) (ServiceLine, error) {
	// Путь 1: сохранённый снапшот используется как есть
	if existing != nil {
		if persisted := existing.FindServiceLine(requested.ServiceID); persisted != nil {
			line := ServiceLine{
				ServiceID:       persisted.ServiceID,
				Name:            persisted.Name,
				RegularPrice:    persisted.RegularPrice,
				ClientPrice:     persisted.ClientPrice,
				DurationMinutes: persisted.DurationMinutes,
				AppliedDiscount: string(domain.DiscountNone),
				IsOriginal:      persisted.IsOriginal,
				IsPriceEdited:   persisted.IsPriceEdited,
			}
			applyOverride(&line, requested.ClientPrice)
			return line, nil
		}
	}

	// Пути 2 и 3 требуют данных из каталога
	service, err := uc.stylistClient.GetService(ctx, req.StylistID, requested.ServiceID)
	if err != nil {
		if errors.Is(err, stylistClient.ErrServiceNotFound) {
			uc.logger.Warn("PreviewAppointment: service id=%d not found for stylist=%d", requested.ServiceID, req.StylistID)
			return ServiceLine{}, ErrServiceNotFound
		}
		uc.logger.Error("PreviewAppointment: failed to get service id=%d: %v", requested.ServiceID, err)
		return ServiceLine{}, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	line := ServiceLine{
		ServiceID:       service.ID,
		Name:            service.Name,
		RegularPrice:    service.Price,
		DurationMinutes: service.DurationMinutes,
	}

	if existing != nil {
		// Путь 2: добавленная услуга никогда не получает скидку исходной записи
		line.ClientPrice = service.Price
		line.AppliedDiscount = string(domain.DiscountNone)
		line.IsOriginal = false
	} else {
		// Путь 3: полный конвейер расчёта цены
		calculated := pricing.Calculate(service.Price, demand, discount)
		line.ClientPrice = calculated.Price
		line.AppliedDiscount = string(calculated.AppliedDiscount)
		line.DiscountPercent = calculated.Percent
		line.IsOriginal = true
	}

	applyOverride(&line, requested.ClientPrice)
	return line, nil
}
