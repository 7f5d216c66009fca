package get_price_calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	stylistClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/stylistservice"
	"github.com/m04kA/SMC-AppointmentService/internal/pricing"
)

// maxCalendarDays ограничивает размер запрашиваемого периода
const maxCalendarDays = 92

// UseCase use case для получения ценового календаря услуги
// Для каждой даты периода независимо считается загрузка, скидка и цена;
// полностью занятые дни из календаря исключаются
type UseCase struct {
	appointmentRepo AppointmentRepository
	discountRepo    DiscountRepository
	stylistClient   StylistServiceClient
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	discountRepo DiscountRepository,
	stylistClient StylistServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		discountRepo:    discountRepo,
		stylistClient:   stylistClient,
		logger:          logger,
	}
}

// Execute выполняет use case получения ценового календаря
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetPriceCalendar: stylist=%d, service=%d, period=%s..%s",
		req.StylistID, req.ServiceID,
		req.DateFrom.Format(domain.DateFormat), req.DateTo.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetPriceCalendar: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем стилиста
	stylist, err := uc.stylistClient.GetStylist(ctx, req.StylistID)
	if err != nil {
		if errors.Is(err, stylistClient.ErrStylistNotFound) {
			uc.logger.Warn("GetPriceCalendar: stylist id=%d not found", req.StylistID)
			return nil, ErrStylistNotFound
		}
		uc.logger.Error("GetPriceCalendar: failed to get stylist id=%d: %v", req.StylistID, err)
		return nil, fmt.Errorf("%w: failed to get stylist: %v", ErrInternal, err)
	}

	// 3. Получаем услугу
	service, err := uc.stylistClient.GetService(ctx, req.StylistID, req.ServiceID)
	if err != nil {
		if errors.Is(err, stylistClient.ErrServiceNotFound) {
			uc.logger.Warn("GetPriceCalendar: service id=%d not found for stylist=%d", req.ServiceID, req.StylistID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetPriceCalendar: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 4. Записи стилиста за весь период одним запросом
	periodStart := domain.DateOnly(req.DateFrom)
	periodEnd := domain.DateOnly(req.DateTo).AddDate(0, 0, 1)

	appointments, err := uc.appointmentRepo.GetByStylistWithFilter(ctx, domain.StylistAppointmentsFilter{
		StylistID: req.StylistID,
		StartFrom: &periodStart,
		StartTo:   &periodEnd,
	})
	if err != nil {
		uc.logger.Error("GetPriceCalendar: failed to get appointments for stylist=%d: %v", req.StylistID, err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 5. Конфигурация скидок и история клиента
	cfg, err := uc.discountRepo.GetConfig(ctx, req.StylistID)
	if err != nil {
		uc.logger.Error("GetPriceCalendar: failed to get discount config for stylist=%d: %v", req.StylistID, err)
		return nil, fmt.Errorf("%w: failed to get discount config: %v", ErrInternal, err)
	}

	history := pricing.ClientHistory{}
	if req.ClientID != nil {
		lastVisit, err := uc.appointmentRepo.GetLastCheckedOutVisit(ctx, req.StylistID, *req.ClientID)
		if err != nil {
			uc.logger.Error("GetPriceCalendar: failed to get client history: stylist=%d, client=%d: %v",
				req.StylistID, *req.ClientID, err)
			return nil, fmt.Errorf("%w: failed to get client history: %v", ErrInternal, err)
		}
		history = pricing.ClientHistory{Known: true, LastCheckedOutVisit: lastVisit}
	}

	// 6. Независимый расчёт по каждой дате периода
	dates := datesInRange(periodStart, req.DateTo)
	samples := pricing.EstimateDemand(stylist.AvailabilityWindows(), appointments, dates, stylist.GapMinutes())

	days := make([]Day, 0, len(dates))
	for i, date := range dates {
		if samples[i].IsSaturated() {
			continue
		}

		discount := pricing.ResolveDiscount(*cfg, history, date)
		calculated := pricing.Calculate(service.Price, samples[i], discount)

		days = append(days, Day{
			Date:            date,
			Price:           calculated.Price,
			AppliedDiscount: string(calculated.AppliedDiscount),
			DiscountPercent: calculated.Percent,
			LoadRatio:       samples[i].LoadRatio,
		})
	}

	uc.logger.Info("GetPriceCalendar: stylist=%d, service=%d, offered %d of %d dates",
		req.StylistID, req.ServiceID, len(days), len(dates))

	return &Response{
		StylistID: req.StylistID,
		ServiceID: req.ServiceID,
		Days:      days,
	}, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.StylistID <= 0 {
		return fmt.Errorf("%w: stylistID must be positive", ErrInvalidInput)
	}
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}
	if req.ClientID != nil && *req.ClientID <= 0 {
		return fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}
	if req.DateFrom.IsZero() || req.DateTo.IsZero() {
		return fmt.Errorf("%w: dateFrom and dateTo are required", ErrInvalidInput)
	}
	if req.DateTo.Before(req.DateFrom) {
		return fmt.Errorf("%w: dateTo must not be before dateFrom", ErrInvalidInput)
	}
	if req.DateTo.Sub(req.DateFrom) > maxCalendarDays*24*time.Hour {
		return fmt.Errorf("%w: period must not exceed %d days", ErrInvalidInput, maxCalendarDays)
	}
	return nil
}

// datesInRange возвращает все календарные дни периода [from, to] включительно
func datesInRange(from, to time.Time) []time.Time {
	var dates []time.Time
	for d := from; !d.After(domain.DateOnly(to)); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}
