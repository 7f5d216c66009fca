package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	stylistClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/stylistservice"
	"github.com/m04kA/SMC-AppointmentService/internal/pricing"
)

// UseCase use case для создания записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	discountRepo    DiscountRepository
	stylistClient   StylistServiceClient
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	discountRepo DiscountRepository,
	stylistClient StylistServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		discountRepo:    discountRepo,
		stylistClient:   stylistClient,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи
// Использует сериализуемую транзакцию для предотвращения двойного бронирования:
// в отличие от предпросмотра, конфликт и полностью занятый день блокируют создание
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: stylist=%d, services=%d, start=%s, createdBy=%d",
		req.StylistID, len(req.Services), req.StartTime.Format(time.RFC3339), req.CreatedBy)

	// 1. Валидация входных данных
	now := uc.timeProvider.Now()
	if err := validateRequest(req, now); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем стилиста
	stylist, err := uc.stylistClient.GetStylist(ctx, req.StylistID)
	if err != nil {
		if errors.Is(err, stylistClient.ErrStylistNotFound) {
			uc.logger.Warn("CreateAppointment: stylist id=%d not found", req.StylistID)
			return nil, ErrStylistNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get stylist id=%d: %v", req.StylistID, err)
		return nil, fmt.Errorf("%w: failed to get stylist: %v", ErrInternal, err)
	}

	// 3. Получаем услуги из каталога до открытия транзакции (HTTP-вызовы вне tx)
	services := make(map[int64]*stylistClient.Service, len(req.Services))
	for _, requested := range req.Services {
		service, err := uc.stylistClient.GetService(ctx, req.StylistID, requested.ServiceID)
		if err != nil {
			if errors.Is(err, stylistClient.ErrServiceNotFound) {
				uc.logger.Warn("CreateAppointment: service id=%d not found for stylist=%d",
					requested.ServiceID, req.StylistID)
				return nil, ErrServiceNotFound
			}
			uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", requested.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
		services[requested.ServiceID] = service
	}

	gap := stylist.GapMinutes()
	dayStart := domain.DateOnly(req.StartTime)
	dayEnd := dayStart.AddDate(0, 0, 1)

	// Окно выборки расширено на максимальный gap в обе стороны: слоты соседних
	// дней могут пересекать полночь. В загрузку такие записи не попадают (счёт по SameDay)
	fetchFrom := dayStart.Add(-time.Duration(domain.MaxServiceGapMinutes) * time.Minute)
	fetchTo := dayEnd.Add(time.Duration(domain.MaxServiceGapMinutes) * time.Minute)

	var result *domain.Appointment

	// 4. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Записи стилиста на день с блокировкой (FOR UPDATE)
		dayAppointments, err := uc.appointmentRepo.GetByStylistWithFilter(txCtx, domain.StylistAppointmentsFilter{
			StylistID: req.StylistID,
			StartFrom: &fetchFrom,
			StartTo:   &fetchTo,
		})
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		// 4.2. Полностью занятый день блокирует создание
		demand := pricing.EstimateDemand(stylist.AvailabilityWindows(), dayAppointments, []time.Time{dayStart}, gap)[0]
		if demand.IsSaturated() {
			uc.logger.Warn("CreateAppointment: day %s is fully booked for stylist=%d",
				dayStart.Format(domain.DateFormat), req.StylistID)
			return ErrDayFullyBooked
		}

		// 4.3. Проверяем пересечение слотов
		if conflict := findOverlap(dayAppointments, req.StartTime, gap); conflict != nil {
			uc.logger.Warn("CreateAppointment: slot %s overlaps appointment uuid=%s",
				req.StartTime.Format(time.RFC3339), conflict.UUID)
			return ErrTimeSlotTaken
		}

		// 4.4. Разрешаем скидку
		discount, err := uc.resolveDiscount(txCtx, req, dayStart)
		if err != nil {
			return err
		}

		// 4.5. Фиксируем строки услуг со снапшотом цены, длительности и названия
		lines := make([]domain.AppointmentServiceLine, 0, len(req.Services))
		for _, requested := range req.Services {
			service := services[requested.ServiceID]
			calculated := pricing.Calculate(service.Price, demand, discount)

			line := domain.AppointmentServiceLine{
				ServiceID:       service.ID,
				Name:            service.Name,
				RegularPrice:    service.Price,
				ClientPrice:     calculated.Price,
				DurationMinutes: service.DurationMinutes,
				IsOriginal:      true,
			}
			if requested.ClientPrice != nil && !requested.ClientPrice.Equal(line.ClientPrice) {
				line.ClientPrice = *requested.ClientPrice
				line.IsPriceEdited = true
			}
			lines = append(lines, line)
		}

		// 4.6. Создаем запись со статусом NEW и первой записью истории
		appointment := &domain.Appointment{
			UUID:            uuid.New(),
			StylistID:       req.StylistID,
			ClientID:        req.ClientID,
			StartTime:       req.StartTime,
			DurationMinutes: gap,
			Status:          domain.StatusNew,
			CreatedBy:       req.CreatedBy,
			IncludeTax:      req.IncludeTax,
			IncludeCardFee:  req.IncludeCardFee,
			Services:        lines,
		}

		created, err := uc.appointmentRepo.Create(txCtx, appointment)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d uuid=%s", result.ID, result.UUID)

	return toResponse(result), nil
}

// resolveDiscount загружает конфигурацию скидок и историю клиента и выбирает лучшую скидку
func (uc *UseCase) resolveDiscount(ctx context.Context, req *Request, date time.Time) (domain.ResolvedDiscount, error) {
	cfg, err := uc.discountRepo.GetConfig(ctx, req.StylistID)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to get discount config for stylist=%d: %v", req.StylistID, err)
		return domain.NoDiscount, fmt.Errorf("%w: failed to get discount config: %v", ErrInternal, err)
	}

	history := pricing.ClientHistory{}
	if req.ClientID != nil {
		lastVisit, err := uc.appointmentRepo.GetLastCheckedOutVisit(ctx, req.StylistID, *req.ClientID)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get client history: stylist=%d, client=%d: %v",
				req.StylistID, *req.ClientID, err)
			return domain.NoDiscount, fmt.Errorf("%w: failed to get client history: %v", ErrInternal, err)
		}
		history = pricing.ClientHistory{Known: true, LastCheckedOutVisit: lastVisit}
	}

	return pricing.ResolveDiscount(*cfg, history, date), nil
}

// findOverlap возвращает первую запись, чей слот пересекается с [start, start+gap)
// Отменённые записи отфильтрованы на уровне репозитория
func findOverlap(appointments []*domain.Appointment, start time.Time, gapMinutes int) *domain.Appointment {
	end := start.Add(time.Duration(gapMinutes) * time.Minute)
	for _, apt := range appointments {
		if apt.StartTime.Before(end) && apt.End().After(start) {
			return apt
		}
	}
	return nil
}

func toResponse(apt *domain.Appointment) *Response {
	lines := make([]ServiceLine, 0, len(apt.Services))
	for _, line := range apt.Services {
		lines = append(lines, ServiceLine{
			ServiceID:       line.ServiceID,
			Name:            line.Name,
			RegularPrice:    line.RegularPrice,
			ClientPrice:     line.ClientPrice,
			DurationMinutes: line.DurationMinutes,
			IsPriceEdited:   line.IsPriceEdited,
		})
	}

	return &Response{
		ID:              apt.ID,
		UUID:            apt.UUID,
		StylistID:       apt.StylistID,
		ClientID:        apt.ClientID,
		StartTime:       apt.StartTime,
		DurationMinutes: apt.DurationMinutes,
		Status:          string(apt.Status),
		Services:        lines,
		CreatedAt:       apt.CreatedAt,
		UpdatedAt:       apt.UpdatedAt,
	}
}
