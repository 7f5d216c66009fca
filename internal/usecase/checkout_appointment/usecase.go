package checkout_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/pricing"
)

// UseCase use case для checkout записи
// Переводит запись в checked_out и замораживает четыре итоговые суммы.
// После заморозки предпросмотр обязан возвращать сохранённые цены как есть -
// это гарантирует совпадение предпросмотра и итогового чека
type UseCase struct {
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	settings        pricing.Settings
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	settings pricing.Settings,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		txManager:       txManager,
		settings:        settings,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет checkout записи
// Статус, история и суммы пишутся в одной транзакции: частичная заморозка
// не наблюдаема ни при каком исходе
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CheckoutAppointment: uuid=%s, actor=%d", req.AppointmentUUID, req.Actor)

	// 1. Валидация входных данных
	if req.AppointmentUUID == uuid.Nil {
		return nil, fmt.Errorf("%w: appointment uuid is required", ErrInvalidInput)
	}
	if req.Actor <= 0 {
		return nil, fmt.Errorf("%w: actor must be positive", ErrInvalidInput)
	}

	// 2. Разрешаем публичный UUID во внутренний ID
	apt, err := uc.appointmentRepo.GetByUUID(ctx, req.AppointmentUUID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("CheckoutAppointment: appointment uuid=%s not found", req.AppointmentUUID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("CheckoutAppointment: failed to get appointment uuid=%s: %v", req.AppointmentUUID, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}

	var resp *Response

	// 3. Блокировка строки, проверка перехода и заморозка сумм в одной транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		locked, err := uc.appointmentRepo.LockForCheckout(txCtx, apt.ID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				// Строка захвачена конкурентным checkout или sweep'ом
				uc.logger.Warn("CheckoutAppointment: appointment id=%d is locked by concurrent checkout", apt.ID)
				return ErrAlreadyCheckedOut
			}
			uc.logger.Error("CheckoutAppointment: failed to lock appointment id=%d: %v", apt.ID, err)
			return fmt.Errorf("%w: failed to lock appointment: %v", ErrInternal, err)
		}

		if locked.IsCheckedOut() {
			uc.logger.Warn("CheckoutAppointment: appointment id=%d is already checked out", apt.ID)
			return ErrAlreadyCheckedOut
		}
		if !locked.CanTransitionTo(domain.StatusCheckedOut) {
			uc.logger.Warn("CheckoutAppointment: appointment id=%d in status=%s cannot be checked out",
				apt.ID, locked.Status)
			return ErrInvalidTransition
		}

		// Суммы считаются по сохранённым снапшотам цен, не по текущему каталогу
		totalBeforeTax := decimal.Zero
		for _, line := range locked.Services {
			totalBeforeTax = totalBeforeTax.Add(line.ClientPrice)
		}
		totals := pricing.CalculateAppointmentPrices(totalBeforeTax, locked.IncludeCardFee, locked.IncludeTax, uc.settings)

		if err := uc.appointmentRepo.FreezeTotals(txCtx, locked.ID,
			totals.TotalBeforeTax, totals.TotalTax, totals.TotalCardFee, totals.GrandTotal); err != nil {
			uc.logger.Error("CheckoutAppointment: failed to freeze totals for id=%d: %v", locked.ID, err)
			return fmt.Errorf("%w: failed to freeze totals: %v", ErrInternal, err)
		}

		now := uc.timeProvider.Now()
		if err := uc.appointmentRepo.SetStatus(txCtx, locked.ID, domain.StatusCheckedOut, req.Actor, now); err != nil {
			uc.logger.Error("CheckoutAppointment: failed to set status for id=%d: %v", locked.ID, err)
			return fmt.Errorf("%w: failed to set status: %v", ErrInternal, err)
		}

		resp = &Response{
			UUID:           locked.UUID,
			StylistID:      locked.StylistID,
			Status:         string(domain.StatusCheckedOut),
			TotalBeforeTax: totals.TotalBeforeTax,
			TotalTax:       totals.TotalTax,
			TotalCardFee:   totals.TotalCardFee,
			GrandTotal:     totals.GrandTotal,
			CheckedOutAt:   now,
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CheckoutAppointment: appointment uuid=%s checked out, grandTotal=%s",
		resp.UUID, resp.GrandTotal.String())

	return resp, nil
}
