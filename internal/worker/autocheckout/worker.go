package autocheckout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/pricing"
)

// batchLimit максимальное число записей, обрабатываемых за один проход
const batchLimit = 100

// Метки результата для счётчика sweep'а
const (
	resultSuccess = "success"
	resultSkipped = "skipped"
	resultError   = "error"
)

// Worker периодический sweep, гарантирующий что ни одна запись не остаётся
// в статусе new бесконечно: записи, начавшиеся более checkoutAfter назад,
// переводятся в checked_out от имени системного пользователя
//
// Каждая строка обрабатывается в собственной транзакции с FOR UPDATE SKIP
// LOCKED: конкурентные sweep'ы не обрабатывают одну запись дважды, а падение
// посреди прохода не откатывает уже закоммиченные строки
type Worker struct {
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	settings        pricing.Settings
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger

	interval      time.Duration
	checkoutAfter time.Duration
	systemUserID  int64
}

// NewWorker создает новый экземпляр sweep-воркера
// metrics может быть nil, если метрики выключены
func NewWorker(
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	settings pricing.Settings,
	metrics Metrics,
	interval time.Duration,
	checkoutAfter time.Duration,
	systemUserID int64,
	logger Logger,
) *Worker {
	return &Worker{
		appointmentRepo: appointmentRepo,
		txManager:       txManager,
		settings:        settings,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
		interval:        interval,
		checkoutAfter:   checkoutAfter,
		systemUserID:    systemUserID,
	}
}

// Run запускает периодический sweep до отмены контекста
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("AutoCheckout: worker started, interval=%s, checkoutAfter=%s", w.interval, w.checkoutAfter)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("AutoCheckout: worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce выполняет один проход sweep'а
// Ошибка одной строки не прерывает обработку остальных
func (w *Worker) RunOnce(ctx context.Context) {
	olderThan := w.timeProvider.Now().Add(-w.checkoutAfter)

	ids, err := w.appointmentRepo.ListAutoCheckoutCandidates(ctx, olderThan, batchLimit)
	if err != nil {
		w.logger.Error("AutoCheckout: failed to list candidates: %v", err)
		return
	}
	if len(ids) == 0 {
		return
	}

	w.logger.Info("AutoCheckout: found %d candidates older than %s", len(ids), olderThan.Format(time.RFC3339))

	var succeeded, skipped int
	for _, id := range ids {
		if ctx.Err() != nil {
			return
		}

		switch err := w.checkoutOne(ctx, id); {
		case err == nil:
			succeeded++
			w.incMetric(resultSuccess)
		case errors.Is(err, errSkipped):
			skipped++
			w.incMetric(resultSkipped)
		default:
			w.logger.Error("AutoCheckout: failed to checkout appointment id=%d: %v", id, err)
			w.incMetric(resultError)
		}
	}

	w.logger.Info("AutoCheckout: pass finished, checked out %d, skipped %d of %d", succeeded, skipped, len(ids))
}

// errSkipped строка пропущена: захвачена конкурентным sweep'ом или уже не в статусе new
var errSkipped = errors.New("autocheckout: appointment skipped")

// checkoutOne переводит одну запись в checked_out в отдельной транзакции
// Суммы замораживаются по тем же правилам, что и при ручном checkout
func (w *Worker) checkoutOne(ctx context.Context, id int64) error {
	return w.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		apt, err := w.appointmentRepo.LockForCheckout(txCtx, id)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return errSkipped
			}
			return fmt.Errorf("lock appointment: %w", err)
		}

		// Между выборкой кандидатов и блокировкой статус мог измениться
		if !apt.CanTransitionTo(domain.StatusCheckedOut) {
			return errSkipped
		}

		totalBeforeTax := decimal.Zero
		for _, line := range apt.Services {
			totalBeforeTax = totalBeforeTax.Add(line.ClientPrice)
		}
		totals := pricing.CalculateAppointmentPrices(totalBeforeTax, apt.IncludeCardFee, apt.IncludeTax, w.settings)

		if err := w.appointmentRepo.FreezeTotals(txCtx, apt.ID,
			totals.TotalBeforeTax, totals.TotalTax, totals.TotalCardFee, totals.GrandTotal); err != nil {
			return fmt.Errorf("freeze totals: %w", err)
		}

		if err := w.appointmentRepo.SetStatus(txCtx, apt.ID, domain.StatusCheckedOut, w.systemUserID, w.timeProvider.Now()); err != nil {
			return fmt.Errorf("set status: %w", err)
		}

		return nil
	})
}

func (w *Worker) incMetric(result string) {
	if w.metrics != nil {
		w.metrics.IncAutoCheckout(result)
	}
}
