package autocheckout

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	ListAutoCheckoutCandidates(ctx context.Context, olderThan time.Time, limit uint64) ([]int64, error)
	LockForCheckout(ctx context.Context, id int64) (*domain.Appointment, error)
	SetStatus(ctx context.Context, appointmentID int64, status domain.AppointmentStatus, actor int64, at time.Time) error
	FreezeTotals(ctx context.Context, appointmentID int64, beforeTax, tax, fee, grand decimal.Decimal) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс счётчиков sweep'а
type Metrics interface {
	IncAutoCheckout(result string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
