package discounts

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// DiscountRepository интерфейс репозитория конфигурации скидок
type DiscountRepository interface {
	GetConfig(ctx context.Context, stylistID int64) (*domain.DiscountConfig, error)
	ReplaceConfig(ctx context.Context, stylistID int64, cfg *domain.DiscountConfig) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
