package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/stylistservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, apt *domain.Appointment) (*domain.Appointment, error)
	GetByStylistWithFilter(ctx context.Context, filter domain.StylistAppointmentsFilter) ([]*domain.Appointment, error)
	GetLastCheckedOutVisit(ctx context.Context, stylistID, clientID int64) (*time.Time, error)
}

// DiscountRepository интерфейс репозитория конфигурации скидок
type DiscountRepository interface {
	GetConfig(ctx context.Context, stylistID int64) (*domain.DiscountConfig, error)
}

// StylistServiceClient интерфейс клиента для StylistService
type StylistServiceClient interface {
	GetStylist(ctx context.Context, stylistID int64) (*stylistservice.Stylist, error)
	GetService(ctx context.Context, stylistID, serviceID int64) (*stylistservice.Service, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
