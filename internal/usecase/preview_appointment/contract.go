package preview_appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/stylistservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByUUID(ctx context.Context, uid uuid.UUID) (*domain.Appointment, error)
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

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
