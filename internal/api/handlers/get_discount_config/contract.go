package get_discount_config

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/discounts/models"
)

type DiscountService interface {
	GetConfig(ctx context.Context, stylistID int64) (*models.DiscountConfigResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
