package update_discount_config

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/discounts/models"
)

type DiscountService interface {
	UpdateConfig(ctx context.Context, stylistID int64, req *models.UpdateDiscountConfigRequest) (*models.DiscountConfigResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
