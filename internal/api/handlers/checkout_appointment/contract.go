package checkout_appointment

import (
	"context"

	checkoutAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/checkout_appointment"
)

type CheckoutAppointmentUseCase interface {
	Execute(ctx context.Context, req *checkoutAppointment.Request) (*checkoutAppointment.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
