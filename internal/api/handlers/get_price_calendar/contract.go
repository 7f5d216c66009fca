package get_price_calendar

import (
	"context"

	getPriceCalendar "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_price_calendar"
)

type GetPriceCalendarUseCase interface {
	Execute(ctx context.Context, req *getPriceCalendar.Request) (*getPriceCalendar.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
