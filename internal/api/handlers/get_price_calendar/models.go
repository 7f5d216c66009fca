package get_price_calendar

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getPriceCalendar "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_price_calendar"
)

// DayResponse цена услуги на одну дату
type DayResponse struct {
	Date            string          `json:"date"`
	Price           decimal.Decimal `json:"price"`
	AppliedDiscount string          `json:"appliedDiscount"`
	DiscountPercent int             `json:"discountPercent"`
	LoadRatio       float64         `json:"loadRatio"`
}

// PriceCalendarResponse HTTP response model
type PriceCalendarResponse struct {
	StylistID int64         `json:"stylistId"`
	ServiceID int64         `json:"serviceId"`
	Days      []DayResponse `json:"days"`
}

// ToUseCaseRequest собирает запрос к use case из path и query параметров
func ToUseCaseRequest(stylistID int64, serviceIDStr, clientIDStr, dateFromStr, dateToStr string) (*getPriceCalendar.Request, error) {
	serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
	if err != nil {
		return nil, err
	}

	dateFrom, err := time.Parse(domain.DateFormat, dateFromStr)
	if err != nil {
		return nil, err
	}

	dateTo, err := time.Parse(domain.DateFormat, dateToStr)
	if err != nil {
		return nil, err
	}

	req := &getPriceCalendar.Request{
		StylistID: stylistID,
		ServiceID: serviceID,
		DateFrom:  dateFrom,
		DateTo:    dateTo,
	}

	if clientIDStr != "" {
		clientID, err := strconv.ParseInt(clientIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.ClientID = &clientID
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getPriceCalendar.Response) *PriceCalendarResponse {
	days := make([]DayResponse, 0, len(resp.Days))
	for _, day := range resp.Days {
		days = append(days, DayResponse{
			Date:            day.Date.Format(domain.DateFormat),
			Price:           day.Price,
			AppliedDiscount: day.AppliedDiscount,
			DiscountPercent: day.DiscountPercent,
			LoadRatio:       day.LoadRatio,
		})
	}

	return &PriceCalendarResponse{
		StylistID: resp.StylistID,
		ServiceID: resp.ServiceID,
		Days:      days,
	}
}
