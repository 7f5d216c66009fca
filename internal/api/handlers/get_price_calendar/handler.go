package get_price_calendar

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	getPriceCalendar "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_price_calendar"
)

const (
	msgInvalidStylistID = "некорректный ID стилиста"
	msgInvalidParams    = "некорректные параметры запроса"
	msgStylistNotFound  = "стилист не найден"
	msgServiceNotFound  = "услуга не найдена"
)

type Handler struct {
	useCase GetPriceCalendarUseCase
	logger  Logger
}

func NewHandler(useCase GetPriceCalendarUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/stylists/{stylistId}/price-calendar
// Query params: serviceId, dateFrom, dateTo (обязательно), clientId (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	stylistID, err := strconv.ParseInt(vars["stylistId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /stylists/{id}/price-calendar - Invalid stylist ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStylistID)
		return
	}

	query := r.URL.Query()
	useCaseReq, err := ToUseCaseRequest(
		stylistID,
		query.Get("serviceId"),
		query.Get("clientId"),
		query.Get("dateFrom"),
		query.Get("dateTo"),
	)
	if err != nil {
		h.logger.Warn("GET /stylists/{id}/price-calendar - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getPriceCalendar.ErrInvalidInput):
			h.logger.Warn("GET /stylists/{id}/price-calendar - Invalid input: stylist_id=%d, error=%v", stylistID, err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		case errors.Is(err, getPriceCalendar.ErrStylistNotFound):
			h.logger.Warn("GET /stylists/{id}/price-calendar - Stylist not found: stylist_id=%d", stylistID)
			handlers.RespondNotFound(w, msgStylistNotFound)

		case errors.Is(err, getPriceCalendar.ErrServiceNotFound):
			h.logger.Warn("GET /stylists/{id}/price-calendar - Service not found: stylist_id=%d", stylistID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		default:
			h.logger.Error("GET /stylists/{id}/price-calendar - Failed to build calendar: stylist_id=%d, error=%v",
				stylistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /stylists/{id}/price-calendar - Calendar built: stylist_id=%d, service_id=%d, days=%d",
		stylistID, result.ServiceID, len(result.Days))
	handlers.RespondJSON(w, http.StatusOK, response)
}
