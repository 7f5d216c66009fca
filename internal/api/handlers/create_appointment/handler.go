package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidRequest     = "некорректные параметры запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgStylistNotFound    = "стилист не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgDayFullyBooked     = "день полностью занят"
	msgTimeSlotTaken      = "выбранный временной слот уже занят"
	msgStartTimeInPast    = "время начала записи в прошлом"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequest)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: stylist_id=%d, error=%v", req.StylistID, err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		case errors.Is(err, createAppointment.ErrStartTimeInPast):
			h.logger.Warn("POST /appointments - Start time in past: stylist_id=%d", req.StylistID)
			handlers.RespondBadRequest(w, msgStartTimeInPast)

		case errors.Is(err, createAppointment.ErrStylistNotFound):
			h.logger.Warn("POST /appointments - Stylist not found: stylist_id=%d", req.StylistID)
			handlers.RespondNotFound(w, msgStylistNotFound)

		case errors.Is(err, createAppointment.ErrServiceNotFound):
			h.logger.Warn("POST /appointments - Service not found: stylist_id=%d", req.StylistID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createAppointment.ErrDayFullyBooked):
			h.logger.Warn("POST /appointments - Day fully booked: stylist_id=%d", req.StylistID)
			handlers.RespondError(w, http.StatusConflict, msgDayFullyBooked)

		case errors.Is(err, createAppointment.ErrTimeSlotTaken):
			h.logger.Warn("POST /appointments - Time slot taken: stylist_id=%d", req.StylistID)
			handlers.RespondError(w, http.StatusConflict, msgTimeSlotTaken)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: stylist_id=%d, user_id=%d, error=%v",
				req.StylistID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /appointments - Appointment created: appointment_id=%s, stylist_id=%d, user_id=%d",
		result.UUID, result.StylistID, userID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
