package checkout_appointment

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	checkoutAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/checkout_appointment"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgNotFound             = "запись не найдена"
	msgAlreadyCheckedOut    = "запись уже закрыта"
	msgInvalidTransition    = "недопустимый переход статуса"
)

type Handler struct {
	useCase CheckoutAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CheckoutAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/{appointmentId}/checkout
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentID, err := uuid.Parse(vars["appointmentId"])
	if err != nil {
		h.logger.Warn("POST /appointments/{id}/checkout - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments/{id}/checkout - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &checkoutAppointment.Request{
		AppointmentUUID: appointmentID,
		Actor:           userID,
	})
	if err != nil {
		switch {
		case errors.Is(err, checkoutAppointment.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/{id}/checkout - Appointment not found: appointment_id=%s", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, checkoutAppointment.ErrAlreadyCheckedOut):
			h.logger.Warn("POST /appointments/{id}/checkout - Already checked out: appointment_id=%s", appointmentID)
			handlers.RespondError(w, http.StatusConflict, msgAlreadyCheckedOut)

		case errors.Is(err, checkoutAppointment.ErrInvalidTransition):
			h.logger.Warn("POST /appointments/{id}/checkout - Invalid transition: appointment_id=%s", appointmentID)
			handlers.RespondError(w, http.StatusConflict, msgInvalidTransition)

		case errors.Is(err, checkoutAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments/{id}/checkout - Invalid input: appointment_id=%s, error=%v", appointmentID, err)
			handlers.RespondBadRequest(w, msgInvalidAppointmentID)

		default:
			h.logger.Error("POST /appointments/{id}/checkout - Failed to checkout: appointment_id=%s, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /appointments/{id}/checkout - Appointment checked out: appointment_id=%s, grand_total=%s, user_id=%d",
		appointmentID, result.GrandTotal.String(), userID)
	handlers.RespondJSON(w, http.StatusOK, response)
}
