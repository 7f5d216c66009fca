package preview_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	previewAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/preview_appointment"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidRequest      = "некорректные параметры запроса"
	msgStylistNotFound     = "стилист не найден"
	msgServiceNotFound     = "услуга не найдена"
	msgAppointmentNotFound = "запись не найдена"
)

type Handler struct {
	useCase PreviewAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase PreviewAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/preview
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req PreviewAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments/preview - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /appointments/preview - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequest)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, previewAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments/preview - Invalid input: stylist_id=%d, error=%v", req.StylistID, err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		case errors.Is(err, previewAppointment.ErrStylistNotFound):
			h.logger.Warn("POST /appointments/preview - Stylist not found: stylist_id=%d", req.StylistID)
			handlers.RespondNotFound(w, msgStylistNotFound)

		case errors.Is(err, previewAppointment.ErrServiceNotFound):
			h.logger.Warn("POST /appointments/preview - Service not found: stylist_id=%d", req.StylistID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, previewAppointment.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/preview - Appointment not found: stylist_id=%d", req.StylistID)
			handlers.RespondNotFound(w, msgAppointmentNotFound)

		default:
			h.logger.Error("POST /appointments/preview - Failed to build preview: stylist_id=%d, error=%v", req.StylistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /appointments/preview - Preview built: stylist_id=%d, services=%d, grand_total=%s",
		result.StylistID, len(result.Services), result.GrandTotal.String())
	handlers.RespondJSON(w, http.StatusOK, response)
}
