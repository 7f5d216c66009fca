package create_appointment

import (
	"time"

	"github.com/shopspring/decimal"

	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
)

// RequestedServiceModel HTTP model одной позиции в записи
type RequestedServiceModel struct {
	ServiceID   int64            `json:"serviceId"`
	ClientPrice *decimal.Decimal `json:"clientPrice,omitempty"`
}

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	StylistID      int64                   `json:"stylistId"`
	ClientID       *int64                  `json:"clientId,omitempty"`
	Services       []RequestedServiceModel `json:"services"`
	StartTime      string                  `json:"startTime"` // RFC3339
	IncludeTax     bool                    `json:"includeTax"`
	IncludeCardFee bool                    `json:"includeCardFee"`
}

// ServiceLineResponse HTTP model зафиксированной позиции
type ServiceLineResponse struct {
	ServiceID       int64           `json:"serviceId"`
	Name            string          `json:"name"`
	RegularPrice    decimal.Decimal `json:"regularPrice"`
	ClientPrice     decimal.Decimal `json:"clientPrice"`
	DurationMinutes int             `json:"durationMinutes"`
	IsPriceEdited   bool            `json:"isPriceEdited"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID              string                `json:"id"`
	StylistID       int64                 `json:"stylistId"`
	ClientID        *int64                `json:"clientId,omitempty"`
	StartTime       string                `json:"startTime"`
	DurationMinutes int                   `json:"durationMinutes"`
	Status          string                `json:"status"`
	Services        []ServiceLineResponse `json:"services"`
	CreatedAt       string                `json:"createdAt"`
	UpdatedAt       string                `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(createdBy int64) (*createAppointment.Request, error) {
	startTime, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, err
	}

	services := make([]createAppointment.RequestedService, 0, len(r.Services))
	for _, svc := range r.Services {
		services = append(services, createAppointment.RequestedService{
			ServiceID:   svc.ServiceID,
			ClientPrice: svc.ClientPrice,
		})
	}

	return &createAppointment.Request{
		StylistID:      r.StylistID,
		ClientID:       r.ClientID,
		CreatedBy:      createdBy,
		Services:       services,
		StartTime:      startTime,
		IncludeTax:     r.IncludeTax,
		IncludeCardFee: r.IncludeCardFee,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	services := make([]ServiceLineResponse, 0, len(resp.Services))
	for _, line := range resp.Services {
		services = append(services, ServiceLineResponse{
			ServiceID:       line.ServiceID,
			Name:            line.Name,
			RegularPrice:    line.RegularPrice,
			ClientPrice:     line.ClientPrice,
			DurationMinutes: line.DurationMinutes,
			IsPriceEdited:   line.IsPriceEdited,
		})
	}

	return &AppointmentResponse{
		ID:              resp.UUID.String(),
		StylistID:       resp.StylistID,
		ClientID:        resp.ClientID,
		StartTime:       resp.StartTime.Format(time.RFC3339),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		Services:        services,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
