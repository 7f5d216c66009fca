package preview_appointment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	previewAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/preview_appointment"
)

// RequestedServiceModel HTTP model одной позиции в записи
type RequestedServiceModel struct {
	ServiceID   int64            `json:"serviceId"`
	ClientPrice *decimal.Decimal `json:"clientPrice,omitempty"`
}

// PreviewAppointmentRequest HTTP request model
type PreviewAppointmentRequest struct {
	StylistID      int64                   `json:"stylistId"`
	ClientID       *int64                  `json:"clientId,omitempty"`
	Services       []RequestedServiceModel `json:"services"`
	StartTime      string                  `json:"startTime"` // RFC3339
	IncludeTax     bool                    `json:"includeTax"`
	IncludeCardFee bool                    `json:"includeCardFee"`
	AppointmentID  *string                 `json:"appointmentId,omitempty"` // UUID существующей записи
}

// ServiceLineResponse HTTP model рассчитанной позиции
type ServiceLineResponse struct {
	ServiceID       int64           `json:"serviceId"`
	Name            string          `json:"name"`
	RegularPrice    decimal.Decimal `json:"regularPrice"`
	ClientPrice     decimal.Decimal `json:"clientPrice"`
	DurationMinutes int             `json:"durationMinutes"`
	AppliedDiscount string          `json:"appliedDiscount"`
	DiscountPercent int             `json:"discountPercent"`
	IsOriginal      bool            `json:"isOriginal"`
	IsPriceEdited   bool            `json:"isPriceEdited"`
}

// ConflictResponse HTTP model пересекающейся записи
type ConflictResponse struct {
	AppointmentID   string `json:"appointmentId"`
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
	Status          string `json:"status"`
}

// PreviewAppointmentResponse HTTP response model
type PreviewAppointmentResponse struct {
	StylistID       int64                 `json:"stylistId"`
	StartTime       string                `json:"startTime"`
	DurationMinutes int                   `json:"durationMinutes"`
	Services        []ServiceLineResponse `json:"services"`
	TotalBeforeTax  decimal.Decimal       `json:"totalBeforeTax"`
	TotalTax        decimal.Decimal       `json:"totalTax"`
	TotalCardFee    decimal.Decimal       `json:"totalCardFee"`
	GrandTotal      decimal.Decimal       `json:"grandTotal"`
	LoadRatio       float64               `json:"loadRatio"`
	Saturated       bool                  `json:"saturated"`
	ConflictsWith   []ConflictResponse    `json:"conflictsWith"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *PreviewAppointmentRequest) ToUseCaseRequest() (*previewAppointment.Request, error) {
	startTime, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, err
	}

	services := make([]previewAppointment.RequestedService, 0, len(r.Services))
	for _, svc := range r.Services {
		services = append(services, previewAppointment.RequestedService{
			ServiceID:   svc.ServiceID,
			ClientPrice: svc.ClientPrice,
		})
	}

	req := &previewAppointment.Request{
		StylistID:      r.StylistID,
		ClientID:       r.ClientID,
		Services:       services,
		StartTime:      startTime,
		IncludeTax:     r.IncludeTax,
		IncludeCardFee: r.IncludeCardFee,
	}

	if r.AppointmentID != nil {
		id, err := uuid.Parse(*r.AppointmentID)
		if err != nil {
			return nil, err
		}
		req.ExistingAppointmentUUID = &id
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *previewAppointment.Response) *PreviewAppointmentResponse {
	services := make([]ServiceLineResponse, 0, len(resp.Services))
	for _, line := range resp.Services {
		services = append(services, ServiceLineResponse{
			ServiceID:       line.ServiceID,
			Name:            line.Name,
			RegularPrice:    line.RegularPrice,
			ClientPrice:     line.ClientPrice,
			DurationMinutes: line.DurationMinutes,
			AppliedDiscount: line.AppliedDiscount,
			DiscountPercent: line.DiscountPercent,
			IsOriginal:      line.IsOriginal,
			IsPriceEdited:   line.IsPriceEdited,
		})
	}

	conflicts := make([]ConflictResponse, 0, len(resp.ConflictsWith))
	for _, c := range resp.ConflictsWith {
		conflicts = append(conflicts, ConflictResponse{
			AppointmentID:   c.UUID.String(),
			StartTime:       c.StartTime.Format(time.RFC3339),
			DurationMinutes: c.DurationMinutes,
			Status:          c.Status,
		})
	}

	return &PreviewAppointmentResponse{
		StylistID:       resp.StylistID,
		StartTime:       resp.StartTime.Format(time.RFC3339),
		DurationMinutes: resp.DurationMinutes,
		Services:        services,
		TotalBeforeTax:  resp.TotalBeforeTax,
		TotalTax:        resp.TotalTax,
		TotalCardFee:    resp.TotalCardFee,
		GrandTotal:      resp.GrandTotal,
		LoadRatio:       resp.LoadRatio,
		Saturated:       resp.Saturated,
		ConflictsWith:   conflicts,
	}
}
