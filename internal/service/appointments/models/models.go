package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// CancelAppointmentRequest запрос на отмену записи
type CancelAppointmentRequest struct {
	UserID int64 `json:"userId"` // Инициатор отмены
}

// UpdateStatusRequest запрос на смену статуса записи
type UpdateStatusRequest struct {
	UserID int64  `json:"userId"`
	Status string `json:"status"`
}

// GetStylistAppointmentsRequest запрос на получение записей стилиста
type GetStylistAppointmentsRequest struct {
	StylistID       int64      `json:"stylistId"`
	DateFrom        *time.Time `json:"dateFrom,omitempty"`        // Начало периода (опционально)
	DateTo          *time.Time `json:"dateTo,omitempty"`          // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить отменённые записи
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetStylistAppointmentsRequest) ToDomainFilter() (domain.StylistAppointmentsFilter, error) {
	filter := domain.StylistAppointmentsFilter{
		StylistID:       r.StylistID,
		StartFrom:       r.DateFrom,
		IncludeInactive: r.IncludeInactive,
	}

	// Конец периода включителен на уровне API, фильтр репозитория - нет
	if r.DateTo != nil {
		end := domain.DateOnly(*r.DateTo).AddDate(0, 0, 1)
		filter.StartTo = &end
	}

	if r.Status != nil {
		status, err := ToDomainStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// ServiceLineResponse строка услуги записи
type ServiceLineResponse struct {
	ServiceID       int64           `json:"serviceId"`
	Name            string          `json:"name"`
	RegularPrice    decimal.Decimal `json:"regularPrice"`
	ClientPrice     decimal.Decimal `json:"clientPrice"`
	DurationMinutes int             `json:"durationMinutes"`
	IsOriginal      bool            `json:"isOriginal"`
	IsPriceEdited   bool            `json:"isPriceEdited"`
}

// StatusHistoryResponse одна запись истории статусов
type StatusHistoryResponse struct {
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updatedAt"`
	UpdatedBy int64     `json:"updatedBy"`
}

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	UUID            uuid.UUID             `json:"id"`
	StylistID       int64                 `json:"stylistId"`
	ClientID        *int64                `json:"clientId,omitempty"`
	StartTime       time.Time             `json:"startTime"`
	DurationMinutes int                   `json:"durationMinutes"`
	Status          string                `json:"status"`
	Services        []ServiceLineResponse `json:"services"`

	TotalBeforeTax *decimal.Decimal `json:"totalBeforeTax,omitempty"`
	TotalTax       *decimal.Decimal `json:"totalTax,omitempty"`
	TotalCardFee   *decimal.Decimal `json:"totalCardFee,omitempty"`
	GrandTotal     *decimal.Decimal `json:"grandTotal,omitempty"`

	StatusHistory []StatusHistoryResponse `json:"statusHistory,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

// FromDomainAppointment конвертирует domain модель в response
func FromDomainAppointment(apt *domain.Appointment) *AppointmentResponse {
	services := make([]ServiceLineResponse, 0, len(apt.Services))
	for _, line := range apt.Services {
		services = append(services, ServiceLineResponse{
			ServiceID:       line.ServiceID,
			Name:            line.Name,
			RegularPrice:    line.RegularPrice,
			ClientPrice:     line.ClientPrice,
			DurationMinutes: line.DurationMinutes,
			IsOriginal:      line.IsOriginal,
			IsPriceEdited:   line.IsPriceEdited,
		})
	}

	history := make([]StatusHistoryResponse, 0, len(apt.StatusHistory))
	for _, entry := range apt.StatusHistory {
		history = append(history, StatusHistoryResponse{
			Status:    string(entry.Status),
			UpdatedAt: entry.UpdatedAt,
			UpdatedBy: entry.UpdatedBy,
		})
	}

	return &AppointmentResponse{
		UUID:            apt.UUID,
		StylistID:       apt.StylistID,
		ClientID:        apt.ClientID,
		StartTime:       apt.StartTime,
		DurationMinutes: apt.DurationMinutes,
		Status:          string(apt.Status),
		Services:        services,
		TotalBeforeTax:  apt.TotalBeforeTax,
		TotalTax:        apt.TotalTax,
		TotalCardFee:    apt.TotalCardFee,
		GrandTotal:      apt.GrandTotal,
		StatusHistory:   history,
		CreatedAt:       apt.CreatedAt,
		UpdatedAt:       apt.UpdatedAt,
	}
}

// FromDomainAppointmentList конвертирует список domain моделей в response
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	items := make([]AppointmentResponse, 0, len(appointments))
	for _, apt := range appointments {
		items = append(items, *FromDomainAppointment(apt))
	}
	return &AppointmentListResponse{
		Appointments: items,
		Total:        len(items),
	}
}

// ToDomainStatus валидирует и конвертирует строковый статус
func ToDomainStatus(status string) (domain.AppointmentStatus, error) {
	switch domain.AppointmentStatus(status) {
	case domain.StatusNew, domain.StatusCheckedOut, domain.StatusNoShow,
		domain.StatusCancelledByStylist, domain.StatusCancelledByClient:
		return domain.AppointmentStatus(status), nil
	default:
		return "", ErrInvalidStatus
	}
}
