package checkout_appointment

import (
	"time"

	"github.com/shopspring/decimal"

	checkoutAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/checkout_appointment"
)

// CheckoutAppointmentResponse HTTP response model
type CheckoutAppointmentResponse struct {
	ID             string          `json:"id"`
	StylistID      int64           `json:"stylistId"`
	Status         string          `json:"status"`
	TotalBeforeTax decimal.Decimal `json:"totalBeforeTax"`
	TotalTax       decimal.Decimal `json:"totalTax"`
	TotalCardFee   decimal.Decimal `json:"totalCardFee"`
	GrandTotal     decimal.Decimal `json:"grandTotal"`
	CheckedOutAt   string          `json:"checkedOutAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *checkoutAppointment.Response) *CheckoutAppointmentResponse {
	return &CheckoutAppointmentResponse{
		ID:             resp.UUID.String(),
		StylistID:      resp.StylistID,
		Status:         resp.Status,
		TotalBeforeTax: resp.TotalBeforeTax,
		TotalTax:       resp.TotalTax,
		TotalCardFee:   resp.TotalCardFee,
		GrandTotal:     resp.GrandTotal,
		CheckedOutAt:   resp.CheckedOutAt.Format(time.RFC3339),
	}
}
