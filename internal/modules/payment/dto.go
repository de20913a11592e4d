package payment

import (
	"time"

	"github.com/eduspace/core/internal/models"
)

type CreateOrderDTO struct {
	CourseID string `json:"course_id" binding:"required"`
}

type VerifyDTO struct {
	OrderID   string `json:"order_id" binding:"required"`
	PaymentID string `json:"payment_id" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

type orderResponse struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"key_id"`
	CourseID string `json:"course_id"`
}

type paymentResponse struct {
	ID               string    `json:"id"`
	CourseID         string    `json:"course_id"`
	GatewayOrderID   string    `json:"gateway_order_id"`
	GatewayPaymentID string    `json:"gateway_payment_id"`
	Amount           int64     `json:"amount"`
	Currency         string    `json:"currency"`
	Status           string    `json:"status"`
	Created          time.Time `json:"created"`
}

func toResponse(m *models.PaymentModel) *paymentResponse {
	return &paymentResponse{
		ID:               m.ID,
		CourseID:         m.CourseID,
		GatewayOrderID:   m.GatewayOrderID,
		GatewayPaymentID: m.GatewayPaymentID,
		Amount:           m.Amount,
		Currency:         m.Currency,
		Status:           m.Status,
		Created:          m.CreatedAt,
	}
}
