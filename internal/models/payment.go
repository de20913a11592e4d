package models

// Payment lifecycle states.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// PaymentModel records one gateway order for a course purchase.
type PaymentModel struct {
	Base
	UserID           string `json:"user_id"   gorm:"index;not null"`
	CourseID         string `json:"course_id" gorm:"index;not null"`
	GatewayOrderID   string `json:"gateway_order_id"   gorm:"uniqueIndex;not null"`
	GatewayPaymentID string `json:"gateway_payment_id" gorm:"index"`
	Signature        string `json:"-"`
	Amount           int64  `json:"amount"`
	Currency         string `json:"currency" gorm:"default:'INR'"`
	Status           string `json:"status"   gorm:"index;default:'pending'"`
}

func (PaymentModel) TableName() string { return "payments" }
