package models

import "time"

// Payment verification states.
const (
	PaymentRecordPending   = "pending"
	PaymentRecordCompleted = "completed"
	PaymentRecordFailed    = "failed"
)

// Payment is the model for the 'payments' table. One row is created
// per non-COD order; GatewayPaymentID and GatewaySignature stay NULL
// until the gateway callback is verified.
type Payment struct {
	ID               int64     `json:"id" db:"id"`
	OrderID          int64     `json:"orderId" db:"order_id"`
	GatewayOrderID   string    `json:"gatewayOrderId" db:"gateway_order_id"`
	GatewayPaymentID *string   `json:"gatewayPaymentId,omitempty" db:"gateway_payment_id"`
	GatewaySignature *string   `json:"-" db:"gateway_signature"`
	Status           string    `json:"status" db:"status"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
}
