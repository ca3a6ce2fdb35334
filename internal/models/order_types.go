package models

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

// OrderStatus is the lifecycle state of an order.
// The normal path is pending -> order_confirmed -> being_packed ->
// ready_for_pickup -> out_for_delivery -> delivered. An order can be
// cancelled instead of delivered.
type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusOrderConfirmed OrderStatus = "order_confirmed"
	StatusBeingPacked    OrderStatus = "being_packed"
	StatusReadyForPickup OrderStatus = "ready_for_pickup"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
)

// PaymentStatus tracks whether an order has been paid for.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// OrderCustomer is the customer snapshot embedded in an order.
// It is copied (not referenced) at placement time so the order keeps
// the contact details that were valid when it was placed.
type OrderCustomer struct {
	ID              int64   `json:"id" db:"customer_id"`
	Name            string  `json:"name" db:"customer_name"`
	Email           string  `json:"email" db:"customer_email"`
	Phone           string  `json:"phone,omitempty" db:"customer_phone"`
	ShippingAddress string  `json:"shippingAddress" db:"shipping_address"`
	BillingAddress  *string `json:"billingAddress,omitempty" db:"billing_address"`
}

// OrderItem is one line of an order. Price is the unit price at the
// time of purchase.
type OrderItem struct {
	ID        int64   `json:"id" db:"id"`
	OrderID   int64   `json:"orderId" db:"order_id"`
	ProductID int64   `json:"productId" db:"product_id"`
	Quantity  int     `json:"quantity" db:"quantity"`
	Price     float64 `json:"price" db:"price"`

	// Join (populated manually from the products table)
	ProductName string `json:"productName,omitempty" db:"-"`
}

// Order is the model for the 'orders' table.
type Order struct {
	ID            int64         `json:"id" db:"id"`
	StoreID       int64         `json:"store" db:"store_id"`
	OrderNumber   string        `json:"orderNumber" db:"order_number"`
	Customer      OrderCustomer `json:"customer"`
	Items         []OrderItem   `json:"items" db:"-"`
	TotalAmount   float64       `json:"totalAmount" db:"total_amount"`
	Status        OrderStatus   `json:"status" db:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus" db:"payment_status"`
	PaymentMethod string        `json:"paymentMethod" db:"payment_method"`
	Notes         *string       `json:"notes,omitempty" db:"notes"`
	CourierID     *int64        `json:"courier,omitempty" db:"courier_id"`
	CreatedAt     time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time     `json:"updatedAt" db:"updated_at"`

	// Join (populated manually from the stores table)
	StoreName string `json:"storeName,omitempty" db:"-"`
}

// NewOrderNumber builds a human-readable order number of the form
// ORD-YYMM-RRRR (e.g. ORD-2608-0421). The 4-digit suffix is random, so
// callers must treat a duplicate-key error on insert as retryable.
func NewOrderNumber(now time.Time) string {
	return fmt.Sprintf("ORD-%s-%04d", now.Format("0601"), rand.IntN(10000))
}

//
// --- Courier Status Transitions ---
//

// Couriers may only move an order into one of these states. Everything
// else in the lifecycle is owned by the store side.
var courierStatuses = []OrderStatus{
	StatusOutForDelivery,
	StatusDelivered,
	StatusCancelled,
}

var (
	ErrStatusNotAllowed = errors.New("status not allowed for courier update")
	ErrAlreadyPickedUp  = errors.New("order already picked up")
	ErrCourierAssigned  = errors.New("order already assigned to a delivery person")
)

// CourierStatuses returns the transition targets a courier may request.
func CourierStatuses() []OrderStatus {
	out := make([]OrderStatus, len(courierStatuses))
	copy(out, courierStatuses)
	return out
}

// CourierUpdate is the set of field writes a permitted transition
// produces. PaymentStatus is nil when the transition does not touch it.
type CourierUpdate struct {
	Status        OrderStatus
	PaymentStatus *PaymentStatus
	AssignCourier bool
}

// CourierTransition decides whether a courier may move an order from
// 'current' to 'requested' and, if so, which fields change:
//
//	out_for_delivery  assigns the requesting courier; rejected when the
//	                  order is already out for delivery or has a courier
//	delivered         forces paymentStatus to paid
//	cancelled         forces paymentStatus to failed
//
// The delivered/cancelled payment writes are unconditional, matching
// the cash-on-delivery settlement model.
func CourierTransition(current OrderStatus, courierAssigned bool, requested OrderStatus) (CourierUpdate, error) {
	allowed := false
	for _, s := range courierStatuses {
		if requested == s {
			allowed = true
			break
		}
	}
	if !allowed {
		return CourierUpdate{}, ErrStatusNotAllowed
	}

	update := CourierUpdate{Status: requested}

	switch requested {
	case StatusOutForDelivery:
		if current == StatusOutForDelivery {
			return CourierUpdate{}, ErrAlreadyPickedUp
		}
		if courierAssigned {
			return CourierUpdate{}, ErrCourierAssigned
		}
		update.AssignCourier = true
	case StatusDelivered:
		paid := PaymentPaid
		update.PaymentStatus = &paid
	case StatusCancelled:
		failed := PaymentFailed
		update.PaymentStatus = &failed
	}

	return update, nil
}
