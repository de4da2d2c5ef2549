package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusPickedUp   OrderStatus = "picked_up"
	OrderStatusActive     OrderStatus = "active"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// orderNext encodes the rental fulfillment pipeline. Vendors advance one
// stage at a time; cancellation is handled by Cancel, not UpdateStatus,
// because it releases inventory.
var orderNext = map[OrderStatus]map[OrderStatus]bool{
	OrderStatusConfirmed:  {OrderStatusProcessing: true},
	OrderStatusProcessing: {OrderStatusPickedUp: true},
	OrderStatusPickedUp:   {OrderStatusActive: true},
	OrderStatusActive:     {OrderStatusCompleted: true},
	OrderStatusCompleted:  {},
	OrderStatusCancelled:  {},
}

func (s OrderStatus) CanTransitionTo(to OrderStatus) bool {
	return orderNext[s][to]
}

func (s OrderStatus) IsTerminal() bool {
	return len(orderNext[s]) == 0
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPartial  PaymentStatus = "partial"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
	PaymentStatusFailed   PaymentStatus = "failed"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPartial, PaymentStatusPaid, PaymentStatusRefunded, PaymentStatusFailed:
		return true
	}
	return false
}

// Order is a confirmed rental commitment created from an approved quotation.
// Inventory reservations are held under its id until completion or
// cancellation.
type Order struct {
	ID              int64           `json:"id"`
	Number          string          `json:"number"`
	QuotationID     int64           `json:"quotation_id"`
	CustomerID      int64           `json:"customer_id"`
	VendorID        int64           `json:"vendor_id"`
	Items           []LineItem      `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	SecurityDeposit decimal.Decimal `json:"security_deposit"`
	ShippingAddress string          `json:"shipping_address,omitempty"`
	Status          OrderStatus     `json:"status"`
	PaymentStatus   PaymentStatus   `json:"payment_status"`
	PickupDate      *time.Time      `json:"pickup_date,omitempty"`
	CreatedOn       time.Time       `json:"created_on"`
	UpdatedOn       time.Time       `json:"updated_on"`
}

// CanBeCancelled reports whether cancellation is still allowed: once the
// equipment is with the customer the order can only run to completion.
func (o *Order) CanBeCancelled() bool {
	switch o.Status {
	case OrderStatusPickedUp, OrderStatusActive, OrderStatusCompleted, OrderStatusCancelled:
		return false
	}
	return true
}

// Pickup is the handover record side-effected by the picked_up transition.
type Pickup struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"order_id"`
	VendorID  int64     `json:"vendor_id"`
	PickedBy  int64     `json:"picked_by"`
	Notes     string    `json:"notes,omitempty"`
	CreatedOn time.Time `json:"created_on"`
}
