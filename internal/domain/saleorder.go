package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type SaleOrderStatus string

const (
	SaleOrderStatusDraft      SaleOrderStatus = "draft"
	SaleOrderStatusConfirmed  SaleOrderStatus = "confirmed"
	SaleOrderStatusProcessing SaleOrderStatus = "processing"
	SaleOrderStatusShipped    SaleOrderStatus = "shipped"
	SaleOrderStatusDelivered  SaleOrderStatus = "delivered"
	SaleOrderStatusCancelled  SaleOrderStatus = "cancelled"
	SaleOrderStatusRefunded   SaleOrderStatus = "refunded"
)

var saleOrderNext = map[SaleOrderStatus]map[SaleOrderStatus]bool{
	SaleOrderStatusDraft:      {SaleOrderStatusConfirmed: true},
	SaleOrderStatusConfirmed:  {SaleOrderStatusProcessing: true},
	SaleOrderStatusProcessing: {SaleOrderStatusShipped: true},
	SaleOrderStatusShipped:    {SaleOrderStatusDelivered: true},
	SaleOrderStatusDelivered:  {SaleOrderStatusRefunded: true},
	SaleOrderStatusCancelled:  {},
	SaleOrderStatusRefunded:   {},
}

func (s SaleOrderStatus) CanTransitionTo(to SaleOrderStatus) bool {
	return saleOrderNext[s][to]
}

func (s SaleOrderStatus) IsTerminal() bool {
	return len(saleOrderNext[s]) == 0
}

// SaleOrder is an outright sale: either created standalone by a vendor
// (stock is deducted immediately) or auto-mirrored from a rental order for
// unified downstream reporting (stock already held by the reservation).
type SaleOrder struct {
	ID             int64           `json:"id"`
	Number         string          `json:"number"`
	LinkedOrderID  *int64          `json:"linked_order_id,omitempty"`
	QuotationID    *int64          `json:"quotation_id,omitempty"`
	CustomerID     int64           `json:"customer_id"`
	VendorID       int64           `json:"vendor_id"`
	Items          []LineItem      `json:"items"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	ShippingAmount decimal.Decimal `json:"shipping_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	Status         SaleOrderStatus `json:"status"`
	PaymentStatus  PaymentStatus   `json:"payment_status"`
	ConfirmedAt    *time.Time      `json:"confirmed_at,omitempty"`
	ShippedAt      *time.Time      `json:"shipped_at,omitempty"`
	DeliveredAt    *time.Time      `json:"delivered_at,omitempty"`
	CancelledAt    *time.Time      `json:"cancelled_at,omitempty"`
	CancelReason   string          `json:"cancel_reason,omitempty"`
	CreatedOn      time.Time       `json:"created_on"`
	UpdatedOn      time.Time       `json:"updated_on"`
}

// CanBeCancelled: cancellation stops at processing; shipped goods go
// through the refund path instead.
func (so *SaleOrder) CanBeCancelled() bool {
	switch so.Status {
	case SaleOrderStatusDraft, SaleOrderStatusConfirmed, SaleOrderStatusProcessing:
		return true
	}
	return false
}

// CanBeRefunded requires delivery and full payment.
func (so *SaleOrder) CanBeRefunded() bool {
	return so.Status == SaleOrderStatusDelivered && so.PaymentStatus == PaymentStatusPaid
}
