package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPartial   InvoiceStatus = "partial"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

type PaymentType string

const (
	PaymentTypeFull    PaymentType = "full"
	PaymentTypePartial PaymentType = "partial"
	PaymentTypeDeposit PaymentType = "deposit"
	PaymentTypeAdvance PaymentType = "advance"
)

// OrderKind distinguishes which collection an invoice's order reference
// resolves in.
type OrderKind string

const (
	OrderKindRental OrderKind = "rental"
	OrderKindSale   OrderKind = "sale"
)

// PaymentRecord is one append-only payment against an invoice.
type PaymentRecord struct {
	ID            string          `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	TransactionID string          `json:"transaction_id,omitempty"`
	Date          time.Time       `json:"date"`
	Notes         string          `json:"notes,omitempty"`
}

// Invoice is the billing document derived from an order. Payments only ever
// append; paidAmount and balanceAmount are recomputed on each one. Invoices
// are never deleted.
type Invoice struct {
	ID              int64           `json:"id"`
	Number          string          `json:"number"`
	OrderID         int64           `json:"order_id"`
	OrderKind       OrderKind       `json:"order_kind"`
	CustomerID      int64           `json:"customer_id"`
	VendorID        int64           `json:"vendor_id"`
	Items           []LineItem      `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Discount        decimal.Decimal `json:"discount"`
	DiscountType    *DiscountType   `json:"discount_type,omitempty"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	CGST            decimal.Decimal `json:"cgst"`
	SGST            decimal.Decimal `json:"sgst"`
	IGST            decimal.Decimal `json:"igst"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	SecurityDeposit decimal.Decimal `json:"security_deposit"`
	LateReturnFee   decimal.Decimal `json:"late_return_fee"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	BalanceAmount   decimal.Decimal `json:"balance_amount"`
	PaymentType     PaymentType     `json:"payment_type"`
	Status          InvoiceStatus   `json:"status"`
	Payments        []PaymentRecord `json:"payments,omitempty"`
	DueDate         time.Time       `json:"due_date"`
	CreatedOn       time.Time       `json:"created_on"`
	UpdatedOn       time.Time       `json:"updated_on"`
}

// EffectiveStatus derives overdue at read time: an unpaid, uncancelled
// invoice past its due date reads as overdue without a stored transition.
func (i *Invoice) EffectiveStatus(now time.Time) InvoiceStatus {
	if i.Status != InvoiceStatusPaid && i.Status != InvoiceStatusCancelled && now.After(i.DueDate) {
		return InvoiceStatusOverdue
	}
	return i.Status
}
