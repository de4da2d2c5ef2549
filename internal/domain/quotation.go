package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type QuotationStatus string

const (
	QuotationStatusDraft     QuotationStatus = "draft"
	QuotationStatusPending   QuotationStatus = "pending"
	QuotationStatusApproved  QuotationStatus = "approved"
	QuotationStatusRejected  QuotationStatus = "rejected"
	QuotationStatusExpired   QuotationStatus = "expired"
	QuotationStatusCancelled QuotationStatus = "cancelled"
	QuotationStatusConverted QuotationStatus = "converted"
)

// quotationNext is the legal transition graph. Terminal states have no
// outgoing edges.
var quotationNext = map[QuotationStatus]map[QuotationStatus]bool{
	QuotationStatusDraft:     {QuotationStatusPending: true, QuotationStatusExpired: true, QuotationStatusCancelled: true},
	QuotationStatusPending:   {QuotationStatusApproved: true, QuotationStatusRejected: true, QuotationStatusExpired: true, QuotationStatusCancelled: true},
	QuotationStatusApproved:  {QuotationStatusConverted: true},
	QuotationStatusRejected:  {},
	QuotationStatusExpired:   {},
	QuotationStatusCancelled: {},
	QuotationStatusConverted: {},
}

func (s QuotationStatus) CanTransitionTo(to QuotationStatus) bool {
	return quotationNext[s][to]
}

func (s QuotationStatus) IsTerminal() bool {
	return len(quotationNext[s]) == 0
}

// CounterOffer is one round of price negotiation attached to a pending
// quotation. Only per-unit prices are renegotiable; quantities and rental
// windows stay fixed.
type CounterOffer struct {
	OfferedBy     int64           `json:"offered_by"`
	OfferedByRole Role            `json:"offered_by_role"`
	Items         []LineItem      `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Quotation is a customer's priced rental request, negotiated with the
// vendor through counter-offers and convertible into an order once approved.
type Quotation struct {
	ID              int64           `json:"id"`
	Number          string          `json:"number"`
	CustomerID      int64           `json:"customer_id"`
	VendorID        int64           `json:"vendor_id"`
	Items           []LineItem      `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	DiscountType    *DiscountType   `json:"discount_type,omitempty"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          QuotationStatus `json:"status"`
	CounterOffers   []CounterOffer  `json:"counter_offers,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	VendorNotes     string          `json:"vendor_notes,omitempty"`
	ApprovedAt      *time.Time      `json:"approved_at,omitempty"`
	ApprovedBy      *int64          `json:"approved_by,omitempty"`
	RejectedAt      *time.Time      `json:"rejected_at,omitempty"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	ConvertedToOrder *int64         `json:"converted_to_order,omitempty"`
	ValidUntil      time.Time       `json:"valid_until"`
	CreatedOn       time.Time       `json:"created_on"`
	UpdatedOn       time.Time       `json:"updated_on"`
}

// Expired reports whether the quotation's validity window has lapsed.
func (q *Quotation) Expired(now time.Time) bool {
	return now.After(q.ValidUntil)
}
