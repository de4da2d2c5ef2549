package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"rentmarket-backend/internal/authz"
	"rentmarket-backend/internal/domain"
)

// InventoryService is the reservation ledger: every hold against a
// product's stock goes through here, never through direct field writes.
type InventoryService interface {
	// CheckAvailability answers from the product snapshot's reservation
	// list; advisory only, the atomic check happens inside Reserve.
	CheckAvailability(product *domain.Product, quantity int, start, end time.Time) bool
	Reserve(ctx context.Context, productID, orderID int64, quantity int, start, end time.Time) error
	Release(ctx context.Context, orderID int64) error
}

type QuotationItemInput struct {
	ProductID   int64
	Quantity    int
	RentalStart time.Time
	RentalEnd   time.Time
}

type CreateQuotationInput struct {
	Items          []QuotationItemInput
	Notes          string
	DiscountAmount decimal.Decimal
	DiscountType   *domain.DiscountType
}

// CounterOfferItem carries a renegotiated per-unit price for one line.
// Quantities and rental windows are not renegotiable.
type CounterOfferItem struct {
	ProductID    int64
	PricePerUnit decimal.Decimal
}

type QuotationService interface {
	Create(ctx context.Context, actor authz.Principal, input CreateQuotationInput) (*domain.Quotation, error)
	Get(ctx context.Context, actor authz.Principal, id int64) (*domain.Quotation, error)
	List(ctx context.Context, actor authz.Principal, status string, page, pageSize int32) ([]domain.Quotation, int32, error)
	Submit(ctx context.Context, actor authz.Principal, id int64) (*domain.Quotation, error)
	CounterOffer(ctx context.Context, actor authz.Principal, id int64, items []CounterOfferItem, notes string) (*domain.Quotation, error)
	Approve(ctx context.Context, actor authz.Principal, id int64, vendorNotes string) (*domain.Quotation, error)
	Reject(ctx context.Context, actor authz.Principal, id int64, reason string) (*domain.Quotation, error)
	ConvertToOrder(ctx context.Context, actor authz.Principal, id int64, shippingAddress string) (*domain.Order, error)
	Delete(ctx context.Context, actor authz.Principal, id int64) error
}

type OrderService interface {
	Get(ctx context.Context, actor authz.Principal, id int64) (*domain.Order, error)
	List(ctx context.Context, actor authz.Principal, status string, page, pageSize int32) ([]domain.Order, int32, error)
	UpdateStatus(ctx context.Context, actor authz.Principal, id int64, status domain.OrderStatus, notes string) (*domain.Order, error)
	Cancel(ctx context.Context, actor authz.Principal, id int64, reason string) (*domain.Order, error)
	UpdatePaymentStatus(ctx context.Context, actor authz.Principal, id int64, status domain.PaymentStatus) (*domain.Order, error)
}

type SaleOrderItemInput struct {
	ProductID int64
	Quantity  int
}

type CreateSaleOrderInput struct {
	CustomerID     int64
	Items          []SaleOrderItemInput
	ShippingAmount decimal.Decimal
	DiscountAmount decimal.Decimal
	DiscountType   *domain.DiscountType
}

type SaleOrderService interface {
	CreateStandalone(ctx context.Context, actor authz.Principal, input CreateSaleOrderInput) (*domain.SaleOrder, error)
	Get(ctx context.Context, actor authz.Principal, id int64) (*domain.SaleOrder, error)
	List(ctx context.Context, actor authz.Principal, status string, page, pageSize int32) ([]domain.SaleOrder, int32, error)
	UpdateStatus(ctx context.Context, actor authz.Principal, id int64, status domain.SaleOrderStatus) (*domain.SaleOrder, error)
	Cancel(ctx context.Context, actor authz.Principal, id int64, reason string) (*domain.SaleOrder, error)
}

type CreateInvoiceInput struct {
	OrderID        int64
	OrderKind      domain.OrderKind // empty = resolve rental first, then sale
	DueDate        *time.Time
	Discount       decimal.Decimal
	DiscountType   *domain.DiscountType
	PaymentType    domain.PaymentType
	InitialPayment decimal.Decimal
}

type PaymentInput struct {
	Amount        decimal.Decimal
	Method        string
	TransactionID string
	Notes         string
}

type InvoiceService interface {
	CreateFromOrder(ctx context.Context, actor authz.Principal, input CreateInvoiceInput) (*domain.Invoice, error)
	Get(ctx context.Context, actor authz.Principal, id int64) (*domain.Invoice, error)
	List(ctx context.Context, actor authz.Principal, status string, page, pageSize int32) ([]domain.Invoice, int32, error)
	AddPayment(ctx context.Context, actor authz.Principal, id int64, payment PaymentInput) (*domain.Invoice, error)
	UpdateStatus(ctx context.Context, actor authz.Principal, id int64, status domain.InvoiceStatus) (*domain.Invoice, error)
}

// EmailService sends transactional notifications. Every call site treats
// failures as best-effort: logged, never propagated.
type EmailService interface {
	SendQuotationSubmitted(ctx context.Context, vendorEmail, customerName, quotationNumber string) error
	SendQuotationApproved(ctx context.Context, customerEmail, quotationNumber string) error
	SendQuotationRejected(ctx context.Context, customerEmail, quotationNumber, reason string) error
	SendCounterOfferReceived(ctx context.Context, recipientEmail, quotationNumber string) error
	SendOrderStatusChanged(ctx context.Context, customerEmail, orderNumber string, status domain.OrderStatus) error
	SendInvoiceIssued(ctx context.Context, customerEmail, invoiceNumber string, total decimal.Decimal) error
	SendPaymentReceived(ctx context.Context, customerEmail, invoiceNumber string, amount, balance decimal.Decimal) error
	SendPaymentReminder(ctx context.Context, customerEmail, invoiceNumber string, balance decimal.Decimal, dueDate time.Time) error
}
