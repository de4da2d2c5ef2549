package repository

import (
	"context"
	"time"

	"rentmarket-backend/internal/domain"
)

// Sequence document types for human-readable numbering.
const (
	SeqQuotation = "quotation"
	SeqOrder     = "order"
	SeqSaleOrder = "sale_order"
	SeqInvoice   = "invoice"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// ProductRepository is the read/write projection over the external catalog:
// pricing and stock reads, stock adjustments for sales, and the reservation
// list mutations. All reservation writes are funneled through here.
type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)

	// AdjustStock changes quantity_on_hand by delta; a decrement that would
	// go negative affects no rows and returns false.
	AdjustStock(ctx context.Context, productID int64, delta int) (bool, error)

	// ReserveIfAvailable atomically re-checks overlapping holds against
	// quantity_on_hand and appends the reservation in one transaction,
	// locking the product row. Returns false when the quantity is not
	// available for the window.
	ReserveIfAvailable(ctx context.Context, productID, orderID int64, quantity int, start, end time.Time) (bool, error)

	// ReleaseReservations removes every hold tagged with orderID.
	ReleaseReservations(ctx context.Context, orderID int64) error
}

type QuotationRepository interface {
	Create(ctx context.Context, q *domain.Quotation) error
	GetByID(ctx context.Context, id int64) (*domain.Quotation, error)
	Update(ctx context.Context, q *domain.Quotation) error
	Delete(ctx context.Context, id int64) error
	ListByCustomer(ctx context.Context, customerID int64, status string, page, pageSize int32) ([]domain.Quotation, int32, error)
	ListByVendor(ctx context.Context, vendorID int64, status string, page, pageSize int32) ([]domain.Quotation, int32, error)
	ListAll(ctx context.Context, status string, page, pageSize int32) ([]domain.Quotation, int32, error)

	// ExpirePending flips draft/pending quotations whose validity lapsed
	// before cutoff to expired. Returns the number affected.
	ExpirePending(ctx context.Context, cutoff time.Time) (int64, error)
}

type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	Update(ctx context.Context, o *domain.Order) error
	Delete(ctx context.Context, id int64) error
	ListByCustomer(ctx context.Context, customerID int64, status string, page, pageSize int32) ([]domain.Order, int32, error)
	ListByVendor(ctx context.Context, vendorID int64, status string, page, pageSize int32) ([]domain.Order, int32, error)
	ListAll(ctx context.Context, status string, page, pageSize int32) ([]domain.Order, int32, error)

	// ListWithoutMirror returns rental orders lacking a linked sale-order
	// mirror, for the nightly reconciliation job.
	ListWithoutMirror(ctx context.Context) ([]domain.Order, error)
}

type SaleOrderRepository interface {
	Create(ctx context.Context, so *domain.SaleOrder) error
	GetByID(ctx context.Context, id int64) (*domain.SaleOrder, error)
	GetByLinkedOrder(ctx context.Context, orderID int64) (*domain.SaleOrder, error)
	Update(ctx context.Context, so *domain.SaleOrder) error
	ListByCustomer(ctx context.Context, customerID int64, status string, page, pageSize int32) ([]domain.SaleOrder, int32, error)
	ListByVendor(ctx context.Context, vendorID int64, status string, page, pageSize int32) ([]domain.SaleOrder, int32, error)
	ListAll(ctx context.Context, status string, page, pageSize int32) ([]domain.SaleOrder, int32, error)
}

type InvoiceRepository interface {
	Create(ctx context.Context, inv *domain.Invoice) error
	GetByID(ctx context.Context, id int64) (*domain.Invoice, error)

	// GetByOrder enforces the one-invoice-per-order rule at creation time.
	GetByOrder(ctx context.Context, orderID int64, kind domain.OrderKind) (*domain.Invoice, error)
	Update(ctx context.Context, inv *domain.Invoice) error
	ListByCustomer(ctx context.Context, customerID int64, status string, page, pageSize int32) ([]domain.Invoice, int32, error)
	ListByVendor(ctx context.Context, vendorID int64, status string, page, pageSize int32) ([]domain.Invoice, int32, error)
	ListAll(ctx context.Context, status string, page, pageSize int32) ([]domain.Invoice, int32, error)

	// ListUnpaidDue returns uncancelled invoices with an outstanding balance
	// whose due date passed before cutoff (payment reminder job).
	ListUnpaidDue(ctx context.Context, cutoff time.Time) ([]domain.Invoice, error)
}

type PickupRepository interface {
	Create(ctx context.Context, p *domain.Pickup) error
	GetByOrder(ctx context.Context, orderID int64) (*domain.Pickup, error)
}

// SequenceRepository hands out gap-free per-document-type sequence values
// through an atomic counter, replacing racy count()+1 numbering.
type SequenceRepository interface {
	Next(ctx context.Context, docType string) (int64, error)
}
