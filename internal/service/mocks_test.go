package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"rentmarket-backend/internal/domain"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepo) AdjustStock(ctx context.Context, productID int64, delta int) (bool, error) {
	args := m.Called(ctx, productID, delta)
	return args.Bool(0), args.Error(1)
}

func (m *mockProductRepo) ReserveIfAvailable(ctx context.Context, productID, orderID int64, quantity int, start, end time.Time) (bool, error) {
	args := m.Called(ctx, productID, orderID, quantity, start, end)
	return args.Bool(0), args.Error(1)
}

func (m *mockProductRepo) ReleaseReservations(ctx context.Context, orderID int64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

type mockQuotationRepo struct {
	mock.Mock
}

func (m *mockQuotationRepo) Create(ctx context.Context, q *domain.Quotation) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *mockQuotationRepo) GetByID(ctx context.Context, id int64) (*domain.Quotation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quotation), args.Error(1)
}

func (m *mockQuotationRepo) Update(ctx context.Context, q *domain.Quotation) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *mockQuotationRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockQuotationRepo) ListByCustomer(ctx context.Context, customerID int64, status string, page, pageSize int32) ([]domain.Quotation, int32, error) {
	args := m.Called(ctx, customerID, status, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Quotation), args.Get(1).(int32), args.Error(2)
}

func (m *mockQuotationRepo) ListByVendor(ctx context.Context, vendorID int64, status string, page, pageSize int32) ([]domain.Quotation, int32, error) {
	args := m.Called(ctx, vendorID, status, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Quotation), args.Get(1).(int32), args.Error(2)
}

func (m *mockQuotationRepo) ListAll(ctx context.Context, status string, page, pageSize int32) ([]domain.Quotation, int32, error) {
	args := m.Called(ctx, status, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Quotation), args.Get(1).(int32), args.Error(2)
}

func (m *mockQuotationRepo) ExpirePending(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type mockOrderRepo struct {
	mock.Mock
}

func (m *mockOrderRepo) Create(ctx context.Context, o *domain.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *mockOrderRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *mockOrderRepo) Update(ctx context.Context, o *domain.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *mockOrderRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockOrderRepo) ListByCustomer(ctx context.Context, customerID int64, status string, page, pageSize int32) ([]domain.Order, int32, error) {
	args := m.Called(ctx, customerID, status, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Order), args.Get(1).(int32), args.Error(2)
}

func (m *mockOrderRepo) ListByVendor(ctx context.Context, vendorID int64, status string, page, pageSize int32) ([]domain.Order, int32, error) {
	args := m.Called(ctx, vendorID, status, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Order), args.Get(1).(int32), args.Error(2)
}

func (m *mockOrderRepo) ListAll(ctx context.Context, status string, page, pageSize int32) ([]domain.Order, int32, error) {
	args := m.Called(ctx, status, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Order), args.Get(1).(int32), args.Error(2)
}

func (m *mockOrderRepo) ListWithoutMirror(ctx context.Context) ([]domain.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

type mockSaleOrderRepo struct {
	mock.Mock
}

func (m *mockSaleOrderRepo) Create(ctx context.Context, so *domain.SaleOrder) error {
	args := m.Called(ctx, so)
	return args.Error(0)
}

func (m *mockSaleOrderRepo) GetByID(ctx context.Context, id int64) (*domain.SaleOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SaleOrder), args.Error(1)
}

func (m *mockSaleOrderRepo) GetByLinkedOrder(ctx context.Context, orderID int64) (*domain.SaleOrder, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SaleOrder), args.Error(1)
}

func (m *mockSaleOrderRepo) Update(ctx context.Context, so *domain.SaleOrder) error {
	args := m.Called(ctx, so)
	return args.Error(0)
}

func (m *mockSaleOrderRepo) ListByCustomer(ctx context.Context, customerID int64, status string, page, pageSize int32) ([]domain.SaleOrder, int32, error) {
	args := m.Called(ctx, customerID, status, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.SaleOrder), args.Get(1).(int32), args.Error(2)
}

func (m *mockSaleOrderRepo) ListByVendor(ctx context.Context, vendorID int64, status string, page, pageSize int32) ([]domain.SaleOrder, int32, error) {
	args := m.Called(ctx, vendorID, status, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.SaleOrder), args.Get(1).(int32), args.Error(2)
}

func (m *mockSaleOrderRepo) ListAll(ctx context.Context, status string, page, pageSize int32) ([]domain.SaleOrder, int32, error) {
	args := m.Called(ctx, status, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.SaleOrder), args.Get(1).(int32), args.Error(2)
}

type mockInvoiceRepo struct {
	mock.Mock
}

func (m *mockInvoiceRepo) Create(ctx context.Context, inv *domain.Invoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *mockInvoiceRepo) GetByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *mockInvoiceRepo) GetByOrder(ctx context.Context, orderID int64, kind domain.OrderKind) (*domain.Invoice, error) {
	args := m.Called(ctx, orderID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *mockInvoiceRepo) Update(ctx context.Context, inv *domain.Invoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *mockInvoiceRepo) ListByCustomer(ctx context.Context, customerID int64, status string, page, pageSize int32) ([]domain.Invoice, int32, error) {
	args := m.Called(ctx, customerID, status, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Invoice), args.Get(1).(int32), args.Error(2)
}

func (m *mockInvoiceRepo) ListByVendor(ctx context.Context, vendorID int64, status string, page, pageSize int32) ([]domain.Invoice, int32, error) {
	args := m.Called(ctx, vendorID, status, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Invoice), args.Get(1).(int32), args.Error(2)
}

func (m *mockInvoiceRepo) ListAll(ctx context.Context, status string, page, pageSize int32) ([]domain.Invoice, int32, error) {
	args := m.Called(ctx, status, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Invoice), args.Get(1).(int32), args.Error(2)
}

func (m *mockInvoiceRepo) ListUnpaidDue(ctx context.Context, cutoff time.Time) ([]domain.Invoice, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

type mockPickupRepo struct {
	mock.Mock
}

func (m *mockPickupRepo) Create(ctx context.Context, p *domain.Pickup) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockPickupRepo) GetByOrder(ctx context.Context, orderID int64) (*domain.Pickup, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pickup), args.Error(1)
}

type mockSequenceRepo struct {
	mock.Mock
}

func (m *mockSequenceRepo) Next(ctx context.Context, docType string) (int64, error) {
	args := m.Called(ctx, docType)
	return args.Get(0).(int64), args.Error(1)
}

type mockInventory struct {
	mock.Mock
}

func (m *mockInventory) CheckAvailability(product *domain.Product, quantity int, start, end time.Time) bool {
	args := m.Called(product, quantity, start, end)
	return args.Bool(0)
}

func (m *mockInventory) Reserve(ctx context.Context, productID, orderID int64, quantity int, start, end time.Time) error {
	args := m.Called(ctx, productID, orderID, quantity, start, end)
	return args.Error(0)
}

func (m *mockInventory) Release(ctx context.Context, orderID int64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

// mockEmail swallows every notification. Individual tests rarely assert on
// notifications, so expectations default to allow-all.
type mockEmail struct {
	mock.Mock
}

func newMockEmail() *mockEmail {
	m := &mockEmail{}
	m.On("SendQuotationSubmitted", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("SendQuotationApproved", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("SendQuotationRejected", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("SendCounterOfferReceived", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("SendOrderStatusChanged", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("SendInvoiceIssued", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("SendPaymentReceived", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("SendPaymentReminder", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	return m
}

func (m *mockEmail) SendQuotationSubmitted(ctx context.Context, vendorEmail, customerName, quotationNumber string) error {
	args := m.Called(ctx, vendorEmail, customerName, quotationNumber)
	return args.Error(0)
}

func (m *mockEmail) SendQuotationApproved(ctx context.Context, customerEmail, quotationNumber string) error {
	args := m.Called(ctx, customerEmail, quotationNumber)
	return args.Error(0)
}

func (m *mockEmail) SendQuotationRejected(ctx context.Context, customerEmail, quotationNumber, reason string) error {
	args := m.Called(ctx, customerEmail, quotationNumber, reason)
	return args.Error(0)
}

func (m *mockEmail) SendCounterOfferReceived(ctx context.Context, recipientEmail, quotationNumber string) error {
	args := m.Called(ctx, recipientEmail, quotationNumber)
	return args.Error(0)
}

func (m *mockEmail) SendOrderStatusChanged(ctx context.Context, customerEmail, orderNumber string, status domain.OrderStatus) error {
	args := m.Called(ctx, customerEmail, orderNumber, status)
	return args.Error(0)
}

func (m *mockEmail) SendInvoiceIssued(ctx context.Context, customerEmail, invoiceNumber string, total decimal.Decimal) error {
	args := m.Called(ctx, customerEmail, invoiceNumber, total)
	return args.Error(0)
}

func (m *mockEmail) SendPaymentReceived(ctx context.Context, customerEmail, invoiceNumber string, amount, balance decimal.Decimal) error {
	args := m.Called(ctx, customerEmail, invoiceNumber, amount, balance)
	return args.Error(0)
}

func (m *mockEmail) SendPaymentReminder(ctx context.Context, customerEmail, invoiceNumber string, balance decimal.Decimal, dueDate time.Time) error {
	args := m.Called(ctx, customerEmail, invoiceNumber, balance, dueDate)
	return args.Error(0)
}
