package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"rentmarket-backend/internal/authz"
	"rentmarket-backend/internal/domain"
	"rentmarket-backend/internal/logger"
	"rentmarket-backend/internal/pricing"
	"rentmarket-backend/internal/repository"
)

// InvoicePolicy holds billing knobs wired from configuration.
type InvoicePolicy struct {
	// DueDays is the default payment window when no due date is given.
	DueDays int
}

type invoiceService struct {
	invoiceRepo   repository.InvoiceRepository
	orderRepo     repository.OrderRepository
	saleOrderRepo repository.SaleOrderRepository
	productRepo   repository.ProductRepository
	userRepo      repository.UserRepository
	seqRepo       repository.SequenceRepository
	emailSvc      EmailService
	policy        InvoicePolicy
}

func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	orderRepo repository.OrderRepository,
	saleOrderRepo repository.SaleOrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	seqRepo repository.SequenceRepository,
	emailSvc EmailService,
	policy InvoicePolicy,
) InvoiceService {
	if policy.DueDays <= 0 {
		policy.DueDays = 7
	}
	return &invoiceService{
		invoiceRepo:   invoiceRepo,
		orderRepo:     orderRepo,
		saleOrderRepo: saleOrderRepo,
		productRepo:   productRepo,
		userRepo:      userRepo,
		seqRepo:       seqRepo,
		emailSvc:      emailSvc,
		policy:        policy,
	}
}

// billingSource is the order-shaped document an invoice is cut from,
// regardless of which collection it lives in.
type billingSource struct {
	kind       domain.OrderKind
	customerID int64
	vendorID   int64
	items      []domain.LineItem
	deposit    decimal.Decimal
	shipping   decimal.Decimal
}

func (s *invoiceService) CreateFromOrder(ctx context.Context, actor authz.Principal, input CreateInvoiceInput) (*domain.Invoice, error) {
	src, err := s.resolveOrder(ctx, input.OrderID, input.OrderKind)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, src.customerID, src.vendorID, authz.OpInvoiceCreate); err != nil {
		return nil, err
	}

	// One invoice per order. A found row means someone got here first.
	if existing, err := s.invoiceRepo.GetByOrder(ctx, input.OrderID, src.kind); err == nil {
		return nil, domain.NewConflictError("order already has invoice %s", existing.Number)
	} else if !domain.IsNotFound(err) {
		return nil, err
	}

	// Tax is re-derived from the current catalog rather than trusted from
	// the order snapshot; the category or override may have changed since
	// quotation time. Items whose product vanished keep their snapshot rate.
	items := make([]domain.LineItem, len(src.items))
	copy(items, src.items)
	for i := range items {
		if items[i].RentalStart != nil && items[i].RentalEnd != nil {
			items[i].RentalPeriod = fmt.Sprintf("%s - %s",
				items[i].RentalStart.Format("2006-01-02"),
				items[i].RentalEnd.Format("2006-01-02"))
		}
		product, err := s.productRepo.GetByID(ctx, items[i].ProductID)
		if err != nil {
			if domain.IsNotFound(err) {
				items[i].TaxRate = pricing.RateFor(items[i].Category)
				continue
			}
			return nil, err
		}
		items[i].TaxRate = pricing.RateForProduct(product)
	}

	totals := pricing.Aggregate(items, input.Discount)
	cgst, sgst, igst := pricing.SplitCGSTSGST(totals.TaxAmount)
	totalAmount := totals.TotalAmount.Add(src.shipping)

	seq, err := s.seqRepo.Next(ctx, repository.SeqInvoice)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate invoice number: %w", err)
	}

	dueDate := time.Now().AddDate(0, 0, s.policy.DueDays)
	if input.DueDate != nil {
		dueDate = *input.DueDate
	}
	paymentType := input.PaymentType
	if paymentType == "" {
		paymentType = domain.PaymentTypeFull
	}

	inv := &domain.Invoice{
		Number:          fmt.Sprintf("INV%06d", seq),
		OrderID:         input.OrderID,
		OrderKind:       src.kind,
		CustomerID:      src.customerID,
		VendorID:        src.vendorID,
		Items:           items,
		Subtotal:        totals.Subtotal,
		Discount:        input.Discount,
		DiscountType:    input.DiscountType,
		TaxRate:         totals.EffectiveTaxRate,
		CGST:            cgst,
		SGST:            sgst,
		IGST:            igst,
		TaxAmount:       totals.TaxAmount,
		TotalAmount:     totalAmount,
		SecurityDeposit: src.deposit,
		PaidAmount:      decimal.Zero,
		BalanceAmount:   totalAmount,
		PaymentType:     paymentType,
		Status:          domain.InvoiceStatusDraft,
		DueDate:         dueDate,
	}

	if input.InitialPayment.IsPositive() {
		if input.InitialPayment.GreaterThan(totalAmount) {
			return nil, domain.NewValidationError("initial payment %s exceeds invoice total %s", input.InitialPayment, totalAmount)
		}
		inv.Payments = append(inv.Payments, domain.PaymentRecord{
			ID:     uuid.NewString(),
			Amount: input.InitialPayment,
			Method: "initial",
			Date:   time.Now(),
		})
		inv.PaidAmount = input.InitialPayment
		inv.BalanceAmount = totalAmount.Sub(input.InitialPayment)
		if inv.BalanceAmount.IsZero() {
			inv.Status = domain.InvoiceStatusPaid
		} else {
			inv.Status = domain.InvoiceStatusPartial
		}
	}

	if err := s.invoiceRepo.Create(ctx, inv); err != nil {
		return nil, err
	}

	s.propagatePaymentStatus(ctx, inv)
	s.notifyIssued(ctx, inv)
	return inv, nil
}

// resolveOrder finds the billing source. With no explicit kind the rental
// collection is tried first, then sales.
func (s *invoiceService) resolveOrder(ctx context.Context, orderID int64, kind domain.OrderKind) (*billingSource, error) {
	tryRental := kind == domain.OrderKindRental || kind == ""
	trySale := kind == domain.OrderKindSale || kind == ""

	if tryRental {
		o, err := s.orderRepo.GetByID(ctx, orderID)
		if err == nil {
			if o.Status == domain.OrderStatusCancelled {
				return nil, domain.NewConflictError("cannot invoice cancelled order %s", o.Number)
			}
			return &billingSource{
				kind:       domain.OrderKindRental,
				customerID: o.CustomerID,
				vendorID:   o.VendorID,
				items:      o.Items,
				deposit:    o.SecurityDeposit,
			}, nil
		}
		if !domain.IsNotFound(err) {
			return nil, err
		}
	}
	if trySale {
		so, err := s.saleOrderRepo.GetByID(ctx, orderID)
		if err == nil {
			if so.Status == domain.SaleOrderStatusCancelled {
				return nil, domain.NewConflictError("cannot invoice cancelled sale order %s", so.Number)
			}
			return &billingSource{
				kind:       domain.OrderKindSale,
				customerID: so.CustomerID,
				vendorID:   so.VendorID,
				items:      so.Items,
				shipping:   so.ShippingAmount,
			}, nil
		}
		if !domain.IsNotFound(err) {
			return nil, err
		}
	}
	return nil, domain.NewNotFoundError("order", orderID)
}

func (s *invoiceService) Get(ctx context.Context, actor authz.Principal, id int64) (*domain.Invoice, error) {
	inv, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, inv.CustomerID, inv.VendorID, authz.OpInvoiceRead); err != nil {
		return nil, err
	}
	inv.Status = inv.EffectiveStatus(time.Now())
	return inv, nil
}

func (s *invoiceService) List(ctx context.Context, actor authz.Principal, status string, page, pageSize int32) ([]domain.Invoice, int32, error) {
	var invoices []domain.Invoice
	var count int32
	var err error
	switch actor.Role {
	case domain.RoleVendor:
		invoices, count, err = s.invoiceRepo.ListByVendor(ctx, actor.ID, status, page, pageSize)
	case domain.RoleAdmin:
		invoices, count, err = s.invoiceRepo.ListAll(ctx, status, page, pageSize)
	default:
		invoices, count, err = s.invoiceRepo.ListByCustomer(ctx, actor.ID, status, page, pageSize)
	}
	if err != nil {
		return nil, 0, err
	}
	now := time.Now()
	for i := range invoices {
		invoices[i].Status = invoices[i].EffectiveStatus(now)
	}
	return invoices, count, nil
}

func (s *invoiceService) AddPayment(ctx context.Context, actor authz.Principal, id int64, payment PaymentInput) (*domain.Invoice, error) {
	inv, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, inv.CustomerID, inv.VendorID, authz.OpInvoiceAddPayment); err != nil {
		return nil, err
	}
	if inv.Status == domain.InvoiceStatusCancelled {
		return nil, domain.NewConflictError("invoice %s is cancelled", inv.Number)
	}
	if !payment.Amount.IsPositive() {
		return nil, domain.NewValidationError("payment amount must be positive")
	}
	if payment.Amount.GreaterThan(inv.BalanceAmount) {
		return nil, domain.NewValidationError("payment %s exceeds outstanding balance %s", payment.Amount, inv.BalanceAmount)
	}

	inv.Payments = append(inv.Payments, domain.PaymentRecord{
		ID:            uuid.NewString(),
		Amount:        payment.Amount,
		Method:        payment.Method,
		TransactionID: payment.TransactionID,
		Date:          time.Now(),
		Notes:         payment.Notes,
	})
	inv.PaidAmount = inv.PaidAmount.Add(payment.Amount)
	inv.BalanceAmount = inv.TotalAmount.Sub(inv.PaidAmount)
	if inv.BalanceAmount.IsPositive() {
		inv.Status = domain.InvoiceStatusPartial
	} else {
		inv.Status = domain.InvoiceStatusPaid
	}

	if err := s.invoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}

	s.propagatePaymentStatus(ctx, inv)
	s.notifyPayment(ctx, inv, payment.Amount)
	return inv, nil
}

func (s *invoiceService) UpdateStatus(ctx context.Context, actor authz.Principal, id int64, status domain.InvoiceStatus) (*domain.Invoice, error) {
	inv, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, inv.CustomerID, inv.VendorID, authz.OpInvoiceUpdateStatus); err != nil {
		return nil, err
	}
	switch status {
	case domain.InvoiceStatusSent, domain.InvoiceStatusCancelled:
	default:
		return nil, domain.NewValidationError("invoice status can only be set to sent or cancelled; payment statuses are derived")
	}
	if inv.Status == domain.InvoiceStatusPaid || inv.Status == domain.InvoiceStatusCancelled {
		return nil, domain.NewConflictError("invoice %s cannot change status from %s", inv.Number, inv.Status)
	}

	inv.Status = status
	if err := s.invoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// propagatePaymentStatus mirrors the invoice's payment state onto its order.
// Best-effort: the invoice stays the source of truth.
func (s *invoiceService) propagatePaymentStatus(ctx context.Context, inv *domain.Invoice) {
	var ps domain.PaymentStatus
	switch inv.Status {
	case domain.InvoiceStatusPaid:
		ps = domain.PaymentStatusPaid
	case domain.InvoiceStatusPartial:
		ps = domain.PaymentStatusPartial
	default:
		return
	}

	switch inv.OrderKind {
	case domain.OrderKindRental:
		o, err := s.orderRepo.GetByID(ctx, inv.OrderID)
		if err == nil {
			o.PaymentStatus = ps
			err = s.orderRepo.Update(ctx, o)
		}
		if err != nil {
			logger.Error("Failed to propagate payment status to order", "invoice", inv.Number, "error", err)
		}
	case domain.OrderKindSale:
		so, err := s.saleOrderRepo.GetByID(ctx, inv.OrderID)
		if err == nil {
			so.PaymentStatus = ps
			err = s.saleOrderRepo.Update(ctx, so)
		}
		if err != nil {
			logger.Error("Failed to propagate payment status to sale order", "invoice", inv.Number, "error", err)
		}
	}
}

func (s *invoiceService) notifyIssued(ctx context.Context, inv *domain.Invoice) {
	customer, _ := s.userRepo.GetByID(ctx, inv.CustomerID)
	if customer != nil {
		if err := s.emailSvc.SendInvoiceIssued(ctx, customer.Email, inv.Number, inv.TotalAmount); err != nil {
			logger.Error("Failed to send invoice-issued email", "invoice", inv.Number, "error", err)
		}
	}
}

func (s *invoiceService) notifyPayment(ctx context.Context, inv *domain.Invoice, amount decimal.Decimal) {
	customer, _ := s.userRepo.GetByID(ctx, inv.CustomerID)
	if customer != nil {
		if err := s.emailSvc.SendPaymentReceived(ctx, customer.Email, inv.Number, amount, inv.BalanceAmount); err != nil {
			logger.Error("Failed to send payment-received email", "invoice", inv.Number, "error", err)
		}
	}
}
