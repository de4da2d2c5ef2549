package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"rentmarket-backend/internal/authz"
	"rentmarket-backend/internal/domain"
	"rentmarket-backend/internal/logger"
	"rentmarket-backend/internal/pricing"
	"rentmarket-backend/internal/repository"
)

// QuotationPolicy holds the negotiation knobs wired from configuration.
type QuotationPolicy struct {
	// ValidityDays is the quotation lifetime from creation to expiry.
	ValidityDays int
	// FreezeTaxRateDuringNegotiation keeps the blended tax rate captured at
	// creation for all counter-offer recomputation, instead of re-deriving
	// per-item category tax each round. Matches the historically observed
	// behavior; set false to recompute per item.
	FreezeTaxRateDuringNegotiation bool
}

type quotationService struct {
	quotationRepo repository.QuotationRepository
	orderRepo     repository.OrderRepository
	saleOrderRepo repository.SaleOrderRepository
	productRepo   repository.ProductRepository
	userRepo      repository.UserRepository
	seqRepo       repository.SequenceRepository
	inventory     InventoryService
	emailSvc      EmailService
	policy        QuotationPolicy
}

func NewQuotationService(
	quotationRepo repository.QuotationRepository,
	orderRepo repository.OrderRepository,
	saleOrderRepo repository.SaleOrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	seqRepo repository.SequenceRepository,
	inventory InventoryService,
	emailSvc EmailService,
	policy QuotationPolicy,
) QuotationService {
	if policy.ValidityDays <= 0 {
		policy.ValidityDays = 7
	}
	return &quotationService{
		quotationRepo: quotationRepo,
		orderRepo:     orderRepo,
		saleOrderRepo: saleOrderRepo,
		productRepo:   productRepo,
		userRepo:      userRepo,
		seqRepo:       seqRepo,
		inventory:     inventory,
		emailSvc:      emailSvc,
		policy:        policy,
	}
}

func (s *quotationService) Create(ctx context.Context, actor authz.Principal, input CreateQuotationInput) (*domain.Quotation, error) {
	if err := authz.Authorize(actor, actor.ID, 0, authz.OpQuotationCreate); err != nil {
		return nil, err
	}
	if len(input.Items) == 0 {
		return nil, domain.NewValidationError("quotation must contain at least one item")
	}

	// Validate and price every line before creating anything; a single
	// failing item fails the whole operation.
	var vendorID int64
	items := make([]domain.LineItem, 0, len(input.Items))
	for _, in := range input.Items {
		if in.Quantity < 1 {
			return nil, domain.NewValidationError("item quantity must be at least 1")
		}
		if !in.RentalStart.Before(in.RentalEnd) {
			return nil, domain.NewValidationError("rental start date must be before end date")
		}
		product, err := s.productRepo.GetByID(ctx, in.ProductID)
		if err != nil {
			return nil, err
		}
		if !s.inventory.CheckAvailability(product, in.Quantity, in.RentalStart, in.RentalEnd) {
			return nil, domain.NewUnavailableError("product %q is not available in the requested quantity for the requested dates", product.Name)
		}
		if vendorID == 0 {
			vendorID = product.VendorID
		}

		priced, err := pricing.PriceLineItem(product, in.Quantity, in.RentalStart, in.RentalEnd)
		if err != nil {
			return nil, err
		}
		start, end := in.RentalStart, in.RentalEnd
		items = append(items, domain.LineItem{
			ProductID:    product.ID,
			ProductName:  product.Name,
			Category:     product.Category,
			Quantity:     in.Quantity,
			RentalStart:  &start,
			RentalEnd:    &end,
			Duration:     priced.Duration,
			PricePerUnit: priced.PricePerUnit,
			TotalPrice:   priced.TotalPrice,
			TaxRate:      pricing.RateForProduct(product),
			Status:       domain.LineItemStatusPending,
		})
	}

	totals := pricing.Aggregate(items, input.DiscountAmount)

	seq, err := s.seqRepo.Next(ctx, repository.SeqQuotation)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate quotation number: %w", err)
	}

	now := time.Now()
	q := &domain.Quotation{
		Number:         fmt.Sprintf("QUO%06d", seq),
		CustomerID:     actor.ID,
		VendorID:       vendorID,
		Items:          items,
		Subtotal:       totals.Subtotal,
		TaxRate:        totals.EffectiveTaxRate,
		TaxAmount:      totals.TaxAmount,
		DiscountAmount: input.DiscountAmount,
		DiscountType:   input.DiscountType,
		TotalAmount:    totals.TotalAmount,
		Status:         domain.QuotationStatusDraft,
		Notes:          input.Notes,
		ValidUntil:     now.AddDate(0, 0, s.policy.ValidityDays),
	}
	if err := s.quotationRepo.Create(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *quotationService) Get(ctx context.Context, actor authz.Principal, id int64) (*domain.Quotation, error) {
	q, err := s.quotationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, q.CustomerID, q.VendorID, authz.OpQuotationRead); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *quotationService) List(ctx context.Context, actor authz.Principal, status string, page, pageSize int32) ([]domain.Quotation, int32, error) {
	switch actor.Role {
	case domain.RoleVendor:
		return s.quotationRepo.ListByVendor(ctx, actor.ID, status, page, pageSize)
	case domain.RoleAdmin:
		return s.quotationRepo.ListAll(ctx, status, page, pageSize)
	default:
		return s.quotationRepo.ListByCustomer(ctx, actor.ID, status, page, pageSize)
	}
}

func (s *quotationService) Submit(ctx context.Context, actor authz.Principal, id int64) (*domain.Quotation, error) {
	q, err := s.quotationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, q.CustomerID, q.VendorID, authz.OpQuotationSubmit); err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleAdmin && actor.ID != q.CustomerID {
		return nil, domain.NewAuthorizationError("only the owning customer may submit a quotation")
	}
	if q.Status != domain.QuotationStatusDraft {
		return nil, domain.NewConflictError("quotation %s cannot be submitted from status %s", q.Number, q.Status)
	}

	now := time.Now()
	if q.Expired(now) {
		q.Status = domain.QuotationStatusExpired
		if err := s.quotationRepo.Update(ctx, q); err != nil {
			return nil, err
		}
		return nil, domain.NewValidationError("quotation %s expired on %s", q.Number, q.ValidUntil.Format("2006-01-02"))
	}

	q.Status = domain.QuotationStatusPending
	if err := s.quotationRepo.Update(ctx, q); err != nil {
		return nil, err
	}

	s.notifySubmitted(ctx, q)
	return q, nil
}

func (s *quotationService) CounterOffer(ctx context.Context, actor authz.Principal, id int64, items []CounterOfferItem, notes string) (*domain.Quotation, error) {
	if len(items) == 0 {
		return nil, domain.NewValidationError("counter-offer must adjust at least one item price")
	}
	q, err := s.quotationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, q.CustomerID, q.VendorID, authz.OpQuotationCounter); err != nil {
		return nil, err
	}
	if q.Status != domain.QuotationStatusPending {
		return nil, domain.NewConflictError("quotation %s is not open for negotiation (status %s)", q.Number, q.Status)
	}

	// Only per-unit prices move; quantities, windows and durations stay as
	// originally quoted.
	priceByProduct := make(map[int64]decimal.Decimal, len(items))
	for _, it := range items {
		if it.PricePerUnit.IsNegative() {
			return nil, domain.NewValidationError("offered price must not be negative")
		}
		priceByProduct[it.ProductID] = it.PricePerUnit
	}

	newItems := make([]domain.LineItem, len(q.Items))
	copy(newItems, q.Items)
	for i := range newItems {
		if price, ok := priceByProduct[newItems[i].ProductID]; ok {
			newItems[i].PricePerUnit = price
			newItems[i].TotalPrice = price.
				Mul(decimal.NewFromInt(int64(newItems[i].Quantity))).
				Mul(decimal.NewFromInt(int64(newItems[i].Duration.Value)))
		}
	}

	subtotal := decimal.Zero
	for _, it := range newItems {
		subtotal = subtotal.Add(it.TotalPrice)
	}

	var taxAmount, totalAmount decimal.Decimal
	if s.policy.FreezeTaxRateDuringNegotiation {
		// The rate captured at creation stays fixed for the whole
		// negotiation; only the base moves.
		taxAmount = subtotal.Sub(q.DiscountAmount).Mul(q.TaxRate).Div(decimal.NewFromInt(100)).Round(2)
		totalAmount = subtotal.Sub(q.DiscountAmount).Add(taxAmount).Round(2)
	} else {
		totals := pricing.Aggregate(newItems, q.DiscountAmount)
		taxAmount = totals.TaxAmount
		totalAmount = totals.TotalAmount
		q.TaxRate = totals.EffectiveTaxRate
	}

	q.CounterOffers = append(q.CounterOffers, domain.CounterOffer{
		OfferedBy:     actor.ID,
		OfferedByRole: actor.Role,
		Items:         newItems,
		Subtotal:      subtotal,
		TaxAmount:     taxAmount,
		TotalAmount:   totalAmount,
		Notes:         notes,
		CreatedAt:     time.Now(),
	})
	q.Items = newItems
	q.Subtotal = subtotal
	q.TaxAmount = taxAmount
	q.TotalAmount = totalAmount
	// Status stays pending so the other party can respond.

	if err := s.quotationRepo.Update(ctx, q); err != nil {
		return nil, err
	}

	s.notifyCounterOffer(ctx, q, actor)
	return q, nil
}

func (s *quotationService) Approve(ctx context.Context, actor authz.Principal, id int64, vendorNotes string) (*domain.Quotation, error) {
	q, err := s.quotationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rel := actor.RelationshipTo(q.CustomerID, q.VendorID)
	customerAccepting := rel == authz.RelOwner && len(q.CounterOffers) > 0
	if !customerAccepting {
		if err := authz.Authorize(actor, q.CustomerID, q.VendorID, authz.OpQuotationApprove); err != nil {
			return nil, err
		}
	}
	if q.Status != domain.QuotationStatusPending {
		return nil, domain.NewConflictError("quotation %s cannot be approved from status %s", q.Number, q.Status)
	}

	// Availability can have shifted since creation; re-validate every item
	// at decision time.
	for _, it := range q.Items {
		if it.RentalStart == nil || it.RentalEnd == nil {
			continue
		}
		product, err := s.productRepo.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if !s.inventory.CheckAvailability(product, it.Quantity, *it.RentalStart, *it.RentalEnd) {
			return nil, domain.NewUnavailableError("product %q is no longer available for the requested dates", it.ProductName)
		}
	}

	now := time.Now()
	q.Status = domain.QuotationStatusApproved
	q.ApprovedAt = &now
	q.ApprovedBy = &actor.ID
	if rel == authz.RelVendor || rel == authz.RelAdmin {
		q.VendorNotes = vendorNotes
	}
	if err := s.quotationRepo.Update(ctx, q); err != nil {
		return nil, err
	}

	s.notifyApproved(ctx, q)
	return q, nil
}

func (s *quotationService) Reject(ctx context.Context, actor authz.Principal, id int64, reason string) (*domain.Quotation, error) {
	if reason == "" {
		return nil, domain.NewValidationError("rejection reason is required")
	}
	q, err := s.quotationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, q.CustomerID, q.VendorID, authz.OpQuotationReject); err != nil {
		return nil, err
	}
	if q.Status != domain.QuotationStatusPending {
		return nil, domain.NewConflictError("quotation %s cannot be rejected from status %s", q.Number, q.Status)
	}

	now := time.Now()
	q.Status = domain.QuotationStatusRejected
	q.RejectedAt = &now
	q.RejectionReason = reason
	if err := s.quotationRepo.Update(ctx, q); err != nil {
		return nil, err
	}

	s.notifyRejected(ctx, q, reason)
	return q, nil
}

func (s *quotationService) ConvertToOrder(ctx context.Context, actor authz.Principal, id int64, shippingAddress string) (*domain.Order, error) {
	q, err := s.quotationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, q.CustomerID, q.VendorID, authz.OpQuotationConvert); err != nil {
		return nil, err
	}
	if q.Status != domain.QuotationStatusApproved {
		return nil, domain.NewConflictError("quotation %s must be approved before conversion (status %s)", q.Number, q.Status)
	}
	if q.ConvertedToOrder != nil {
		return nil, domain.NewConflictError("quotation %s was already converted to order %d", q.Number, *q.ConvertedToOrder)
	}

	seq, err := s.seqRepo.Next(ctx, repository.SeqOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate order number: %w", err)
	}

	items := make([]domain.LineItem, len(q.Items))
	copy(items, q.Items)
	for i := range items {
		items[i].Status = domain.LineItemStatusPending
	}

	order := &domain.Order{
		Number:          fmt.Sprintf("ORD%06d", seq),
		QuotationID:     q.ID,
		CustomerID:      q.CustomerID,
		VendorID:        q.VendorID,
		Items:           items,
		Subtotal:        q.Subtotal,
		TaxAmount:       q.TaxAmount,
		DiscountAmount:  q.DiscountAmount,
		TotalAmount:     q.TotalAmount,
		ShippingAddress: shippingAddress,
		Status:          domain.OrderStatusConfirmed,
		PaymentStatus:   domain.PaymentStatusPending,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	// Place the holds; all-or-nothing. On any failure roll back the holds
	// already taken and the order shell.
	for _, it := range order.Items {
		if it.RentalStart == nil || it.RentalEnd == nil {
			continue
		}
		if err := s.inventory.Reserve(ctx, it.ProductID, order.ID, it.Quantity, *it.RentalStart, *it.RentalEnd); err != nil {
			if relErr := s.inventory.Release(ctx, order.ID); relErr != nil {
				logger.Error("Failed to release reservations after aborted conversion", "order_id", order.ID, "error", relErr)
			}
			if delErr := s.orderRepo.Delete(ctx, order.ID); delErr != nil {
				logger.Error("Failed to delete order after aborted conversion", "order_id", order.ID, "error", delErr)
			}
			return nil, err
		}
	}

	q.Status = domain.QuotationStatusConverted
	q.ConvertedToOrder = &order.ID
	if err := s.quotationRepo.Update(ctx, q); err != nil {
		return nil, err
	}

	// Mirror as a sale order for unified downstream reporting. Best-effort:
	// the nightly reconciliation job recreates missing mirrors.
	if err := s.createSaleOrderMirror(ctx, order); err != nil {
		logger.Error("Failed to create sale-order mirror; reconciliation will retry",
			"order_id", order.ID, "order_number", order.Number, "error", err)
	}

	return order, nil
}

func (s *quotationService) createSaleOrderMirror(ctx context.Context, order *domain.Order) error {
	seq, err := s.seqRepo.Next(ctx, repository.SeqSaleOrder)
	if err != nil {
		return err
	}
	mirror := NewSaleOrderMirror(order, fmt.Sprintf("SO%06d", seq), time.Now())
	return s.saleOrderRepo.Create(ctx, mirror)
}

func (s *quotationService) Delete(ctx context.Context, actor authz.Principal, id int64) error {
	q, err := s.quotationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.Authorize(actor, q.CustomerID, q.VendorID, authz.OpQuotationDelete); err != nil {
		return err
	}
	if q.Status != domain.QuotationStatusDraft {
		return domain.NewConflictError("only draft quotations can be deleted (status %s)", q.Status)
	}
	return s.quotationRepo.Delete(ctx, id)
}

func (s *quotationService) notifySubmitted(ctx context.Context, q *domain.Quotation) {
	vendor, _ := s.userRepo.GetByID(ctx, q.VendorID)
	customer, _ := s.userRepo.GetByID(ctx, q.CustomerID)
	if vendor != nil && customer != nil {
		if err := s.emailSvc.SendQuotationSubmitted(ctx, vendor.Email, customer.Name, q.Number); err != nil {
			logger.Error("Failed to send quotation-submitted email", "quotation", q.Number, "error", err)
		}
	}
}

func (s *quotationService) notifyCounterOffer(ctx context.Context, q *domain.Quotation, actor authz.Principal) {
	// Notify the party that did not make the offer.
	recipientID := q.CustomerID
	if actor.ID == q.CustomerID {
		recipientID = q.VendorID
	}
	recipient, _ := s.userRepo.GetByID(ctx, recipientID)
	if recipient != nil {
		if err := s.emailSvc.SendCounterOfferReceived(ctx, recipient.Email, q.Number); err != nil {
			logger.Error("Failed to send counter-offer email", "quotation", q.Number, "error", err)
		}
	}
}

func (s *quotationService) notifyApproved(ctx context.Context, q *domain.Quotation) {
	customer, _ := s.userRepo.GetByID(ctx, q.CustomerID)
	if customer != nil {
		if err := s.emailSvc.SendQuotationApproved(ctx, customer.Email, q.Number); err != nil {
			logger.Error("Failed to send quotation-approved email", "quotation", q.Number, "error", err)
		}
	}
}

func (s *quotationService) notifyRejected(ctx context.Context, q *domain.Quotation, reason string) {
	customer, _ := s.userRepo.GetByID(ctx, q.CustomerID)
	if customer != nil {
		if err := s.emailSvc.SendQuotationRejected(ctx, customer.Email, q.Number, reason); err != nil {
			logger.Error("Failed to send quotation-rejected email", "quotation", q.Number, "error", err)
		}
	}
}
