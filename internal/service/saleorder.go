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

type saleOrderService struct {
	saleOrderRepo repository.SaleOrderRepository
	productRepo   repository.ProductRepository
	userRepo      repository.UserRepository
	seqRepo       repository.SequenceRepository
	emailSvc      EmailService
}

func NewSaleOrderService(
	saleOrderRepo repository.SaleOrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	seqRepo repository.SequenceRepository,
	emailSvc EmailService,
) SaleOrderService {
	return &saleOrderService{
		saleOrderRepo: saleOrderRepo,
		productRepo:   productRepo,
		userRepo:      userRepo,
		seqRepo:       seqRepo,
		emailSvc:      emailSvc,
	}
}

func (s *saleOrderService) CreateStandalone(ctx context.Context, actor authz.Principal, input CreateSaleOrderInput) (*domain.SaleOrder, error) {
	if err := authz.Authorize(actor, input.CustomerID, actor.ID, authz.OpSaleOrderCreate); err != nil {
		return nil, err
	}
	if input.CustomerID == 0 {
		return nil, domain.NewValidationError("customer is required")
	}
	if len(input.Items) == 0 {
		return nil, domain.NewValidationError("sale order must contain at least one item")
	}

	var vendorID int64
	items := make([]domain.LineItem, 0, len(input.Items))
	for _, in := range input.Items {
		if in.Quantity < 1 {
			return nil, domain.NewValidationError("item quantity must be at least 1")
		}
		product, err := s.productRepo.GetByID(ctx, in.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.Sellable {
			return nil, domain.NewValidationError("product %q is not for sale", product.Name)
		}
		if product.QuantityOnHand < in.Quantity {
			return nil, domain.NewUnavailableError("product %q has only %d units in stock", product.Name, product.QuantityOnHand)
		}
		if vendorID == 0 {
			vendorID = product.VendorID
		} else if product.VendorID != vendorID {
			return nil, domain.NewValidationError("all items in a sale order must belong to one vendor")
		}

		items = append(items, domain.LineItem{
			ProductID:    product.ID,
			ProductName:  product.Name,
			Category:     product.Category,
			Quantity:     in.Quantity,
			Duration:     domain.RentalDuration{Value: 1, Unit: domain.DurationUnitDay},
			PricePerUnit: product.SalePrice,
			TotalPrice:   product.SalePrice.Mul(decimalFromInt(in.Quantity)),
			TaxRate:      pricing.RateForProduct(product),
			Status:       domain.LineItemStatusPending,
		})
	}
	if actor.Role == domain.RoleVendor && vendorID != actor.ID {
		return nil, domain.NewAuthorizationError("vendors may only sell their own products")
	}

	totals := pricing.Aggregate(items, input.DiscountAmount)

	// Sales take stock out immediately, unlike rentals which only hold it.
	// Roll back earlier decrements if a later one loses the race.
	adjusted := make([]domain.LineItem, 0, len(items))
	for _, it := range items {
		ok, err := s.productRepo.AdjustStock(ctx, it.ProductID, -it.Quantity)
		if err == nil && !ok {
			err = domain.NewUnavailableError("product %q went out of stock", it.ProductName)
		}
		if err != nil {
			for _, done := range adjusted {
				if _, restoreErr := s.productRepo.AdjustStock(ctx, done.ProductID, done.Quantity); restoreErr != nil {
					logger.Error("Failed to restore stock after aborted sale", "product_id", done.ProductID, "error", restoreErr)
				}
			}
			return nil, err
		}
		adjusted = append(adjusted, it)
	}

	seq, err := s.seqRepo.Next(ctx, repository.SeqSaleOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate sale order number: %w", err)
	}

	so := &domain.SaleOrder{
		Number:         fmt.Sprintf("SO%06d", seq),
		CustomerID:     input.CustomerID,
		VendorID:       vendorID,
		Items:          items,
		Subtotal:       totals.Subtotal,
		TaxRate:        totals.EffectiveTaxRate,
		TaxAmount:      totals.TaxAmount,
		ShippingAmount: input.ShippingAmount,
		DiscountAmount: input.DiscountAmount,
		TotalAmount:    totals.TotalAmount.Add(input.ShippingAmount),
		Status:         domain.SaleOrderStatusDraft,
		PaymentStatus:  domain.PaymentStatusPending,
	}
	if err := s.saleOrderRepo.Create(ctx, so); err != nil {
		return nil, err
	}
	return so, nil
}

func (s *saleOrderService) Get(ctx context.Context, actor authz.Principal, id int64) (*domain.SaleOrder, error) {
	so, err := s.saleOrderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, so.CustomerID, so.VendorID, authz.OpSaleOrderRead); err != nil {
		return nil, err
	}
	return so, nil
}

func (s *saleOrderService) List(ctx context.Context, actor authz.Principal, status string, page, pageSize int32) ([]domain.SaleOrder, int32, error) {
	switch actor.Role {
	case domain.RoleVendor:
		return s.saleOrderRepo.ListByVendor(ctx, actor.ID, status, page, pageSize)
	case domain.RoleAdmin:
		return s.saleOrderRepo.ListAll(ctx, status, page, pageSize)
	default:
		return s.saleOrderRepo.ListByCustomer(ctx, actor.ID, status, page, pageSize)
	}
}

func (s *saleOrderService) UpdateStatus(ctx context.Context, actor authz.Principal, id int64, status domain.SaleOrderStatus) (*domain.SaleOrder, error) {
	so, err := s.saleOrderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, so.CustomerID, so.VendorID, authz.OpSaleOrderUpdateStatus); err != nil {
		return nil, err
	}
	if status == domain.SaleOrderStatusCancelled {
		return nil, domain.NewValidationError("use the cancel operation to cancel a sale order")
	}
	if !so.Status.CanTransitionTo(status) {
		return nil, domain.NewConflictError("sale order %s cannot move from %s to %s", so.Number, so.Status, status)
	}
	if status == domain.SaleOrderStatusRefunded && !so.CanBeRefunded() {
		return nil, domain.NewConflictError("sale order %s must be delivered and fully paid before refund", so.Number)
	}

	now := time.Now()
	so.Status = status
	switch status {
	case domain.SaleOrderStatusConfirmed:
		so.ConfirmedAt = &now
	case domain.SaleOrderStatusShipped:
		so.ShippedAt = &now
	case domain.SaleOrderStatusDelivered:
		so.DeliveredAt = &now
	case domain.SaleOrderStatusRefunded:
		so.PaymentStatus = domain.PaymentStatusRefunded
	}
	if err := s.saleOrderRepo.Update(ctx, so); err != nil {
		return nil, err
	}
	return so, nil
}

func (s *saleOrderService) Cancel(ctx context.Context, actor authz.Principal, id int64, reason string) (*domain.SaleOrder, error) {
	if reason == "" {
		return nil, domain.NewValidationError("cancellation reason is required")
	}
	so, err := s.saleOrderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, so.CustomerID, so.VendorID, authz.OpSaleOrderCancel); err != nil {
		return nil, err
	}
	if !so.CanBeCancelled() {
		return nil, domain.NewConflictError("sale order %s cannot be cancelled from status %s", so.Number, so.Status)
	}

	now := time.Now()
	so.Status = domain.SaleOrderStatusCancelled
	so.CancelledAt = &now
	so.CancelReason = reason
	if err := s.saleOrderRepo.Update(ctx, so); err != nil {
		return nil, err
	}

	// Standalone sales deducted stock at creation; give it back. Mirrors
	// never touched stock, their rental reservation covers it.
	if so.LinkedOrderID == nil {
		for _, it := range so.Items {
			if _, err := s.productRepo.AdjustStock(ctx, it.ProductID, it.Quantity); err != nil {
				logger.Error("Failed to restore stock for cancelled sale", "sale_order", so.Number, "product_id", it.ProductID, "error", err)
			}
		}
	}

	logger.Info("Sale order cancelled", "sale_order", so.Number, "by", actor.ID, "reason", reason)
	return so, nil
}

func decimalFromInt(v int) decimal.Decimal {
	return decimal.NewFromInt(int64(v))
}
