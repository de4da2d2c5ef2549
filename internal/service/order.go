package service

import (
	"context"
	"time"

	"rentmarket-backend/internal/authz"
	"rentmarket-backend/internal/domain"
	"rentmarket-backend/internal/logger"
	"rentmarket-backend/internal/repository"
)

type orderService struct {
	orderRepo  repository.OrderRepository
	pickupRepo repository.PickupRepository
	userRepo   repository.UserRepository
	inventory  InventoryService
	emailSvc   EmailService
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	pickupRepo repository.PickupRepository,
	userRepo repository.UserRepository,
	inventory InventoryService,
	emailSvc EmailService,
) OrderService {
	return &orderService{
		orderRepo:  orderRepo,
		pickupRepo: pickupRepo,
		userRepo:   userRepo,
		inventory:  inventory,
		emailSvc:   emailSvc,
	}
}

func (s *orderService) Get(ctx context.Context, actor authz.Principal, id int64) (*domain.Order, error) {
	o, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, o.CustomerID, o.VendorID, authz.OpOrderRead); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *orderService) List(ctx context.Context, actor authz.Principal, status string, page, pageSize int32) ([]domain.Order, int32, error) {
	switch actor.Role {
	case domain.RoleVendor:
		return s.orderRepo.ListByVendor(ctx, actor.ID, status, page, pageSize)
	case domain.RoleAdmin:
		return s.orderRepo.ListAll(ctx, status, page, pageSize)
	default:
		return s.orderRepo.ListByCustomer(ctx, actor.ID, status, page, pageSize)
	}
}

func (s *orderService) UpdateStatus(ctx context.Context, actor authz.Principal, id int64, status domain.OrderStatus, notes string) (*domain.Order, error) {
	o, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, o.CustomerID, o.VendorID, authz.OpOrderUpdateStatus); err != nil {
		return nil, err
	}
	if status == domain.OrderStatusCancelled {
		return nil, domain.NewValidationError("use the cancel operation to cancel an order")
	}
	if !o.Status.CanTransitionTo(status) {
		return nil, domain.NewConflictError("order %s cannot move from %s to %s", o.Number, o.Status, status)
	}

	o.Status = status
	if status == domain.OrderStatusPickedUp {
		now := time.Now()
		o.PickupDate = &now
		for i := range o.Items {
			o.Items[i].Status = domain.LineItemStatusWithCustomer
		}
	}
	if err := s.orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	// The pickup record is an audit trail; losing it never fails the
	// status change itself.
	if status == domain.OrderStatusPickedUp {
		pickup := &domain.Pickup{
			OrderID:  o.ID,
			VendorID: o.VendorID,
			PickedBy: actor.ID,
			Notes:    notes,
		}
		if err := s.pickupRepo.Create(ctx, pickup); err != nil {
			logger.Error("Failed to record pickup", "order", o.Number, "error", err)
		}
	}

	s.notifyStatusChanged(ctx, o)
	return o, nil
}

func (s *orderService) Cancel(ctx context.Context, actor authz.Principal, id int64, reason string) (*domain.Order, error) {
	o, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, o.CustomerID, o.VendorID, authz.OpOrderCancel); err != nil {
		return nil, err
	}
	if !o.CanBeCancelled() {
		return nil, domain.NewConflictError("order %s cannot be cancelled from status %s", o.Number, o.Status)
	}

	o.Status = domain.OrderStatusCancelled
	if err := s.orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	// Cancelled orders give their stock back immediately.
	if err := s.inventory.Release(ctx, o.ID); err != nil {
		logger.Error("Failed to release reservations for cancelled order", "order", o.Number, "error", err)
	}

	logger.Info("Order cancelled", "order", o.Number, "by", actor.ID, "reason", reason)
	s.notifyStatusChanged(ctx, o)
	return o, nil
}

func (s *orderService) UpdatePaymentStatus(ctx context.Context, actor authz.Principal, id int64, status domain.PaymentStatus) (*domain.Order, error) {
	o, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, o.CustomerID, o.VendorID, authz.OpOrderUpdatePayment); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, domain.NewValidationError("unknown payment status %q", status)
	}

	o.PaymentStatus = status
	if err := s.orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *orderService) notifyStatusChanged(ctx context.Context, o *domain.Order) {
	customer, _ := s.userRepo.GetByID(ctx, o.CustomerID)
	if customer != nil {
		if err := s.emailSvc.SendOrderStatusChanged(ctx, customer.Email, o.Number, o.Status); err != nil {
			logger.Error("Failed to send order-status email", "order", o.Number, "error", err)
		}
	}
}
