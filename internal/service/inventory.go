package service

import (
	"context"
	"time"

	"rentmarket-backend/internal/domain"
	"rentmarket-backend/internal/repository"
)

type inventoryService struct {
	productRepo repository.ProductRepository
}

func NewInventoryService(productRepo repository.ProductRepository) InventoryService {
	return &inventoryService{productRepo: productRepo}
}

// CheckAvailability sums the holds overlapping [start, end) and compares
// against quantity on hand. Two ranges overlap iff one starts before the
// other ends on both sides. Never errors; an unknown snapshot just reads
// as unavailable stock.
func (s *inventoryService) CheckAvailability(product *domain.Product, quantity int, start, end time.Time) bool {
	reserved := 0
	for _, r := range product.Reservations {
		if r.Overlaps(start, end) {
			reserved += r.Quantity
		}
	}
	return product.QuantityOnHand-reserved >= quantity
}

// Reserve records a hold under orderID. The check and the write are one
// atomic repository call, so two concurrent conversions cannot both take
// the last unit.
func (s *inventoryService) Reserve(ctx context.Context, productID, orderID int64, quantity int, start, end time.Time) error {
	ok, err := s.productRepo.ReserveIfAvailable(ctx, productID, orderID, quantity, start, end)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NewUnavailableError("product %d is not available in the requested quantity for the requested dates", productID)
	}
	return nil
}

func (s *inventoryService) Release(ctx context.Context, orderID int64) error {
	return s.productRepo.ReleaseReservations(ctx, orderID)
}
