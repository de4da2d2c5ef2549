package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"rentmarket-backend/internal/domain"
)

func TestInventoryCheckAvailability(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	at := func(d int) time.Time { return base.AddDate(0, 0, d) }

	svc := NewInventoryService(&mockProductRepo{})
	product := &domain.Product{
		ID:             21,
		QuantityOnHand: 5,
		Reservations: []domain.Reservation{
			{ProductID: 21, OrderID: 1, Quantity: 2, StartDate: at(0), EndDate: at(3)},
			{ProductID: 21, OrderID: 2, Quantity: 1, StartDate: at(2), EndDate: at(5)},
		},
	}

	t.Run("Overlapping holds reduce availability", func(t *testing.T) {
		// Days 2-3 have both holds active: 5 - 3 = 2 left.
		assert.True(t, svc.CheckAvailability(product, 2, at(2), at(3)))
		assert.False(t, svc.CheckAvailability(product, 3, at(2), at(3)))
	})

	t.Run("A hold ending exactly at the start does not count", func(t *testing.T) {
		// From day 3 only the second hold is live: 5 - 1 = 4 left.
		assert.True(t, svc.CheckAvailability(product, 4, at(3), at(5)))
		assert.False(t, svc.CheckAvailability(product, 5, at(3), at(5)))
	})

	t.Run("Clear window has full stock", func(t *testing.T) {
		assert.True(t, svc.CheckAvailability(product, 5, at(6), at(9)))
	})

	t.Run("No stock means never available", func(t *testing.T) {
		empty := &domain.Product{QuantityOnHand: 0}
		assert.False(t, svc.CheckAvailability(empty, 1, at(0), at(1)))
	})
}

func TestInventoryReserve(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Successful hold", func(t *testing.T) {
		repo := &mockProductRepo{}
		repo.On("ReserveIfAvailable", mock.Anything, int64(21), int64(42), 2, base, base.AddDate(0, 0, 3)).
			Return(true, nil)

		svc := NewInventoryService(repo)
		assert.NoError(t, svc.Reserve(ctx, 21, 42, 2, base, base.AddDate(0, 0, 3)))
	})

	t.Run("Losing the race surfaces as unavailable", func(t *testing.T) {
		repo := &mockProductRepo{}
		repo.On("ReserveIfAvailable", mock.Anything, int64(21), int64(42), 2, base, base.AddDate(0, 0, 3)).
			Return(false, nil)

		svc := NewInventoryService(repo)
		err := svc.Reserve(ctx, 21, 42, 2, base, base.AddDate(0, 0, 3))
		assert.True(t, domain.IsUnavailable(err))
	})

	t.Run("Repository errors pass through", func(t *testing.T) {
		repo := &mockProductRepo{}
		repo.On("ReserveIfAvailable", mock.Anything, int64(21), int64(42), 2, base, base.AddDate(0, 0, 3)).
			Return(false, assert.AnError)

		svc := NewInventoryService(repo)
		err := svc.Reserve(ctx, 21, 42, 2, base, base.AddDate(0, 0, 3))
		assert.ErrorIs(t, err, assert.AnError)
		assert.False(t, domain.IsUnavailable(err))
	})
}

func TestInventoryRelease(t *testing.T) {
	repo := &mockProductRepo{}
	repo.On("ReleaseReservations", mock.Anything, int64(42)).Return(nil)

	svc := NewInventoryService(repo)
	assert.NoError(t, svc.Release(context.Background(), 42))
	repo.AssertExpectations(t)
}
