package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"rentmarket-backend/internal/domain"
)

type orderFixture struct {
	orders    *mockOrderRepo
	pickups   *mockPickupRepo
	users     *mockUserRepo
	inventory *mockInventory
	svc       OrderService
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		orders:    &mockOrderRepo{},
		pickups:   &mockPickupRepo{},
		users:     &mockUserRepo{},
		inventory: &mockInventory{},
	}
	f.users.On("GetByID", mock.Anything, mock.Anything).
		Return(&domain.User{ID: 7, Name: "Customer", Email: "customer@example.com"}, nil).Maybe()
	f.svc = NewOrderService(f.orders, f.pickups, f.users, f.inventory, newMockEmail())
	return f
}

func confirmedOrder() *domain.Order {
	start, end := rentalWindow()
	return &domain.Order{
		ID:         42,
		Number:     "ORD000042",
		CustomerID: customerActor.ID,
		VendorID:   vendorActor.ID,
		Items: []domain.LineItem{{
			ProductID:   21,
			ProductName: "Projector",
			Quantity:    2,
			RentalStart: &start,
			RentalEnd:   &end,
			Duration:    domain.RentalDuration{Value: 3, Unit: domain.DurationUnitDay},
			TotalPrice:  decimal.NewFromInt(600),
			Status:      domain.LineItemStatusPending,
		}},
		TotalAmount:   decimal.NewFromInt(708),
		Status:        domain.OrderStatusConfirmed,
		PaymentStatus: domain.PaymentStatusPending,
	}
}

func TestOrderUpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("Vendor advances the pipeline one stage", func(t *testing.T) {
		f := newOrderFixture()
		o := confirmedOrder()
		f.orders.On("GetByID", mock.Anything, o.ID).Return(o, nil)
		f.orders.On("Update", mock.Anything, o).Return(nil)

		out, err := f.svc.UpdateStatus(ctx, vendorActor, o.ID, domain.OrderStatusProcessing, "")
		assert.NoError(t, err)
		assert.Equal(t, domain.OrderStatusProcessing, out.Status)
	})

	t.Run("Pickup stamps the date, items and audit record", func(t *testing.T) {
		f := newOrderFixture()
		o := confirmedOrder()
		o.Status = domain.OrderStatusProcessing
		f.orders.On("GetByID", mock.Anything, o.ID).Return(o, nil)
		f.orders.On("Update", mock.Anything, o).Return(nil)
		f.pickups.On("Create", mock.Anything, mock.AnythingOfType("*domain.Pickup")).Return(nil)

		out, err := f.svc.UpdateStatus(ctx, vendorActor, o.ID, domain.OrderStatusPickedUp, "handed over at gate 2")
		assert.NoError(t, err)
		assert.Equal(t, domain.OrderStatusPickedUp, out.Status)
		assert.NotNil(t, out.PickupDate)
		for _, it := range out.Items {
			assert.Equal(t, domain.LineItemStatusWithCustomer, it.Status)
		}

		f.pickups.AssertCalled(t, "Create", mock.Anything, mock.MatchedBy(func(p *domain.Pickup) bool {
			return p.OrderID == o.ID && p.PickedBy == vendorActor.ID && p.Notes == "handed over at gate 2"
		}))
	})

	t.Run("Failed pickup record does not fail the transition", func(t *testing.T) {
		f := newOrderFixture()
		o := confirmedOrder()
		o.Status = domain.OrderStatusProcessing
		f.orders.On("GetByID", mock.Anything, o.ID).Return(o, nil)
		f.orders.On("Update", mock.Anything, o).Return(nil)
		f.pickups.On("Create", mock.Anything, mock.Anything).Return(assert.AnError)

		out, err := f.svc.UpdateStatus(ctx, vendorActor, o.ID, domain.OrderStatusPickedUp, "")
		assert.NoError(t, err)
		assert.Equal(t, domain.OrderStatusPickedUp, out.Status)
	})

	t.Run("Skipping a stage is a conflict", func(t *testing.T) {
		f := newOrderFixture()
		o := confirmedOrder()
		f.orders.On("GetByID", mock.Anything, o.ID).Return(o, nil)

		_, err := f.svc.UpdateStatus(ctx, vendorActor, o.ID, domain.OrderStatusActive, "")
		assert.True(t, domain.IsConflict(err))
		f.orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Cancelled is not reachable through status updates", func(t *testing.T) {
		f := newOrderFixture()
		o := confirmedOrder()
		f.orders.On("GetByID", mock.Anything, o.ID).Return(o, nil)

		_, err := f.svc.UpdateStatus(ctx, vendorActor, o.ID, domain.OrderStatusCancelled, "")
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("Customer may not drive fulfillment", func(t *testing.T) {
		f := newOrderFixture()
		o := confirmedOrder()
		f.orders.On("GetByID", mock.Anything, o.ID).Return(o, nil)

		_, err := f.svc.UpdateStatus(ctx, customerActor, o.ID, domain.OrderStatusProcessing, "")
		assert.True(t, domain.IsAuthorization(err))
	})
}

func TestOrderCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("Cancellation releases the holds", func(t *testing.T) {
		f := newOrderFixture()
		o := confirmedOrder()
		f.orders.On("GetByID", mock.Anything, o.ID).Return(o, nil)
		f.orders.On("Update", mock.Anything, o).Return(nil)
		f.inventory.On("Release", mock.Anything, o.ID).Return(nil)

		out, err := f.svc.Cancel(ctx, customerActor, o.ID, "project postponed")
		assert.NoError(t, err)
		assert.Equal(t, domain.OrderStatusCancelled, out.Status)
		f.inventory.AssertCalled(t, "Release", mock.Anything, o.ID)
	})

	t.Run("Equipment with the customer cannot be cancelled", func(t *testing.T) {
		f := newOrderFixture()
		o := confirmedOrder()
		o.Status = domain.OrderStatusActive
		f.orders.On("GetByID", mock.Anything, o.ID).Return(o, nil)

		_, err := f.svc.Cancel(ctx, customerActor, o.ID, "")
		assert.True(t, domain.IsConflict(err))
		f.inventory.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
	})

	t.Run("Failed release is logged, not surfaced", func(t *testing.T) {
		f := newOrderFixture()
		o := confirmedOrder()
		f.orders.On("GetByID", mock.Anything, o.ID).Return(o, nil)
		f.orders.On("Update", mock.Anything, o).Return(nil)
		f.inventory.On("Release", mock.Anything, o.ID).Return(assert.AnError)

		out, err := f.svc.Cancel(ctx, customerActor, o.ID, "")
		assert.NoError(t, err)
		assert.Equal(t, domain.OrderStatusCancelled, out.Status)
	})

	t.Run("Vendor may not cancel the customer's order", func(t *testing.T) {
		f := newOrderFixture()
		o := confirmedOrder()
		f.orders.On("GetByID", mock.Anything, o.ID).Return(o, nil)

		_, err := f.svc.Cancel(ctx, vendorActor, o.ID, "")
		assert.True(t, domain.IsAuthorization(err))
	})
}

func TestOrderUpdatePaymentStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("Vendor records payment progress", func(t *testing.T) {
		f := newOrderFixture()
		o := confirmedOrder()
		f.orders.On("GetByID", mock.Anything, o.ID).Return(o, nil)
		f.orders.On("Update", mock.Anything, o).Return(nil)

		out, err := f.svc.UpdatePaymentStatus(ctx, vendorActor, o.ID, domain.PaymentStatusPaid)
		assert.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusPaid, out.PaymentStatus)
	})

	t.Run("Unknown status rejected", func(t *testing.T) {
		f := newOrderFixture()
		o := confirmedOrder()
		f.orders.On("GetByID", mock.Anything, o.ID).Return(o, nil)

		_, err := f.svc.UpdatePaymentStatus(ctx, vendorActor, o.ID, domain.PaymentStatus("settled"))
		assert.True(t, domain.IsValidation(err))
	})
}

func TestOrderGet(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()
	o := confirmedOrder()
	f.orders.On("GetByID", mock.Anything, o.ID).Return(o, nil)

	_, err := f.svc.Get(ctx, customerActor, o.ID)
	assert.NoError(t, err)
	_, err = f.svc.Get(ctx, vendorActor, o.ID)
	assert.NoError(t, err)

	stranger := customerActor
	stranger.ID = 1000
	_, err = f.svc.Get(ctx, stranger, o.ID)
	assert.True(t, domain.IsAuthorization(err))
}
