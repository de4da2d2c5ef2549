package service

import (
	"time"

	"github.com/shopspring/decimal"

	"rentmarket-backend/internal/domain"
	"rentmarket-backend/internal/pricing"
)

// NewSaleOrderMirror denormalizes a rental order into the sale-order
// collection for unified downstream reporting. Stock stays untouched; the
// rental reservation already holds it. Used at conversion time and by the
// nightly reconciliation job that recreates missing mirrors.
func NewSaleOrderMirror(order *domain.Order, number string, now time.Time) *domain.SaleOrder {
	items := make([]domain.LineItem, len(order.Items))
	copy(items, order.Items)
	for i := range items {
		items[i].DeliveryDate = items[i].RentalStart
	}

	return &domain.SaleOrder{
		Number:         number,
		LinkedOrderID:  &order.ID,
		QuotationID:    &order.QuotationID,
		CustomerID:     order.CustomerID,
		VendorID:       order.VendorID,
		Items:          items,
		Subtotal:       order.Subtotal,
		TaxRate:        effectiveRate(order.TaxAmount, order.Subtotal, order.DiscountAmount),
		TaxAmount:      order.TaxAmount,
		DiscountAmount: order.DiscountAmount,
		TotalAmount:    order.TotalAmount,
		Status:         domain.SaleOrderStatusConfirmed,
		PaymentStatus:  order.PaymentStatus,
		ConfirmedAt:    &now,
	}
}

func effectiveRate(taxAmount, subtotal, discount decimal.Decimal) decimal.Decimal {
	base := subtotal.Sub(discount)
	if !base.IsPositive() {
		return pricing.DefaultTaxRate
	}
	return taxAmount.Div(base).Mul(decimal.NewFromInt(100)).Round(2)
}
