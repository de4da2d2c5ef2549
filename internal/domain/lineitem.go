package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type DurationUnit string

const (
	DurationUnitHour DurationUnit = "hour"
	DurationUnitDay  DurationUnit = "day"
	DurationUnitWeek DurationUnit = "week"
)

// RentalDuration is the billed duration of a rental line, e.g. {3, day}.
type RentalDuration struct {
	Value int          `json:"value"`
	Unit  DurationUnit `json:"unit"`
}

type LineItemStatus string

const (
	LineItemStatusPending      LineItemStatus = "pending"
	LineItemStatusWithCustomer LineItemStatus = "with_customer"
)

type DiscountType string

const (
	DiscountTypeCoupon  DiscountType = "coupon"
	DiscountTypePromo   DiscountType = "promo"
	DiscountTypeLoyalty DiscountType = "loyalty"
)

// LineItem is embedded in quotations, orders, sale orders and invoices.
// Category and tax rate are denormalized at creation time so later catalog
// edits do not shift the tax on an existing document.
type LineItem struct {
	ProductID    int64           `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Category     string          `json:"category"`
	Quantity     int             `json:"quantity"`
	RentalStart  *time.Time      `json:"rental_start,omitempty"`
	RentalEnd    *time.Time      `json:"rental_end,omitempty"`
	Duration     RentalDuration  `json:"duration"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	Status       LineItemStatus  `json:"status,omitempty"`
	// DeliveryDate is set on sale-order items mirrored from a rental order
	// (the rental start date doubles as the expected delivery date).
	DeliveryDate *time.Time `json:"delivery_date,omitempty"`
	// RentalPeriod is a display string denormalized onto invoice items.
	RentalPeriod string `json:"rental_period,omitempty"`
}
