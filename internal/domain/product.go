package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the projected view of the external catalog that pricing and
// inventory need: pricing tiers, stock count, category and the reservation
// list. Catalog CRUD is owned by another service.
type Product struct {
	ID              int64            `json:"id"`
	VendorID        int64            `json:"vendor_id"`
	Name            string           `json:"name"`
	Category        string           `json:"category"`
	HourlyRate      decimal.Decimal  `json:"hourly_rate"`
	DailyRate       decimal.Decimal  `json:"daily_rate"`
	WeeklyRate      decimal.Decimal  `json:"weekly_rate"`
	SalePrice       decimal.Decimal  `json:"sale_price"`
	Sellable        bool             `json:"sellable"`
	QuantityOnHand  int              `json:"quantity_on_hand"`
	TaxRateOverride *decimal.Decimal `json:"tax_rate_override,omitempty"`
	Reservations    []Reservation    `json:"reservations,omitempty"`
}

// Reservation is a quantity hold against a product for a date range, tied
// to the order that placed it.
type Reservation struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	OrderID   int64     `json:"order_id"`
	Quantity  int       `json:"quantity"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// Overlaps reports whether the reservation window intersects [start, end).
func (r Reservation) Overlaps(start, end time.Time) bool {
	return r.StartDate.Before(end) && r.EndDate.After(start)
}
