package pricing

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"rentmarket-backend/internal/domain"
)

const hoursPerDay = 24

// PricedLine is the result of pricing a single rental line.
type PricedLine struct {
	PricePerUnit decimal.Decimal
	Duration     domain.RentalDuration
	TotalPrice   decimal.Decimal
}

// DocumentTotals aggregates line items into document-level figures. The
// same computation backs quotations, orders and invoices.
type DocumentTotals struct {
	Subtotal         decimal.Decimal
	ItemTaxes        []decimal.Decimal
	TaxAmount        decimal.Decimal
	EffectiveTaxRate decimal.Decimal
	TotalAmount      decimal.Decimal
}

// PriceLineItem selects the pricing tier from the rental window and returns
// the per-unit price, billed duration and line total.
//
// Tiering: under one day bills hourly (hours rounded up), under seven days
// bills daily, otherwise weekly (weeks rounded up). A missing or zero tier
// on the product yields a zero total rather than an error.
func PriceLineItem(product *domain.Product, quantity int, start, end time.Time) (PricedLine, error) {
	if quantity < 1 {
		return PricedLine{}, domain.NewValidationError("quantity must be at least 1")
	}
	if !start.Before(end) {
		return PricedLine{}, domain.NewValidationError("rental start date must be before end date")
	}

	span := end.Sub(start)
	days := int(math.Ceil(span.Hours() / hoursPerDay))

	var line PricedLine
	switch {
	case span < hoursPerDay*time.Hour:
		line.PricePerUnit = product.HourlyRate
		line.Duration = domain.RentalDuration{Value: int(math.Ceil(span.Hours())), Unit: domain.DurationUnitHour}
	case days < 7:
		line.PricePerUnit = product.DailyRate
		line.Duration = domain.RentalDuration{Value: days, Unit: domain.DurationUnitDay}
	default:
		line.PricePerUnit = product.WeeklyRate
		line.Duration = domain.RentalDuration{Value: int(math.Ceil(float64(days) / 7)), Unit: domain.DurationUnitWeek}
	}

	line.TotalPrice = line.PricePerUnit.
		Mul(decimal.NewFromInt(int64(quantity))).
		Mul(decimal.NewFromInt(int64(line.Duration.Value)))
	return line, nil
}

// Aggregate computes subtotal, per-item tax, blended tax rate and total for
// a set of line items. A discount is distributed across items proportionally
// to each item's share of the subtotal, and every item's tax is computed on
// its post-discount amount at that item's own rate. Deterministic and pure.
func Aggregate(items []domain.LineItem, discountAmount decimal.Decimal) DocumentTotals {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.TotalPrice)
	}

	totals := DocumentTotals{
		Subtotal:  subtotal,
		ItemTaxes: make([]decimal.Decimal, len(items)),
	}

	taxTotal := decimal.Zero
	hundred := decimal.NewFromInt(100)
	for i, it := range items {
		itemDiscount := decimal.Zero
		if discountAmount.IsPositive() && subtotal.IsPositive() {
			itemDiscount = it.TotalPrice.Div(subtotal).Mul(discountAmount)
		}
		taxable := it.TotalPrice.Sub(itemDiscount)
		itemTax := taxable.Mul(it.TaxRate).Div(hundred)
		totals.ItemTaxes[i] = itemTax.Round(2)
		taxTotal = taxTotal.Add(itemTax)
	}

	afterDiscount := subtotal.Sub(discountAmount)
	totals.TaxAmount = taxTotal.Round(2)
	if afterDiscount.IsPositive() {
		totals.EffectiveTaxRate = taxTotal.Div(afterDiscount).Mul(hundred).Round(2)
	} else {
		// Display-only figure; zero-value documents show the default rate.
		totals.EffectiveTaxRate = DefaultTaxRate
	}
	totals.TotalAmount = afterDiscount.Add(totals.TaxAmount).Round(2)
	return totals
}

// SplitCGSTSGST splits a tax amount into equal CGST/SGST halves. IGST is
// always zero under the single-jurisdiction assumption; any rounding
// remainder lands on SGST so the parts always sum back to the whole.
func SplitCGSTSGST(totalTax decimal.Decimal) (cgst, sgst, igst decimal.Decimal) {
	cgst = totalTax.Div(decimal.NewFromInt(2)).Round(2)
	sgst = totalTax.Sub(cgst)
	igst = decimal.Zero
	return cgst, sgst, igst
}
