package pricing

import (
	"github.com/shopspring/decimal"

	"rentmarket-backend/internal/domain"
)

// DefaultTaxRate applies to categories missing from the table and to
// zero-subtotal documents when deriving a display rate.
var DefaultTaxRate = decimal.NewFromInt(18)

// categoryTaxRates is the fixed category-to-GST-percentage table. Quotation,
// order and invoice pricing all resolve rates through RateFor/RateForProduct
// so totals never drift between documents.
var categoryTaxRates = map[string]decimal.Decimal{
	"Electronics":       decimal.NewFromInt(18),
	"Furniture":         decimal.NewFromInt(12),
	"Entertainment":     decimal.NewFromInt(18),
	"Transportation":    decimal.NewFromInt(12),
	"Tools & Equipment": decimal.NewFromInt(18),
	"Party Supplies":    decimal.NewFromInt(12),
}

// RateFor returns the tax percentage for a category. Unknown or empty
// categories fall back to the default rate.
func RateFor(category string) decimal.Decimal {
	if rate, ok := categoryTaxRates[category]; ok {
		return rate
	}
	return DefaultTaxRate
}

// RateForProduct resolves the effective rate for a product: a product-level
// override takes precedence over the category table.
func RateForProduct(p *domain.Product) decimal.Decimal {
	if p.TaxRateOverride != nil {
		return *p.TaxRateOverride
	}
	return RateFor(p.Category)
}
