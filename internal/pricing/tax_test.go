package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"rentmarket-backend/internal/domain"
)

func TestRateFor(t *testing.T) {
	assert.True(t, RateFor("Electronics").Equal(decimal.NewFromInt(18)))
	assert.True(t, RateFor("Furniture").Equal(decimal.NewFromInt(12)))
	assert.True(t, RateFor("Transportation").Equal(decimal.NewFromInt(12)))
	assert.True(t, RateFor("Tools & Equipment").Equal(decimal.NewFromInt(18)))
	assert.True(t, RateFor("Party Supplies").Equal(decimal.NewFromInt(12)))

	t.Run("Unknown category falls back to default", func(t *testing.T) {
		assert.True(t, RateFor("Gardening").Equal(DefaultTaxRate))
		assert.True(t, RateFor("").Equal(DefaultTaxRate))
	})
}

func TestRateForProduct(t *testing.T) {
	t.Run("Override wins over category", func(t *testing.T) {
		override := decimal.NewFromInt(5)
		p := &domain.Product{Category: "Electronics", TaxRateOverride: &override}
		assert.True(t, RateForProduct(p).Equal(override))
	})

	t.Run("No override resolves category", func(t *testing.T) {
		p := &domain.Product{Category: "Furniture"}
		assert.True(t, RateForProduct(p).Equal(decimal.NewFromInt(12)))
	})
}
