package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"mymat/internal/domain"
)

func TestComputeTotals(t *testing.T) {
	items := []domain.CartItem{
		{Product: domain.Product{ID: "a", Price: decimal.RequireFromString("10.00")}, Quantity: 2},
		{Product: domain.Product{ID: "b", Price: decimal.RequireFromString("5.50")}, Quantity: 1},
	}
	tot := domain.ComputeTotals(items).Rounded()
	assert.Equal(t, 3, tot.Items)
	assert.Equal(t, "25.50", domain.FormatMoney(tot.Subtotal))
	assert.Equal(t, "2.55", domain.FormatMoney(tot.Tax))
	assert.Equal(t, "28.05", domain.FormatMoney(tot.Total))
}

func TestComputeTotalsEmpty(t *testing.T) {
	tot := domain.ComputeTotals(nil)
	assert.True(t, tot.Total.IsZero())
	assert.Equal(t, "0.00", domain.FormatMoney(tot.Total))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "modern", domain.Slugify("Modern"))
	assert.Equal(t, "prayer-mats-kids", domain.Slugify("Prayer  Mats\tKids"))
}

func TestOnSale(t *testing.T) {
	p := domain.Product{Price: decimal.NewFromInt(80)}
	assert.False(t, p.OnSale())
	p.OriginalPrice = decimal.NewNullDecimal(decimal.NewFromInt(100))
	assert.True(t, p.OnSale())
}
