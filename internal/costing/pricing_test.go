package costing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListPrice(t *testing.T) {
	assert.InDelta(t, 6.89, ListPrice(5.30, 30), 1e-9)
	assert.Equal(t, 5.30, ListPrice(5.30, 0))

	// Negative margins are the caller's problem, no clamping
	assert.InDelta(t, 4.77, ListPrice(5.30, -10), 1e-9)
}

func TestQuotePrice_WithMarketplace(t *testing.T) {
	q := QuotePrice(5.30, 30, &FeeSchedule{Percent: 10, Fixed: 2})

	assert.InDelta(t, 6.89, q.PriceWithMargin, 1e-9)
	assert.InDelta(t, 1.089, q.MarketplaceFee, 1e-9)
	assert.InDelta(t, 7.979, q.FinalPrice, 1e-9)
	assert.InDelta(t, 1.59, q.Profit, 1e-9)
}

func TestQuotePrice_DirectSale(t *testing.T) {
	q := QuotePrice(10, 50, nil)

	assert.Equal(t, 15.0, q.PriceWithMargin)
	assert.Zero(t, q.MarketplaceFee)
	assert.Equal(t, 15.0, q.FinalPrice)
	assert.Equal(t, 5.0, q.Profit)
}

func TestQuotePrice_ZeroFeeScheduleEqualsDirectSale(t *testing.T) {
	direct := QuotePrice(8.4, 25, nil)
	zeroFee := QuotePrice(8.4, 25, &FeeSchedule{})

	assert.Equal(t, direct, zeroFee)
}

func TestOrderTotals(t *testing.T) {
	items := []CartItem{
		{ProductID: 1, Quantity: 3, UnitPrice: 20, UnitCost: 5.30},
		{ProductID: 2, Quantity: 1, UnitPrice: 45, UnitCost: 12},
	}
	extras := []ExtraCost{
		{ExpenseID: 7, Quantity: 4, UnitCost: 0.50},
	}

	s := OrderTotals(items, extras, &FeeSchedule{Percent: 10, Fixed: 2})

	assert.InDelta(t, 105.0, s.TotalRevenue, 1e-9)
	assert.InDelta(t, 12.5, s.MarketplaceFee, 1e-9)
	assert.InDelta(t, 27.9, s.TotalProductionCost, 1e-9)
	assert.InDelta(t, 2.0, s.TotalExtraCost, 1e-9)
	assert.InDelta(t, 105.0-12.5-27.9-2.0, s.NetProfit, 1e-9)
}

func TestOrderTotals_NoMarketplace(t *testing.T) {
	items := []CartItem{{ProductID: 1, Quantity: 2, UnitPrice: 10, UnitCost: 4}}

	s := OrderTotals(items, nil, nil)

	assert.Equal(t, 20.0, s.TotalRevenue)
	assert.Zero(t, s.MarketplaceFee)
	assert.Equal(t, 12.0, s.NetProfit)
}

func TestOrderTotals_EmptyCart(t *testing.T) {
	s := OrderTotals(nil, nil, &FeeSchedule{Percent: 10, Fixed: 2})

	assert.Zero(t, s.TotalRevenue)
	// The fixed fee still applies on a zero-revenue order
	assert.Equal(t, 2.0, s.MarketplaceFee)
	assert.Equal(t, -2.0, s.NetProfit)
}
