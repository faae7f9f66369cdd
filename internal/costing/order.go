package costing

// CartItem is one sale line: quantity at a unit price, with the product's
// average cost captured as the per-unit cost snapshot.
type CartItem struct {
	ProductID int64
	Quantity  int
	UnitPrice float64
	UnitCost  float64
}

// ExtraCost is a flat expense attached to an order (packaging, shipping
// material) at a unit cost times quantity.
type ExtraCost struct {
	ExpenseID int64
	Quantity  float64
	UnitCost  float64
}

// OrderSummary is the financial roll-up of one order.
type OrderSummary struct {
	TotalRevenue        float64 `json:"total_revenue"`
	MarketplaceFee      float64 `json:"marketplace_fee"`
	TotalProductionCost float64 `json:"total_production_cost"`
	TotalExtraCost      float64 `json:"total_extra_cost"`
	NetProfit           float64 `json:"net_profit"`
}

// OrderTotals aggregates a cart, extra expenses, and an optional fee
// schedule into order totals. The fee applies to gross revenue. Production
// cost uses the per-item cost snapshots, not live product state.
func OrderTotals(items []CartItem, extras []ExtraCost, fee *FeeSchedule) OrderSummary {
	var s OrderSummary

	for _, item := range items {
		s.TotalRevenue += float64(item.Quantity) * item.UnitPrice
		s.TotalProductionCost += float64(item.Quantity) * item.UnitCost
	}

	s.MarketplaceFee = fee.Apply(s.TotalRevenue)

	for _, extra := range extras {
		s.TotalExtraCost += extra.UnitCost * extra.Quantity
	}

	s.NetProfit = s.TotalRevenue - s.MarketplaceFee - s.TotalProductionCost - s.TotalExtraCost
	return s
}
