package costing

// FeeSchedule is a marketplace's revenue deduction: a percentage of the
// priced amount plus a flat per-order fee. A nil schedule means direct sale.
type FeeSchedule struct {
	Percent float64
	Fixed   float64
}

// Apply returns the fee taken on the given amount.
func (f *FeeSchedule) Apply(amount float64) float64 {
	if f == nil {
		return 0
	}
	return amount*(f.Percent/100) + f.Fixed
}

// Quote is the fee-inclusive price used when quoting a job to a customer.
type Quote struct {
	PriceWithMargin float64 `json:"price_with_margin"`
	MarketplaceFee  float64 `json:"marketplace_fee"`
	FinalPrice      float64 `json:"final_price"`
	Profit          float64 `json:"profit"`
}

// ListPrice applies a profit margin to a unit cost. This is the price a
// production batch writes to the product; marketplace fees are applied
// later, at sale time. Margin may be zero or negative, no clamping.
func ListPrice(unitCost, marginPercent float64) float64 {
	return unitCost * (1 + marginPercent/100)
}

// QuotePrice prices a job with the channel fee baked in, for quoting.
// Distinct from ListPrice: the returned final price already carries the fee.
func QuotePrice(unitCost, marginPercent float64, fee *FeeSchedule) Quote {
	withMargin := ListPrice(unitCost, marginPercent)
	mktFee := fee.Apply(withMargin)
	final := withMargin + mktFee
	return Quote{
		PriceWithMargin: withMargin,
		MarketplaceFee:  mktFee,
		FinalPrice:      final,
		Profit:          final - mktFee - unitCost,
	}
}
