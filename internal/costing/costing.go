// Package costing implements the cost and pricing arithmetic shared by
// production registration, the what-if quote endpoint, and order profit
// calculations. All functions are pure: they take their data dependencies
// as parameters, never touch persistence, and never return errors. Missing
// filament or expense references degrade to a zero contribution on purpose;
// callers rely on that best-effort behavior.
package costing

import "printfarm-service/internal/models"

// DefaultPrinterPowerWatts is assumed when no printer is selected.
const DefaultPrinterPowerWatts = 250

// FilamentUse pairs a filament reference with the grams consumed.
type FilamentUse struct {
	FilamentID int64
	WeightG    float64
}

// ExpenseUse pairs an expense reference with the quantity consumed.
type ExpenseUse struct {
	ExpenseID int64
	Quantity  float64
}

// BatchInput carries everything needed to cost one production batch.
// Printer may be nil (no printer selected). Filaments and Expenses are
// lookup tables keyed by id; uses referencing unknown ids are skipped.
type BatchInput struct {
	Filaments    map[int64]*models.Filament
	Expenses     map[int64]*models.Expense
	FilamentUses []FilamentUse
	ExpenseUses  []ExpenseUse
	Printer      *models.Printer
	ElapsedHours float64
	EnergyTariff float64
	Quantity     int
}

// Breakdown is the four-component cost breakdown plus the per-unit cost.
type Breakdown struct {
	CostFilamentTotal float64 `json:"cost_filament_total"`
	CostEnergy        float64 `json:"cost_energy"`
	CostDepreciation  float64 `json:"cost_depreciation"`
	CostAdditional    float64 `json:"cost_additional"`
	PowerWatts        float64 `json:"power_watts"`
	UnitCost          float64 `json:"unit_cost"`
}

// Total returns the full batch cost, the sum of the four components.
func (b Breakdown) Total() float64 {
	return b.CostFilamentTotal + b.CostEnergy + b.CostDepreciation + b.CostAdditional
}

// ElapsedHours converts an hours plus minutes pair into fractional hours.
func ElapsedHours(hours, minutes int) float64 {
	return float64(hours) + float64(minutes)/60
}

// UnitCost computes the cost breakdown for a production batch. A quantity
// below 1 is treated as 1 so the per-unit division is always defined.
func UnitCost(in BatchInput) Breakdown {
	var b Breakdown

	for _, use := range in.FilamentUses {
		f, ok := in.Filaments[use.FilamentID]
		if !ok {
			continue
		}
		b.CostFilamentTotal += use.WeightG * f.CostPerGram()
	}

	b.PowerWatts = DefaultPrinterPowerWatts
	if in.Printer != nil && in.Printer.PowerWatts > 0 {
		b.PowerWatts = in.Printer.PowerWatts
	}
	b.CostEnergy = (b.PowerWatts * in.ElapsedHours / 1000) * in.EnergyTariff

	if in.Printer != nil && in.Printer.LifespanHours > 0 {
		b.CostDepreciation = in.ElapsedHours * (in.Printer.PurchasePrice / in.Printer.LifespanHours)
	}

	for _, use := range in.ExpenseUses {
		e, ok := in.Expenses[use.ExpenseID]
		if !ok {
			continue
		}
		b.CostAdditional += e.Cost * use.Quantity
	}

	qty := in.Quantity
	if qty < 1 {
		qty = 1
	}
	b.UnitCost = b.Total() / float64(qty)

	return b
}

// WeightedAverageCost blends the existing stock's average cost with a newly
// produced batch. With no resulting stock it falls back to the new unit cost.
func WeightedAverageCost(oldQty int, oldAvg float64, newQty int, newUnitCost float64) float64 {
	totalQty := oldQty + newQty
	if totalQty <= 0 {
		return newUnitCost
	}
	totalValue := float64(oldQty)*oldAvg + float64(newQty)*newUnitCost
	return totalValue / float64(totalQty)
}
