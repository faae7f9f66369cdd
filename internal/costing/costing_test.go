package costing

import (
	"testing"

	"printfarm-service/internal/models"

	"github.com/stretchr/testify/assert"
)

func testFilaments() map[int64]*models.Filament {
	return map[int64]*models.Filament{
		1: {ID: 1, Name: "PLA Black", RollWeightG: 1000, RollPrice: 100, GramsPerRoll: 1000},
		2: {ID: 2, Name: "PETG Red", RollWeightG: 500, RollPrice: 80, GramsPerRoll: 500},
	}
}

func TestUnitCost_FullScenario(t *testing.T) {
	// 250g of 0.10/g filament, 200W printer for 2h at 0.75/kWh,
	// 3000 purchase price over 5000h lifespan, 5 units produced.
	printer := &models.Printer{PurchasePrice: 3000, LifespanHours: 5000, PowerWatts: 200}

	b := UnitCost(BatchInput{
		Filaments:    testFilaments(),
		FilamentUses: []FilamentUse{{FilamentID: 1, WeightG: 250}},
		Printer:      printer,
		ElapsedHours: 2,
		EnergyTariff: 0.75,
		Quantity:     5,
	})

	assert.InDelta(t, 25.00, b.CostFilamentTotal, 1e-9)
	assert.InDelta(t, 0.30, b.CostEnergy, 1e-9)
	assert.InDelta(t, 1.20, b.CostDepreciation, 1e-9)
	assert.InDelta(t, 0.0, b.CostAdditional, 1e-9)
	assert.InDelta(t, 5.30, b.UnitCost, 1e-9)
}

func TestUnitCost_MissingReferencesAreSkipped(t *testing.T) {
	b := UnitCost(BatchInput{
		Filaments: testFilaments(),
		Expenses:  map[int64]*models.Expense{},
		FilamentUses: []FilamentUse{
			{FilamentID: 1, WeightG: 100},
			{FilamentID: 999, WeightG: 500}, // deleted filament
		},
		ExpenseUses:  []ExpenseUse{{ExpenseID: 42, Quantity: 3}},
		EnergyTariff: 0.75,
		Quantity:     1,
	})

	assert.InDelta(t, 10.0, b.CostFilamentTotal, 1e-9)
	assert.Zero(t, b.CostAdditional)
	assert.GreaterOrEqual(t, b.UnitCost, 0.0)
}

func TestUnitCost_NoPrinterUsesDefaultPower(t *testing.T) {
	b := UnitCost(BatchInput{
		ElapsedHours: 1,
		EnergyTariff: 0.75,
		Quantity:     1,
	})

	assert.Equal(t, float64(DefaultPrinterPowerWatts), b.PowerWatts)
	assert.InDelta(t, (250.0/1000)*0.75, b.CostEnergy, 1e-9)
	assert.Zero(t, b.CostDepreciation)
}

func TestUnitCost_ZeroLifespanGuards(t *testing.T) {
	printer := &models.Printer{PurchasePrice: 3000, LifespanHours: 0, PowerWatts: 200}

	b := UnitCost(BatchInput{
		Printer:      printer,
		ElapsedHours: 2,
		EnergyTariff: 0.75,
		Quantity:     1,
	})

	assert.Zero(t, b.CostDepreciation)
	assert.False(t, b.UnitCost < 0)
}

func TestUnitCost_ZeroQuantityTreatedAsOne(t *testing.T) {
	in := BatchInput{
		Filaments:    testFilaments(),
		FilamentUses: []FilamentUse{{FilamentID: 1, WeightG: 100}},
		EnergyTariff: 0.75,
	}

	in.Quantity = 0
	zero := UnitCost(in)
	in.Quantity = 1
	one := UnitCost(in)

	assert.Equal(t, one.UnitCost, zero.UnitCost)
}

func TestUnitCost_BreakdownSumMatchesUnitCost(t *testing.T) {
	printer := &models.Printer{PurchasePrice: 2400, LifespanHours: 6000, PowerWatts: 350}
	expenses := map[int64]*models.Expense{
		7: {ID: 7, Name: "Box", Cost: 1.25},
	}

	for _, qty := range []int{1, 3, 7} {
		b := UnitCost(BatchInput{
			Filaments:    testFilaments(),
			Expenses:     expenses,
			FilamentUses: []FilamentUse{{FilamentID: 1, WeightG: 120}, {FilamentID: 2, WeightG: 80}},
			ExpenseUses:  []ExpenseUse{{ExpenseID: 7, Quantity: 2}},
			Printer:      printer,
			ElapsedHours: ElapsedHours(3, 30),
			EnergyTariff: 0.92,
			Quantity:     qty,
		})

		assert.InDelta(t, b.Total(), b.UnitCost*float64(qty), 1e-9, "quantity %d", qty)
	}
}

func TestElapsedHours(t *testing.T) {
	assert.InDelta(t, 2.5, ElapsedHours(2, 30), 1e-9)
	assert.InDelta(t, 0.25, ElapsedHours(0, 15), 1e-9)
}

func TestWeightedAverageCost(t *testing.T) {
	// (10*4 + 5*7) / 15 = 5.0
	assert.InDelta(t, 5.0, WeightedAverageCost(10, 4, 5, 7), 1e-9)

	// First production of a product takes the new unit cost exactly
	assert.Equal(t, 7.5, WeightedAverageCost(0, 0, 5, 7.5))

	// Degenerate zero total falls back to the new unit cost
	assert.Equal(t, 3.2, WeightedAverageCost(0, 9.9, 0, 3.2))
}
