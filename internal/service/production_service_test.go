package service

import (
	"context"
	"testing"

	"printfarm-service/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestConsumeFilamentStock(t *testing.T) {
	f := &models.Filament{CurrentWeightG: 2500, GramsPerRoll: 1000}

	weight, rolls := consumeFilamentStock(f, 600)
	assert.Equal(t, 1900.0, weight)
	assert.Equal(t, 1, rolls, "rolls refloor from the remaining weight")

	// Consuming more than is on hand clamps at zero instead of going negative
	weight, rolls = consumeFilamentStock(f, 9999)
	assert.Equal(t, 0.0, weight)
	assert.Equal(t, 0, rolls)

	// A zero grams-per-roll filament cannot divide; rolls stay at zero
	odd := &models.Filament{CurrentWeightG: 500, GramsPerRoll: 0}
	weight, rolls = consumeFilamentStock(odd, 100)
	assert.Equal(t, 400.0, weight)
	assert.Equal(t, 0, rolls)
}

func TestPricingDefaults(t *testing.T) {
	tariff, margin := pricingDefaults(nil)
	assert.Equal(t, DefaultEnergyTariff, tariff)
	assert.Equal(t, DefaultMarginPercent, margin)

	// Zero values in a saved config mean unset and fall back to defaults
	tariff, margin = pricingDefaults(&models.UserConfig{})
	assert.Equal(t, DefaultEnergyTariff, tariff)
	assert.Equal(t, DefaultMarginPercent, margin)

	tariff, margin = pricingDefaults(&models.UserConfig{
		EnergyTariff:         1.10,
		DefaultMarginPercent: 45,
	})
	assert.Equal(t, 1.10, tariff)
	assert.Equal(t, 45.0, margin)
}

func TestRegisterProductionValidation(t *testing.T) {
	ps := &ProductionService{}
	ctx := context.Background()

	_, err := ps.RegisterProduction(ctx, &RegisterProductionRequest{
		UserID:    1,
		ProductID: 1,
		Filaments: []FilamentUseRequest{{FilamentID: 1, WeightG: 100}},
	})
	assert.ErrorIs(t, err, ErrValidation, "quantity below 1 must be rejected")

	_, err = ps.RegisterProduction(ctx, &RegisterProductionRequest{
		UserID:           1,
		ProductID:        1,
		QuantityProduced: 5,
	})
	assert.ErrorIs(t, err, ErrValidation, "a batch needs at least one filament line")

	_, err = ps.RegisterProduction(ctx, &RegisterProductionRequest{
		UserID:           1,
		ProductID:        1,
		QuantityProduced: 5,
		Filaments:        []FilamentUseRequest{{FilamentID: 1, WeightG: -10}},
	})
	assert.ErrorIs(t, err, ErrValidation, "negative filament weight must be rejected")
}

func TestRegisterProductionApplied(t *testing.T) {
	// Full path covers product stock, filament refloor and printer hours
	t.Skip("Integration test - requires database")
}
