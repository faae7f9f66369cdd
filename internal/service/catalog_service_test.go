package service

import (
	"context"
	"testing"

	"printfarm-service/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCreateFilamentValidation(t *testing.T) {
	cs := &CatalogService{}
	ctx := context.Background()

	err := cs.CreateFilament(ctx, &models.Filament{RollWeightG: 1000, GramsPerRoll: 1000})
	assert.ErrorIs(t, err, ErrValidation)

	err = cs.CreateFilament(ctx, &models.Filament{Name: "PLA", RollWeightG: 0, GramsPerRoll: 1000})
	assert.ErrorIs(t, err, ErrValidation)

	err = cs.CreateFilament(ctx, &models.Filament{Name: "PLA", RollWeightG: 1000, GramsPerRoll: -1})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateMarketplaceValidation(t *testing.T) {
	cs := &CatalogService{}
	ctx := context.Background()

	err := cs.CreateMarketplace(ctx, &models.Marketplace{Name: "Etsy", FeePercent: -1})
	assert.ErrorIs(t, err, ErrValidation)

	err = cs.CreateMarketplace(ctx, &models.Marketplace{FeePercent: 6.5})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSaveConfigValidation(t *testing.T) {
	cs := &CatalogService{}

	err := cs.SaveConfig(context.Background(), &models.UserConfig{EnergyTariff: -0.5})
	assert.ErrorIs(t, err, ErrValidation)
}
