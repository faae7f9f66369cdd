package service

import (
	"context"
	"fmt"

	"printfarm-service/internal/models"
	"printfarm-service/internal/redisclient"
	"printfarm-service/internal/store"
	"printfarm-service/internal/util"

	"go.uber.org/zap"
)

// InventoryService handles filament restocking, low stock scanning and the
// Redis stock snapshot cache
type InventoryService struct {
	store  *store.Store
	redis  *redisclient.Client
	logger *zap.Logger
}

// NewInventoryService creates a new inventory service
func NewInventoryService(store *store.Store, redis *redisclient.Client) *InventoryService {
	return &InventoryService{
		store:  store,
		redis:  redis,
		logger: util.GetLogger(),
	}
}

// RecordFilamentPurchase restocks a filament by whole rolls. Consumption
// refloors the roll count from the remaining weight; purchases add to both
// fields directly. The asymmetry is intentional.
func (is *InventoryService) RecordFilamentPurchase(ctx context.Context, filamentID int64, rolls int) (*models.Filament, error) {
	ctx, span := util.StartSpan(ctx, "InventoryService.RecordFilamentPurchase")
	defer span.End()

	if rolls < 1 {
		return nil, fmt.Errorf("%w: rolls must be at least 1", ErrValidation)
	}

	filament, err := is.store.GetFilamentByID(ctx, filamentID)
	if err != nil {
		return nil, err
	}

	filament.CurrentWeightG += float64(rolls) * filament.GramsPerRoll
	filament.Rolls += rolls

	if err := is.store.UpdateFilamentStock(ctx, filament.ID, filament.CurrentWeightG, filament.Rolls); err != nil {
		return nil, fmt.Errorf("failed to update filament stock: %w", err)
	}

	util.FilamentPurchasesTotal.Inc()
	is.logger.Info("Filament purchase recorded",
		zap.Int64("filament_id", filament.ID),
		zap.Int("rolls", rolls),
		zap.Float64("current_weight_g", filament.CurrentWeightG))

	if is.redis != nil {
		if err := is.redis.SetFilamentWeight(ctx, filament.ID, filament.CurrentWeightG); err != nil {
			is.logger.Warn("Failed to cache filament weight", zap.Error(err))
		}
	}

	return filament, nil
}

// GetProductStock reads a product's stock quantity, serving from the Redis
// snapshot when present and backfilling it from the database on a miss.
func (is *InventoryService) GetProductStock(ctx context.Context, productID int64) (int, error) {
	if is.redis != nil {
		qty, found, err := is.redis.GetProductStock(ctx, productID)
		if err != nil {
			is.logger.Warn("Redis stock read failed, falling back to DB", zap.Error(err))
		} else if found {
			return qty, nil
		}
	}

	product, err := is.store.GetProductByID(ctx, productID)
	if err != nil {
		return 0, err
	}
	if is.redis != nil {
		if err := is.redis.SetProductStock(ctx, productID, product.StockQuantity); err != nil {
			is.logger.Warn("Failed to cache product stock", zap.Error(err))
		}
	}
	return product.StockQuantity, nil
}

// LowStockFilaments returns filaments at or below their alert threshold
func (is *InventoryService) LowStockFilaments(ctx context.Context, userID int64) ([]models.Filament, error) {
	return is.store.GetLowStockFilaments(ctx, userID)
}

// SyncStockToRedis refreshes the cached stock snapshot from the database
func (is *InventoryService) SyncStockToRedis(ctx context.Context, userID int64) error {
	if is.redis == nil {
		return nil
	}

	products, err := is.store.GetProducts(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get products: %w", err)
	}
	for _, p := range products {
		if err := is.redis.SetProductStock(ctx, p.ID, p.StockQuantity); err != nil {
			is.logger.Error("Failed to cache product stock",
				zap.Int64("product_id", p.ID),
				zap.Error(err))
		}
	}

	filaments, err := is.store.GetFilaments(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get filaments: %w", err)
	}
	for _, f := range filaments {
		if err := is.redis.SetFilamentWeight(ctx, f.ID, f.CurrentWeightG); err != nil {
			is.logger.Error("Failed to cache filament weight",
				zap.Int64("filament_id", f.ID),
				zap.Error(err))
		}
	}

	is.logger.Info("Stock snapshot synced to Redis",
		zap.Int("products", len(products)),
		zap.Int("filaments", len(filaments)))
	return nil
}
