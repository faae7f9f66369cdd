package service

import (
	"context"
	"fmt"

	"printfarm-service/internal/models"
	"printfarm-service/internal/store"
	"printfarm-service/internal/util"

	"go.uber.org/zap"
)

// CatalogService handles CRUD for the reference entities: filaments,
// printers, products, expenses and marketplaces
type CatalogService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store *store.Store) *CatalogService {
	return &CatalogService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// --- filaments ---

func (cs *CatalogService) ListFilaments(ctx context.Context, userID int64) ([]models.Filament, error) {
	return cs.store.GetFilaments(ctx, userID)
}

func (cs *CatalogService) CreateFilament(ctx context.Context, f *models.Filament) error {
	if f.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if f.RollWeightG <= 0 {
		return fmt.Errorf("%w: roll_weight_g must be positive", ErrValidation)
	}
	if f.GramsPerRoll <= 0 {
		return fmt.Errorf("%w: grams_per_roll must be positive", ErrValidation)
	}
	return cs.store.CreateFilament(ctx, f)
}

func (cs *CatalogService) UpdateFilament(ctx context.Context, f *models.Filament) error {
	if _, err := cs.store.GetFilamentByID(ctx, f.ID); err != nil {
		return err
	}
	return cs.store.UpdateFilament(ctx, f)
}

func (cs *CatalogService) DeleteFilament(ctx context.Context, id int64) error {
	return cs.store.DeleteFilament(ctx, id)
}

// --- printers ---

func (cs *CatalogService) ListPrinters(ctx context.Context, userID int64) ([]models.Printer, error) {
	return cs.store.GetPrinters(ctx, userID)
}

func (cs *CatalogService) CreatePrinter(ctx context.Context, p *models.Printer) error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if p.LifespanHours < 0 || p.PowerWatts < 0 {
		return fmt.Errorf("%w: lifespan_hours and power_watts must not be negative", ErrValidation)
	}
	// New printers always start with a zero hour counter
	p.TotalHoursPrinted = 0
	return cs.store.CreatePrinter(ctx, p)
}

func (cs *CatalogService) UpdatePrinter(ctx context.Context, p *models.Printer) error {
	if _, err := cs.store.GetPrinterByID(ctx, p.ID); err != nil {
		return err
	}
	// total_hours_printed is mutated only by production batches
	return cs.store.UpdatePrinter(ctx, p)
}

func (cs *CatalogService) DeletePrinter(ctx context.Context, id int64) error {
	return cs.store.DeletePrinter(ctx, id)
}

// --- products ---

func (cs *CatalogService) ListProducts(ctx context.Context, userID int64) ([]models.Product, error) {
	return cs.store.GetProducts(ctx, userID)
}

func (cs *CatalogService) CreateProduct(ctx context.Context, p *models.Product) error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if p.StockQuantity < 0 {
		return fmt.Errorf("%w: stock_quantity must not be negative", ErrValidation)
	}
	return cs.store.CreateProduct(ctx, p)
}

func (cs *CatalogService) UpdateProduct(ctx context.Context, p *models.Product) error {
	if _, err := cs.store.GetProductByID(ctx, p.ID); err != nil {
		return err
	}
	return cs.store.UpdateProduct(ctx, p)
}

// DeleteProduct deletes a product; products referenced by orders or prints
// surface store.ErrReferenced for a user-actionable message.
func (cs *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	err := cs.store.DeleteProduct(ctx, id)
	if err == store.ErrReferenced {
		cs.logger.Info("Blocked delete of referenced product", zap.Int64("product_id", id))
	}
	return err
}

// --- expenses ---

func (cs *CatalogService) ListExpenses(ctx context.Context, userID int64) ([]models.Expense, error) {
	return cs.store.GetExpenses(ctx, userID)
}

func (cs *CatalogService) CreateExpense(ctx context.Context, e *models.Expense) error {
	if e.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if e.Cost < 0 {
		return fmt.Errorf("%w: cost must not be negative", ErrValidation)
	}
	return cs.store.CreateExpense(ctx, e)
}

func (cs *CatalogService) UpdateExpense(ctx context.Context, e *models.Expense) error {
	if _, err := cs.store.GetExpenseByID(ctx, e.ID); err != nil {
		return err
	}
	return cs.store.UpdateExpense(ctx, e)
}

func (cs *CatalogService) DeleteExpense(ctx context.Context, id int64) error {
	return cs.store.DeleteExpense(ctx, id)
}

// --- marketplaces ---

func (cs *CatalogService) ListMarketplaces(ctx context.Context, userID int64) ([]models.Marketplace, error) {
	return cs.store.GetMarketplaces(ctx, userID)
}

func (cs *CatalogService) CreateMarketplace(ctx context.Context, m *models.Marketplace) error {
	if m.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if m.FeePercent < 0 || m.FeeFixed < 0 {
		return fmt.Errorf("%w: fees must not be negative", ErrValidation)
	}
	return cs.store.CreateMarketplace(ctx, m)
}

func (cs *CatalogService) UpdateMarketplace(ctx context.Context, m *models.Marketplace) error {
	if _, err := cs.store.GetMarketplaceByID(ctx, m.ID); err != nil {
		return err
	}
	return cs.store.UpdateMarketplace(ctx, m)
}

func (cs *CatalogService) DeleteMarketplace(ctx context.Context, id int64) error {
	return cs.store.DeleteMarketplace(ctx, id)
}

// --- user config ---

// GetConfig returns the user's settings, falling back to defaults when the
// user has never saved any. Changing settings never rewrites historical
// prints or orders; their snapshots are immutable.
func (cs *CatalogService) GetConfig(ctx context.Context, userID int64) (*models.UserConfig, error) {
	cfg, err := cs.store.GetUserConfig(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = &models.UserConfig{
			UserID:               userID,
			EnergyTariff:         DefaultEnergyTariff,
			DefaultMarginPercent: DefaultMarginPercent,
		}
	}
	return cfg, nil
}

func (cs *CatalogService) SaveConfig(ctx context.Context, cfg *models.UserConfig) error {
	if cfg.EnergyTariff < 0 {
		return fmt.Errorf("%w: energy_tariff must not be negative", ErrValidation)
	}
	return cs.store.UpsertUserConfig(ctx, cfg)
}
