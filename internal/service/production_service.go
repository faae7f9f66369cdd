package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"printfarm-service/internal/broker"
	"printfarm-service/internal/costing"
	"printfarm-service/internal/models"
	"printfarm-service/internal/store"
	"printfarm-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Defaults applied when a user has never saved settings.
const (
	DefaultEnergyTariff  = 0.75
	DefaultMarginPercent = 30.0
)

// ProductionService registers production batches and answers what-if quotes
type ProductionService struct {
	store          *store.Store
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewProductionService creates a new production service
func NewProductionService(store *store.Store, eventPublisher *broker.EventPublisher) *ProductionService {
	return &ProductionService{
		store:          store,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// FilamentUseRequest is one filament line of a batch
type FilamentUseRequest struct {
	FilamentID int64   `json:"filament_id" binding:"required"`
	WeightG    float64 `json:"weight_g" binding:"required,gt=0"`
}

// ExpenseUseRequest is one extra-expense line of a batch
type ExpenseUseRequest struct {
	ExpenseID int64   `json:"expense_id" binding:"required"`
	Quantity  float64 `json:"quantity" binding:"required,gt=0"`
}

// RegisterProductionRequest describes a completed production batch
type RegisterProductionRequest struct {
	UserID           int64                `json:"user_id"`
	ProductID        int64                `json:"product_id" binding:"required"`
	PrinterID        int64                `json:"printer_id"`
	PrintTimeHours   int                  `json:"print_time_hours"`
	PrintTimeMinutes int                  `json:"print_time_minutes"`
	QuantityProduced int                  `json:"quantity_produced" binding:"required,min=1"`
	MarginPercent    *float64             `json:"margin_percent,omitempty"`
	Filaments        []FilamentUseRequest `json:"filaments" binding:"required,min=1"`
	Expenses         []ExpenseUseRequest  `json:"expenses"`
}

// RegisterProductionResponse reports the stored batch and its pricing
type RegisterProductionResponse struct {
	PrintID        int64             `json:"print_id"`
	Breakdown      costing.Breakdown `json:"breakdown"`
	AppliedMargin  float64           `json:"applied_margin"`
	SuggestedPrice float64           `json:"suggested_price"`
	NewAverageCost float64           `json:"new_average_cost"`
	NewStock       int               `json:"new_stock"`
}

// QuoteRequest describes a hypothetical batch for the what-if simulator
type QuoteRequest struct {
	UserID           int64                `json:"user_id"`
	PrinterID        int64                `json:"printer_id"`
	MarketplaceID    int64                `json:"marketplace_id"`
	PrintTimeHours   int                  `json:"print_time_hours"`
	PrintTimeMinutes int                  `json:"print_time_minutes"`
	Quantity         int                  `json:"quantity"`
	MarginPercent    *float64             `json:"margin_percent,omitempty"`
	Filaments        []FilamentUseRequest `json:"filaments"`
	Expenses         []ExpenseUseRequest  `json:"expenses"`
}

// QuoteResponse carries the fee-inclusive quote for a hypothetical batch
type QuoteResponse struct {
	Breakdown     costing.Breakdown `json:"breakdown"`
	AppliedMargin float64           `json:"applied_margin"`
	Quote         costing.Quote     `json:"quote"`
}

// consumeFilamentStock returns a filament's weight and roll count after a
// batch consumed weightG grams. Weight clamps at zero and the roll count is
// refloored from the remaining weight. Purchases go the other way: they add
// to both fields directly (InventoryService.RecordFilamentPurchase).
func consumeFilamentStock(f *models.Filament, weightG float64) (float64, int) {
	newWeight := math.Max(0, f.CurrentWeightG-weightG)
	rolls := 0
	if f.GramsPerRoll > 0 {
		rolls = int(math.Floor(newWeight / f.GramsPerRoll))
	}
	return newWeight, rolls
}

// pricingDefaults resolves the energy tariff and margin from user config.
// Zero values in a saved config mean unset and fall back to the defaults; an
// explicit zero margin is expressed through the per-request override instead.
func pricingDefaults(cfg *models.UserConfig) (tariff, margin float64) {
	tariff = DefaultEnergyTariff
	margin = DefaultMarginPercent
	if cfg == nil {
		return tariff, margin
	}
	if cfg.EnergyTariff > 0 {
		tariff = cfg.EnergyTariff
	}
	if cfg.DefaultMarginPercent > 0 {
		margin = cfg.DefaultMarginPercent
	}
	return tariff, margin
}

// batchContext holds the resolved references a batch computation needs
type batchContext struct {
	input  costing.BatchInput
	margin float64
	tariff float64
}

// resolveBatch loads config, printer, filaments and expenses and builds the
// costing input. Unknown filament or expense ids simply stay absent from the
// lookup maps so the calculator skips them.
func (ps *ProductionService) resolveBatch(ctx context.Context, userID, printerID int64,
	hours, minutes, quantity int, marginOverride *float64,
	filamentUses []FilamentUseRequest, expenseUses []ExpenseUseRequest) (*batchContext, error) {

	cfg, err := ps.store.GetUserConfig(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	tariff, margin := pricingDefaults(cfg)
	if marginOverride != nil {
		margin = *marginOverride
	}

	var printer *models.Printer
	if printerID != 0 {
		printer, err = ps.store.GetPrinterByID(ctx, printerID)
		if err != nil && err != store.ErrNotFound {
			return nil, fmt.Errorf("failed to load printer: %w", err)
		}
	}

	filamentIDs := make([]int64, 0, len(filamentUses))
	uses := make([]costing.FilamentUse, 0, len(filamentUses))
	for _, u := range filamentUses {
		filamentIDs = append(filamentIDs, u.FilamentID)
		uses = append(uses, costing.FilamentUse{FilamentID: u.FilamentID, WeightG: u.WeightG})
	}
	filaments, err := ps.store.GetFilamentsByIDs(ctx, filamentIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load filaments: %w", err)
	}
	filamentMap := make(map[int64]*models.Filament, len(filaments))
	for i := range filaments {
		filamentMap[filaments[i].ID] = &filaments[i]
	}

	expenses, err := ps.store.GetExpenses(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}
	expenseMap := make(map[int64]*models.Expense, len(expenses))
	for i := range expenses {
		expenseMap[expenses[i].ID] = &expenses[i]
	}
	eUses := make([]costing.ExpenseUse, 0, len(expenseUses))
	for _, u := range expenseUses {
		eUses = append(eUses, costing.ExpenseUse{ExpenseID: u.ExpenseID, Quantity: u.Quantity})
	}

	return &batchContext{
		input: costing.BatchInput{
			Filaments:    filamentMap,
			Expenses:     expenseMap,
			FilamentUses: uses,
			ExpenseUses:  eUses,
			Printer:      printer,
			ElapsedHours: costing.ElapsedHours(hours, minutes),
			EnergyTariff: tariff,
			Quantity:     quantity,
		},
		margin: margin,
		tariff: tariff,
	}, nil
}

// Quote prices a hypothetical batch with the channel fee baked in. Nothing
// is persisted.
func (ps *ProductionService) Quote(ctx context.Context, req *QuoteRequest) (*QuoteResponse, error) {
	ctx, span := util.StartSpan(ctx, "ProductionService.Quote")
	defer span.End()

	bc, err := ps.resolveBatch(ctx, req.UserID, req.PrinterID,
		req.PrintTimeHours, req.PrintTimeMinutes, req.Quantity, req.MarginPercent,
		req.Filaments, req.Expenses)
	if err != nil {
		return nil, err
	}

	var fee *costing.FeeSchedule
	if req.MarketplaceID != 0 {
		mkt, err := ps.store.GetMarketplaceByID(ctx, req.MarketplaceID)
		if err != nil && err != store.ErrNotFound {
			return nil, fmt.Errorf("failed to load marketplace: %w", err)
		}
		if mkt != nil {
			fee = &costing.FeeSchedule{Percent: mkt.FeePercent, Fixed: mkt.FeeFixed}
		}
	}

	breakdown := costing.UnitCost(bc.input)
	quote := costing.QuotePrice(breakdown.UnitCost, bc.margin, fee)

	return &QuoteResponse{
		Breakdown:     breakdown,
		AppliedMargin: bc.margin,
		Quote:         quote,
	}, nil
}

// RegisterProduction stores a completed batch and applies its inventory
// effects: product stock and blended average cost, filament weight and roll
// counts, and printer hours. The mutations are sequential store calls; a
// failure partway through leaves earlier effects in place and is reported
// to the caller.
func (ps *ProductionService) RegisterProduction(ctx context.Context, req *RegisterProductionRequest) (*RegisterProductionResponse, error) {
	ctx, span := util.StartSpan(ctx, "ProductionService.RegisterProduction")
	defer span.End()

	if req.QuantityProduced < 1 {
		return nil, fmt.Errorf("%w: quantity_produced must be at least 1", ErrValidation)
	}
	if len(req.Filaments) == 0 {
		return nil, fmt.Errorf("%w: at least one filament is required", ErrValidation)
	}
	for _, u := range req.Filaments {
		if u.WeightG <= 0 {
			return nil, fmt.Errorf("%w: filament weight must be positive", ErrValidation)
		}
	}

	product, err := ps.store.GetProductByID(ctx, req.ProductID)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, fmt.Errorf("%w: product %d not found", ErrValidation, req.ProductID)
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	bc, err := ps.resolveBatch(ctx, req.UserID, req.PrinterID,
		req.PrintTimeHours, req.PrintTimeMinutes, req.QuantityProduced, req.MarginPercent,
		req.Filaments, req.Expenses)
	if err != nil {
		util.ProductionsFailedTotal.WithLabelValues("resolve_error").Inc()
		return nil, err
	}

	breakdown := costing.UnitCost(bc.input)
	suggestedPrice := costing.ListPrice(breakdown.UnitCost, bc.margin)

	print := &models.Print{
		UserID:            req.UserID,
		ProductID:         req.ProductID,
		PrinterID:         req.PrinterID,
		PrintDate:         time.Now(),
		PrintTimeMinutes:  req.PrintTimeHours*60 + req.PrintTimeMinutes,
		QuantityProduced:  req.QuantityProduced,
		CostFilamentTotal: breakdown.CostFilamentTotal,
		CostEnergy:        breakdown.CostEnergy,
		CostDepreciation:  breakdown.CostDepreciation,
		CostAdditional:    breakdown.CostAdditional,
		UnitCostFinal:     breakdown.UnitCost,
		AppliedMargin:     bc.margin,
		SuggestedPrice:    suggestedPrice,
		EnergyRate:        bc.tariff,
		PrinterPowerW:     breakdown.PowerWatts,
		Status:            models.PrintStatusCompleted,
	}

	if err := ps.store.CreatePrint(ctx, print); err != nil {
		util.ProductionsFailedTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("failed to create print: %w", err)
	}

	for _, use := range req.Filaments {
		cost := 0.0
		if f, ok := bc.input.Filaments[use.FilamentID]; ok {
			cost = use.WeightG * f.CostPerGram()
		}
		usage := &models.FilamentUsage{
			PrintID:         print.ID,
			FilamentID:      use.FilamentID,
			MaterialWeightG: use.WeightG,
			Cost:            cost,
		}
		if err := ps.store.CreateFilamentUsage(ctx, usage); err != nil {
			util.ProductionPartialUpdates.Inc()
			return nil, fmt.Errorf("failed to store filament usage: %w", err)
		}
	}

	for _, use := range req.Expenses {
		cost := 0.0
		if e, ok := bc.input.Expenses[use.ExpenseID]; ok {
			cost = e.Cost * use.Quantity
		}
		usage := &models.ExpenseUsage{
			PrintID:   print.ID,
			ExpenseID: use.ExpenseID,
			Quantity:  use.Quantity,
			Cost:      cost,
		}
		if err := ps.store.CreateExpenseUsage(ctx, usage); err != nil {
			util.ProductionPartialUpdates.Inc()
			return nil, fmt.Errorf("failed to store expense usage: %w", err)
		}
	}

	newAvg := costing.WeightedAverageCost(product.StockQuantity, product.AverageCost,
		req.QuantityProduced, breakdown.UnitCost)
	newStock := product.StockQuantity + req.QuantityProduced

	if err := ps.store.ApplyProductionToProduct(ctx, product.ID, newStock, newAvg, suggestedPrice); err != nil {
		util.ProductionPartialUpdates.Inc()
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	for _, use := range req.Filaments {
		f, ok := bc.input.Filaments[use.FilamentID]
		if !ok {
			continue
		}
		newWeight, newRolls := consumeFilamentStock(f, use.WeightG)
		if err := ps.store.UpdateFilamentStock(ctx, f.ID, newWeight, newRolls); err != nil {
			util.ProductionPartialUpdates.Inc()
			return nil, fmt.Errorf("failed to update filament %d: %w", f.ID, err)
		}
	}

	if bc.input.Printer != nil {
		if err := ps.store.AddPrinterHours(ctx, bc.input.Printer.ID, bc.input.ElapsedHours); err != nil {
			util.ProductionPartialUpdates.Inc()
			return nil, fmt.Errorf("failed to update printer hours: %w", err)
		}
	}

	util.ProductionsRegisteredTotal.Inc()
	ps.logger.Info("Production registered",
		zap.Int64("print_id", print.ID),
		zap.Int64("product_id", product.ID),
		zap.Int("quantity", req.QuantityProduced),
		zap.Float64("unit_cost", breakdown.UnitCost))

	filamentIDs := make([]int64, 0, len(req.Filaments))
	for _, u := range req.Filaments {
		filamentIDs = append(filamentIDs, u.FilamentID)
	}
	event := &models.ProductionRegisteredEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeProductionRegistered,
			Timestamp: time.Now(),
		},
		PrintID:          print.ID,
		UserID:           req.UserID,
		ProductID:        product.ID,
		QuantityProduced: req.QuantityProduced,
		UnitCost:         breakdown.UnitCost,
		SuggestedPrice:   suggestedPrice,
		FilamentIDs:      filamentIDs,
	}
	if err := ps.eventPublisher.PublishProductionRegistered(ctx, event); err != nil {
		ps.logger.Error("Failed to publish ProductionRegistered event", zap.Error(err))
	}

	return &RegisterProductionResponse{
		PrintID:        print.ID,
		Breakdown:      breakdown,
		AppliedMargin:  bc.margin,
		SuggestedPrice: suggestedPrice,
		NewAverageCost: newAvg,
		NewStock:       newStock,
	}, nil
}

// GetPrint retrieves a production batch with its usage rows
func (ps *ProductionService) GetPrint(ctx context.Context, printID int64) (*models.Print, []models.FilamentUsage, []models.ExpenseUsage, error) {
	print, err := ps.store.GetPrintByID(ctx, printID)
	if err != nil {
		return nil, nil, nil, err
	}

	filaments, err := ps.store.GetFilamentUsagesByPrintID(ctx, printID)
	if err != nil {
		return nil, nil, nil, err
	}

	expenses, err := ps.store.GetExpenseUsagesByPrintID(ctx, printID)
	if err != nil {
		return nil, nil, nil, err
	}

	return print, filaments, expenses, nil
}

// ListPrints retrieves all production batches for a user
func (ps *ProductionService) ListPrints(ctx context.Context, userID int64) ([]models.Print, error) {
	return ps.store.GetPrints(ctx, userID)
}

// DeletePrint removes a batch record from history. The inventory effects of
// the batch are deliberately left in place: there is no compensating
// transaction for stock, average cost or printer hours.
func (ps *ProductionService) DeletePrint(ctx context.Context, printID int64) error {
	ctx, span := util.StartSpan(ctx, "ProductionService.DeletePrint")
	defer span.End()

	if _, err := ps.store.GetPrintByID(ctx, printID); err != nil {
		return err
	}
	return ps.store.DeletePrint(ctx, printID)
}
