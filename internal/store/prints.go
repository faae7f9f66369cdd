package store

import (
	"context"
	"database/sql"

	"printfarm-service/internal/models"
)

// CreatePrint inserts a new production batch record
func (s *Store) CreatePrint(ctx context.Context, p *models.Print) error {
	query := `
		INSERT INTO prints (user_id, product_id, printer_id, print_date,
			print_time_minutes, quantity_produced, cost_filament_total, cost_energy,
			cost_depreciation, cost_additional, unit_cost_final, applied_margin,
			suggested_price, energy_rate, printer_power_w, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, p, query,
		p.UserID, p.ProductID, p.PrinterID, p.PrintDate,
		p.PrintTimeMinutes, p.QuantityProduced, p.CostFilamentTotal, p.CostEnergy,
		p.CostDepreciation, p.CostAdditional, p.UnitCostFinal, p.AppliedMargin,
		p.SuggestedPrice, p.EnergyRate, p.PrinterPowerW, p.Status)
}

// CreateFilamentUsage inserts a filament usage row owned by a print
func (s *Store) CreateFilamentUsage(ctx context.Context, u *models.FilamentUsage) error {
	query := `
		INSERT INTO print_filament_usages (print_id, filament_id, material_weight_g, cost)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	return s.db.GetContext(ctx, &u.ID, query,
		u.PrintID, u.FilamentID, u.MaterialWeightG, u.Cost)
}

// CreateExpenseUsage inserts an expense usage row owned by a print
func (s *Store) CreateExpenseUsage(ctx context.Context, u *models.ExpenseUsage) error {
	query := `
		INSERT INTO print_expense_usages (print_id, expense_id, quantity, cost)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	return s.db.GetContext(ctx, &u.ID, query,
		u.PrintID, u.ExpenseID, u.Quantity, u.Cost)
}

// GetPrints retrieves all production batches for a user, newest first
func (s *Store) GetPrints(ctx context.Context, userID int64) ([]models.Print, error) {
	var prints []models.Print
	err := s.db.SelectContext(ctx, &prints,
		"SELECT * FROM prints WHERE user_id = $1 ORDER BY created_at DESC", userID)
	return prints, err
}

// GetPrintByID retrieves a production batch by ID
func (s *Store) GetPrintByID(ctx context.Context, id int64) (*models.Print, error) {
	var print models.Print
	err := s.db.GetContext(ctx, &print, "SELECT * FROM prints WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &print, nil
}

// GetFilamentUsagesByPrintID retrieves filament usages for a print
func (s *Store) GetFilamentUsagesByPrintID(ctx context.Context, printID int64) ([]models.FilamentUsage, error) {
	var usages []models.FilamentUsage
	err := s.db.SelectContext(ctx, &usages,
		"SELECT * FROM print_filament_usages WHERE print_id = $1", printID)
	return usages, err
}

// GetExpenseUsagesByPrintID retrieves expense usages for a print
func (s *Store) GetExpenseUsagesByPrintID(ctx context.Context, printID int64) ([]models.ExpenseUsage, error) {
	var usages []models.ExpenseUsage
	err := s.db.SelectContext(ctx, &usages,
		"SELECT * FROM print_expense_usages WHERE print_id = $1", printID)
	return usages, err
}

// DeletePrint deletes a production batch and its usage rows. Inventory
// effects of the batch are NOT reversed.
func (s *Store) DeletePrint(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM print_filament_usages WHERE print_id = $1", id); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM print_expense_usages WHERE print_id = $1", id); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, "DELETE FROM prints WHERE id = $1", id)
	return err
}
