package store

import (
	"context"
	"database/sql"

	"printfarm-service/internal/models"
)

// GetPrinters retrieves all printers for a user ordered by name
func (s *Store) GetPrinters(ctx context.Context, userID int64) ([]models.Printer, error) {
	var printers []models.Printer
	err := s.db.SelectContext(ctx, &printers,
		"SELECT * FROM printers WHERE user_id = $1 ORDER BY name", userID)
	return printers, err
}

// GetPrinterByID retrieves a printer by ID
func (s *Store) GetPrinterByID(ctx context.Context, id int64) (*models.Printer, error) {
	var printer models.Printer
	err := s.db.GetContext(ctx, &printer, "SELECT * FROM printers WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &printer, nil
}

// CreatePrinter inserts a new printer
func (s *Store) CreatePrinter(ctx context.Context, p *models.Printer) error {
	query := `
		INSERT INTO printers (user_id, name, model, purchase_price, lifespan_hours,
			power_watts, total_hours_printed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, p, query,
		p.UserID, p.Name, p.Model, p.PurchasePrice, p.LifespanHours,
		p.PowerWatts, p.TotalHoursPrinted)
}

// UpdatePrinter updates a printer row
func (s *Store) UpdatePrinter(ctx context.Context, p *models.Printer) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE printers SET name = $1, model = $2, purchase_price = $3,
			lifespan_hours = $4, power_watts = $5
		WHERE id = $6`,
		p.Name, p.Model, p.PurchasePrice, p.LifespanHours, p.PowerWatts, p.ID)
	return err
}

// AddPrinterHours accumulates elapsed print time on a printer
func (s *Store) AddPrinterHours(ctx context.Context, id int64, hours float64) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE printers SET total_hours_printed = total_hours_printed + $1 WHERE id = $2",
		hours, id)
	return err
}

// DeletePrinter deletes a printer by ID
func (s *Store) DeletePrinter(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM printers WHERE id = $1", id)
	return mapDeleteErr(err)
}

// GetExpenses retrieves all expenses for a user ordered by name
func (s *Store) GetExpenses(ctx context.Context, userID int64) ([]models.Expense, error) {
	var expenses []models.Expense
	err := s.db.SelectContext(ctx, &expenses,
		"SELECT * FROM expenses WHERE user_id = $1 ORDER BY name", userID)
	return expenses, err
}

// GetExpenseByID retrieves an expense by ID
func (s *Store) GetExpenseByID(ctx context.Context, id int64) (*models.Expense, error) {
	var expense models.Expense
	err := s.db.GetContext(ctx, &expense, "SELECT * FROM expenses WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

// CreateExpense inserts a new expense
func (s *Store) CreateExpense(ctx context.Context, e *models.Expense) error {
	query := `
		INSERT INTO expenses (user_id, name, cost, unit)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, e, query, e.UserID, e.Name, e.Cost, e.Unit)
}

// UpdateExpense updates an expense row
func (s *Store) UpdateExpense(ctx context.Context, e *models.Expense) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE expenses SET name = $1, cost = $2, unit = $3 WHERE id = $4",
		e.Name, e.Cost, e.Unit, e.ID)
	return err
}

// DeleteExpense deletes an expense by ID
func (s *Store) DeleteExpense(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = $1", id)
	return mapDeleteErr(err)
}

// GetMarketplaces retrieves all marketplaces for a user ordered by name
func (s *Store) GetMarketplaces(ctx context.Context, userID int64) ([]models.Marketplace, error) {
	var marketplaces []models.Marketplace
	err := s.db.SelectContext(ctx, &marketplaces,
		"SELECT * FROM marketplaces WHERE user_id = $1 ORDER BY name", userID)
	return marketplaces, err
}

// GetMarketplaceByID retrieves a marketplace by ID
func (s *Store) GetMarketplaceByID(ctx context.Context, id int64) (*models.Marketplace, error) {
	var marketplace models.Marketplace
	err := s.db.GetContext(ctx, &marketplace, "SELECT * FROM marketplaces WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &marketplace, nil
}

// CreateMarketplace inserts a new marketplace
func (s *Store) CreateMarketplace(ctx context.Context, m *models.Marketplace) error {
	query := `
		INSERT INTO marketplaces (user_id, name, fee_percent, fee_fixed, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, m, query, m.UserID, m.Name, m.FeePercent, m.FeeFixed, m.Notes)
}

// UpdateMarketplace updates a marketplace row
func (s *Store) UpdateMarketplace(ctx context.Context, m *models.Marketplace) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE marketplaces SET name = $1, fee_percent = $2, fee_fixed = $3, notes = $4 WHERE id = $5",
		m.Name, m.FeePercent, m.FeeFixed, m.Notes, m.ID)
	return err
}

// DeleteMarketplace deletes a marketplace by ID
func (s *Store) DeleteMarketplace(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM marketplaces WHERE id = $1", id)
	return mapDeleteErr(err)
}
