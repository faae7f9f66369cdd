package store

import (
	"context"
	"database/sql"

	"printfarm-service/internal/models"

	"github.com/jmoiron/sqlx"
)

// GetFilaments retrieves all filaments for a user ordered by name
func (s *Store) GetFilaments(ctx context.Context, userID int64) ([]models.Filament, error) {
	var filaments []models.Filament
	err := s.db.SelectContext(ctx, &filaments,
		"SELECT * FROM filaments WHERE user_id = $1 ORDER BY name", userID)
	return filaments, err
}

// GetFilamentByID retrieves a filament by ID
func (s *Store) GetFilamentByID(ctx context.Context, id int64) (*models.Filament, error) {
	var filament models.Filament
	err := s.db.GetContext(ctx, &filament, "SELECT * FROM filaments WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &filament, nil
}

// GetFilamentsByIDs retrieves multiple filaments by IDs
func (s *Store) GetFilamentsByIDs(ctx context.Context, ids []int64) ([]models.Filament, error) {
	if len(ids) == 0 {
		return []models.Filament{}, nil
	}

	query, args, err := sqlx.In("SELECT * FROM filaments WHERE id IN (?)", ids)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var filaments []models.Filament
	err = s.db.SelectContext(ctx, &filaments, query, args...)
	return filaments, err
}

// CreateFilament inserts a new filament
func (s *Store) CreateFilament(ctx context.Context, f *models.Filament) error {
	query := `
		INSERT INTO filaments (user_id, name, brand, material, color, roll_weight_g,
			roll_price, grams_per_roll, rolls, current_weight_g, min_stock_alert_g)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, f, query,
		f.UserID, f.Name, f.Brand, f.Material, f.Color, f.RollWeightG,
		f.RollPrice, f.GramsPerRoll, f.Rolls, f.CurrentWeightG, f.MinStockAlertG)
}

// UpdateFilament updates a filament row
func (s *Store) UpdateFilament(ctx context.Context, f *models.Filament) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE filaments SET name = $1, brand = $2, material = $3, color = $4,
			roll_weight_g = $5, roll_price = $6, grams_per_roll = $7, rolls = $8,
			current_weight_g = $9, min_stock_alert_g = $10
		WHERE id = $11`,
		f.Name, f.Brand, f.Material, f.Color, f.RollWeightG, f.RollPrice,
		f.GramsPerRoll, f.Rolls, f.CurrentWeightG, f.MinStockAlertG, f.ID)
	return err
}

// UpdateFilamentStock sets the weight and roll count of a filament
func (s *Store) UpdateFilamentStock(ctx context.Context, id int64, weightG float64, rolls int) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE filaments SET current_weight_g = $1, rolls = $2 WHERE id = $3",
		weightG, rolls, id)
	return err
}

// DeleteFilament deletes a filament by ID
func (s *Store) DeleteFilament(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM filaments WHERE id = $1", id)
	return mapDeleteErr(err)
}

// GetLowStockFilaments retrieves filaments at or below their alert threshold
func (s *Store) GetLowStockFilaments(ctx context.Context, userID int64) ([]models.Filament, error) {
	var filaments []models.Filament
	err := s.db.SelectContext(ctx, &filaments, `
		SELECT * FROM filaments
		WHERE user_id = $1 AND min_stock_alert_g > 0 AND current_weight_g <= min_stock_alert_g
		ORDER BY name`, userID)
	return filaments, err
}
