package store

import (
	"context"
	"database/sql"

	"printfarm-service/internal/models"
)

// GetUserConfig retrieves the settings row for a user. Returns nil with no
// error when the user has never saved settings; callers fall back to the
// service defaults.
func (s *Store) GetUserConfig(ctx context.Context, userID int64) (*models.UserConfig, error) {
	var cfg models.UserConfig
	err := s.db.GetContext(ctx, &cfg, "SELECT * FROM user_configs WHERE user_id = $1", userID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// UpsertUserConfig creates or updates the settings row for a user
func (s *Store) UpsertUserConfig(ctx context.Context, cfg *models.UserConfig) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_configs (user_id, energy_tariff, default_margin_percent, currency, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			energy_tariff = EXCLUDED.energy_tariff,
			default_margin_percent = EXCLUDED.default_margin_percent,
			currency = EXCLUDED.currency,
			updated_at = NOW()`,
		cfg.UserID, cfg.EnergyTariff, cfg.DefaultMarginPercent, cfg.Currency)
	return err
}
