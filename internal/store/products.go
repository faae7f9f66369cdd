package store

import (
	"context"
	"database/sql"

	"printfarm-service/internal/models"

	"github.com/jmoiron/sqlx"
)

// GetProducts retrieves all products for a user ordered by name
func (s *Store) GetProducts(ctx context.Context, userID int64) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products,
		"SELECT * FROM products WHERE user_id = $1 ORDER BY name", userID)
	return products, err
}

// GetProductByID retrieves a product by ID
func (s *Store) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductsByIDs retrieves multiple products by IDs
func (s *Store) GetProductsByIDs(ctx context.Context, ids []int64) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}

	query, args, err := sqlx.In("SELECT * FROM products WHERE id IN (?)", ids)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var products []models.Product
	err = s.db.SelectContext(ctx, &products, query, args...)
	return products, err
}

// CreateProduct inserts a new product
func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	query := `
		INSERT INTO products (user_id, sku, name, description, stock_quantity,
			average_cost, suggested_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, p, query,
		p.UserID, p.SKU, p.Name, p.Description, p.StockQuantity,
		p.AverageCost, p.SuggestedPrice)
}

// UpdateProduct updates a product row
func (s *Store) UpdateProduct(ctx context.Context, p *models.Product) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE products SET sku = $1, name = $2, description = $3,
			stock_quantity = $4, average_cost = $5, suggested_price = $6
		WHERE id = $7`,
		p.SKU, p.Name, p.Description, p.StockQuantity, p.AverageCost,
		p.SuggestedPrice, p.ID)
	return err
}

// UpdateProductStock sets a product's stock quantity
func (s *Store) UpdateProductStock(ctx context.Context, id int64, quantity int) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE products SET stock_quantity = $1 WHERE id = $2", quantity, id)
	return err
}

// ApplyProductionToProduct writes the post-batch stock, blended average cost
// and the batch's suggested price to a product in one statement.
func (s *Store) ApplyProductionToProduct(ctx context.Context, id int64, stock int, avgCost, suggestedPrice float64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE products SET stock_quantity = $1, average_cost = $2, suggested_price = $3
		WHERE id = $4`,
		stock, avgCost, suggestedPrice, id)
	return err
}

// DeleteProduct deletes a product by ID. Products referenced by orders or
// prints come back as ErrReferenced.
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	return mapDeleteErr(err)
}
