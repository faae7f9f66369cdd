package store

import (
	"context"
	"database/sql"

	"printfarm-service/internal/models"
)

// CreateOrder creates a new order
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (user_id, marketplace_id, marketplace_order_id, customer_name,
			order_date, status, total_price, marketplace_fee, cost_additional, net_profit)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`

	return s.db.GetContext(ctx, order, query,
		order.UserID, order.MarketplaceID, order.MarketplaceOrderID, order.CustomerName,
		order.OrderDate, order.Status, order.TotalPrice, order.MarketplaceFee,
		order.CostAdditional, order.NetProfit)
}

// GetOrderByID retrieves an order by ID
func (s *Store) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderByExternalID retrieves a user's order by its marketplace order ID.
// Scoped by user: the same external id may legitimately exist for different
// users. Returns nil with no error when no such order exists, mirroring the
// dedup check semantics of the import reconciler.
func (s *Store) GetOrderByExternalID(ctx context.Context, userID int64, externalID string) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order,
		"SELECT * FROM orders WHERE user_id = $1 AND marketplace_order_id = $2", userID, externalID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrders retrieves all orders for a user, newest first
func (s *Store) GetOrders(ctx context.Context, userID int64) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders WHERE user_id = $1 ORDER BY created_at DESC", userID)
	return orders, err
}

// UpdateOrder updates an order's header fields
func (s *Store) UpdateOrder(ctx context.Context, order *models.Order) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE orders SET marketplace_id = $1, marketplace_order_id = $2,
			customer_name = $3, status = $4, total_price = $5, marketplace_fee = $6,
			cost_additional = $7, net_profit = $8, updated_at = NOW()
		WHERE id = $9`,
		order.MarketplaceID, order.MarketplaceOrderID, order.CustomerName,
		order.Status, order.TotalPrice, order.MarketplaceFee,
		order.CostAdditional, order.NetProfit, order.ID)
	return err
}

// UpdateOrderStatus updates order status
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID int64, status string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2",
		status, orderID)
	return err
}

// DeleteOrder deletes an order and its items. Shipped stock is not restored.
func (s *Store) DeleteOrder(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM order_items WHERE order_id = $1", id); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", id)
	return err
}

// CreateOrderItem creates a new order item
func (s *Store) CreateOrderItem(ctx context.Context, item *models.OrderItem) error {
	query := `
		INSERT INTO order_items (order_id, product_id, quantity, unit_price, unit_cost_at_sale)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	return s.db.GetContext(ctx, &item.ID, query,
		item.OrderID, item.ProductID, item.Quantity, item.UnitPrice, item.UnitCostAtSale)
}

// GetOrderItemsByOrderID retrieves all items for an order
func (s *Store) GetOrderItemsByOrderID(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM order_items WHERE order_id = $1", orderID)
	return items, err
}

// DeleteOrderItemsByOrderID removes all items of an order, used when an
// order edit replaces its line items wholesale.
func (s *Store) DeleteOrderItemsByOrderID(ctx context.Context, orderID int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM order_items WHERE order_id = $1", orderID)
	return err
}
