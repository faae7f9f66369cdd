package service

import (
	"context"
	"fmt"
	"time"

	"printfarm-service/internal/broker"
	"printfarm-service/internal/costing"
	"printfarm-service/internal/models"
	"printfarm-service/internal/redisclient"
	"printfarm-service/internal/store"
	"printfarm-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService handles order business logic
type OrderService struct {
	store          *store.Store
	redis          *redisclient.Client
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(store *store.Store, redis *redisclient.Client, eventPublisher *broker.EventPublisher) *OrderService {
	return &OrderService{
		store:          store,
		redis:          redis,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// OrderItemRequest is one product line in an order request
type OrderItemRequest struct {
	ProductID int64   `json:"product_id" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,min=1"`
	UnitPrice float64 `json:"unit_price"`
}

// OrderExpenseRequest attaches an extra expense to an order
type OrderExpenseRequest struct {
	ExpenseID int64   `json:"expense_id" binding:"required"`
	Quantity  float64 `json:"quantity" binding:"required,gt=0"`
}

// CreateOrderRequest represents a request to create an order
type CreateOrderRequest struct {
	UserID        int64                 `json:"user_id"`
	MarketplaceID int64                 `json:"marketplace_id"`
	CustomerName  string                `json:"customer_name" binding:"required"`
	Items         []OrderItemRequest    `json:"items" binding:"required,min=1"`
	Expenses      []OrderExpenseRequest `json:"expenses"`
	Confirmed     bool                  `json:"confirmed"`
}

// CreateOrderResponse represents the response after creating an order
type CreateOrderResponse struct {
	OrderID int64                `json:"order_id"`
	Status  string               `json:"status"`
	Summary costing.OrderSummary `json:"summary"`
}

// assembleCart matches each requested line against the product map and
// snapshots the product's current average cost. Matching is per line, so the
// same product may appear on several lines of one order.
func assembleCart(items []OrderItemRequest, productMap map[int64]*models.Product) ([]costing.CartItem, error) {
	cart := make([]costing.CartItem, 0, len(items))
	for _, item := range items {
		p, ok := productMap[item.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: product %d not found", ErrValidation, item.ProductID)
		}
		cart = append(cart, costing.CartItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			UnitCost:  p.AverageCost,
		})
	}
	return cart, nil
}

// ensureNotShipped guards the one-way shipped transition
func ensureNotShipped(order *models.Order) error {
	if order.Status == models.OrderStatusShipped {
		return ErrAlreadyShipped
	}
	return nil
}

// buildCart resolves products and captures unit cost snapshots for the cart
func (s *OrderService) buildCart(ctx context.Context, items []OrderItemRequest) ([]costing.CartItem, error) {
	productIDs := make([]int64, len(items))
	for i, item := range items {
		productIDs[i] = item.ProductID
	}

	products, err := s.store.GetProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	productMap := make(map[int64]*models.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	return assembleCart(items, productMap)
}

// buildExtras resolves order-level extra expenses, skipping unknown ids
func (s *OrderService) buildExtras(ctx context.Context, userID int64, extras []OrderExpenseRequest) ([]costing.ExtraCost, error) {
	if len(extras) == 0 {
		return nil, nil
	}

	expenses, err := s.store.GetExpenses(ctx, userID)
	if err != nil {
		return nil, err
	}
	expenseMap := make(map[int64]*models.Expense, len(expenses))
	for i := range expenses {
		expenseMap[expenses[i].ID] = &expenses[i]
	}

	out := make([]costing.ExtraCost, 0, len(extras))
	for _, x := range extras {
		e, ok := expenseMap[x.ExpenseID]
		if !ok {
			continue
		}
		out = append(out, costing.ExtraCost{ExpenseID: x.ExpenseID, Quantity: x.Quantity, UnitCost: e.Cost})
	}
	return out, nil
}

// feeSchedule loads the marketplace fee schedule, nil for direct sales
func (s *OrderService) feeSchedule(ctx context.Context, marketplaceID int64) (*costing.FeeSchedule, error) {
	if marketplaceID == 0 {
		return nil, nil
	}
	mkt, err := s.store.GetMarketplaceByID(ctx, marketplaceID)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, fmt.Errorf("%w: marketplace %d not found", ErrValidation, marketplaceID)
		}
		return nil, err
	}
	return &costing.FeeSchedule{Percent: mkt.FeePercent, Fixed: mkt.FeeFixed}, nil
}

// CreateOrder creates a new order with its items and financial roll-up
func (s *OrderService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*CreateOrderResponse, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.CreateOrder")
	defer span.End()

	cart, err := s.buildCart(ctx, req.Items)
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("invalid_items").Inc()
		return nil, err
	}

	extras, err := s.buildExtras(ctx, req.UserID, req.Expenses)
	if err != nil {
		return nil, err
	}

	fee, err := s.feeSchedule(ctx, req.MarketplaceID)
	if err != nil {
		return nil, err
	}

	summary := costing.OrderTotals(cart, extras, fee)

	status := models.OrderStatusDraft
	if req.Confirmed {
		status = models.OrderStatusConfirmed
	}

	order := &models.Order{
		UserID:         req.UserID,
		MarketplaceID:  req.MarketplaceID,
		CustomerName:   req.CustomerName,
		OrderDate:      time.Now(),
		Status:         status,
		TotalPrice:     summary.TotalRevenue,
		MarketplaceFee: summary.MarketplaceFee,
		CostAdditional: summary.TotalExtraCost,
		NetProfit:      summary.NetProfit,
	}

	if err := s.store.CreateOrder(ctx, order); err != nil {
		util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	for _, item := range cart {
		orderItem := &models.OrderItem{
			OrderID:        order.ID,
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			UnitCostAtSale: item.UnitCost,
		}
		if err := s.store.CreateOrderItem(ctx, orderItem); err != nil {
			return nil, fmt.Errorf("failed to create order item: %w", err)
		}
	}

	util.OrdersCreatedTotal.Inc()
	s.logger.Info("Order created",
		zap.Int64("order_id", order.ID),
		zap.String("status", status),
		zap.Float64("total_price", summary.TotalRevenue))

	event := &models.OrderCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderCreated,
			Timestamp: time.Now(),
		},
		OrderID:    order.ID,
		UserID:     order.UserID,
		TotalPrice: order.TotalPrice,
		NetProfit:  order.NetProfit,
		Status:     status,
	}
	if err := s.eventPublisher.PublishOrderCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderCreated event", zap.Error(err))
	}

	return &CreateOrderResponse{OrderID: order.ID, Status: status, Summary: summary}, nil
}

// UpdateOrder recomputes totals and replaces the line items of a non-shipped
// order. Cost snapshots are retaken from current product state, matching
// order-creation semantics.
func (s *OrderService) UpdateOrder(ctx context.Context, orderID int64, req *CreateOrderRequest) (*CreateOrderResponse, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdateOrder")
	defer span.End()

	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := ensureNotShipped(order); err != nil {
		return nil, err
	}

	cart, err := s.buildCart(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	extras, err := s.buildExtras(ctx, req.UserID, req.Expenses)
	if err != nil {
		return nil, err
	}
	fee, err := s.feeSchedule(ctx, req.MarketplaceID)
	if err != nil {
		return nil, err
	}

	summary := costing.OrderTotals(cart, extras, fee)

	order.MarketplaceID = req.MarketplaceID
	order.CustomerName = req.CustomerName
	order.TotalPrice = summary.TotalRevenue
	order.MarketplaceFee = summary.MarketplaceFee
	order.CostAdditional = summary.TotalExtraCost
	order.NetProfit = summary.NetProfit

	if err := s.store.UpdateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	if err := s.store.DeleteOrderItemsByOrderID(ctx, orderID); err != nil {
		return nil, fmt.Errorf("failed to clear order items: %w", err)
	}
	for _, item := range cart {
		orderItem := &models.OrderItem{
			OrderID:        orderID,
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			UnitCostAtSale: item.UnitCost,
		}
		if err := s.store.CreateOrderItem(ctx, orderItem); err != nil {
			return nil, fmt.Errorf("failed to create order item: %w", err)
		}
	}

	return &CreateOrderResponse{OrderID: orderID, Status: order.Status, Summary: summary}, nil
}

// ShipmentPreview reports the stock changes shipping an order would apply.
// Nothing is mutated; this is the explicit choice point before ShipOrder.
type ShipmentPreview struct {
	OrderID int64                 `json:"order_id"`
	Status  string                `json:"status"`
	Lines   []ShipmentPreviewLine `json:"lines"`
}

// ShipmentPreviewLine is one product's projected stock change
type ShipmentPreviewLine struct {
	ProductID    int64 `json:"product_id"`
	Quantity     int   `json:"quantity"`
	StockBefore  int   `json:"stock_before"`
	StockAfter   int   `json:"stock_after"`
	Insufficient bool  `json:"insufficient"`
}

// PreviewShipment computes the stock deltas of shipping without applying them
func (s *OrderService) PreviewShipment(ctx context.Context, orderID int64) (*ShipmentPreview, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.PreviewShipment")
	defer span.End()

	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := ensureNotShipped(order); err != nil {
		return nil, err
	}

	items, err := s.store.GetOrderItemsByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	preview := &ShipmentPreview{OrderID: orderID, Status: order.Status}
	for _, item := range items {
		product, err := s.store.GetProductByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		after := product.StockQuantity - item.Quantity
		line := ShipmentPreviewLine{
			ProductID:    item.ProductID,
			Quantity:     item.Quantity,
			StockBefore:  product.StockQuantity,
			Insufficient: after < 0,
		}
		if after < 0 {
			after = 0
		}
		line.StockAfter = after
		preview.Lines = append(preview.Lines, line)
	}
	return preview, nil
}

// ShipOrder finalizes an order: decrements product stock per line item
// (clamped at zero) and moves the order to shipped. The transition is
// one-way; repeating it returns ErrAlreadyShipped. Stock updates are
// sequential store calls with no rollback on partial failure.
func (s *OrderService) ShipOrder(ctx context.Context, orderID int64) error {
	ctx, span := util.StartSpan(ctx, "OrderService.ShipOrder")
	defer span.End()

	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return err
	}
	if err := ensureNotShipped(order); err != nil {
		util.OrdersFailedTotal.WithLabelValues("already_shipped").Inc()
		return err
	}

	items, err := s.store.GetOrderItemsByOrderID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to get order items: %w", err)
	}

	for _, item := range items {
		product, err := s.store.GetProductByID(ctx, item.ProductID)
		if err != nil {
			return fmt.Errorf("failed to load product %d: %w", item.ProductID, err)
		}
		newQty := product.StockQuantity - item.Quantity
		if newQty < 0 {
			newQty = 0
		}
		if err := s.store.UpdateProductStock(ctx, product.ID, newQty); err != nil {
			return fmt.Errorf("failed to decrement stock for product %d: %w", product.ID, err)
		}
		if s.redis != nil {
			if err := s.redis.SetProductStock(ctx, product.ID, newQty); err != nil {
				s.logger.Warn("Failed to cache product stock", zap.Error(err))
			}
		}
	}

	if err := s.store.UpdateOrderStatus(ctx, orderID, models.OrderStatusShipped); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	util.OrdersShippedTotal.Inc()
	s.logger.Info("Order shipped", zap.Int64("order_id", orderID))

	event := &models.OrderShippedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderShipped,
			Timestamp: time.Now(),
		},
		OrderID: orderID,
		UserID:  order.UserID,
	}
	if err := s.eventPublisher.PublishOrderShipped(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderShipped event", zap.Error(err))
	}

	return nil
}

// DeleteOrder removes an order. Stock is never restored: a non-shipped
// order never decremented anything, and shipped orders stay decremented.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID int64) error {
	if _, err := s.store.GetOrderByID(ctx, orderID); err != nil {
		return err
	}
	return s.store.DeleteOrder(ctx, orderID)
}

// GetOrder retrieves an order by ID with its items
func (s *OrderService) GetOrder(ctx context.Context, orderID int64) (*models.Order, []models.OrderItem, error) {
	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	items, err := s.store.GetOrderItemsByOrderID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	return order, items, nil
}

// ListOrders retrieves all orders for a user
func (s *OrderService) ListOrders(ctx context.Context, userID int64) ([]models.Order, error) {
	return s.store.GetOrders(ctx, userID)
}
