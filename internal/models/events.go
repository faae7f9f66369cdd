package models

import "time"

// Event types
const (
	EventTypeProductionRegistered = "PRODUCTION_REGISTERED"
	EventTypeOrderCreated         = "ORDER_CREATED"
	EventTypeOrderShipped         = "ORDER_SHIPPED"
	EventTypeOrdersImported       = "ORDERS_IMPORTED"
	EventTypeFilamentLowStock     = "FILAMENT_LOW_STOCK"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// ProductionRegisteredEvent published when a production batch is registered
type ProductionRegisteredEvent struct {
	BaseEvent
	PrintID          int64   `json:"print_id"`
	UserID           int64   `json:"user_id"`
	ProductID        int64   `json:"product_id"`
	QuantityProduced int     `json:"quantity_produced"`
	UnitCost         float64 `json:"unit_cost"`
	SuggestedPrice   float64 `json:"suggested_price"`
	FilamentIDs      []int64 `json:"filament_ids"`
}

// OrderCreatedEvent published when an order is created
type OrderCreatedEvent struct {
	BaseEvent
	OrderID    int64   `json:"order_id"`
	UserID     int64   `json:"user_id"`
	TotalPrice float64 `json:"total_price"`
	NetProfit  float64 `json:"net_profit"`
	Status     string  `json:"status"`
}

// OrderShippedEvent published when an order is finalized and stock decremented
type OrderShippedEvent struct {
	BaseEvent
	OrderID int64 `json:"order_id"`
	UserID  int64 `json:"user_id"`
}

// OrdersImportedEvent published after a batch import run
type OrdersImportedEvent struct {
	BaseEvent
	UserID        int64 `json:"user_id"`
	MarketplaceID int64 `json:"marketplace_id"`
	Imported      int   `json:"imported"`
	Skipped       int   `json:"skipped"`
	Discarded     int   `json:"discarded"`
}

// FilamentLowStockEvent published when a filament drops below its alert threshold
type FilamentLowStockEvent struct {
	BaseEvent
	FilamentID     int64   `json:"filament_id"`
	UserID         int64   `json:"user_id"`
	Name           string  `json:"name"`
	CurrentWeightG float64 `json:"current_weight_g"`
	MinStockAlertG float64 `json:"min_stock_alert_g"`
}
