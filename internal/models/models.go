package models

import "time"

// Filament represents a spool of printing material tracked by weight and roll count
type Filament struct {
	ID             int64     `db:"id" json:"id"`
	UserID         int64     `db:"user_id" json:"user_id"`
	Name           string    `db:"name" json:"name"`
	Brand          string    `db:"brand" json:"brand"`
	Material       string    `db:"material" json:"material"`
	Color          string    `db:"color" json:"color"`
	RollWeightG    float64   `db:"roll_weight_g" json:"roll_weight_g"`
	RollPrice      float64   `db:"roll_price" json:"roll_price"`
	GramsPerRoll   float64   `db:"grams_per_roll" json:"grams_per_roll"`
	Rolls          int       `db:"rolls" json:"rolls"`
	CurrentWeightG float64   `db:"current_weight_g" json:"current_weight_g"`
	MinStockAlertG float64   `db:"min_stock_alert_g" json:"min_stock_alert_g"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// CostPerGram returns the material cost for one gram of this filament
func (f *Filament) CostPerGram() float64 {
	if f.RollWeightG <= 0 {
		return 0
	}
	return f.RollPrice / f.RollWeightG
}

// Printer represents a 3D printer with depreciation and energy parameters
type Printer struct {
	ID                int64     `db:"id" json:"id"`
	UserID            int64     `db:"user_id" json:"user_id"`
	Name              string    `db:"name" json:"name"`
	Model             string    `db:"model" json:"model"`
	PurchasePrice     float64   `db:"purchase_price" json:"purchase_price"`
	LifespanHours     float64   `db:"lifespan_hours" json:"lifespan_hours"`
	PowerWatts        float64   `db:"power_watts" json:"power_watts"`
	TotalHoursPrinted float64   `db:"total_hours_printed" json:"total_hours_printed"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}

// Product represents a sellable item produced on the farm
type Product struct {
	ID             int64     `db:"id" json:"id"`
	UserID         int64     `db:"user_id" json:"user_id"`
	SKU            string    `db:"sku" json:"sku"`
	Name           string    `db:"name" json:"name"`
	Description    string    `db:"description" json:"description"`
	StockQuantity  int       `db:"stock_quantity" json:"stock_quantity"`
	AverageCost    float64   `db:"average_cost" json:"average_cost"`
	SuggestedPrice float64   `db:"suggested_price" json:"suggested_price"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Expense is a flat per-unit extra cost item (packaging, labels, glue)
type Expense struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Name      string    `db:"name" json:"name"`
	Cost      float64   `db:"cost" json:"cost"`
	Unit      string    `db:"unit" json:"unit"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Marketplace is a sales channel with a percentage plus fixed fee schedule
type Marketplace struct {
	ID         int64     `db:"id" json:"id"`
	UserID     int64     `db:"user_id" json:"user_id"`
	Name       string    `db:"name" json:"name"`
	FeePercent float64   `db:"fee_percent" json:"fee_percent"`
	FeeFixed   float64   `db:"fee_fixed" json:"fee_fixed"`
	Notes      string    `db:"notes" json:"notes"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Print is an immutable record of one completed production batch
type Print struct {
	ID                int64     `db:"id" json:"id"`
	UserID            int64     `db:"user_id" json:"user_id"`
	ProductID         int64     `db:"product_id" json:"product_id"`
	PrinterID         int64     `db:"printer_id" json:"printer_id"`
	PrintDate         time.Time `db:"print_date" json:"print_date"`
	PrintTimeMinutes  int       `db:"print_time_minutes" json:"print_time_minutes"`
	QuantityProduced  int       `db:"quantity_produced" json:"quantity_produced"`
	CostFilamentTotal float64   `db:"cost_filament_total" json:"cost_filament_total"`
	CostEnergy        float64   `db:"cost_energy" json:"cost_energy"`
	CostDepreciation  float64   `db:"cost_depreciation" json:"cost_depreciation"`
	CostAdditional    float64   `db:"cost_additional" json:"cost_additional"`
	UnitCostFinal     float64   `db:"unit_cost_final" json:"unit_cost_final"`
	AppliedMargin     float64   `db:"applied_margin" json:"applied_margin"`
	SuggestedPrice    float64   `db:"suggested_price" json:"suggested_price"`
	EnergyRate        float64   `db:"energy_rate" json:"energy_rate"`
	PrinterPowerW     float64   `db:"printer_power_w" json:"printer_power_w"`
	Status            string    `db:"status" json:"status"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}

// FilamentUsage records filament consumed by a print, owned by that print
type FilamentUsage struct {
	ID              int64   `db:"id" json:"id"`
	PrintID         int64   `db:"print_id" json:"print_id"`
	FilamentID      int64   `db:"filament_id" json:"filament_id"`
	MaterialWeightG float64 `db:"material_weight_g" json:"material_weight_g"`
	Cost            float64 `db:"cost" json:"cost"`
}

// ExpenseUsage records an extra expense consumed by a print
type ExpenseUsage struct {
	ID        int64   `db:"id" json:"id"`
	PrintID   int64   `db:"print_id" json:"print_id"`
	ExpenseID int64   `db:"expense_id" json:"expense_id"`
	Quantity  float64 `db:"quantity" json:"quantity"`
	Cost      float64 `db:"cost" json:"cost"`
}

// Order represents a sale through a marketplace or direct channel.
// MarketplaceID zero means a direct sale with no fees.
type Order struct {
	ID                 int64     `db:"id" json:"id"`
	UserID             int64     `db:"user_id" json:"user_id"`
	MarketplaceID      int64     `db:"marketplace_id" json:"marketplace_id"`
	MarketplaceOrderID string    `db:"marketplace_order_id" json:"marketplace_order_id,omitempty"`
	CustomerName       string    `db:"customer_name" json:"customer_name"`
	OrderDate          time.Time `db:"order_date" json:"order_date"`
	Status             string    `db:"status" json:"status"`
	TotalPrice         float64   `db:"total_price" json:"total_price"`
	MarketplaceFee     float64   `db:"marketplace_fee" json:"marketplace_fee"`
	CostAdditional     float64   `db:"cost_additional" json:"cost_additional"`
	NetProfit          float64   `db:"net_profit" json:"net_profit"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

// OrderItem is one product line in an order. UnitCostAtSale is a snapshot of the
// product's average cost at order creation and never tracks later drift.
type OrderItem struct {
	ID             int64   `db:"id" json:"id"`
	OrderID        int64   `db:"order_id" json:"order_id"`
	ProductID      int64   `db:"product_id" json:"product_id"`
	Quantity       int     `db:"quantity" json:"quantity"`
	UnitPrice      float64 `db:"unit_price" json:"unit_price"`
	UnitCostAtSale float64 `db:"unit_cost_at_sale" json:"unit_cost_at_sale"`
}

// UserConfig holds per-user pricing levers
type UserConfig struct {
	UserID               int64     `db:"user_id" json:"user_id"`
	EnergyTariff         float64   `db:"energy_tariff" json:"energy_tariff"`
	DefaultMarginPercent float64   `db:"default_margin_percent" json:"default_margin_percent"`
	Currency             string    `db:"currency" json:"currency"`
	UpdatedAt            time.Time `db:"updated_at" json:"updated_at"`
}

// Order statuses
const (
	OrderStatusDraft     = "draft"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
)

// Print statuses
const (
	PrintStatusCompleted = "completed"
	PrintStatusFailed    = "failed"
)

// ExternalOrder is the normalized shape produced by the spreadsheet import
// collaborator. The reconciler consumes exactly this.
type ExternalOrder struct {
	ExternalID string              `json:"external_id" binding:"required"`
	Date       time.Time           `json:"date"`
	Customer   string              `json:"customer"`
	Items      []ExternalOrderItem `json:"items" binding:"required"`
	Total      float64             `json:"total"`
}

// ExternalOrderItem is one line of an external order, matched by SKU
type ExternalOrderItem struct {
	SKU      string  `json:"sku"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}
