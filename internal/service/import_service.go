package service

import (
	"context"
	"fmt"
	"strings"
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

// dedupTTL bounds how long a seen external order id lives in Redis. The
// database check is authoritative, the Redis mark only saves round-trips.
const dedupTTL = 30 * 24 * time.Hour

// ImportService reconciles normalized external order batches into orders
type ImportService struct {
	store          *store.Store
	redis          *redisclient.Client
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewImportService creates a new import service
func NewImportService(store *store.Store, redis *redisclient.Client, eventPublisher *broker.EventPublisher) *ImportService {
	return &ImportService{
		store:          store,
		redis:          redis,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// ImportResult summarizes one reconciliation run
type ImportResult struct {
	Imported  int `json:"imported"`
	Skipped   int `json:"skipped"`
	Discarded int `json:"discarded"`
}

// normalizeSKU is the SKU matching key: trimmed, case-insensitive
func normalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}

// productsBySKU indexes products under their normalized SKU. Blank SKUs are
// unmatchable and stay out of the index.
func productsBySKU(products []models.Product) map[string]*models.Product {
	bySKU := make(map[string]*models.Product, len(products))
	for i := range products {
		if key := normalizeSKU(products[i].SKU); key != "" {
			bySKU[key] = &products[i]
		}
	}
	return bySKU
}

// buildImportCart matches external line items against the SKU index and
// snapshots the product's current average cost per matched line. The second
// return value counts dropped lines whose SKU matched nothing.
func buildImportCart(bySKU map[string]*models.Product, items []models.ExternalOrderItem) ([]costing.CartItem, int) {
	cart := make([]costing.CartItem, 0, len(items))
	dropped := 0
	for _, item := range items {
		product, ok := bySKU[normalizeSKU(item.SKU)]
		if !ok {
			dropped++
			continue
		}
		cart = append(cart, costing.CartItem{
			ProductID: product.ID,
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
			UnitCost:  product.AverageCost,
		})
	}
	return cart, dropped
}

// ReconcileBatch imports a list of external orders against a marketplace.
// Orders whose external id already exists are skipped (first write wins).
// Line items whose SKU matches no product are dropped; an order left with
// zero matched items is discarded entirely. Surviving orders are inserted
// as confirmed with totals computed over the matched items only.
func (is *ImportService) ReconcileBatch(ctx context.Context, userID, marketplaceID int64, externalOrders []models.ExternalOrder) (*ImportResult, error) {
	ctx, span := util.StartSpan(ctx, "ImportService.ReconcileBatch")
	defer span.End()

	start := time.Now()
	defer func() {
		util.ImportBatchLatency.Observe(time.Since(start).Seconds())
	}()

	fee, err := is.feeSchedule(ctx, marketplaceID)
	if err != nil {
		return nil, err
	}

	products, err := is.store.GetProducts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	bySKU := productsBySKU(products)

	result := &ImportResult{}

	for _, ext := range externalOrders {
		seen, err := is.isDuplicate(ctx, userID, ext.ExternalID)
		if err != nil {
			return result, err
		}
		if seen {
			result.Skipped++
			util.ImportDuplicatesSkipped.Inc()
			continue
		}

		cart, dropped := buildImportCart(bySKU, ext.Items)
		if dropped > 0 {
			util.ImportItemsDropped.Add(float64(dropped))
			is.logger.Debug("Dropped unmatched SKUs",
				zap.Int("dropped", dropped),
				zap.String("external_id", ext.ExternalID))
		}

		if len(cart) == 0 {
			result.Discarded++
			util.ImportOrdersDiscarded.Inc()
			continue
		}

		summary := costing.OrderTotals(cart, nil, fee)

		customer := ext.Customer
		if customer == "" {
			customer = "Imported customer"
		}
		orderDate := ext.Date
		if orderDate.IsZero() {
			orderDate = time.Now()
		}

		order := &models.Order{
			UserID:             userID,
			MarketplaceID:      marketplaceID,
			MarketplaceOrderID: ext.ExternalID,
			CustomerName:       customer,
			OrderDate:          orderDate,
			Status:             models.OrderStatusConfirmed,
			TotalPrice:         summary.TotalRevenue,
			MarketplaceFee:     summary.MarketplaceFee,
			CostAdditional:     0,
			NetProfit:          summary.NetProfit,
		}

		if err := is.store.CreateOrder(ctx, order); err != nil {
			return result, fmt.Errorf("failed to insert imported order %s: %w", ext.ExternalID, err)
		}

		for _, item := range cart {
			orderItem := &models.OrderItem{
				OrderID:        order.ID,
				ProductID:      item.ProductID,
				Quantity:       item.Quantity,
				UnitPrice:      item.UnitPrice,
				UnitCostAtSale: item.UnitCost,
			}
			if err := is.store.CreateOrderItem(ctx, orderItem); err != nil {
				return result, fmt.Errorf("failed to insert imported order item: %w", err)
			}
		}

		is.markImported(ctx, userID, ext.ExternalID)

		result.Imported++
		util.OrdersImportedTotal.Inc()
	}

	is.logger.Info("Import batch reconciled",
		zap.Int64("marketplace_id", marketplaceID),
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
		zap.Int("discarded", result.Discarded))

	event := &models.OrdersImportedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrdersImported,
			Timestamp: time.Now(),
		},
		UserID:        userID,
		MarketplaceID: marketplaceID,
		Imported:      result.Imported,
		Skipped:       result.Skipped,
		Discarded:     result.Discarded,
	}
	if err := is.eventPublisher.PublishOrdersImported(ctx, event); err != nil {
		is.logger.Error("Failed to publish OrdersImported event", zap.Error(err))
	}

	return result, nil
}

// isDuplicate checks the external order id. Redis only answers positively as
// a fast path; the database is the source of truth, so a Redis miss or error
// always falls through to the store lookup. Only markImported ever writes
// the Redis side, after an order row actually exists.
func (is *ImportService) isDuplicate(ctx context.Context, userID int64, externalID string) (bool, error) {
	if is.redis != nil {
		seen, err := is.redis.IsExternalOrderSeen(ctx, userID, externalID)
		if err == nil && seen {
			return true, nil
		}
		if err != nil {
			is.logger.Warn("Redis dedup check failed, falling back to DB", zap.Error(err))
		}
	}

	existing, err := is.store.GetOrderByExternalID(ctx, userID, externalID)
	if err != nil {
		return false, fmt.Errorf("failed to check external order id: %w", err)
	}
	return existing != nil, nil
}

// markImported records a persisted external order id in Redis. Discarded or
// failed orders are never marked; they must stay importable.
func (is *ImportService) markImported(ctx context.Context, userID int64, externalID string) {
	if is.redis == nil {
		return
	}
	if err := is.redis.MarkExternalOrderSeen(ctx, userID, externalID, dedupTTL); err != nil {
		is.logger.Warn("Failed to mark imported order in Redis", zap.Error(err))
	}
}

func (is *ImportService) feeSchedule(ctx context.Context, marketplaceID int64) (*costing.FeeSchedule, error) {
	if marketplaceID == 0 {
		return nil, nil
	}
	mkt, err := is.store.GetMarketplaceByID(ctx, marketplaceID)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, fmt.Errorf("%w: marketplace %d not found", ErrValidation, marketplaceID)
		}
		return nil, err
	}
	return &costing.FeeSchedule{Percent: mkt.FeePercent, Fixed: mkt.FeeFixed}, nil
}
