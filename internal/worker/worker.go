package worker

import (
	"context"
	"log"
	"time"

	"printfarm-service/internal/broker"
	"printfarm-service/internal/models"
	"printfarm-service/internal/store"
	"printfarm-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StockAlertWorker watches production events and raises low stock alerts
// for filaments that fell to or below their alert threshold
type StockAlertWorker struct {
	consumer       *broker.Consumer
	eventHandler   *broker.EventHandler
	store          *store.Store
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewStockAlertWorker creates a new stock alert worker
func NewStockAlertWorker(
	consumer *broker.Consumer,
	st *store.Store,
	eventPublisher *broker.EventPublisher,
) *StockAlertWorker {
	w := &StockAlertWorker{
		consumer:       consumer,
		store:          st,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnProductionRegistered(w.handleProductionRegistered)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *StockAlertWorker) Start(ctx context.Context) error {
	log.Println("Starting stock alert worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *StockAlertWorker) Stop() error {
	log.Println("Stopping stock alert worker...")
	return w.consumer.Close()
}

// handleProductionRegistered scans the user's filaments after a production
// batch consumed material and publishes an alert per low filament.
func (w *StockAlertWorker) handleProductionRegistered(ctx context.Context, event *models.ProductionRegisteredEvent) error {
	filaments, err := w.store.GetLowStockFilaments(ctx, event.UserID)
	if err != nil {
		w.logger.Error("Failed to scan low stock filaments",
			zap.Int64("user_id", event.UserID),
			zap.Error(err))
		return err
	}

	for _, f := range filaments {
		alert := &models.FilamentLowStockEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeFilamentLowStock,
				Timestamp: time.Now(),
			},
			FilamentID:     f.ID,
			UserID:         f.UserID,
			Name:           f.Name,
			CurrentWeightG: f.CurrentWeightG,
			MinStockAlertG: f.MinStockAlertG,
		}
		if err := w.eventPublisher.PublishFilamentLowStock(ctx, alert); err != nil {
			w.logger.Error("Failed to publish low stock alert",
				zap.Int64("filament_id", f.ID),
				zap.Error(err))
			continue
		}
		util.LowStockAlertsTotal.Inc()
		w.logger.Warn("Filament low on stock",
			zap.Int64("filament_id", f.ID),
			zap.String("name", f.Name),
			zap.Float64("current_weight_g", f.CurrentWeightG),
			zap.Float64("min_stock_alert_g", f.MinStockAlertG))
	}

	return nil
}
