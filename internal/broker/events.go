package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"printfarm-service/internal/models"

	"github.com/segmentio/kafka-go"
)

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishProductionRegistered publishes a ProductionRegistered event
func (ep *EventPublisher) PublishProductionRegistered(ctx context.Context, event *models.ProductionRegisteredEvent) error {
	key := fmt.Sprintf("print-%d", event.PrintID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishOrderCreated publishes an OrderCreated event
func (ep *EventPublisher) PublishOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error {
	key := fmt.Sprintf("order-%d", event.OrderID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishOrderShipped publishes an OrderShipped event
func (ep *EventPublisher) PublishOrderShipped(ctx context.Context, event *models.OrderShippedEvent) error {
	key := fmt.Sprintf("order-%d", event.OrderID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishOrdersImported publishes an OrdersImported event
func (ep *EventPublisher) PublishOrdersImported(ctx context.Context, event *models.OrdersImportedEvent) error {
	key := fmt.Sprintf("import-%d", event.MarketplaceID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishFilamentLowStock publishes a FilamentLowStock event
func (ep *EventPublisher) PublishFilamentLowStock(ctx context.Context, event *models.FilamentLowStockEvent) error {
	key := fmt.Sprintf("filament-%d", event.FilamentID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// EventHandler routes incoming events to registered handlers
type EventHandler struct {
	onProductionRegistered func(context.Context, *models.ProductionRegisteredEvent) error
	onOrderShipped         func(context.Context, *models.OrderShippedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnProductionRegistered registers a handler for ProductionRegistered events
func (eh *EventHandler) OnProductionRegistered(handler func(context.Context, *models.ProductionRegisteredEvent) error) {
	eh.onProductionRegistered = handler
}

// OnOrderShipped registers a handler for OrderShipped events
func (eh *EventHandler) OnOrderShipped(handler func(context.Context, *models.OrderShippedEvent) error) {
	eh.onOrderShipped = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch baseEvent.EventType {
	case models.EventTypeProductionRegistered:
		if eh.onProductionRegistered != nil {
			var event models.ProductionRegisteredEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal ProductionRegistered event: %w", err)
			}
			return eh.onProductionRegistered(ctx, &event)
		}

	case models.EventTypeOrderShipped:
		if eh.onOrderShipped != nil {
			var event models.OrderShippedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal OrderShipped event: %w", err)
			}
			return eh.onOrderShipped(ctx, &event)
		}

	default:
		log.Printf("Unhandled event type: %s", baseEvent.EventType)
	}

	return nil
}
