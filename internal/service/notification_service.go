package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/shop-service/internal/events"
)

// NotificationService logs order lifecycle events for downstream auditing.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventOrderPlaced, n.handleOrderPlaced)
	n.dispatcher.Subscribe(events.EventOrderUpdated, n.handleOrderUpdated)
}

func (n *NotificationService) handleOrderPlaced(_ context.Context, event events.Event) error {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("order_id", event.OrderID),
		zap.String("user_id", event.UserID),
	}
	if p, ok := event.Payload.(events.OrderPlacedPayload); ok {
		fields = append(fields,
			zap.Int("item_count", p.ItemCount),
			zap.String("total_price", p.TotalPrice.StringFixed(2)))
	}
	n.logger.Info("OrderPlaced", fields...)
	return nil
}

func (n *NotificationService) handleOrderUpdated(_ context.Context, event events.Event) error {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("order_id", event.OrderID),
		zap.String("user_id", event.UserID),
	}
	if p, ok := event.Payload.(events.OrderUpdatedPayload); ok {
		fields = append(fields, zap.Strings("fields", p.Fields), zap.String("status", p.Status))
	}
	n.logger.Info("OrderUpdated", fields...)
	return nil
}
