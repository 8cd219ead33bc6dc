package worker

import (
	"context"

	"github.com/spec-kit/shop-service/internal/events"
	"github.com/spec-kit/shop-service/internal/service"
)

// EventSink receives order events outside the process, e.g. a broker queue.
type EventSink interface {
	Handle(ctx context.Context, event events.Event) error
}

// orderEventTypes are the events forwarded to every sink.
var orderEventTypes = []events.EventType{events.EventOrderPlaced, events.EventOrderUpdated}

// StartNotificationWorker registers the audit handlers and subscribes each sink
// to the order events. Nil sinks are skipped.
func StartNotificationWorker(dispatcher events.Dispatcher, notificationService *service.NotificationService, sinks ...EventSink) {
	if notificationService != nil {
		notificationService.RegisterHandlers()
	}
	if dispatcher == nil {
		return
	}
	for _, sink := range sinks {
		if sink == nil {
			continue
		}
		for _, eventType := range orderEventTypes {
			dispatcher.Subscribe(eventType, sink.Handle)
		}
	}
}
