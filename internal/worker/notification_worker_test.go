package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/shop-service/internal/events"
	"github.com/spec-kit/shop-service/internal/service"
)

type recordingSink struct {
	got []events.EventType
}

func (s *recordingSink) Handle(_ context.Context, e events.Event) error {
	s.got = append(s.got, e.Type)
	return nil
}

func TestStartNotificationWorker_ForwardsOrderEvents(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher(nil)
	sink := &recordingSink{}

	StartNotificationWorker(dispatcher, service.NewNotificationService(dispatcher, nil), sink, nil)

	ctx := context.Background()
	require.NoError(t, dispatcher.Publish(ctx, events.Event{Type: events.EventOrderPlaced, OrderID: "o-1"}))
	require.NoError(t, dispatcher.Publish(ctx, events.Event{Type: events.EventOrderUpdated, OrderID: "o-1"}))
	require.NoError(t, dispatcher.Publish(ctx, events.Event{Type: "something_else"}))

	assert.Equal(t, []events.EventType{events.EventOrderPlaced, events.EventOrderUpdated}, sink.got)
}

func TestStartNotificationWorker_WithoutDispatcher(t *testing.T) {
	assert.NotPanics(t, func() {
		StartNotificationWorker(nil, nil, &recordingSink{})
	})
}
