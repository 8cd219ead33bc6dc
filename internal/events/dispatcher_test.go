package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_DeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher(nil)

	var got []string
	d.Subscribe(EventOrderPlaced, func(_ context.Context, e Event) error {
		got = append(got, "first:"+e.OrderID)
		return errors.New("boom")
	})
	d.Subscribe(EventOrderPlaced, func(_ context.Context, e Event) error {
		got = append(got, "second:"+e.OrderID)
		return nil
	})
	d.Subscribe(EventOrderUpdated, func(_ context.Context, e Event) error {
		got = append(got, "updated:"+e.OrderID)
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventOrderPlaced, OrderID: "o-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"first:o-1", "second:o-1"}, got)
}

func TestDispatcher_NoSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	require.NoError(t, d.Publish(context.Background(), Event{Type: EventOrderUpdated}))
}
