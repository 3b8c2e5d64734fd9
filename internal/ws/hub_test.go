package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishInvokesSubscribers(t *testing.T) {
	h := NewHub()
	var catalog, inventory int

	unsubCatalog := h.Subscribe(func() { catalog++ })
	unsubInventory := h.Subscribe(func() { inventory++ })
	defer unsubInventory()

	h.Publish("sale_completed", "p1")
	assert.Equal(t, 1, catalog)
	assert.Equal(t, 1, inventory)

	unsubCatalog()
	unsubCatalog()
	h.Publish("product_created")
	assert.Equal(t, 1, catalog)
	assert.Equal(t, 2, inventory)
}

func TestPublishWithoutListenersIsDropped(t *testing.T) {
	h := NewHub()

	done := make(chan struct{})
	go func() {
		for i := 0; i < broadcastBuffer*3; i++ {
			h.Publish("stock_updated")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked with no websocket loop running")
	}
	assert.Len(t, h.broadcast, broadcastBuffer)
}

func TestPublishFrameShape(t *testing.T) {
	h := NewHub()
	h.Publish("products_restored", "p1", "p2")

	var ev Event
	require.NoError(t, json.Unmarshal(<-h.broadcast, &ev))
	assert.Equal(t, EventProductsRefresh, ev.Type)
	assert.Equal(t, "products_restored", ev.Reason)
	assert.Equal(t, []string{"p1", "p2"}, ev.ProductIDs)
}

func TestSubscriberMayPublishReentrantly(t *testing.T) {
	h := NewHub()
	calls := 0
	var unsub func()
	unsub = h.Subscribe(func() {
		calls++
		unsub()
		h.Publish("nested")
	})

	h.Publish("outer")
	assert.Equal(t, 1, calls)
}

func TestRunStopsOnCancel(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()

	h.Publish("drained")
	cancel()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, 0, h.ClientCount())
}

func TestAttachAndDetachReturnAfterRunStops(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan bool)
	go func() {
		attached := h.Attach(ctx, nil)
		h.Detach(ctx, nil)
		done <- attached
	}()

	select {
	case attached := <-done:
		assert.False(t, attached)
	case <-time.After(time.Second):
		t.Fatal("Detach blocked with no Run loop")
	}
}
