package messaging

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KunafaIceCream/udst-healthpage/internal/domain/shared"
)

type stubEvent struct {
	shared.BaseEvent
}

func (e stubEvent) Payload() map[string]interface{} {
	return map[string]interface{}{}
}

func newStubEvent(eventType shared.EventType) stubEvent {
	return stubEvent{BaseEvent: shared.NewBaseEvent(eventType, "rec-1")}
}

func syncBus() *InMemoryEventBus {
	return NewInMemoryEventBus(InMemoryEventBusConfig{
		AsyncMode:     false,
		EnableMetrics: true,
	})
}

func TestInMemoryEventBus_RoutesByType(t *testing.T) {
	bus := syncBus()
	defer bus.Close()

	var pointsEvents, badgeEvents int
	require.NoError(t, bus.Subscribe(shared.EventPointsChanged, func(shared.Event) error {
		pointsEvents++
		return nil
	}))
	require.NoError(t, bus.Subscribe(shared.EventBadgeUnlocked, func(shared.Event) error {
		badgeEvents++
		return nil
	}))

	require.NoError(t, bus.Publish(newStubEvent(shared.EventPointsChanged)))
	require.NoError(t, bus.Publish(newStubEvent(shared.EventPointsChanged)))

	assert.Equal(t, 2, pointsEvents)
	assert.Equal(t, 0, badgeEvents)
}

func TestInMemoryEventBus_SubscribeAll(t *testing.T) {
	bus := syncBus()
	defer bus.Close()

	var seen []shared.EventType
	require.NoError(t, bus.SubscribeAll(func(e shared.Event) error {
		seen = append(seen, e.EventType())
		return nil
	}))

	require.NoError(t, bus.Publish(newStubEvent(shared.EventPointsChanged)))
	require.NoError(t, bus.Publish(newStubEvent(shared.EventBadgeUnlocked)))

	assert.Equal(t, []shared.EventType{shared.EventPointsChanged, shared.EventBadgeUnlocked}, seen)
}

func TestInMemoryEventBus_AsyncDelivery(t *testing.T) {
	bus := NewInMemoryEventBus(InMemoryEventBusConfig{
		AsyncMode:      true,
		WorkerPoolSize: 2,
	})

	var mu sync.Mutex
	var count int
	require.NoError(t, bus.Subscribe(shared.EventPointsChanged, func(shared.Event) error {
		mu.Lock()
		count++
		mu.Unlock()
		return nil
	}))

	for i := 0; i < 10; i++ {
		require.NoError(t, bus.Publish(newStubEvent(shared.EventPointsChanged)))
	}

	// Close waits for in-flight handlers.
	require.NoError(t, bus.Close())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 10, count)
}

func TestInMemoryEventBus_ClosedRejectsPublish(t *testing.T) {
	bus := syncBus()
	require.NoError(t, bus.Close())

	err := bus.Publish(newStubEvent(shared.EventPointsChanged))
	assert.ErrorIs(t, err, ErrEventBusClosed)

	err = bus.Subscribe(shared.EventPointsChanged, func(shared.Event) error { return nil })
	assert.ErrorIs(t, err, ErrEventBusClosed)
}

func TestInMemoryEventBus_Metrics(t *testing.T) {
	bus := syncBus()
	defer bus.Close()

	require.NoError(t, bus.Subscribe(shared.EventPointsChanged, func(shared.Event) error {
		time.Sleep(time.Millisecond)
		return nil
	}))

	require.NoError(t, bus.Publish(newStubEvent(shared.EventPointsChanged)))
	require.NoError(t, bus.Publish(newStubEvent(shared.EventPointsChanged)))

	snap := bus.Metrics().Snapshot()
	assert.Equal(t, int64(2), snap.TotalPublished)
	assert.Equal(t, int64(2), snap.TotalHandlerExecs)
	assert.Equal(t, 1.0, snap.HandlerSuccessRate)
}
