package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_PublishUpdated(t *testing.T) {
	bus := NewBus()

	first, cancelFirst := bus.SubscribeUpdated()
	defer cancelFirst()
	second, cancelSecond := bus.SubscribeUpdated()
	defer cancelSecond()

	bus.PublishUpdated(TasksUpdated{Source: "task_create", TaskTitle: "hello"})

	for _, ch := range []<-chan TasksUpdated{first, second} {
		select {
		case e := <-ch:
			assert.Equal(t, "task_create", e.Source)
			assert.Equal(t, "hello", e.TaskTitle)
		default:
			t.Fatal("expected every subscriber to receive the event")
		}
	}
}

func TestBus_CancelStopsDelivery(t *testing.T) {
	bus := NewBus()

	ch, cancel := bus.SubscribeUpdated()
	cancel()

	// The channel is closed on cancel, and cancelling again is safe.
	cancel()
	_, ok := <-ch
	assert.False(t, ok)

	// Publishing after cancel must not panic or deliver.
	bus.PublishUpdated(TasksUpdated{Source: "task_delete"})
}

func TestBus_PublishNeverBlocks(t *testing.T) {
	bus := NewBus()

	_, cancel := bus.SubscribeUpdated()
	defer cancel()

	// Overfill the subscriber buffer; extra events are dropped, not queued.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			bus.PublishUpdated(TasksUpdated{Source: "flood"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber buffer")
	}
}

func TestBus_PublishRefreshed(t *testing.T) {
	bus := NewBus()

	ch, cancel := bus.SubscribeRefreshed()
	defer cancel()

	at := time.Now()
	bus.PublishRefreshed(TasksRefreshed{At: at})

	select {
	case e := <-ch:
		require.True(t, e.At.Equal(at))
	default:
		t.Fatal("expected the refresh event to be delivered")
	}
}
