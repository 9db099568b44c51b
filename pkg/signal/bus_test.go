package signal

import (
	"testing"
	"time"
)

func TestSubscribeAndPublish(t *testing.T) {
	bus := NewBus()

	id, ch := bus.Subscribe()
	if bus.SubscriberCount() != 1 {
		t.Fatalf("SubscriberCount() = %v, want 1", bus.SubscriberCount())
	}

	bus.Publish()

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("notification not delivered")
	}

	bus.Unsubscribe(id)
	if bus.SubscriberCount() != 0 {
		t.Errorf("SubscriberCount() = %v, want 0", bus.SubscriberCount())
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	bus := NewBus()

	id, ch := bus.Subscribe()
	bus.Unsubscribe(id)

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected closed channel after Unsubscribe")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed")
	}
}

func TestPublishDoesNotBlockOnFullSubscriber(t *testing.T) {
	bus := NewBus()

	_, ch := bus.Subscribe()

	// Overfill the buffer; Publish must never block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBufSize*2; i++ {
			bus.Publish()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}

	// Buffered notifications are still observable.
	select {
	case <-ch:
	default:
		t.Error("expected at least one buffered notification")
	}
}

func TestMultipleSubscribers(t *testing.T) {
	bus := NewBus()

	_, ch1 := bus.Subscribe()
	_, ch2 := bus.Subscribe()

	bus.Publish()

	for i, ch := range []<-chan struct{}{ch1, ch2} {
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d did not receive notification", i)
		}
	}
}
