package notify

import "testing"

func TestHubSubscribeAndBroadcast(t *testing.T) {
	hub := NewHub()

	sub := hub.Subscribe()
	if hub.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", hub.Count())
	}

	event := Event{Table: "bookmarks", Action: ActionInsert, ID: "b1"}
	hub.Broadcast(event)

	select {
	case got := <-sub.C:
		if got != event {
			t.Errorf("received %+v, want %+v", got, event)
		}
	default:
		t.Fatal("Broadcast() should deliver to the subscriber")
	}
}

func TestHubBroadcastReachesAllSubscribers(t *testing.T) {
	hub := NewHub()

	subs := []*Subscriber{hub.Subscribe(), hub.Subscribe(), hub.Subscribe()}
	hub.Broadcast(Event{Table: "bookmarks", Action: ActionDelete, ID: "b2"})

	for i, sub := range subs {
		select {
		case <-sub.C:
		default:
			t.Errorf("subscriber %d did not receive the event", i)
		}
	}
}

func TestHubUnsubscribe(t *testing.T) {
	hub := NewHub()

	sub := hub.Subscribe()
	hub.Unsubscribe(sub.ID)

	if hub.Count() != 0 {
		t.Errorf("Count() = %d after unsubscribe, want 0", hub.Count())
	}

	// Channel must be closed so a draining consumer terminates.
	if _, ok := <-sub.C; ok {
		t.Error("Unsubscribe() should close the subscriber channel")
	}

	// Broadcasting after release must not panic.
	hub.Broadcast(Event{Table: "bookmarks", Action: ActionInsert, ID: "b3"})

	// Repeated release of the same ID is a no-op.
	hub.Unsubscribe(sub.ID)
}

func TestHubBroadcastDropsWhenQueueFull(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe()

	// Overfill the queue; Broadcast must never block.
	for i := 0; i < subscriberBuffer*2; i++ {
		hub.Broadcast(Event{Table: "bookmarks", Action: ActionUpdate, ID: "b4"})
	}

	if len(sub.C) != subscriberBuffer {
		t.Errorf("queue length = %d, want %d", len(sub.C), subscriberBuffer)
	}
}

func TestHubOneEventPerBroadcast(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe()

	hub.Broadcast(Event{Table: "bookmarks", Action: ActionInsert, ID: "b5"})

	if len(sub.C) != 1 {
		t.Errorf("queue length = %d after one broadcast, want exactly 1", len(sub.C))
	}
}
