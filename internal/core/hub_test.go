package core

import (
	"context"
	"testing"
	"time"
)

func TestHubBroadcastsToAllClients(t *testing.T) {
	st := newTestStore(t)
	hub, _ := newTestHub(t, st, false)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	alice := NewClient("c1", "Alice")
	bob := NewClient("c2", "Bob")
	carol := NewClient("c3", "Carol")
	for _, c := range []*Client{alice, bob, carol} {
		hub.RegisterClient(c)
	}

	alice.Commands <- &Command{Receiver: "Bob", Text: "hello"}

	// Every live connection gets the frame, not just sender and receiver.
	for _, c := range []*Client{alice, bob, carol} {
		event := mustEvent(t, c)
		if event.Kind != EventMessage {
			t.Fatalf("client %s: expected message event, got %v", c.ID, event.Kind)
		}
		msg := event.Message
		if msg.Sender != "Alice" || msg.Receiver != "Bob" || msg.Text != "hello" {
			t.Errorf("client %s: event mismatch: %+v", c.ID, msg)
		}
		if msg.IsRead {
			t.Errorf("client %s: delivered message must be unread", c.ID)
		}
		if msg.Time == "" {
			t.Errorf("client %s: expected formatted time", c.ID)
		}
	}
}

func TestHubNormalizesReceiver(t *testing.T) {
	st := newTestStore(t)
	hub, _ := newTestHub(t, st, false)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	alice := NewClient("c1", "Alice")
	hub.RegisterClient(alice)

	// The frame names the receiver in lowercase; the stored row and the
	// delivery event must carry the canonical form.
	alice.Commands <- &Command{Receiver: "bob", Text: "hi"}

	event := mustEvent(t, alice)
	if event.Message.Receiver != "Bob" {
		t.Errorf("expected receiver Bob in event, got %q", event.Message.Receiver)
	}

	thread, err := st.ThreadBetween(ctx, "Alice", "Bob")
	if err != nil {
		t.Fatalf("ThreadBetween failed: %v", err)
	}
	if len(thread) != 1 {
		t.Fatalf("expected 1 message in Alice-Bob thread, got %d", len(thread))
	}
	if thread[0].Receiver != "Bob" {
		t.Errorf("expected stored receiver Bob, got %q", thread[0].Receiver)
	}

	unread, err := st.CountUnread(ctx, "Alice", "Bob")
	if err != nil {
		t.Fatalf("CountUnread failed: %v", err)
	}
	if unread != 1 {
		t.Errorf("expected 1 unread for Bob, got %d", unread)
	}
}

func TestHubNarrowcast(t *testing.T) {
	st := newTestStore(t)
	hub, _ := newTestHub(t, st, true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	alice := NewClient("c1", "Alice")
	bob := NewClient("c2", "Bob")
	carol := NewClient("c3", "Carol")
	for _, c := range []*Client{alice, bob, carol} {
		hub.RegisterClient(c)
	}

	alice.Commands <- &Command{Receiver: "Bob", Text: "psst"}

	mustEvent(t, alice)
	mustEvent(t, bob)
	mustNoEvent(t, carol, 200*time.Millisecond)
}

func TestHubPersistsBeforeDelivery(t *testing.T) {
	st := newTestStore(t)
	hub, _ := newTestHub(t, st, false)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	alice := NewClient("c1", "Alice")
	hub.RegisterClient(alice)

	alice.Commands <- &Command{Receiver: "Bob", Text: "durable"}
	mustEvent(t, alice)

	// Once an event is out, the row must already be committed.
	thread, err := st.ThreadBetween(ctx, "Alice", "Bob")
	if err != nil {
		t.Fatalf("ThreadBetween failed: %v", err)
	}
	if len(thread) != 1 {
		t.Fatalf("expected 1 stored message, got %d", len(thread))
	}
	if thread[0].Text != "durable" {
		t.Errorf("stored text mismatch: %q", thread[0].Text)
	}
}

func TestHubDropsIncompleteSends(t *testing.T) {
	st := newTestStore(t)
	hub, _ := newTestHub(t, st, false)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	alice := NewClient("c1", "Alice")
	bob := NewClient("c2", "Bob")
	hub.RegisterClient(alice)
	hub.RegisterClient(bob)

	alice.Commands <- &Command{Receiver: "", Text: "no receiver"}
	alice.Commands <- &Command{Receiver: "Bob", Text: ""}

	mustNoEvent(t, alice, 200*time.Millisecond)
	mustNoEvent(t, bob, 100*time.Millisecond)

	thread, err := st.ThreadBetween(ctx, "Alice", "Bob")
	if err != nil {
		t.Fatalf("ThreadBetween failed: %v", err)
	}
	if len(thread) != 0 {
		t.Errorf("incomplete sends must not be stored, got %d rows", len(thread))
	}
}

func TestHubSlowConsumerDoesNotStallOthers(t *testing.T) {
	st := newTestStore(t)
	hub, _ := newTestHub(t, st, false)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	alice := NewClient("c1", "Alice")
	bob := NewClient("c2", "Bob")
	slow := NewClient("c3", "Carol")
	for _, c := range []*Client{alice, bob, slow} {
		hub.RegisterClient(c)
	}

	// Fill the slow client's buffer so further deliveries are dropped.
	for i := 0; i < cap(slow.Events); i++ {
		slow.Events <- &Event{Kind: EventMessage}
	}

	alice.Commands <- &Command{Receiver: "Bob", Text: "still moving"}

	mustEvent(t, alice)
	event := mustEvent(t, bob)
	if event.Message.Text != "still moving" {
		t.Errorf("unexpected event for bob: %+v", event.Message)
	}
}

func TestHubUnregisteredClientGetsNothing(t *testing.T) {
	st := newTestStore(t)
	hub, _ := newTestHub(t, st, false)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	alice := NewClient("c1", "Alice")
	bob := NewClient("c2", "Bob")
	hub.RegisterClient(alice)
	hub.RegisterClient(bob)
	hub.UnregisterClient(bob)

	alice.Commands <- &Command{Receiver: "Bob", Text: "gone"}

	mustEvent(t, alice)
	mustNoEvent(t, bob, 200*time.Millisecond)
}
