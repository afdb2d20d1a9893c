package core

import (
	"context"
	"testing"
	"time"
)

func TestUnreadTrackerCounts(t *testing.T) {
	st := newTestStore(t)
	tracker := NewUnreadTracker(st)
	ctx := context.Background()
	ts := time.Now()

	for i := 0; i < 2; i++ {
		if _, err := st.AppendMessage(ctx, "Bob", "Alice", "hi", ts); err != nil {
			t.Fatalf("AppendMessage failed: %v", err)
		}
	}
	if _, err := st.AppendMessage(ctx, "Carol", "Alice", "hey", ts); err != nil {
		t.Fatalf("AppendMessage failed: %v", err)
	}
	// Alice's own sends never count against her.
	if _, err := st.AppendMessage(ctx, "Alice", "Bob", "yo", ts); err != nil {
		t.Fatalf("AppendMessage failed: %v", err)
	}

	counts, err := tracker.Counts(ctx, "Alice", []string{"Bob", "Carol", "Dave"})
	if err != nil {
		t.Fatalf("Counts failed: %v", err)
	}

	if counts["Bob"] != 2 {
		t.Errorf("expected 2 unread from Bob, got %d", counts["Bob"])
	}
	if counts["Carol"] != 1 {
		t.Errorf("expected 1 unread from Carol, got %d", counts["Carol"])
	}
	if counts["Dave"] != 0 {
		t.Errorf("expected 0 unread from Dave, got %d", counts["Dave"])
	}
}

func TestUnreadTrackerAfterMarkAllRead(t *testing.T) {
	st := newTestStore(t)
	tracker := NewUnreadTracker(st)
	ctx := context.Background()

	if _, err := st.AppendMessage(ctx, "Bob", "Alice", "hi", time.Now()); err != nil {
		t.Fatalf("AppendMessage failed: %v", err)
	}
	if _, err := st.MarkAllRead(ctx, "Bob", "Alice"); err != nil {
		t.Fatalf("MarkAllRead failed: %v", err)
	}

	counts, err := tracker.Counts(ctx, "Alice", []string{"Bob"})
	if err != nil {
		t.Fatalf("Counts failed: %v", err)
	}
	if counts["Bob"] != 0 {
		t.Errorf("expected 0 unread after mark, got %d", counts["Bob"])
	}
}
