package core

import (
	"context"
	"fmt"

	"github.com/beaconchat/beacon-server/internal/store"
)

// UnreadTracker derives per-peer unread counts from the message store.
// It holds no state of its own, so every call reflects the latest
// committed messages.
type UnreadTracker struct {
	messages store.MessageStore
}

// NewUnreadTracker constructs a tracker over the given store.
func NewUnreadTracker(messages store.MessageStore) *UnreadTracker {
	return &UnreadTracker{messages: messages}
}

// Counts returns, for each peer, how many of its messages the viewer has
// not read yet.
func (t *UnreadTracker) Counts(ctx context.Context, viewer string, peers []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(peers))
	for _, peer := range peers {
		n, err := t.messages.CountUnread(ctx, peer, viewer)
		if err != nil {
			return nil, fmt.Errorf("count unread from %s: %w", peer, err)
		}
		counts[peer] = n
	}
	return counts, nil
}
