package core

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/beaconchat/beacon-server/internal/store"
	"github.com/beaconchat/beacon-server/internal/store/sqlite"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	s, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})
	return s
}

func newTestHub(t *testing.T, st store.Store, narrowcast bool) (*Hub, *Registry) {
	t.Helper()

	logger := zerolog.Nop()
	registry := NewRegistry()
	return NewHub(st, registry, time.UTC, narrowcast, &logger), registry
}

// mustEvent waits for one event on the client's channel or fails the test.
func mustEvent(t *testing.T, c *Client) *Event {
	t.Helper()

	select {
	case event := <-c.Events:
		return event
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for event on client %s", c.ID)
		return nil
	}
}

// mustNoEvent asserts the client receives nothing within the wait window.
func mustNoEvent(t *testing.T, c *Client, wait time.Duration) {
	t.Helper()

	select {
	case event := <-c.Events:
		t.Fatalf("unexpected event on client %s: %+v", c.ID, event)
	case <-time.After(wait):
	}
}
