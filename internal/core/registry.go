package core

import "sync"

// Registry tracks the set of currently connected clients. It is purely
// process-local and starts empty on every restart.
type Registry struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	byUser  map[string]map[*Client]struct{}
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[*Client]struct{}),
		byUser:  make(map[string]map[*Client]struct{}),
	}
}

// Register inserts a client. Returns true if newly added.
func (r *Registry) Register(c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.clients[c]; exists {
		return false
	}
	r.clients[c] = struct{}{}

	conns := r.byUser[c.Username]
	if conns == nil {
		conns = make(map[*Client]struct{})
		r.byUser[c.Username] = conns
	}
	conns[c] = struct{}{}
	return true
}

// Deregister removes a client. Safe to call for clients that were never
// registered or already removed, so abrupt disconnects cannot leak entries.
func (r *Registry) Deregister(c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.clients[c]; !exists {
		return false
	}
	delete(r.clients, c)

	if conns := r.byUser[c.Username]; conns != nil {
		delete(conns, c)
		if len(conns) == 0 {
			delete(r.byUser, c.Username)
		}
	}
	return true
}

// Broadcast sends an event to every registered client. Delivery per client
// is best-effort: a full Events channel drops the event for that client
// without stalling the others.
func (r *Registry) Broadcast(event *Event) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for client := range r.clients {
		deliver(client, event)
	}
}

// BroadcastTo sends an event to every connection held by the named users.
func (r *Registry) BroadcastTo(event *Event, usernames ...string) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[*Client]struct{})
	for _, name := range usernames {
		for client := range r.byUser[name] {
			if _, dup := seen[client]; dup {
				continue
			}
			seen[client] = struct{}{}
			deliver(client, event)
		}
	}
}

// Len returns the number of registered clients.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

func deliver(client *Client, event *Event) {
	select {
	case client.Events <- event:
	default:
		// Drop if slow consumer.
	}
}
