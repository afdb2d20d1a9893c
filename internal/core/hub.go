package core

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/beaconchat/beacon-server/internal/auth"
	"github.com/beaconchat/beacon-server/internal/store"
)

// Hub accepts send requests from connected clients, persists them and fans
// the resulting delivery events out to live connections. All fan-out
// decisions happen on the single Run goroutine; clients talk to the hub
// exclusively through channels.
type Hub struct {
	registry   *Registry
	messages   store.MessageStore
	zone       *time.Location
	narrowcast bool
	log        *zerolog.Logger

	now func() time.Time

	commands chan clientCommand
	done     chan struct{}
}

type clientCommand struct {
	client *Client
	cmd    *Command
}

// NewHub creates a hub over the given store and registry. When narrowcast
// is false every delivery event goes to all registered connections, not
// just sender and receiver.
func NewHub(messages store.MessageStore, registry *Registry, zone *time.Location, narrowcast bool, logger *zerolog.Logger) *Hub {
	return &Hub{
		registry:   registry,
		messages:   messages,
		zone:       zone,
		narrowcast: narrowcast,
		log:        logger,
		now:        time.Now,
		commands:   make(chan clientCommand, 64),
		done:       make(chan struct{}),
	}
}

// RegisterClient adds the client to the registry and starts forwarding its
// commands into the hub.
func (h *Hub) RegisterClient(c *Client) {
	h.registry.Register(c)
	go h.pump(c)
}

// UnregisterClient removes the client from the registry. In-flight sends
// are not cancelled; persistence always completes before delivery starts.
func (h *Hub) UnregisterClient(c *Client) {
	h.registry.Deregister(c)
}

// pump forwards one client's commands to the hub until the client's
// Commands channel is closed or the hub stops.
func (h *Hub) pump(c *Client) {
	for cmd := range c.Commands {
		select {
		case h.commands <- clientCommand{client: c, cmd: cmd}:
		case <-h.done:
			return
		}
	}
}

// Run processes commands until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case cc := <-h.commands:
			h.handleSend(ctx, cc.client, cc.cmd)
		case <-ctx.Done():
			return
		}
	}
}

// handleSend validates, persists and delivers one message. Incomplete
// requests are dropped without a response. Delivery only starts after the
// message is durably committed.
func (h *Hub) handleSend(ctx context.Context, client *Client, cmd *Command) {
	// Receivers are normalized the same way usernames are stored, so a
	// frame naming "bob" lands in Bob's thread and unread count.
	receiver := auth.NormalizeUsername(cmd.Receiver)
	if cmd.Text == "" || receiver == "" {
		h.log.Debug().Str("client_id", client.ID).Msg("dropping incomplete send")
		return
	}

	msg, err := h.messages.AppendMessage(ctx, client.Username, receiver, cmd.Text, h.now().In(h.zone))
	if err != nil {
		if errors.Is(err, store.ErrInvalidMessage) {
			h.log.Debug().Err(err).Str("client_id", client.ID).Msg("dropping invalid send")
			return
		}
		h.log.Error().Err(err).Str("sender", client.Username).Msg("persist message failed")
		deliver(client, &Event{
			Kind:  EventError,
			Error: coreError(ErrCodePersistence, "message could not be saved"),
		})
		return
	}

	event := &Event{
		Kind: EventMessage,
		Message: DeliveryEvent{
			Sender:   msg.Sender,
			Receiver: msg.Receiver,
			Text:     msg.Text,
			Time:     FormatTimestamp(msg.Timestamp, h.zone),
			IsRead:   false,
		},
	}

	if h.narrowcast {
		h.registry.BroadcastTo(event, msg.Sender, msg.Receiver)
		return
	}
	h.registry.Broadcast(event)
}
