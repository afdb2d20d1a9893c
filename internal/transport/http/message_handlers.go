package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/beaconchat/beacon-server/internal/auth"
	"github.com/beaconchat/beacon-server/internal/core"
	"github.com/beaconchat/beacon-server/internal/store"
)

// MessageHandlers provides HTTP handlers for history, unread counts and
// read-state endpoints.
type MessageHandlers struct {
	store  store.Store
	unread *core.UnreadTracker
	zone   *time.Location
	log    *zerolog.Logger
}

// NewMessageHandlers creates a new message handlers instance.
func NewMessageHandlers(st store.Store, unread *core.UnreadTracker, zone *time.Location, logger *zerolog.Logger) *MessageHandlers {
	return &MessageHandlers{
		store:  st,
		unread: unread,
		zone:   zone,
		log:    logger,
	}
}

// MessageView is a formatted message in API responses.
type MessageView struct {
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
	Text     string `json:"text"`
	Time     string `json:"time"`
	IsRead   bool   `json:"is_read"`
}

// MessagesResponse is the history query response body.
type MessagesResponse struct {
	Status   string        `json:"status"`
	Messages []MessageView `json:"messages"`
}

// PeerResponse is one entry of the peer list with its unread count.
type PeerResponse struct {
	Username    string `json:"username"`
	UnreadCount int64  `json:"unread_count"`
}

// MarkReadRequest represents the mark-read request body.
type MarkReadRequest struct {
	Sender string `json:"sender"`
}

// MarkReadResponse reports how many messages transitioned to read.
type MarkReadResponse struct {
	Status    string `json:"status"`
	ReadCount int64  `json:"read_count"`
}

// GetMessages returns the full conversation between the caller and a peer,
// oldest first.
// GET /api/messages/:peer
func (h *MessageHandlers) GetMessages(c *gin.Context) {
	username, ok := currentUsername(c, h.log)
	if !ok {
		return
	}

	// Peers are looked up by their stored, normalized name.
	peer := auth.NormalizeUsername(c.Param("peer"))
	messages, err := h.store.ThreadBetween(c.Request.Context(), username, peer)
	if err != nil {
		h.log.Error().Err(err).Str("username", username).Str("peer", peer).Msg("failed to load thread")
		c.JSON(http.StatusInternalServerError, StatusError{Status: "error", Message: "internal server error"})
		return
	}

	views := make([]MessageView, 0, len(messages))
	for _, msg := range messages {
		views = append(views, MessageView{
			Sender:   msg.Sender,
			Receiver: msg.Receiver,
			Text:     msg.Text,
			Time:     core.FormatTimestamp(msg.Timestamp, h.zone),
			IsRead:   msg.IsRead,
		})
	}

	c.JSON(http.StatusOK, MessagesResponse{Status: "success", Messages: views})
}

// MarkRead marks every unread message from the given sender to the caller
// as read.
// POST /api/mark_read
func (h *MessageHandlers) MarkRead(c *gin.Context) {
	username, ok := currentUsername(c, h.log)
	if !ok {
		return
	}

	var req MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, StatusError{Status: "error", Message: "Missing data"})
		return
	}
	sender := auth.NormalizeUsername(req.Sender)
	if sender == "" {
		c.JSON(http.StatusBadRequest, StatusError{Status: "error", Message: "Missing data"})
		return
	}

	count, err := h.store.MarkAllRead(c.Request.Context(), sender, username)
	if err != nil {
		h.log.Error().Err(err).Str("sender", sender).Str("receiver", username).Msg("failed to mark read")
		c.JSON(http.StatusInternalServerError, StatusError{Status: "error", Message: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, MarkReadResponse{Status: "success", ReadCount: count})
}

// ListPeers returns every other user with the caller's unread count per peer.
// GET /api/users
func (h *MessageHandlers) ListPeers(c *gin.Context) {
	username, ok := currentUsername(c, h.log)
	if !ok {
		return
	}

	users, err := h.store.ListUsersExcept(c.Request.Context(), username)
	if err != nil {
		h.log.Error().Err(err).Str("username", username).Msg("failed to list users")
		c.JSON(http.StatusInternalServerError, StatusError{Status: "error", Message: "internal server error"})
		return
	}

	peers := make([]string, 0, len(users))
	for _, u := range users {
		peers = append(peers, u.Username)
	}

	counts, err := h.unread.Counts(c.Request.Context(), username, peers)
	if err != nil {
		h.log.Error().Err(err).Str("username", username).Msg("failed to count unread")
		c.JSON(http.StatusInternalServerError, StatusError{Status: "error", Message: "internal server error"})
		return
	}

	response := make([]PeerResponse, 0, len(peers))
	for _, peer := range peers {
		response = append(response, PeerResponse{Username: peer, UnreadCount: counts[peer]})
	}

	c.JSON(http.StatusOK, response)
}

// currentUsername pulls the authenticated identity set by AuthMiddleware.
func currentUsername(c *gin.Context, logger *zerolog.Logger) (string, bool) {
	value, exists := c.Get(ContextKeyUsername)
	if !exists {
		logger.Error().Msg("username not found in context")
		c.JSON(http.StatusForbidden, StatusError{Status: "error", Message: "Unauthorized"})
		return "", false
	}

	username, ok := value.(string)
	if !ok || username == "" {
		logger.Error().Msg("invalid username type in context")
		c.JSON(http.StatusForbidden, StatusError{Status: "error", Message: "Unauthorized"})
		return "", false
	}

	return username, true
}
