package store

import (
	"context"
	"errors"
	"time"
)

// MaxTextLen is the longest message body accepted for persistence, in runes.
const MaxTextLen = 500

// ErrInvalidMessage is returned when a message fails validation
// (empty sender, receiver or text, or text over MaxTextLen).
var ErrInvalidMessage = errors.New("invalid message")

// ErrDuplicateUser is returned by CreateUser when the username is taken.
var ErrDuplicateUser = errors.New("duplicate user")

// User represents a registered account. Usernames are stored in their
// normalized form (see auth.NormalizeUsername) and never change.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Message is the canonical persisted record of a direct message.
// ID and Timestamp are assigned at persistence time and immutable afterwards.
// IsRead transitions false -> true exactly once, via MarkAllRead.
type Message struct {
	ID        int64
	Sender    string
	Receiver  string
	Text      string
	Timestamp time.Time
	IsRead    bool
}

// UserStore handles user persistence.
type UserStore interface {
	// CreateUser creates a new user with hashed password.
	CreateUser(ctx context.Context, username, passwordHash string) (*User, error)

	// GetUserByUsername retrieves a user by its normalized username.
	GetUserByUsername(ctx context.Context, username string) (*User, error)

	// ListUsersExcept returns all users except the named one, ordered by username.
	ListUsersExcept(ctx context.Context, username string) ([]*User, error)
}

// MessageStore handles message persistence and read state.
type MessageStore interface {
	// AppendMessage validates and durably stores one message, assigning a
	// fresh id. Returns ErrInvalidMessage on validation failure.
	AppendMessage(ctx context.Context, sender, receiver, text string, ts time.Time) (*Message, error)

	// ThreadBetween returns every message exchanged between the two users,
	// in either direction, ordered by timestamp ascending (ties broken by id).
	ThreadBetween(ctx context.Context, userA, userB string) ([]*Message, error)

	// CountUnread counts unread messages sent by from to to.
	CountUnread(ctx context.Context, from, to string) (int64, error)

	// MarkAllRead atomically marks every unread message from sender to
	// receiver as read and returns how many rows transitioned. Calling it
	// again without new messages returns 0.
	MarkAllRead(ctx context.Context, from, to string) (int64, error)
}

// Store aggregates all storage interfaces.
type Store interface {
	UserStore
	MessageStore

	// Close closes the underlying database connection.
	Close() error
}
