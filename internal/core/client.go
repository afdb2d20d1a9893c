package core

// Client is one live connection as seen by the core layer. A user may hold
// several clients at once; each gets its own channels.
type Client struct {
	ID       string
	Username string
	Commands chan *Command
	Events   chan *Event
}

// NewClient constructs a client with initialized channels.
func NewClient(id, username string) *Client {
	return &Client{
		ID:       id,
		Username: username,
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, 8),
	}
}
