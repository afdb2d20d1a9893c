package core

// Command is a send request issued by a connection. The sender identity is
// taken from the client that carries the command, never from the payload.
type Command struct {
	Receiver string
	Text     string
}
