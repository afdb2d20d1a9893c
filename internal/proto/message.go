package proto

// Inbound is a send request from an authenticated connection. There is no
// type field: a frame either carries receiver and text or it is ignored.
// The sender is always the connection's authenticated identity.
type Inbound struct {
	Receiver string `json:"receiver"`
	Text     string `json:"text"`
}

// Outbound is the delivery event pushed to connections.
type Outbound struct {
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
	Text     string `json:"text"`
	Time     string `json:"time"`
	IsRead   bool   `json:"is_read"`
}

// ErrorFrame tells a single connection that its operation failed.
type ErrorFrame struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
