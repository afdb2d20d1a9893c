package core

import "time"

// DisplayTimeLayout renders timestamps the way clients display them,
// e.g. "27/08/2026 - 09:41 PM".
const DisplayTimeLayout = "02/01/2006 - 03:04 PM"

// FormatTimestamp formats t as wall-clock time in the display zone.
// The same rendering is used for live delivery and history queries.
func FormatTimestamp(t time.Time, zone *time.Location) string {
	return t.In(zone).Format(DisplayTimeLayout)
}

// DeliveryEvent is the formatted view of a persisted message as it is
// pushed to connections and returned from history queries.
type DeliveryEvent struct {
	Sender   string
	Receiver string
	Text     string
	Time     string
	IsRead   bool
}
