package http

import "time"

// rateLimiter counts inbound frames per connection within a one minute
// window. A limit of zero disables it. It is confined to the connection's
// read goroutine and needs no locking.
type rateLimiter struct {
	limit       int
	counter     int
	windowStart time.Time

	now func() time.Time
}

func newRateLimiter(limit int) *rateLimiter {
	r := &rateLimiter{limit: limit, now: time.Now}
	r.windowStart = r.now()
	return r
}

func (r *rateLimiter) allow() bool {
	if r == nil || r.limit <= 0 {
		return true
	}
	if r.now().Sub(r.windowStart) >= time.Minute {
		r.windowStart = r.now()
		r.counter = 0
	}
	r.counter++
	return r.counter <= r.limit
}
