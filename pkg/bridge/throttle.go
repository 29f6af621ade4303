package bridge

import (
	"time"

	"golang.org/x/time/rate"
)

// Throttle coalesces re-render requests to at most one per window.
type Throttle struct {
	limiter *rate.Limiter
	pending bool
}

// NewThrottle returns a throttle that lets one request through per window.
func NewThrottle(window time.Duration) *Throttle {
	return &Throttle{limiter: rate.NewLimiter(rate.Every(window), 1)}
}

// Trigger records a request at now. It returns true when the request should
// be served immediately; otherwise a trailing request is kept pending.
func (t *Throttle) Trigger(now time.Time) bool {
	if t.limiter.AllowN(now, 1) {
		t.pending = false
		return true
	}
	t.pending = true
	return false
}

// Flush serves a pending trailing request if the window allows it.
func (t *Throttle) Flush(now time.Time) bool {
	if !t.pending || !t.limiter.AllowN(now, 1) {
		return false
	}
	t.pending = false
	return true
}

// Pending reports whether a trailing request is waiting.
func (t *Throttle) Pending() bool { return t.pending }

// Cancel drops a pending request.
func (t *Throttle) Cancel() { t.pending = false }
