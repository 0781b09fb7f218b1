package tick

import (
	"sync/atomic"
	"time"
	_ "unsafe" // Required for go:linkname
)

// nanotime returns the current monotonic time in nanoseconds.
// This is faster than time.Now() because it returns a single int64
// and avoids constructing a time.Time struct.
//
// Note: This uses go:linkname to access an internal runtime function.
// It may break in future Go versions, though it has been stable.
//
//go:linkname nanotime runtime.nanotime
func nanotime() int64

// Deadline tracks the last time it was reset and reports when more than
// its window has passed since then.
//
// Reset is a single atomic store, so the owning task can call it on every
// iteration while another goroutine polls Expired.
type Deadline struct {
	window  int64 // nanoseconds
	lastSet atomic.Int64
}

// NewDeadline creates a Deadline with the given window, starting now.
func NewDeadline(window time.Duration) *Deadline {
	d := &Deadline{
		window: int64(window),
	}
	d.lastSet.Store(nanotime())
	return d
}

// Reset starts a new window from now.
func (d *Deadline) Reset() {
	d.lastSet.Store(nanotime())
}

// Expired reports whether more than the window has passed since the last Reset.
func (d *Deadline) Expired() bool {
	return nanotime()-d.lastSet.Load() > d.window
}

// Elapsed returns the time since the last Reset.
func (d *Deadline) Elapsed() time.Duration {
	return time.Duration(nanotime() - d.lastSet.Load())
}

// Window returns the deadline's window.
func (d *Deadline) Window() time.Duration {
	return time.Duration(d.window)
}
