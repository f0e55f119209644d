// Package schedule enforces one-frame-in-flight animation scheduling.
//
// A Guard wraps the host's "request next frame" primitive. While a
// requested callback has not run, a second request fails instead of
// queueing. The pending count drops just before the callback body runs, so
// the callback may request the following frame. Timer primitives are
// disabled outright.
//
// Guards are meant for the single thread that drives rendering.
package schedule

import "time"

// FrameCallback is invoked with the frame timestamp in milliseconds.
type FrameCallback func(timestamp float64)

// RequestFunc schedules cb for the next frame and returns a request ID.
type RequestFunc func(cb FrameCallback) int

// Guard is a policy-enforcing replacement for the host's scheduling
// primitives.
type Guard struct {
	request RequestFunc
	pending int
}

// NewGuard wraps request.
func NewGuard(request RequestFunc) *Guard {
	if request == nil {
		panic("schedule: NewGuard request is nil")
	}
	return &Guard{request: request}
}

// Request schedules cb through the wrapped primitive. It returns a
// *ReentrancyError without scheduling anything when a callback is already
// pending.
func (g *Guard) Request(cb FrameCallback) (int, error) {
	if g.pending != 0 {
		return 0, &ReentrancyError{Pending: g.pending}
	}
	g.pending++
	return g.request(func(ts float64) {
		g.pending--
		cb(ts)
	}), nil
}

// RequestAnimationFrame has the signature of the wrapped primitive. A
// request made while another is pending panics with a *ReentrancyError;
// the caller is not expected to continue.
func (g *Guard) RequestAnimationFrame(cb FrameCallback) int {
	id, err := g.Request(cb)
	if err != nil {
		panic(err)
	}
	return id
}

// SetTimeout always panics with a *TimerError.
func (g *Guard) SetTimeout(func(), time.Duration) int {
	panic(&TimerError{Func: "SetTimeout"})
}

// SetInterval always panics with a *TimerError.
func (g *Guard) SetInterval(func(), time.Duration) int {
	panic(&TimerError{Func: "SetInterval"})
}

// Pending returns the number of requested callbacks that have not run.
// It is 0 or 1.
func (g *Guard) Pending() int {
	return g.pending
}
