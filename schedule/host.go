package schedule

// ManualHost is a frame source driven by explicit Step calls, standing in
// for a browser's animation loop in tests and headless runs.
type ManualHost struct {
	nextID int
	queue  []queued
}

type queued struct {
	id int
	cb FrameCallback
}

// RequestAnimationFrame queues cb for the next Step. It satisfies
// RequestFunc.
func (h *ManualHost) RequestAnimationFrame(cb FrameCallback) int {
	h.nextID++
	h.queue = append(h.queue, queued{id: h.nextID, cb: cb})
	return h.nextID
}

// Step runs the callbacks queued before the call, in request order, with
// timestamp ts. Callbacks requested during Step wait for the next Step.
// It returns the number of callbacks run.
func (h *ManualHost) Step(ts float64) int {
	batch := h.queue
	h.queue = nil
	for _, q := range batch {
		q.cb(ts)
	}
	return len(batch)
}

// Len returns the number of queued callbacks.
func (h *ManualHost) Len() int {
	return len(h.queue)
}
