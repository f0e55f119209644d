package trace

// Recorder builds the live frame and hands closed frames to a Registry.
type Recorder struct {
	live     Frame
	registry *Registry
}

// NewRecorder creates a Recorder with an empty live frame and a fresh
// Registry.
func NewRecorder() *Recorder {
	return &Recorder{
		live:     make(Frame, 0, 64),
		registry: NewRegistry(),
	}
}

// Append adds a signature to the live frame.
func (r *Recorder) Append(sig string) {
	r.live = append(r.live, sig)
}

// PrefixLast rewrites the newest live entry as prefix+entry. It is a no-op
// when the live frame is empty.
func (r *Recorder) PrefixLast(prefix string) {
	if n := len(r.live); n > 0 {
		r.live[n-1] = prefix + r.live[n-1]
	}
}

// Len returns the number of signatures in the live frame.
func (r *Recorder) Len() int {
	return len(r.live)
}

// Live returns a copy of the live frame.
func (r *Recorder) Live() Frame {
	return r.live.Clone()
}

// Close ends the live frame, deduplicates it against the registry and
// starts a new empty live frame.
func (r *Recorder) Close() (isNew bool, canonical Frame) {
	closed := r.live
	r.live = make(Frame, 0, len(closed))
	return r.registry.Close(closed)
}

// Registry returns the registry holding the closed frames.
func (r *Recorder) Registry() *Registry {
	return r.registry
}

// Snapshot captures the registry for export.
func (r *Recorder) Snapshot() Snapshot {
	frames := r.registry.Frames()
	out := Snapshot{Frames: make([]Frame, len(frames))}
	for i, f := range frames {
		out.Frames[i] = f.Clone()
	}
	out.Last = r.registry.Last().Clone()
	return out
}
