package trace

// Registry is the ordered collection of distinct frames.
//
// Lookup is a linear scan comparing whole frames, O(frames × frame length)
// per Close. Frame sequences in the traced applications repeat after a few
// frames, so the registry stays small.
type Registry struct {
	frames []Frame
	last   Frame
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{frames: make([]Frame, 0, 8)}
}

// Close records live as the most recently closed frame. If an equal frame
// is already registered, that entry is returned with isNew false; otherwise
// live itself is appended and returned with isNew true. Either way the
// returned frame becomes Last.
//
// After Close the registry may own live; the caller must not modify it.
func (r *Registry) Close(live Frame) (isNew bool, canonical Frame) {
	idx := -1
	for i, f := range r.frames {
		if f.Equal(live) {
			idx = i
			break
		}
	}
	if idx == -1 {
		idx = len(r.frames)
		r.frames = append(r.frames, live)
		isNew = true
	}
	r.last = r.frames[idx]
	return isNew, r.last
}

// Frames returns the distinct frames in first-seen order.
// The returned slice is a copy; the frames themselves are shared.
func (r *Registry) Frames() []Frame {
	out := make([]Frame, len(r.frames))
	copy(out, r.frames)
	return out
}

// Last returns the registry entry equal to the most recently closed frame,
// or nil before the first Close.
func (r *Registry) Last() Frame {
	return r.last
}

// Len returns the number of distinct frames.
func (r *Registry) Len() int {
	return len(r.frames)
}
