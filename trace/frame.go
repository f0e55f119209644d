// Package trace records call signatures per frame and keeps the distinct
// frame traces seen so far.
//
// A Recorder accumulates signatures in a live Frame. Closing the frame
// looks the sequence up in a Registry: an equal sequence (same length, same
// signature at every index) is reused, anything else is appended. Order
// matters; a frame with the same calls in a different order is a new entry.
//
// Example:
//
//	rec := trace.NewRecorder()
//	rec.Append("gl.UseProgram(Program#1)")
//	rec.Append("gl.Clear(gl.COLOR_BUFFER_BIT)")
//	isNew, frame := rec.Close()
//
// Recorders are not safe for concurrent use.
package trace

// Frame is the ordered list of call signatures issued between two frame
// boundaries. Frames stored in a Registry must not be modified.
type Frame []string

// Equal reports whether f and g have the same length and the same
// signature at every index.
func (f Frame) Equal(g Frame) bool {
	if len(f) != len(g) {
		return false
	}
	for i := range f {
		if f[i] != g[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of f that shares no storage with it.
func (f Frame) Clone() Frame {
	if f == nil {
		return nil
	}
	out := make(Frame, len(f))
	copy(out, f)
	return out
}
