// Package symbols maps API handles and constants to readable names.
//
// A Registry holds three tables owned by one tracing session:
//   - handle → symbolic name ("Buffer#3", "Program#1.uniforms.uniMat")
//   - primitive value → constant name ("gl.TRIANGLES")
//   - creator name → running count used to mint symbolic names
//
// Handle entries never keep a handle alive. Every table is first-write-wins:
// a name, once assigned, is never replaced and never reused.
//
// A Registry is not safe for concurrent use.
package symbols

import (
	"reflect"
	"strconv"

	"github.com/gogpu/gltrace/gl"
)

// Registry is the symbol and constant table of one tracing session.
type Registry struct {
	names     *handleTable[string]
	tags      *handleTable[gl.Enum]
	constants map[any]string
	counters  map[string]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		names:     newHandleTable[string](),
		tags:      newHandleTable[gl.Enum](),
		constants: make(map[any]string),
		counters:  make(map[string]int),
	}
}

// Bind associates name with h. It returns false, leaving the registry
// unchanged, when h is nil or already has a name.
func (r *Registry) Bind(h gl.Handle, name string) bool {
	if isNil(h) {
		return false
	}
	return r.names.set(h, name)
}

// Name returns the symbolic name bound to h.
func (r *Registry) Name(h gl.Handle) (string, bool) {
	if isNil(h) {
		return "", false
	}
	return r.names.get(h)
}

// Handles returns the number of live handle bindings.
func (r *Registry) Handles() int {
	return r.names.len()
}

// Tag records an enum describing h, such as the stage of a shader.
// Like Bind, the first tag wins.
func (r *Registry) Tag(h gl.Handle, v gl.Enum) bool {
	if isNil(h) {
		return false
	}
	return r.tags.set(h, v)
}

// TagOf returns the enum recorded by Tag.
func (r *Registry) TagOf(h gl.Handle) (gl.Enum, bool) {
	if isNil(h) {
		return 0, false
	}
	return r.tags.get(h)
}

// Mint returns the next symbolic name for objects made by creator, e.g.
// "Buffer#1", "Buffer#2". Counters only grow.
func (r *Registry) Mint(creator string) string {
	r.counters[creator]++
	return creator + "#" + strconv.Itoa(r.counters[creator])
}

// Count returns how many names have been minted for creator.
func (r *Registry) Count(creator string) int {
	return r.counters[creator]
}

// SeedConstant registers a constant that takes precedence over any later
// SetConstant for the same value. Seeding the same value twice keeps the
// newest name.
func (r *Registry) SeedConstant(v any, name string) {
	key, ok := constantKey(v)
	if !ok {
		return
	}
	r.constants[key] = name
}

// SetConstant records name for the primitive value v unless the value is
// already named. It reports whether the name was stored.
func (r *Registry) SetConstant(v any, name string) bool {
	key, ok := constantKey(v)
	if !ok {
		return false
	}
	if _, dup := r.constants[key]; dup {
		return false
	}
	r.constants[key] = name
	return true
}

// Constant returns the constant name recorded for v.
func (r *Registry) Constant(v any) (string, bool) {
	key, ok := constantKey(v)
	if !ok {
		return "", false
	}
	name, ok := r.constants[key]
	return name, ok
}

// constantKey normalises a primitive so that values equal as numbers share
// a key regardless of their Go type: gl.Enum(4), int(4) and 4.0 collide.
func constantKey(v any) (any, bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.String:
		return rv.String(), true
	case reflect.Bool:
		return rv.Bool(), true
	default:
		return nil, false
	}
}

// IsPrimitive reports whether v can be stored in the constant table.
func IsPrimitive(v any) bool {
	_, ok := constantKey(v)
	return ok
}

func isNil(h gl.Handle) bool {
	if h == nil {
		return true
	}
	rv := reflect.ValueOf(h)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
