package symbols

import (
	"runtime"
	"sync"
	"weak"

	"github.com/gogpu/gltrace/gl"
)

// handleTable associates values with handles without keeping the handles
// alive. Entries are dropped by a runtime cleanup once the handle is
// unreachable; until then a lookup for a collected handle simply misses.
//
// The mutex only guards against the cleanup goroutine; callers are still
// expected to be a single logical thread.
type handleTable[V any] struct {
	mu      sync.Mutex
	entries map[weak.Pointer[gl.Object]]V
}

func newHandleTable[V any]() *handleTable[V] {
	return &handleTable[V]{entries: make(map[weak.Pointer[gl.Object]]V)}
}

// set stores v for h unless h already has an entry. It reports whether v
// was stored.
func (t *handleTable[V]) set(h gl.Handle, v V) bool {
	obj := h.Base()
	key := weak.Make(obj)

	t.mu.Lock()
	if _, dup := t.entries[key]; dup {
		t.mu.Unlock()
		return false
	}
	t.entries[key] = v
	t.mu.Unlock()

	runtime.AddCleanup(obj, t.remove, key)
	return true
}

func (t *handleTable[V]) get(h gl.Handle) (V, bool) {
	key := weak.Make(h.Base())
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.entries[key]
	return v, ok
}

func (t *handleTable[V]) remove(key weak.Pointer[gl.Object]) {
	t.mu.Lock()
	delete(t.entries, key)
	t.mu.Unlock()
}

func (t *handleTable[V]) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
