// Package presence tracks which usernames are connected and which are
// currently typing. State lives for the whole process and starts empty.
package presence

import "sync"

// Registry holds the connected and typing username sets. Mutations come
// from the hub goroutine only; the mutex exists so HTTP handlers can read
// the connected count concurrently.
//
// Two sessions sharing a username collapse to one entry, so the connected
// set is a display count, not a strict join/leave ledger.
type Registry struct {
	mu        sync.RWMutex
	connected map[string]struct{}
	typing    map[string]struct{}
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		connected: make(map[string]struct{}),
		typing:    make(map[string]struct{}),
	}
}

// Join adds username to the connected set. Adding a name that is already
// present is a no-op.
func (r *Registry) Join(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.connected[username] = struct{}{}
}

// Leave removes username from the connected set and the typing set.
// Absent names are a no-op.
func (r *Registry) Leave(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.connected, username)
	delete(r.typing, username)
}

// StartTyping marks username as typing and reports whether that changed
// anything. Callers use the return value to suppress repeat broadcasts.
func (r *Registry) StartTyping(username string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.typing[username]; ok {
		return false
	}
	r.typing[username] = struct{}{}
	return true
}

// StopTyping clears the typing mark and reports whether it was set.
func (r *Registry) StopTyping(username string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.typing[username]; !ok {
		return false
	}
	delete(r.typing, username)
	return true
}

// Size returns the number of distinct connected usernames.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.connected)
}
