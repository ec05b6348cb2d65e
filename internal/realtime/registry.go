package realtime

import "sync"

// ConnectionRegistry maps a user id to its single live connection id.
// A user reconnecting from anywhere replaces the previous mapping
// (last-connect-wins); the evicted connection is not notified.
//
// It is the only shared mutable structure touched by every connection
// lifecycle, so all access goes through the mutex.
type ConnectionRegistry struct {
	mu          sync.RWMutex
	connections map[uint]string
}

// NewConnectionRegistry creates an empty registry. One instance is created at
// startup and injected into the hub; there is no package-level state.
func NewConnectionRegistry() *ConnectionRegistry {
	return &ConnectionRegistry{connections: make(map[uint]string)}
}

// Register unconditionally maps userID to connectionID, replacing any
// previous connection for the same user.
func (r *ConnectionRegistry) Register(userID uint, connectionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.connections[userID] = connectionID
}

// Lookup returns the live connection id for userID, if any.
func (r *ConnectionRegistry) Lookup(userID uint) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.connections[userID]
	return id, ok
}

// Remove deletes the mapping for userID only if it still points at
// connectionID. A disconnect that raced with a newer connection for the same
// user therefore leaves the newer mapping intact. Reports whether a mapping
// was removed.
func (r *ConnectionRegistry) Remove(userID uint, connectionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.connections[userID]; ok && current == connectionID {
		delete(r.connections, userID)
		return true
	}
	return false
}

// Count returns the number of registered users.
func (r *ConnectionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.connections)
}
