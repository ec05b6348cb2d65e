package realtime

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryRegisterAndLookup(t *testing.T) {
	registry := NewConnectionRegistry()

	registry.Register(1, "conn-a")

	conn, ok := registry.Lookup(1)
	assert.True(t, ok)
	assert.Equal(t, "conn-a", conn)
	assert.Equal(t, 1, registry.Count())
}

func TestRegistryLookupUnknownUser(t *testing.T) {
	registry := NewConnectionRegistry()

	_, ok := registry.Lookup(42)
	assert.False(t, ok)
}

func TestRegistryReconnectReplacesConnection(t *testing.T) {
	registry := NewConnectionRegistry()

	registry.Register(1, "conn-old")
	registry.Register(1, "conn-new")

	conn, ok := registry.Lookup(1)
	assert.True(t, ok)
	assert.Equal(t, "conn-new", conn)
	assert.Equal(t, 1, registry.Count())
}

func TestRegistryRemoveMatchingConnection(t *testing.T) {
	registry := NewConnectionRegistry()
	registry.Register(1, "conn-a")

	assert.True(t, registry.Remove(1, "conn-a"))
	_, ok := registry.Lookup(1)
	assert.False(t, ok)
}

// A disconnect of a replaced connection must not evict the user's newer one.
func TestRegistryRemoveStaleConnectionKeepsNewer(t *testing.T) {
	registry := NewConnectionRegistry()
	registry.Register(1, "conn-old")
	registry.Register(1, "conn-new")

	assert.False(t, registry.Remove(1, "conn-old"))

	conn, ok := registry.Lookup(1)
	assert.True(t, ok)
	assert.Equal(t, "conn-new", conn)
}

func TestRegistryRemoveUnknownUser(t *testing.T) {
	registry := NewConnectionRegistry()
	assert.False(t, registry.Remove(7, "conn-x"))
}

func TestRegistryConcurrentAccess(t *testing.T) {
	registry := NewConnectionRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		userID := uint(i % 10)
		connectionID := fmt.Sprintf("conn-%d", i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			registry.Register(userID, connectionID)
			registry.Lookup(userID)
			registry.Remove(userID, connectionID)
		}()
	}
	wg.Wait()

	// Every surviving mapping must point at a connection that was registered
	// for that user.
	for userID := uint(0); userID < 10; userID++ {
		if conn, ok := registry.Lookup(userID); ok {
			assert.NotEmpty(t, conn)
		}
	}
}
