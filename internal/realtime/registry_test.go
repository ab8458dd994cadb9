package realtime

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	t.Run("lookup of unknown user returns false", func(t *testing.T) {
		registry := NewRegistry()

		_, ok := registry.Lookup(uuid.New())
		assert.False(t, ok)
		assert.Equal(t, 0, registry.Len())
	})

	t.Run("register then lookup returns the client", func(t *testing.T) {
		registry := NewRegistry()
		userID := uuid.New()
		client := &Client{}

		registry.Register(userID, client)

		got, ok := registry.Lookup(userID)
		require.True(t, ok)
		assert.Same(t, client, got)
		assert.Equal(t, 1, registry.Len())
	})

	t.Run("last registration wins", func(t *testing.T) {
		registry := NewRegistry()
		userID := uuid.New()
		first := &Client{}
		second := &Client{}

		registry.Register(userID, first)
		registry.Register(userID, second)

		got, ok := registry.Lookup(userID)
		require.True(t, ok)
		assert.Same(t, second, got)

		// The user still appears at most once.
		assert.Equal(t, 1, registry.Len())
	})

	t.Run("unregister removes by connection identity, not user identity", func(t *testing.T) {
		registry := NewRegistry()
		userID := uuid.New()
		stale := &Client{}
		current := &Client{}

		registry.Register(userID, stale)
		registry.Register(userID, current)

		// A disconnect of the superseded connection must not remove the
		// user's newer mapping.
		registry.Unregister(stale)

		got, ok := registry.Lookup(userID)
		require.True(t, ok)
		assert.Same(t, current, got)
	})

	t.Run("unregister removes the current mapping", func(t *testing.T) {
		registry := NewRegistry()
		userID := uuid.New()
		client := &Client{}

		registry.Register(userID, client)
		registry.Unregister(client)

		_, ok := registry.Lookup(userID)
		assert.False(t, ok)
		assert.Equal(t, 0, registry.Len())
	})

	t.Run("unregister is idempotent and safe for unknown clients", func(t *testing.T) {
		registry := NewRegistry()
		userID := uuid.New()
		client := &Client{}

		registry.Register(userID, client)
		registry.Unregister(client)
		registry.Unregister(client)
		registry.Unregister(&Client{})

		assert.Equal(t, 0, registry.Len())
	})

	t.Run("unregister removes all entries for a shared connection", func(t *testing.T) {
		// A single connection can re-register under a different user ID;
		// unregister must sweep every entry pointing at it.
		registry := NewRegistry()
		client := &Client{}
		userA := uuid.New()
		userB := uuid.New()

		registry.Register(userA, client)
		registry.Register(userB, client)
		require.Equal(t, 2, registry.Len())

		registry.Unregister(client)
		assert.Equal(t, 0, registry.Len())
	})
}

func TestRegistryConcurrentAccess(t *testing.T) {
	registry := NewRegistry()

	const goroutines = 16
	const iterations = 200

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			userID := uuid.New()
			for j := 0; j < iterations; j++ {
				client := &Client{}
				registry.Register(userID, client)
				registry.Lookup(userID)
				registry.Unregister(client)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, registry.Len())
}
