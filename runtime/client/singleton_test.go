package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func resetDefault(t *testing.T) {
	t.Helper()
	require.NoError(t, Close())
	defaultMu.Lock()
	defaultConfig = nil
	defaultMu.Unlock()
	t.Cleanup(func() {
		_ = Close()
		defaultMu.Lock()
		defaultConfig = nil
		defaultMu.Unlock()
	})
}

func TestDefault_ConcurrentFirstUse(t *testing.T) {
	resetDefault(t)
	Configure(Config{Provider: "sqlite", DatabaseURL: ":memory:"})

	clients := make([]*Client, 16)
	var g errgroup.Group
	for i := range clients {
		g.Go(func() error {
			c, err := Default()
			clients[i] = c
			return err
		})
	}
	require.NoError(t, g.Wait())

	for _, c := range clients {
		assert.Same(t, clients[0], c, "every caller sees the one shared client")
	}
}

func TestDefault_ReinitializesAfterClose(t *testing.T) {
	resetDefault(t)
	Configure(Config{Provider: "sqlite", DatabaseURL: ":memory:"})

	first, err := Default()
	require.NoError(t, err)

	require.NoError(t, Close())
	require.NoError(t, Close(), "closing a closed default is a no-op")

	second, err := Default()
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.True(t, first.closed.Load())
	assert.False(t, second.closed.Load())
}

func TestConfigure_DoesNotReplaceOpenClient(t *testing.T) {
	resetDefault(t)
	Configure(Config{Provider: "sqlite", DatabaseURL: ":memory:"})

	first, err := Default()
	require.NoError(t, err)

	Configure(Config{Provider: "sqlite", DatabaseURL: "file:other.db"})

	again, err := Default()
	require.NoError(t, err)
	assert.Same(t, first, again, "reconfiguration applies on the next init")

	require.NoError(t, Close())

	third, err := Default()
	require.NoError(t, err)
	assert.NotSame(t, first, third)
}
