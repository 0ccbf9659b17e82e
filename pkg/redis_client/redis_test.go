package redis_client

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	server := miniredis.RunT(t)
	t.Setenv("STOPWATCH_REDIS_ADDRESS", server.Addr())
	t.Setenv("STOPWATCH_REDIS_DATABASE", "0")

	assert.True(t, Configured())
	require.NoError(t, Connect())
	t.Cleanup(func() { Client.Close() })

	require.NoError(t, Client.Set(t.Context(), "stopwatch:ping", "pong", 0).Err())
	assert.True(t, server.Exists("stopwatch:ping"))
}

func TestConnectInvalidDatabase(t *testing.T) {
	t.Setenv("STOPWATCH_REDIS_ADDRESS", "localhost:1")
	t.Setenv("STOPWATCH_REDIS_DATABASE", "first")

	assert.Error(t, Connect())
}

func TestNotConfigured(t *testing.T) {
	t.Setenv("STOPWATCH_REDIS_ADDRESS", "")

	assert.False(t, Configured())
}
