package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresenceRepo_TouchExpiresAfterWindow(t *testing.T) {
	srv, client := newTestClient(t)
	repo, err := NewPresenceRepo(client, 30*time.Second)
	require.NoError(t, err)
	ctx := context.Background()

	online, err := repo.IsOnline(ctx, "AB12CD", 4)
	require.NoError(t, err)
	assert.False(t, online)

	require.NoError(t, repo.Touch(ctx, "AB12CD", 4))
	assert.Equal(t, 30*time.Second, srv.TTL(presenceKey("AB12CD", 4)))

	online, err = repo.IsOnline(ctx, "AB12CD", 4)
	require.NoError(t, err)
	assert.True(t, online)

	// Присутствие привязано к комнате
	online, err = repo.IsOnline(ctx, "ZZ99ZZ", 4)
	require.NoError(t, err)
	assert.False(t, online)

	srv.FastForward(31 * time.Second)
	online, err = repo.IsOnline(ctx, "AB12CD", 4)
	require.NoError(t, err)
	assert.False(t, online)
}

func TestPresenceRepo_TouchExtendsWindow(t *testing.T) {
	srv, client := newTestClient(t)
	repo, err := NewPresenceRepo(client, 30*time.Second)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, repo.Touch(ctx, "AB12CD", 4))
	srv.FastForward(20 * time.Second)
	require.NoError(t, repo.Touch(ctx, "AB12CD", 4))
	srv.FastForward(20 * time.Second)

	online, err := repo.IsOnline(ctx, "AB12CD", 4)
	require.NoError(t, err)
	assert.True(t, online)
}

func TestNewPresenceRepo_DefaultWindow(t *testing.T) {
	_, client := newTestClient(t)
	repo, err := NewPresenceRepo(client, 0)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, repo.window)

	_, err = NewPresenceRepo(nil, time.Second)
	assert.Error(t, err)
}
