package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisStoreAdapter(t *testing.T) {
	db, mock := redismock.NewClientMock()

	adapter := NewRedisStoreAdapter(db)

	assert.Equal(t, db, adapter.client)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStoreAdapter_SetNX(t *testing.T) {
	ctx := context.Background()
	key := "reminder:abc:sms"

	t.Run("first writer wins", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		adapter := NewRedisStoreAdapter(db)

		mock.ExpectSetNX(key, "1", 5*24*time.Hour).SetVal(true)

		ok, err := adapter.SetNX(ctx, key, "1", 5*24*time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("existing key", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		adapter := NewRedisStoreAdapter(db)

		mock.ExpectSetNX(key, "1", time.Hour).SetVal(false)

		ok, err := adapter.SetNX(ctx, key, "1", time.Hour)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("error", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		adapter := NewRedisStoreAdapter(db)

		mock.ExpectSetNX(key, "1", time.Hour).SetErr(assert.AnError)

		_, err := adapter.SetNX(ctx, key, "1", time.Hour)
		assert.Error(t, err)
	})
}

func TestRedisStoreAdapter_DeleteExistsTTL(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	adapter := NewRedisStoreAdapter(db)

	mock.ExpectDel("k").SetVal(1)
	mock.ExpectExists("k").SetVal(0)
	mock.ExpectTTL("k").SetVal(-2 * time.Nanosecond)

	assert.NoError(t, adapter.Delete(ctx, "k"))
	exists, err := adapter.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)
	_, err = adapter.TTL(ctx, "k")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStoreAdapter_AgainstMiniredis(t *testing.T) {
	ctx := context.Background()
	srv := miniredis.RunT(t)
	adapter := NewRedisStoreAdapter(redis.NewClient(&redis.Options{Addr: srv.Addr()}))

	ok, err := adapter.SetNX(ctx, "reminder:s1:email", "1", 48*time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = adapter.SetNX(ctx, "reminder:s1:email", "1", 48*time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)

	ttl, err := adapter.TTL(ctx, "reminder:s1:email")
	require.NoError(t, err)
	assert.Equal(t, 48*time.Hour, ttl)

	srv.FastForward(49 * time.Hour)
	exists, err := adapter.Exists(ctx, "reminder:s1:email")
	require.NoError(t, err)
	assert.False(t, exists)
}
