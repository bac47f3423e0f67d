package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindKeyValuesByPrefix(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	batch := NewBatch().
		Put([]byte("user/1"), []byte("alice")).
		Put([]byte("user/2"), []byte("bob")).
		Put([]byte("order/1"), []byte("widget"))
	require.NoError(t, client.WriteBatch(ctx, []byte("base"), batch))

	pairs, err := client.FindKeyValuesByPrefix(ctx, []byte("user/"))
	require.NoError(t, err)
	assert.Equal(t, 2, pairs.Len())

	got := map[string]string{}
	for pairs.Next() {
		key, value, err := pairs.KeyValue()
		require.NoError(t, err)
		got[string(key)] = string(value)
	}
	assert.Equal(t, map[string]string{"1": "alice", "2": "bob"}, got)

	pairs.Reset()
	again := map[string]string{}
	for pairs.Next() {
		key, value, err := pairs.KeyValue()
		require.NoError(t, err)
		again[string(key)] = string(value)
	}
	assert.Equal(t, got, again, "Reset must allow walking the same result set again")
}

func TestFindKeysByPrefixEmpty(t *testing.T) {
	client := newTestClient(t)
	keys, err := client.FindKeysByPrefix(context.Background(), []byte("nothing/"))
	require.NoError(t, err)
	assert.Equal(t, 0, keys.Len())
	assert.False(t, keys.Next())
}

func TestFindKeysByPrefixRejectsEmptyPrefix(t *testing.T) {
	client := newTestClient(t)
	_, err := client.FindKeysByPrefix(context.Background(), nil)
	assert.ErrorIs(t, err, ErrZeroLengthKeyPrefix)
}

func TestWriteBatchDeletePrefix(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	seed := NewBatch()
	for i := 0; i < 5; i++ {
		seed.Put([]byte(fmt.Sprintf("user/%d", i)), []byte("x"))
	}
	require.NoError(t, client.WriteBatch(ctx, []byte("base"), seed))

	require.NoError(t, client.WriteBatch(ctx, []byte("base"), NewBatch().DeletePrefix([]byte("user/"))))

	keys, err := client.FindKeysByPrefix(ctx, []byte("user/"))
	require.NoError(t, err)
	assert.Equal(t, 0, keys.Len())
}

func TestReadMultiKeyBytes(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	require.NoError(t, client.WriteBatch(ctx, []byte("base"), NewBatch().Put([]byte("a"), []byte("1"))))

	values, err := client.ReadMultiKeyBytes(ctx, [][]byte{[]byte("a"), []byte("missing")})
	require.NoError(t, err)
	require.Len(t, values, 2)
	assert.Equal(t, []byte("1"), values[0])
	assert.Nil(t, values[1])
}
