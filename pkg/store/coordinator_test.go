package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/dynakv/pkg/localstore"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	backend, err := localstore.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })
	_, err = ensureTable(context.Background(), backend, "region")
	require.NoError(t, err)
	return newClient(backend, "region")
}

func TestWriteBatchFastPathRoundTrip(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	batch := NewBatch().Put([]byte("k1"), []byte("v1")).Put([]byte("k2"), []byte("v2"))
	require.NoError(t, client.WriteBatch(ctx, []byte("base"), batch))

	value, err := client.ReadKeyBytes(ctx, []byte("k1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), value)

	header, ok, err := client.readJournalHeader(ctx, []byte("base"))
	require.NoError(t, err)
	assert.False(t, ok, "fast path must not leave a journal behind")
	_ = header
}

func TestChunkIntoBlocksRespectsOpCeiling(t *testing.T) {
	prepared := &preparedBatch{}
	for i := 0; i < 250; i++ {
		prepared.Insertions = append(prepared.Insertions, kv{
			Key:   []byte(fmt.Sprintf("k%03d", i)),
			Value: []byte("v"),
		})
	}

	blocks := chunkIntoBlocks(prepared)
	require.Len(t, blocks, 3) // 98 + 98 + 54
	total := 0
	for _, b := range blocks {
		assert.LessOrEqual(t, len(b.Deletions)+len(b.Insertions), maxOpsPerBlock)
		total += len(b.Deletions) + len(b.Insertions)
	}
	assert.Equal(t, 250, total)
}

func TestChunkIntoBlocksRespectsByteCeiling(t *testing.T) {
	prepared := &preparedBatch{}
	big := make([]byte, MaxBatchWriteItemBytes/3+1)
	for i := 0; i < 4; i++ {
		prepared.Insertions = append(prepared.Insertions, kv{Key: []byte{byte(i)}, Value: big})
	}

	blocks := chunkIntoBlocks(prepared)
	for _, b := range blocks {
		size := 0
		for _, ins := range b.Insertions {
			size += len(ins.Key) + len(ins.Value)
		}
		assert.LessOrEqual(t, size, MaxBatchWriteItemBytes)
	}
}

func TestWriteBatchJournaledPathRoundTrip(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	batch := NewBatch()
	for i := 0; i < 250; i++ {
		batch.Put([]byte(fmt.Sprintf("k%03d", i)), []byte(fmt.Sprintf("v%03d", i)))
	}
	require.NoError(t, client.WriteBatch(ctx, []byte("base"), batch))

	for i := 0; i < 250; i++ {
		value, err := client.ReadKeyBytes(ctx, []byte(fmt.Sprintf("k%03d", i)))
		require.NoError(t, err)
		assert.Equal(t, []byte(fmt.Sprintf("v%03d", i)), value)
	}

	_, ok, err := client.readJournalHeader(ctx, []byte("base"))
	require.NoError(t, err)
	assert.False(t, ok, "a fully drained journal leaves no header")
}

func TestWriteBatchEmptyIsNoop(t *testing.T) {
	client := newTestClient(t)
	require.NoError(t, client.WriteBatch(context.Background(), []byte("base"), NewBatch()))
}
