package store

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cuemby/dynakv/pkg/metrics"
)

// journalOp is a flattened view of one preparedBatch operation, used only
// while chunking into journal blocks. Deletions and insertions are kept
// disjoint by normalize, so concatenating them (deletions first) before
// chunking changes nothing about the result, only the block boundaries.
type journalOp struct {
	isDelete bool
	key      []byte
	value    []byte
}

func (op journalOp) sizeBytes() int {
	return len(op.key) + len(op.value)
}

// maxOpsPerBlock reserves two slots in every replay transaction: one to
// delete the block's own journal entry, one to update (or delete) the
// journal header. Both accompany the block's operations in the same
// TransactWriteItems call, so the block itself may carry at most
// MaxTransactWriteItemSize - 2 operations.
const maxOpsPerBlock = MaxTransactWriteItemSize - 2

// chunkIntoBlocks splits prepared into journal blocks, flushing whenever
// the block reaches maxOpsPerBlock operations or the next operation would
// push the block's total key and value bytes past MaxBatchWriteItemBytes.
func chunkIntoBlocks(prepared *preparedBatch) []journalBlock {
	ops := make([]journalOp, 0, prepared.Len())
	for _, d := range prepared.Deletions {
		ops = append(ops, journalOp{isDelete: true, key: d})
	}
	for _, ins := range prepared.Insertions {
		ops = append(ops, journalOp{key: ins.Key, value: ins.Value})
	}

	var blocks []journalBlock
	var curr journalBlock
	currSize := 0
	flush := func() {
		if len(curr.Deletions) == 0 && len(curr.Insertions) == 0 {
			return
		}
		blocks = append(blocks, curr)
		curr = journalBlock{}
		currSize = 0
	}
	for i, op := range ops {
		if len(curr.Deletions)+len(curr.Insertions) == maxOpsPerBlock {
			flush()
		} else if currSize > 0 && currSize+op.sizeBytes() > MaxBatchWriteItemBytes {
			flush()
		}
		if op.isDelete {
			curr.Deletions = append(curr.Deletions, op.key)
		} else {
			curr.Insertions = append(curr.Insertions, kv{Key: op.key, Value: op.value})
		}
		currSize += op.sizeBytes()
		if i == len(ops)-1 {
			flush()
		}
	}
	return blocks
}

// commitBatch writes prepared to the backend, journaling when it exceeds
// a single transaction's capacity. A prior outstanding journal for baseKey
// is always drained first, so no new operation lands on top of an
// unresolved crash.
func (c *Client) commitBatch(ctx context.Context, baseKey []byte, prepared *preparedBatch, logger zerolog.Logger) error {
	if err := c.resolveJournal(ctx, baseKey); err != nil {
		return err
	}

	if prepared.Len() <= MaxTransactWriteItemSize {
		metrics.WriteBatchTotal.WithLabelValues("fastpath").Inc()
		txn := newTransactionBuilder(c.table)
		for _, key := range prepared.Deletions {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		for _, ins := range prepared.Insertions {
			if err := txn.Put(ins.Key, ins.Value); err != nil {
				return err
			}
		}
		return txn.Submit(ctx, c.api)
	}

	metrics.WriteBatchTotal.WithLabelValues("journaled").Inc()
	blocks := chunkIntoBlocks(prepared)
	logger.Debug().Int("blocks", len(blocks)).Msg("journaling write batch")

	// Blocks are written before the header: a block entry with no header
	// pointing at it yet is inert, but a header advertising a block that
	// doesn't exist is exactly the corruption resolveJournal detects as
	// ErrDatabaseRecoveryFailed. Writing blocks first means a crash before
	// the header lands simply leaves harmless orphaned entries behind.
	for i, block := range blocks {
		if err := c.writeJournalBlock(ctx, baseKey, uint32(i), block); err != nil {
			return err
		}
		metrics.JournalBlocksWritten.Inc()
	}
	if err := c.writeJournalHeader(ctx, baseKey, journalHeader{BlockCount: uint32(len(blocks))}); err != nil {
		return err
	}
	return c.drainJournal(ctx, baseKey, uint32(len(blocks)), logger)
}

// writeJournalHeader persists the header announcing how many block entries
// a reader should expect to find.
func (c *Client) writeJournalHeader(ctx context.Context, baseKey []byte, header journalHeader) error {
	encoded, err := encodeHeader(header)
	if err != nil {
		return err
	}
	txn := newTransactionBuilder(c.table)
	if err := txn.Put(journalHeaderKey(baseKey), encoded); err != nil {
		return err
	}
	return txn.Submit(ctx, c.api)
}

// writeJournalBlock persists one block entry. Block writes are independent
// of one another and safe to retry: a partially-written set of entries is
// simply replayed once the remaining entries land.
func (c *Client) writeJournalBlock(ctx context.Context, baseKey []byte, index uint32, block journalBlock) error {
	encoded, err := encodeBlock(block)
	if err != nil {
		return err
	}
	txn := newTransactionBuilder(c.table)
	if err := txn.Put(journalEntryKey(baseKey, index), encoded); err != nil {
		return err
	}
	return txn.Submit(ctx, c.api)
}

func (c *Client) readJournalHeader(ctx context.Context, baseKey []byte) (journalHeader, bool, error) {
	value, err := c.ReadKeyBytes(ctx, journalHeaderKey(baseKey))
	if err != nil {
		return journalHeader{}, false, err
	}
	if value == nil {
		return journalHeader{}, false, nil
	}
	header, err := decodeHeader(value)
	if err != nil {
		return journalHeader{}, false, fmt.Errorf("store: decode journal header: %w", err)
	}
	return header, true, nil
}
