package store

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cuemby/dynakv/pkg/log"
	"github.com/cuemby/dynakv/pkg/metrics"
)

// resolveJournal drains any journal left behind by a process that crashed
// mid-commit for the region rooted at baseKey. It is a no-op when no
// journal exists, and idempotent: re-running it against a journal it has
// already fully drained observes no header and returns immediately.
func (c *Client) resolveJournal(ctx context.Context, baseKey []byte) error {
	header, ok, err := c.readJournalHeader(ctx, baseKey)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	logger := log.WithRegion(baseKey).With().Str("operation", "resolve_journal").Logger()
	logger.Debug().Int("blocks_remaining", int(header.BlockCount)).Msg("resuming interrupted journal")
	return c.drainJournal(ctx, baseKey, header.BlockCount, logger)
}

// drainJournal replays block entries highest-index-first. Each replay
// transaction commits the block's own operations together with the
// deletion of its entry and an update to the header recording how many
// entries remain, so a crash at any point during the drain leaves the
// header an accurate description of what is left to replay.
func (c *Client) drainJournal(ctx context.Context, baseKey []byte, blockCount uint32, logger zerolog.Logger) error {
	for i := blockCount; i > 0; i-- {
		index := i - 1
		block, ok, err := c.readJournalBlock(ctx, baseKey, index)
		if err != nil {
			return err
		}
		if !ok {
			metrics.JournalRecoveryFailuresTotal.Inc()
			return ErrDatabaseRecoveryFailed
		}

		txn := newTransactionBuilder(c.table)
		for _, key := range block.Deletions {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		for _, ins := range block.Insertions {
			if err := txn.Put(ins.Key, ins.Value); err != nil {
				return err
			}
		}
		if err := txn.Delete(journalEntryKey(baseKey, index)); err != nil {
			return err
		}
		if index == 0 {
			if err := txn.Delete(journalHeaderKey(baseKey)); err != nil {
				return err
			}
		} else {
			encoded, err := encodeHeader(journalHeader{BlockCount: index})
			if err != nil {
				return err
			}
			if err := txn.Put(journalHeaderKey(baseKey), encoded); err != nil {
				return err
			}
		}
		if err := txn.Submit(ctx, c.api); err != nil {
			return fmt.Errorf("store: replay journal block %d: %w", index, err)
		}
		metrics.JournalReplayStepsTotal.Inc()
		logger.Debug().Uint32("block", index).Msg("replayed journal block")
	}
	return nil
}

// readJournalBlock fetches and decodes a single block entry.
func (c *Client) readJournalBlock(ctx context.Context, baseKey []byte, index uint32) (journalBlock, bool, error) {
	value, err := c.ReadKeyBytes(ctx, journalEntryKey(baseKey, index))
	if err != nil {
		return journalBlock{}, false, err
	}
	if value == nil {
		return journalBlock{}, false, nil
	}
	block, err := decodeBlock(value)
	if err != nil {
		return journalBlock{}, false, fmt.Errorf("store: decode journal block %d: %w", index, err)
	}
	return block, true, nil
}
