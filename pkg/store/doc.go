/*
Package store implements a durable, ordered binary key/value adapter on top
of Amazon DynamoDB.

DynamoDB's native API has no range-delete and caps `TransactWriteItems` at
100 operations and 4MB, and `BatchWriteItem`/`Query` responses at 16MB. This
package makes the backend look like a well-behaved key/value store that
accepts write batches of arbitrary size atomically from the caller's point
of view, by journaling oversized batches as a chain of persisted blocks and
replaying them idempotently after a crash.

# Architecture

	┌────────────────────── store.Client ───────────────────────┐
	│                                                              │
	│  ReadKeyBytes / ReadMultiKeyBytes / FindKeysByPrefix /      │
	│  FindKeyValuesByPrefix            (point + prefix reads)   │
	│                                                              │
	│  WriteBatch(baseKey, batch)                                 │
	│    │                                                        │
	│    ▼                                                        │
	│  normalize(batch) ──► preparedBatch (deletions, insertions) │
	│    │                                                        │
	│    ├─ len(B) ≤ 100 ──► fast path: one TransactWriteItems    │
	│    │                                                        │
	│    └─ len(B) > 100 ──► journaled path:                      │
	│         chunk B into blocks, persist each block, then the   │
	│         header (a header with no matching blocks would be   │
	│         corruption; orphaned blocks with no header are not) │
	│         drain blocks in reverse index order, one committed  │
	│         transaction per block                               │
	│                                                              │
	│  ClearJournal(baseKey) — replays any journal left by a      │
	│  prior crash; safe to call on a clean region (no-op)        │
	└──────────────────────────────────────────────────────────────┘

Every record the adapter stores is a map with three binary attributes:
`partition` (a single dummy shard tag shared by all records, so a `Query`
against one partition is a total order scan), `sort` (the full user key or
a journal key), and `value` (absent for deletes). Within one region, rooted
at a caller-supplied `base_key`, the byte `JOURNAL_TAG` (0) is reserved for
journal bookkeeping: `base_key‖JOURNAL_TAG‖1` is the journal header,
`base_key‖JOURNAL_TAG‖2‖be32(i)` is block entry i.

Callers own allocation of `base_key` and must ensure no user-reachable key
suffix under that base begins with `JOURNAL_TAG`.

# Concurrency

Concurrent writers to the same region are not supported: two `WriteBatch`
calls that both take the journaled path on the same base key share header
and entry keys and will corrupt the journal. Callers must serialize writers
per region. Reads have no such restriction. See MAX_CONNECTIONS handling in
client.go for the façade's backend connection cap.

# Non-goals

Range deletes are not a native backend operation — prefix deletes are
resolved by an extra `Query` round-trip per prefix, see batch.go. Strong
read-your-writes consistency across independent clients writing to the same
region concurrently is not provided. Secondary indexes are out of scope.
Oversized *write* batches are handled by the journal; oversized *read*
results are not truncated, since prefix scans follow LastEvaluatedKey
until the backend reports no further page (see queryByPrefix in
client.go).
*/
package store
