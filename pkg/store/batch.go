package store

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// opKind distinguishes the three operations a caller can stage in a Batch.
type opKind int

const (
	opPut opKind = iota
	opDelete
	opDeletePrefix
)

type batchOp struct {
	kind  opKind
	key   []byte
	value []byte
}

// Batch accumulates put, delete and prefix-delete operations in the order
// the caller issues them. Later operations override earlier ones on the
// same key (last-writer-wins); a Batch carries no meaning until it is
// normalized by the write coordinator.
type Batch struct {
	ops []batchOp
}

// NewBatch returns an empty Batch.
func NewBatch() *Batch {
	return &Batch{}
}

// Put stages a put of (key, value). key and value are copied.
func (b *Batch) Put(key, value []byte) *Batch {
	b.ops = append(b.ops, batchOp{kind: opPut, key: cloneBytes(key), value: cloneBytes(value)})
	return b
}

// Delete stages a delete of key.
func (b *Batch) Delete(key []byte) *Batch {
	b.ops = append(b.ops, batchOp{kind: opDelete, key: cloneBytes(key)})
	return b
}

// DeletePrefix stages the removal of every live key starting with prefix.
// DynamoDB has no native range-delete, so this is expanded against the
// backend during normalization (see prefixExpander below).
func (b *Batch) DeletePrefix(prefix []byte) *Batch {
	b.ops = append(b.ops, batchOp{kind: opDeletePrefix, key: cloneBytes(prefix)})
	return b
}

// TouchedKeys reports every key the batch puts or deletes directly, for
// callers that need to invalidate a read cache. It does not resolve
// DeletePrefix operations — hasPrefixDelete reports whether the batch
// contains any, since those can only be resolved against the backend.
func (b *Batch) TouchedKeys() (keys [][]byte, hasPrefixDelete bool) {
	for _, op := range b.ops {
		switch op.kind {
		case opPut, opDelete:
			keys = append(keys, op.key)
		case opDeletePrefix:
			hasPrefixDelete = true
		}
	}
	return keys, hasPrefixDelete
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// kv is a flat key/value pair.
type kv struct {
	Key   []byte
	Value []byte
}

// preparedBatch is a flat, conflict-free insert/delete list: no key
// appears in both lists, and no prefix-delete remains unexpanded.
type preparedBatch struct {
	Deletions  [][]byte
	Insertions []kv
}

// Len is the total operation count, the quantity compared against the
// single-transaction ceiling and the journal's per-block ceiling.
func (p *preparedBatch) Len() int {
	return len(p.Deletions) + len(p.Insertions)
}

// sizeBytes sums the key and value bytes of every operation, the quantity
// compared against MaxBatchWriteItemBytes while chunking.
func (p *preparedBatch) sizeBytes() int {
	total := 0
	for _, d := range p.Deletions {
		total += len(d)
	}
	for _, ins := range p.Insertions {
		total += len(ins.Key) + len(ins.Value)
	}
	return total
}

// prefixExpander is the capability the normalizer needs to resolve a
// prefix-delete: given a prefix, return every live key under it. Expressed
// as an interface rather than a concrete backend dependency, so the
// normalizer can be tested against an in-memory fake with no backend at
// all (see batch_test.go).
type prefixExpander interface {
	ExpandPrefix(ctx context.Context, prefix []byte) ([][]byte, error)
}

// normalize turns a user Batch into a preparedBatch: prefix-deletes are
// expanded into explicit deletes, overwrites collapse to the
// last-writer-wins value, and a delete always removes any earlier
// insertion of the same key (an overwrite resolves to a single insertion
// with the latest value; a later delete wins over an earlier put).
func normalize(ctx context.Context, batch *Batch, expander prefixExpander) (*preparedBatch, error) {
	// First pass: resolve prefix-deletes concurrently, bounded by the
	// façade's MAX_CONNECTIONS cap, since each is an independent backend
	// round-trip.
	prefixKeys := make([][][]byte, len(batch.ops))
	sem := semaphore.NewWeighted(MaxConnections)
	var wg sync.WaitGroup
	errs := make([]error, len(batch.ops))
	for i, op := range batch.ops {
		if op.kind != opDeletePrefix {
			continue
		}
		i, op := i, op
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)
			keys, err := expander.ExpandPrefix(ctx, op.key)
			if err != nil {
				errs[i] = err
				return
			}
			prefixKeys[i] = keys
		}()
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	// Second pass: fold every operation, in order, into a map keyed by the
	// user key, so a later operation always overrides an earlier one.
	// nil value marks a pending delete.
	order := make([]string, 0, len(batch.ops))
	state := make(map[string]*kv)
	remember := func(key []byte, value []byte) {
		k := string(key)
		if _, seen := state[k]; !seen {
			order = append(order, k)
		}
		if value == nil {
			state[k] = nil
		} else {
			state[k] = &kv{Key: key, Value: value}
		}
	}
	for i, op := range batch.ops {
		switch op.kind {
		case opPut:
			remember(op.key, op.value)
		case opDelete:
			remember(op.key, nil)
		case opDeletePrefix:
			for _, key := range prefixKeys[i] {
				remember(key, nil)
			}
		}
	}

	prepared := &preparedBatch{}
	for _, k := range order {
		entry := state[k]
		if entry == nil {
			prepared.Deletions = append(prepared.Deletions, []byte(k))
		} else {
			prepared.Insertions = append(prepared.Insertions, *entry)
		}
	}
	return prepared, nil
}
