package store

import "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

// Keys is a restartable, in-memory iterator over the keys returned by a
// FindKeysByPrefix call. It borrows directly into the backend response
// attribute maps; callers that need a key to outlive the iterator should
// copy it.
type Keys struct {
	prefixLen int
	items     []map[string]types.AttributeValue
	pos       int
}

// Next advances the iterator and reports whether a key is available.
func (k *Keys) Next() bool {
	if k.pos >= len(k.items) {
		return false
	}
	k.pos++
	return true
}

// Key returns the current key with the query prefix stripped, borrowing
// into the backend response.
func (k *Keys) Key() ([]byte, error) {
	return extractSortKey(k.prefixLen, k.items[k.pos-1])
}

// Len reports the total number of keys the iterator will yield.
func (k *Keys) Len() int {
	return len(k.items)
}

// Reset rewinds the iterator to its start, so the same already-fetched
// result set can be walked again without a fresh backend query.
func (k *Keys) Reset() {
	k.pos = 0
}

// KeyValues is a restartable, in-memory iterator over the (key, value)
// pairs returned by a FindKeyValuesByPrefix call.
type KeyValues struct {
	prefixLen int
	items     []map[string]types.AttributeValue
	pos       int
}

// Next advances the iterator and reports whether a pair is available.
func (kv *KeyValues) Next() bool {
	if kv.pos >= len(kv.items) {
		return false
	}
	kv.pos++
	return true
}

// KeyValue returns the current (key, value) pair, both borrowed views with
// the query prefix stripped from the key.
func (kv *KeyValues) KeyValue() (key, value []byte, err error) {
	return extractKeyValue(kv.prefixLen, kv.items[kv.pos-1])
}

// Owned copies the current pair so it outlives the iterator and any reuse
// of the underlying backend response buffers.
func (kv *KeyValues) Owned() (key, value []byte, err error) {
	return extractKeyValueOwned(kv.prefixLen, kv.items[kv.pos-1])
}

// Len reports the total number of pairs the iterator will yield.
func (kv *KeyValues) Len() int {
	return len(kv.items)
}

// Reset rewinds the iterator to its start, so the same already-fetched
// result set can be walked again without a fresh backend query.
func (kv *KeyValues) Reset() {
	kv.pos = 0
}
