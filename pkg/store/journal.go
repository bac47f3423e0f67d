package store

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/hashicorp/go-msgpack/v2/codec"
)

// journalHeader is the single structure tracking a region's outstanding
// journal. If it exists with BlockCount == N, block entries 0..N-1 all
// exist; if it is absent, no block entries exist for the region.
type journalHeader struct {
	BlockCount uint32
}

// journalKey builds the key for either the journal header (pos is ignored,
// tag == journalHeaderTag) or a block entry (tag == journalEntryTag, pos is
// the 0-based block index encoded as a fixed 4-byte big-endian suffix).
func journalKey(baseKey []byte, tag byte, pos uint32) []byte {
	key := make([]byte, 0, len(baseKey)+2+4)
	key = append(key, baseKey...)
	key = append(key, journalTag, tag)
	if tag == journalEntryTag {
		var posBuf [4]byte
		binary.BigEndian.PutUint32(posBuf[:], pos)
		key = append(key, posBuf[:]...)
	}
	return key
}

func journalHeaderKey(baseKey []byte) []byte {
	return journalKey(baseKey, journalHeaderTag, 0)
}

func journalEntryKey(baseKey []byte, index uint32) []byte {
	return journalKey(baseKey, journalEntryTag, index)
}

// msgpackHandle is shared by every encode/decode call. It carries no
// per-call state, so a single package-level value is safe for concurrent
// use, matching the codec package's own guidance.
var msgpackHandle = &codec.MsgpackHandle{}

func encodeMsgpack(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := codec.NewEncoder(&buf, msgpackHandle)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("store: encode journal entry: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeMsgpack(data []byte, v interface{}) error {
	dec := codec.NewDecoder(bytes.NewReader(data), msgpackHandle)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("store: decode journal entry: %w", err)
	}
	return nil
}

// journalBlock is one serialized chunk of a journaled batch, sized so it
// commits in a single atomic transaction alongside the accompanying
// header update and entry delete (see maxOpsPerBlock in coordinator.go
// for the "-2" slack).
type journalBlock struct {
	Deletions  [][]byte
	Insertions []kv
}

func encodeHeader(h journalHeader) ([]byte, error) {
	return encodeMsgpack(h)
}

func decodeHeader(data []byte) (journalHeader, error) {
	var h journalHeader
	err := decodeMsgpack(data, &h)
	return h, err
}

func encodeBlock(b journalBlock) ([]byte, error) {
	return encodeMsgpack(b)
}

func decodeBlock(data []byte) (journalBlock, error) {
	var b journalBlock
	err := decodeMsgpack(data, &b)
	return b, err
}
