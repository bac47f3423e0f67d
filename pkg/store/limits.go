package store

// Fundamental DynamoDB service limits that the adapter builds around. See
// https://docs.aws.amazon.com/amazondynamodb/latest/developerguide/ServiceQuotas.html
// and the TransactWriteItems/BatchWriteItem API references.
const (
	// MaxValueBytes is the maximum size of a single stored value (400 KiB).
	MaxValueBytes = 409_600

	// MaxTransactWriteItemSize is the maximum number of operations allowed
	// in a single TransactWriteItems call.
	MaxTransactWriteItemSize = 100

	// MaxBatchWriteItemBytes bounds the sum of key and value bytes in a
	// single journal block, mirroring the BatchWriteItem payload ceiling.
	MaxBatchWriteItemBytes = 16_777_216

	// MaxConnections is the process-wide ceiling on simultaneous backend
	// connections, enforced by a semaphore every Client shares. Point reads
	// and queries take a slot; TransactWriteItems calls do not.
	MaxConnections = 50
)

// journalTag is reserved for journal bookkeeping keys within a region and
// must sort below any user-reachable key suffix under the same base_key.
// It is the Go analog of the source's MIN_VIEW_TAG compile-time assertion:
// callers are responsible for allocating base keys such that user key
// suffixes never begin with this byte.
const journalTag = 0x00

// Journal sub-tags distinguish the single header entry from the ordered
// block entries within a region.
const (
	journalHeaderTag byte = 1
	journalEntryTag  byte = 2
)

const (
	partitionAttribute = "partition"
	sortAttribute      = "sort"
	valueAttribute     = "value"
)

// dummyPartitionKey is the single shard value every record shares, which
// makes a Query against the table a total-ordered scan within one base key.
var dummyPartitionKey = []byte{0}
