package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/cuemby/dynakv/pkg/metrics"
)

// transactionBuilder is a transient accumulator of put/delete operations
// targeting a single atomic backend transaction. It performs no network
// I/O until Submit is called, and performs no retries of its own.
type transactionBuilder struct {
	table  string
	writes []types.TransactWriteItem
}

func newTransactionBuilder(table string) *transactionBuilder {
	return &transactionBuilder{table: table}
}

// Len reports the number of operations accumulated so far.
func (b *transactionBuilder) Len() int {
	return len(b.writes)
}

// Delete stages a delete of key. The backend forbids zero-length binary
// key attributes, so an empty key is rejected before it ever reaches the
// write list.
func (b *transactionBuilder) Delete(key []byte) error {
	if len(key) == 0 {
		return ErrZeroLengthKey
	}
	b.writes = append(b.writes, types.TransactWriteItem{
		Delete: &types.Delete{
			TableName: aws.String(b.table),
			Key:       buildKeyAttributes(key),
		},
	})
	return nil
}

// Put stages a put of (key, value).
func (b *transactionBuilder) Put(key, value []byte) error {
	if len(key) == 0 {
		return ErrZeroLengthKey
	}
	if len(value) > MaxValueBytes {
		return ErrValueTooLarge
	}
	b.writes = append(b.writes, types.TransactWriteItem{
		Put: &types.Put{
			TableName: aws.String(b.table),
			Item:      buildItemAttributes(key, value),
		},
	})
	return nil
}

// Submit issues one atomic TransactWriteItems call covering every staged
// operation. An empty builder is a no-op — no network call is made. A
// builder holding more than MaxTransactWriteItemSize operations fails
// before any network call.
func (b *transactionBuilder) Submit(ctx context.Context, api dynamoAPI) error {
	if len(b.writes) > MaxTransactWriteItemSize {
		return ErrTransactUpperLimit
	}
	if len(b.writes) == 0 {
		return nil
	}
	timer := metrics.NewTimer()
	_, err := api.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: b.writes,
	})
	timer.ObserveDurationVec(metrics.BackendCallDuration, "transact_write_items")
	if err != nil {
		return fmt.Errorf("store: transact write items: %w", err)
	}
	return nil
}
