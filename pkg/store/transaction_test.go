package store

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingAPI records how many TransactWriteItems calls it received, so
// tests can assert that validation failures never touch the network.
type countingAPI struct {
	calls int
}

func (c *countingAPI) GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return &dynamodb.GetItemOutput{}, nil
}

func (c *countingAPI) Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	return &dynamodb.QueryOutput{}, nil
}

func (c *countingAPI) TransactWriteItems(ctx context.Context, in *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	c.calls++
	return &dynamodb.TransactWriteItemsOutput{}, nil
}

func (c *countingAPI) CreateTable(ctx context.Context, in *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	return &dynamodb.CreateTableOutput{}, nil
}

func TestTransactionBuilderRejectsEmptyKey(t *testing.T) {
	b := newTransactionBuilder("t")
	assert.ErrorIs(t, b.Put(nil, []byte("v")), ErrZeroLengthKey)
	assert.ErrorIs(t, b.Delete(nil), ErrZeroLengthKey)
	assert.Equal(t, 0, b.Len())
}

func TestTransactionBuilderRejectsOversizeValue(t *testing.T) {
	b := newTransactionBuilder("t")
	oversize := make([]byte, MaxValueBytes+1)
	assert.ErrorIs(t, b.Put([]byte("k"), oversize), ErrValueTooLarge)
}

func TestTransactionBuilderSubmitEmptyIsNoop(t *testing.T) {
	api := &countingAPI{}
	b := newTransactionBuilder("t")
	require.NoError(t, b.Submit(context.Background(), api))
	assert.Equal(t, 0, api.calls)
}

func TestTransactionBuilderSubmitOverLimitNeverCallsBackend(t *testing.T) {
	api := &countingAPI{}
	b := newTransactionBuilder("t")
	for i := 0; i < MaxTransactWriteItemSize+1; i++ {
		require.NoError(t, b.Put([]byte{byte(i)}, []byte("v")))
	}
	err := b.Submit(context.Background(), api)
	assert.ErrorIs(t, err, ErrTransactUpperLimit)
	assert.Equal(t, 0, api.calls)
}

func TestTransactionBuilderSubmitIssuesOneCall(t *testing.T) {
	api := &countingAPI{}
	b := newTransactionBuilder("t")
	require.NoError(t, b.Put([]byte("a"), []byte("1")))
	require.NoError(t, b.Delete([]byte("b")))
	require.NoError(t, b.Submit(context.Background(), api))
	assert.Equal(t, 1, api.calls)
}
