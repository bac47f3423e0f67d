package store

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// dynamoAPI is the narrow subset of *dynamodb.Client the adapter calls.
// Depending on this interface instead of the concrete client lets the
// write coordinator, recovery engine and iterators be exercised against
// pkg/localstore's bbolt-backed fake, or against a test double that fails
// after N calls to simulate a crash mid-journal, without touching AWS.
type dynamoAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	TransactWriteItems(ctx context.Context, in *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
	CreateTable(ctx context.Context, in *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// Backend is the exported form of dynamoAPI, letting callers outside this
// package — pkg/localstore's bbolt-backed emulation, or a test double that
// fails after N calls — construct a Client without a real AWS client.
// *dynamodb.Client satisfies it structurally, as does anything with the
// same four method signatures.
type Backend interface {
	dynamoAPI
}

// NewWithBackend constructs a Client around any Backend implementation.
func NewWithBackend(api Backend, table string) *Client {
	return newClient(api, table)
}
