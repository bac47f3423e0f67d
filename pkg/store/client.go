package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/cuemby/dynakv/pkg/log"
	"github.com/cuemby/dynakv/pkg/metrics"
	"golang.org/x/sync/semaphore"
)

// Client is the public key/value façade: point reads, prefix scans, and
// the write coordinator. Point reads and prefix-scan queries are bounded by
// a process-wide connection cap; TransactWriteItems calls are not.
type Client struct {
	api   dynamoAPI
	table string
	sem   *semaphore.Weighted
}

// New constructs a Client around a live DynamoDB client. table must already
// exist or have been provisioned with EnsureTable.
func New(api *dynamodb.Client, table string) *Client {
	return newClient(api, table)
}

// connectionSem is shared by every Client, so the MaxConnections cap holds
// across the whole process rather than per Client.
var connectionSem = semaphore.NewWeighted(MaxConnections)

// newClient is the shared constructor used by New and by tests that supply
// a dynamoAPI test double instead of a real *dynamodb.Client.
func newClient(api dynamoAPI, table string) *Client {
	return &Client{
		api:   api,
		table: table,
		sem:   connectionSem,
	}
}

func (c *Client) acquire(ctx context.Context) (release func(), err error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return func() { c.sem.Release(1) }, nil
}

// ExpandPrefix satisfies the prefixExpander interface batch.go's normalizer
// needs, letting WriteBatch resolve DeletePrefix operations against this
// same client without a separate dependency.
func (c *Client) ExpandPrefix(ctx context.Context, prefix []byte) ([][]byte, error) {
	keys, err := c.FindKeysByPrefix(ctx, prefix)
	if err != nil {
		return nil, err
	}
	out := make([][]byte, 0, keys.Len())
	for keys.Next() {
		key, err := keys.Key()
		if err != nil {
			return nil, err
		}
		owned := make([]byte, len(prefix)+len(key))
		copy(owned, prefix)
		copy(owned[len(prefix):], key)
		out = append(out, owned)
	}
	return out, nil
}

// ReadKeyBytes performs a single point read. A missing key returns
// (nil, nil); decoding errors on an existing record are surfaced.
func (c *Client) ReadKeyBytes(ctx context.Context, key []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, ErrZeroLengthKey
	}
	release, err := c.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	timer := metrics.NewTimer()
	out, err := c.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.table),
		Key:       buildKeyAttributes(key),
	})
	timer.ObserveDurationVec(metrics.BackendCallDuration, "get_item")
	if err != nil {
		return nil, fmt.Errorf("store: get item: %w", err)
	}
	if out.Item == nil {
		return nil, nil
	}
	return extractValueOwned(out.Item)
}

// ReadMultiKeyBytes issues one point read per key, fanned out concurrently
// and bounded by the same MAX_CONNECTIONS semaphore as every other backend
// call, joining in input order. There is no cross-key ordering guarantee:
// individual reads may observe different snapshots.
func (c *Client) ReadMultiKeyBytes(ctx context.Context, keys [][]byte) ([][]byte, error) {
	results := make([][]byte, len(keys))
	errs := make([]error, len(keys))
	var wg sync.WaitGroup
	for i, key := range keys {
		i, key := i, key
		wg.Add(1)
		go func() {
			defer wg.Done()
			value, err := c.ReadKeyBytes(ctx, key)
			results[i], errs[i] = value, err
		}()
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// FindKeysByPrefix returns a restartable iterator of every live key under
// prefix, with prefix stripped from the front of each result.
func (c *Client) FindKeysByPrefix(ctx context.Context, prefix []byte) (*Keys, error) {
	if len(prefix) == 0 {
		return nil, ErrZeroLengthKeyPrefix
	}
	items, err := c.queryByPrefix(ctx, prefix, sortAttribute)
	if err != nil {
		return nil, err
	}
	return &Keys{prefixLen: len(prefix), items: items}, nil
}

// FindKeyValuesByPrefix returns a restartable iterator of every live
// (key, value) pair under prefix, with prefix stripped from each key.
func (c *Client) FindKeyValuesByPrefix(ctx context.Context, prefix []byte) (*KeyValues, error) {
	if len(prefix) == 0 {
		return nil, ErrZeroLengthKeyPrefix
	}
	items, err := c.queryByPrefix(ctx, prefix, sortAttribute+", "+valueAttribute)
	if err != nil {
		return nil, err
	}
	return &KeyValues{prefixLen: len(prefix), items: items}, nil
}

// queryByPrefix issues one or more Query calls, following
// LastEvaluatedKey/ExclusiveStartKey to exhaustion so a response spanning
// more than one backend page is never silently truncated.
func (c *Client) queryByPrefix(ctx context.Context, prefix []byte, projection string) ([]map[string]types.AttributeValue, error) {
	release, err := c.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	keyCondition := fmt.Sprintf("%s = :partition and begins_with(%s, :prefix)", partitionAttribute, sortAttribute)

	var items []map[string]types.AttributeValue
	var startKey map[string]types.AttributeValue
	for {
		timer := metrics.NewTimer()
		out, err := c.api.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(c.table),
			ProjectionExpression:   aws.String(projection),
			KeyConditionExpression: aws.String(keyCondition),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":partition": &types.AttributeValueMemberB{Value: dummyPartitionKey},
				":prefix":    &types.AttributeValueMemberB{Value: prefix},
			},
			ExclusiveStartKey: startKey,
		})
		timer.ObserveDurationVec(metrics.BackendCallDuration, "query")
		if err != nil {
			return nil, fmt.Errorf("store: query: %w", err)
		}
		items = append(items, out.Items...)
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return items, nil
}

// WriteBatch normalizes batch against the current state of the region
// rooted at baseKey and commits it, journaling when it exceeds a single
// transaction's capacity. See coordinator.go for the chunking algorithm.
func (c *Client) WriteBatch(ctx context.Context, baseKey []byte, batch *Batch) error {
	logger := log.WithRegion(baseKey).With().Str("operation", "write_batch").Logger()
	prepared, err := normalize(ctx, batch, c)
	if err != nil {
		return err
	}
	if prepared.Len() == 0 {
		return nil
	}
	return c.commitBatch(ctx, baseKey, prepared, logger)
}

// ClearJournal drains and applies any journal left behind by a process
// that crashed mid-commit for the region rooted at baseKey, replaying
// every outstanding block to completion. WriteBatch already does this
// before every write, so calling it directly is only needed to make a
// region fully consistent ahead of a read, or as an explicit startup step
// before serving traffic against a table that may have been left
// mid-write. It is a no-op when no journal exists.
func (c *Client) ClearJournal(ctx context.Context, baseKey []byte) error {
	return c.resolveJournal(ctx, baseKey)
}
