// Package localstore is a bbolt-backed stand-in for the DynamoDB backend,
// used by the CLI's local/dev mode and by tests that need a real,
// persistent, crash-point-controllable store without talking to AWS. It
// satisfies the same narrow interface store.Client uses internally, so a
// store.Client built on a Backend behaves identically to one built on a
// live *dynamodb.Client.
package localstore

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	bolt "go.etcd.io/bbolt"
)

const partitionAttribute = "partition"
const sortAttribute = "sort"
const valueAttribute = "value"

var dummyPartitionKey = []byte{0}

// Backend is a single-table, single-partition DynamoDB emulation backed by
// one bbolt bucket per table, keyed by the sort attribute. It supports
// GetItem, Query with begins_with, TransactWriteItems and CreateTable —
// the exact surface store.Client depends on.
type Backend struct {
	db *bolt.DB
}

// Open opens (creating if absent) a bbolt database file at path.
func Open(path string) (*Backend, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("localstore: open %s: %w", path, err)
	}
	return &Backend{db: db}, nil
}

// Close closes the underlying database file.
func (b *Backend) Close() error {
	return b.db.Close()
}

func bucketName(table string) []byte {
	return []byte("table:" + table)
}

// CreateTable creates the bucket backing table, tolerating one that
// already exists so callers can call it unconditionally on startup.
func (b *Backend) CreateTable(ctx context.Context, in *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	err := b.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName(*in.TableName))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("localstore: create table: %w", err)
	}
	return &dynamodb.CreateTableOutput{}, nil
}

// GetItem looks up a single record by its sort key.
func (b *Backend) GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	sortKey, err := sortKeyOf(in.Key)
	if err != nil {
		return nil, err
	}

	out := &dynamodb.GetItemOutput{}
	err = b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketName(*in.TableName))
		if bucket == nil {
			return nil
		}
		value := bucket.Get(sortKey)
		if value == nil {
			return nil
		}
		out.Item = itemAttributes(sortKey, cloneBytes(value))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("localstore: get item: %w", err)
	}
	return out, nil
}

// Query supports exactly the access pattern store.Client issues: a
// partition-key equality match combined with begins_with on the sort key,
// returned in sort order. ExclusiveStartKey is honoured, so results resume
// after the given sort key; every remaining match is returned in one
// response and LastEvaluatedKey is never set.
func (b *Backend) Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	prefix, ok := in.ExpressionAttributeValues[":prefix"].(*types.AttributeValueMemberB)
	if !ok {
		return nil, fmt.Errorf("localstore: query missing :prefix binary value")
	}

	var matched [][]byte
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketName(*in.TableName))
		if bucket == nil {
			return nil
		}
		cursor := bucket.Cursor()
		for k, _ := cursor.Seek(prefix.Value); k != nil && bytes.HasPrefix(k, prefix.Value); k, _ = cursor.Next() {
			matched = append(matched, cloneBytes(k))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("localstore: query: %w", err)
	}
	sort.Slice(matched, func(i, j int) bool { return bytes.Compare(matched[i], matched[j]) < 0 })

	start := 0
	if in.ExclusiveStartKey != nil {
		if sk, ok := in.ExclusiveStartKey[sortAttribute].(*types.AttributeValueMemberB); ok {
			for i, k := range matched {
				if bytes.Equal(k, sk.Value) {
					start = i + 1
					break
				}
			}
		}
	}
	matched = matched[start:]

	out := &dynamodb.QueryOutput{}
	wantsValue := wantsValueProjection(in.ProjectionExpression)
	err = b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketName(*in.TableName))
		for _, k := range matched {
			var value []byte
			if wantsValue {
				value = cloneBytes(bucket.Get(k))
			}
			out.Items = append(out.Items, itemAttributes(k, value))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("localstore: query: %w", err)
	}
	return out, nil
}

// TransactWriteItems applies every staged put/delete inside a single bbolt
// read-write transaction, giving the same all-or-nothing guarantee the
// real backend's TransactWriteItems call provides.
func (b *Backend) TransactWriteItems(ctx context.Context, in *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	err := b.db.Update(func(tx *bolt.Tx) error {
		for _, item := range in.TransactItems {
			switch {
			case item.Put != nil:
				bucket, err := tx.CreateBucketIfNotExists(bucketName(*item.Put.TableName))
				if err != nil {
					return err
				}
				sortKey, err := sortKeyOf(item.Put.Item)
				if err != nil {
					return err
				}
				value, err := valueOf(item.Put.Item)
				if err != nil {
					return err
				}
				if err := bucket.Put(sortKey, value); err != nil {
					return err
				}
			case item.Delete != nil:
				bucket, err := tx.CreateBucketIfNotExists(bucketName(*item.Delete.TableName))
				if err != nil {
					return err
				}
				sortKey, err := sortKeyOf(item.Delete.Key)
				if err != nil {
					return err
				}
				if err := bucket.Delete(sortKey); err != nil {
					return err
				}
			default:
				return fmt.Errorf("localstore: unsupported transact write item")
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("localstore: transact write items: %w", err)
	}
	return &dynamodb.TransactWriteItemsOutput{}, nil
}

func sortKeyOf(attrs map[string]types.AttributeValue) ([]byte, error) {
	attr, ok := attrs[sortAttribute]
	if !ok {
		return nil, fmt.Errorf("localstore: item missing sort key")
	}
	blob, ok := attr.(*types.AttributeValueMemberB)
	if !ok {
		return nil, fmt.Errorf("localstore: sort key is not a binary blob")
	}
	return blob.Value, nil
}

func valueOf(attrs map[string]types.AttributeValue) ([]byte, error) {
	attr, ok := attrs[valueAttribute]
	if !ok {
		return nil, fmt.Errorf("localstore: item missing value attribute")
	}
	blob, ok := attr.(*types.AttributeValueMemberB)
	if !ok {
		return nil, fmt.Errorf("localstore: value attribute is not a binary blob")
	}
	return blob.Value, nil
}

func itemAttributes(sortKey, value []byte) map[string]types.AttributeValue {
	attrs := map[string]types.AttributeValue{
		partitionAttribute: &types.AttributeValueMemberB{Value: dummyPartitionKey},
		sortAttribute:      &types.AttributeValueMemberB{Value: sortKey},
	}
	if value != nil {
		attrs[valueAttribute] = &types.AttributeValueMemberB{Value: value}
	}
	return attrs
}

func wantsValueProjection(projection *string) bool {
	if projection == nil {
		return false
	}
	return bytes.Contains([]byte(*projection), []byte(valueAttribute))
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
