package localstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestBackend(t *testing.T) *Backend {
	t.Helper()
	b, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	_, err = b.CreateTable(context.Background(), &dynamodb.CreateTableInput{TableName: aws.String("t")})
	require.NoError(t, err)
	return b
}

func TestCreateTableIsIdempotent(t *testing.T) {
	b := openTestBackend(t)
	_, err := b.CreateTable(context.Background(), &dynamodb.CreateTableInput{TableName: aws.String("t")})
	assert.NoError(t, err)
}

func TestPutThenGetItem(t *testing.T) {
	b := openTestBackend(t)
	ctx := context.Background()

	_, err := b.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{
				TableName: aws.String("t"),
				Item: map[string]types.AttributeValue{
					"partition": &types.AttributeValueMemberB{Value: []byte{0}},
					"sort":      &types.AttributeValueMemberB{Value: []byte("k")},
					"value":     &types.AttributeValueMemberB{Value: []byte("v")},
				},
			}},
		},
	})
	require.NoError(t, err)

	out, err := b.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String("t"),
		Key: map[string]types.AttributeValue{
			"partition": &types.AttributeValueMemberB{Value: []byte{0}},
			"sort":      &types.AttributeValueMemberB{Value: []byte("k")},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, out.Item)
	blob := out.Item["value"].(*types.AttributeValueMemberB)
	assert.Equal(t, []byte("v"), blob.Value)
}

func TestGetItemMissingReturnsNilItem(t *testing.T) {
	b := openTestBackend(t)
	out, err := b.GetItem(context.Background(), &dynamodb.GetItemInput{
		TableName: aws.String("t"),
		Key: map[string]types.AttributeValue{
			"partition": &types.AttributeValueMemberB{Value: []byte{0}},
			"sort":      &types.AttributeValueMemberB{Value: []byte("missing")},
		},
	})
	require.NoError(t, err)
	assert.Nil(t, out.Item)
}

func TestTransactWriteItemsIsAllOrNothing(t *testing.T) {
	b := openTestBackend(t)
	ctx := context.Background()

	_, err := b.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{
				TableName: aws.String("t"),
				Item: map[string]types.AttributeValue{
					"partition": &types.AttributeValueMemberB{Value: []byte{0}},
					"sort":      &types.AttributeValueMemberB{Value: []byte("good")},
					"value":     &types.AttributeValueMemberB{Value: []byte("v")},
				},
			}},
			{Delete: &types.Delete{
				TableName: aws.String("t"),
				Key:       nil, // missing sort key forces an error mid-transaction
			}},
		},
	})
	assert.Error(t, err)

	out, err := b.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String("t"),
		Key: map[string]types.AttributeValue{
			"partition": &types.AttributeValueMemberB{Value: []byte{0}},
			"sort":      &types.AttributeValueMemberB{Value: []byte("good")},
		},
	})
	require.NoError(t, err)
	assert.Nil(t, out.Item, "the successful Put must not survive its sibling's failure")
}

func TestQueryBeginsWithAndPagination(t *testing.T) {
	b := openTestBackend(t)
	ctx := context.Background()

	var items []types.TransactWriteItem
	for _, k := range []string{"a/1", "a/2", "a/3", "b/1"} {
		items = append(items, types.TransactWriteItem{Put: &types.Put{
			TableName: aws.String("t"),
			Item: map[string]types.AttributeValue{
				"partition": &types.AttributeValueMemberB{Value: []byte{0}},
				"sort":      &types.AttributeValueMemberB{Value: []byte(k)},
				"value":     &types.AttributeValueMemberB{Value: []byte(k)},
			},
		}})
	}
	_, err := b.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	require.NoError(t, err)

	out, err := b.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String("t"),
		ProjectionExpression:   aws.String("sort, value"),
		KeyConditionExpression: aws.String("partition = :partition and begins_with(sort, :prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":partition": &types.AttributeValueMemberB{Value: []byte{0}},
			":prefix":    &types.AttributeValueMemberB{Value: []byte("a/")},
		},
	})
	require.NoError(t, err)
	assert.Len(t, out.Items, 3)
	assert.Nil(t, out.LastEvaluatedKey)
}
