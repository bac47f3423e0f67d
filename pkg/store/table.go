package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/cuemby/dynakv/pkg/metrics"
)

// TableStatus reports whether EnsureTable created the table or found it
// already there.
type TableStatus int

const (
	// TableStatusNew means CreateTable succeeded: this call created the
	// table.
	TableStatusNew TableStatus = iota
	// TableStatusExisting means CreateTable failed with
	// ResourceInUseException: the table already existed.
	TableStatusExisting
)

func (s TableStatus) String() string {
	if s == TableStatusExisting {
		return "existing"
	}
	return "new"
}

// ValidateTableName checks a table name against the backend's naming rules
// before it is ever sent over the wire, so a typo fails fast with a
// specific error instead of an opaque backend rejection.
func ValidateTableName(name string) error {
	if len(name) < 3 {
		return ErrTableNameTooShort
	}
	if len(name) > 255 {
		return ErrTableNameTooLong
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_' || r == '-' || r == '.':
		default:
			return ErrTableNameInvalidCharacter
		}
	}
	return nil
}

// EnsureTable creates the backing table with the single-partition,
// sort-key schema every Client assumes, tolerating a table that already
// exists.
func EnsureTable(ctx context.Context, api *dynamodb.Client, table string) (TableStatus, error) {
	return ensureTable(ctx, api, table)
}

// EnsureLocalTable is EnsureTable for a non-AWS Backend, such as
// pkg/localstore's bbolt-backed emulator.
func EnsureLocalTable(ctx context.Context, api Backend, table string) (TableStatus, error) {
	return ensureTable(ctx, api, table)
}

func ensureTable(ctx context.Context, api dynamoAPI, table string) (TableStatus, error) {
	if err := ValidateTableName(table); err != nil {
		return TableStatusNew, err
	}
	timer := metrics.NewTimer()
	_, err := api.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(table),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(partitionAttribute), AttributeType: types.ScalarAttributeTypeB},
			{AttributeName: aws.String(sortAttribute), AttributeType: types.ScalarAttributeTypeB},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(partitionAttribute), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String(sortAttribute), KeyType: types.KeyTypeRange},
		},
		ProvisionedThroughput: &types.ProvisionedThroughput{
			ReadCapacityUnits:  aws.Int64(10),
			WriteCapacityUnits: aws.Int64(10),
		},
	})
	timer.ObserveDurationVec(metrics.BackendCallDuration, "create_table")
	if err == nil {
		return TableStatusNew, nil
	}
	var inUse *types.ResourceInUseException
	if errors.As(err, &inUse) {
		return TableStatusExisting, nil
	}
	return TableStatusNew, fmt.Errorf("store: create table: %w", err)
}
