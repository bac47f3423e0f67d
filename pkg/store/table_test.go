package store

import (
	"context"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTableOnceAPI fails every CreateTable call after the first with
// ResourceInUseException, modeling a table that already exists.
type createTableOnceAPI struct {
	dynamoAPI
	created bool
}

func (a *createTableOnceAPI) CreateTable(ctx context.Context, in *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	if a.created {
		return nil, &types.ResourceInUseException{}
	}
	a.created = true
	return &dynamodb.CreateTableOutput{}, nil
}

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name    string
		table   string
		wantErr error
	}{
		{name: "valid", table: "my-table_1.prod", wantErr: nil},
		{name: "too short", table: "ab", wantErr: ErrTableNameTooShort},
		{name: "too long", table: strings.Repeat("a", 256), wantErr: ErrTableNameTooLong},
		{name: "invalid character", table: "bad table", wantErr: ErrTableNameInvalidCharacter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTableName(tt.table)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestEnsureTableReportsNewThenExisting(t *testing.T) {
	api := &createTableOnceAPI{}

	status, err := ensureTable(context.Background(), api, "my-table")
	require.NoError(t, err)
	assert.Equal(t, TableStatusNew, status)

	status, err = ensureTable(context.Background(), api, "my-table")
	require.NoError(t, err)
	assert.Equal(t, TableStatusExisting, status)
}
