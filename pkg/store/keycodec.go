package store

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// buildKeyAttributes builds the (partition, sort) attribute map that
// identifies a record, with no value attribute — used for deletes and for
// GetItem lookups.
func buildKeyAttributes(key []byte) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		partitionAttribute: &types.AttributeValueMemberB{Value: dummyPartitionKey},
		sortAttribute:      &types.AttributeValueMemberB{Value: key},
	}
}

// buildItemAttributes builds the full (partition, sort, value) attribute
// map for a put.
func buildItemAttributes(key, value []byte) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		partitionAttribute: &types.AttributeValueMemberB{Value: dummyPartitionKey},
		sortAttribute:      &types.AttributeValueMemberB{Value: key},
		valueAttribute:     &types.AttributeValueMemberB{Value: value},
	}
}

// extractSortKey returns the suffix of the stored sort key after stripping
// prefixLen bytes from the front, so prefix scans hand callers relative
// keys. The returned slice borrows the attribute's backing array.
func extractSortKey(prefixLen int, attributes map[string]types.AttributeValue) ([]byte, error) {
	attr, ok := attributes[sortAttribute]
	if !ok {
		return nil, ErrMissingKey
	}
	blob, ok := attr.(*types.AttributeValueMemberB)
	if !ok {
		return nil, wrongKeyTypeError(attributeValueTypeDescription(attr))
	}
	if prefixLen > len(blob.Value) {
		return nil, fmt.Errorf("store: stored key shorter than requested prefix length %d", prefixLen)
	}
	return blob.Value[prefixLen:], nil
}

// extractValue returns a borrowed view of the stored value attribute.
func extractValue(attributes map[string]types.AttributeValue) ([]byte, error) {
	attr, ok := attributes[valueAttribute]
	if !ok {
		return nil, ErrMissingValue
	}
	blob, ok := attr.(*types.AttributeValueMemberB)
	if !ok {
		return nil, wrongValueTypeError(attributeValueTypeDescription(attr))
	}
	return blob.Value, nil
}

// extractValueOwned is extractValue with a defensive copy, for call sites
// that must not hold a reference into a backend response after it is
// discarded (point reads returned to the caller).
func extractValueOwned(attributes map[string]types.AttributeValue) ([]byte, error) {
	value, err := extractValue(attributes)
	if err != nil {
		return nil, err
	}
	owned := make([]byte, len(value))
	copy(owned, value)
	return owned, nil
}

// extractKeyValue returns borrowed (key, value) views into a single item,
// for use by the borrowing iterator.
func extractKeyValue(prefixLen int, attributes map[string]types.AttributeValue) (key, value []byte, err error) {
	key, err = extractSortKey(prefixLen, attributes)
	if err != nil {
		return nil, nil, err
	}
	value, err = extractValue(attributes)
	if err != nil {
		return nil, nil, err
	}
	return key, value, nil
}

// extractKeyValueOwned is extractKeyValue with defensive copies, for the
// owning iterator.
func extractKeyValueOwned(prefixLen int, attributes map[string]types.AttributeValue) (key, value []byte, err error) {
	key, value, err = extractKeyValue(prefixLen, attributes)
	if err != nil {
		return nil, nil, err
	}
	ownedKey := make([]byte, len(key))
	copy(ownedKey, key)
	ownedValue := make([]byte, len(value))
	copy(ownedValue, value)
	return ownedKey, ownedValue, nil
}

// attributeValueTypeDescription renders a human name for an AttributeValue
// variant other than the binary blob the adapter always writes, for error
// messages.
func attributeValueTypeDescription(value types.AttributeValue) string {
	switch value.(type) {
	case *types.AttributeValueMemberBOOL:
		return "a boolean"
	case *types.AttributeValueMemberBS:
		return "a list of binary blobs"
	case *types.AttributeValueMemberL:
		return "a list"
	case *types.AttributeValueMemberM:
		return "a map"
	case *types.AttributeValueMemberN:
		return "a number"
	case *types.AttributeValueMemberNS:
		return "a list of numbers"
	case *types.AttributeValueMemberNULL:
		return "a null value"
	case *types.AttributeValueMemberS:
		return "a string"
	case *types.AttributeValueMemberSS:
		return "a list of strings"
	default:
		return "an unknown type"
	}
}
