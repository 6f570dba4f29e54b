package store

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sicko7947/foodcart"
)

// blobRecord is the item layout for one stored key
type blobRecord struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"entity_type"`
	Key        string `dynamodbav:"key"`
	Value      []byte `dynamodbav:"value"`
	UpdatedAt  string `dynamodbav:"updated_at"`
	TTL        int64  `dynamodbav:"ttl,omitempty"`
}

// DynamoDBStore implements foodcart.BlobStore using AWS DynamoDB
type DynamoDBStore struct {
	client    DynamoDBClient
	tableName string
	ttl       time.Duration
}

// DynamoDBOption configures a DynamoDBStore
type DynamoDBOption func(*DynamoDBStore)

// WithTTL makes every written item expire after d via the table's TTL attribute
func WithTTL(d time.Duration) DynamoDBOption {
	return func(s *DynamoDBStore) {
		s.ttl = d
	}
}

// NewDynamoDBStore creates a new DynamoDB-backed blob store
func NewDynamoDBStore(client DynamoDBClient, tableName string, opts ...DynamoDBOption) foodcart.BlobStore {
	s := &DynamoDBStore{
		client:    client,
		tableName: tableName,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *DynamoDBStore) itemKey(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		AttrPK: &types.AttributeValueMemberS{Value: blobPK(key)},
		AttrSK: &types.AttributeValueMemberS{Value: blobSK()},
	}
}

func (s *DynamoDBStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            s.itemKey(key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to get blob %s: %w", key, err)
	}

	if result.Item == nil {
		return nil, false, nil
	}

	var record blobRecord
	if err := attributevalue.UnmarshalMap(result.Item, &record); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal blob %s: %w", key, err)
	}

	if record.TTL > 0 && time.Now().Unix() >= record.TTL {
		// Expired but not yet swept by DynamoDB
		return nil, false, nil
	}

	return record.Value, true, nil
}

func (s *DynamoDBStore) Set(ctx context.Context, key string, blob []byte) error {
	now := time.Now()
	record := blobRecord{
		PK:         blobPK(key),
		SK:         blobSK(),
		EntityType: EntityTypeBlob,
		Key:        key,
		Value:      blob,
		UpdatedAt:  now.Format(time.RFC3339),
	}
	if s.ttl > 0 {
		record.TTL = now.Add(s.ttl).Unix()
	}

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("failed to marshal blob %s: %w", key, err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put blob %s: %w", key, err)
	}

	return nil
}

func (s *DynamoDBStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key:       s.itemKey(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete blob %s: %w", key, err)
	}

	return nil
}
