package store

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sicko7947/foodcart"
)

// mockDynamoDBClient implements DynamoDBClient interface for testing
type mockDynamoDBClient struct {
	putItemFunc    func(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	getItemFunc    func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	deleteItemFunc func(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

func (m *mockDynamoDBClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if m.putItemFunc != nil {
		return m.putItemFunc(ctx, params, optFns...)
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (m *mockDynamoDBClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if m.getItemFunc != nil {
		return m.getItemFunc(ctx, params, optFns...)
	}
	return &dynamodb.GetItemOutput{}, nil
}

func (m *mockDynamoDBClient) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	if m.deleteItemFunc != nil {
		return m.deleteItemFunc(ctx, params, optFns...)
	}
	return &dynamodb.DeleteItemOutput{}, nil
}

func TestNewDynamoDBStore(t *testing.T) {
	client := &mockDynamoDBClient{}
	store := NewDynamoDBStore(client, "test-table")

	if store == nil {
		t.Fatal("NewDynamoDBStore() returned nil")
	}

	// Verify it implements the interface
	var _ foodcart.BlobStore = store
}

func TestDynamoDBStore_Set(t *testing.T) {
	var capturedInput *dynamodb.PutItemInput

	client := &mockDynamoDBClient{
		putItemFunc: func(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
			capturedInput = params
			return &dynamodb.PutItemOutput{}, nil
		},
	}

	store := NewDynamoDBStore(client, "test-table")
	ctx := context.Background()

	if err := store.Set(ctx, "cart", []byte(`[]`)); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	if capturedInput == nil {
		t.Fatal("PutItem was not called")
	}

	if *capturedInput.TableName != "test-table" {
		t.Errorf("TableName = %s, want test-table", *capturedInput.TableName)
	}

	// Check PK
	pk, ok := capturedInput.Item[AttrPK]
	if !ok {
		t.Fatal("PK not set")
	}
	if pkValue := pk.(*types.AttributeValueMemberS).Value; pkValue != blobPK("cart") {
		t.Errorf("PK = %s, want %s", pkValue, blobPK("cart"))
	}

	// Check SK
	sk, ok := capturedInput.Item[AttrSK]
	if !ok {
		t.Fatal("SK not set")
	}
	if skValue := sk.(*types.AttributeValueMemberS).Value; skValue != blobSK() {
		t.Errorf("SK = %s, want %s", skValue, blobSK())
	}

	// Check entity type
	entityType, ok := capturedInput.Item[AttrEntityType]
	if !ok {
		t.Fatal("EntityType not set")
	}
	if v := entityType.(*types.AttributeValueMemberS).Value; v != EntityTypeBlob {
		t.Errorf("EntityType = %s, want %s", v, EntityTypeBlob)
	}

	// Check value is binary
	value, ok := capturedInput.Item[AttrValue]
	if !ok {
		t.Fatal("value not set")
	}
	valueBytes, ok := value.(*types.AttributeValueMemberB)
	if !ok {
		t.Fatalf("value attribute is %T, want binary", value)
	}
	if string(valueBytes.Value) != "[]" {
		t.Errorf("value = %s, want []", valueBytes.Value)
	}

	// No TTL unless configured
	if _, ok := capturedInput.Item[AttrTTL]; ok {
		t.Error("ttl set without WithTTL")
	}
}

func TestDynamoDBStore_Set_WithTTL(t *testing.T) {
	var capturedInput *dynamodb.PutItemInput

	client := &mockDynamoDBClient{
		putItemFunc: func(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
			capturedInput = params
			return &dynamodb.PutItemOutput{}, nil
		},
	}

	store := NewDynamoDBStore(client, "test-table", WithTTL(time.Hour))
	if err := store.Set(context.Background(), "cart", []byte(`[]`)); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	ttl, ok := capturedInput.Item[AttrTTL]
	if !ok {
		t.Fatal("ttl not set")
	}
	ttlValue, err := strconv.ParseInt(ttl.(*types.AttributeValueMemberN).Value, 10, 64)
	if err != nil {
		t.Fatalf("ttl is not numeric: %v", err)
	}
	if ttlValue <= time.Now().Unix() {
		t.Errorf("ttl = %d, want a time in the future", ttlValue)
	}
}

func TestDynamoDBStore_Set_Error(t *testing.T) {
	client := &mockDynamoDBClient{
		putItemFunc: func(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
			return nil, errors.New("dynamodb error")
		},
	}

	store := NewDynamoDBStore(client, "test-table")

	if err := store.Set(context.Background(), "cart", []byte(`[]`)); err == nil {
		t.Error("Set() should have failed with DynamoDB error")
	}
}

func TestDynamoDBStore_Get(t *testing.T) {
	var capturedInput *dynamodb.GetItemInput

	client := &mockDynamoDBClient{
		getItemFunc: func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
			capturedInput = params
			return &dynamodb.GetItemOutput{
				Item: map[string]types.AttributeValue{
					AttrPK:         &types.AttributeValueMemberS{Value: blobPK("cart")},
					AttrSK:         &types.AttributeValueMemberS{Value: blobSK()},
					AttrEntityType: &types.AttributeValueMemberS{Value: EntityTypeBlob},
					"key":          &types.AttributeValueMemberS{Value: "cart"},
					AttrValue:      &types.AttributeValueMemberB{Value: []byte(`[{"id":"101"}]`)},
					AttrUpdatedAt:  &types.AttributeValueMemberS{Value: time.Now().Format(time.RFC3339)},
				},
			}, nil
		},
	}

	store := NewDynamoDBStore(client, "test-table")

	blob, found, err := store.Get(context.Background(), "cart")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if !found {
		t.Fatal("Get() reported absent")
	}
	if string(blob) != `[{"id":"101"}]` {
		t.Errorf("blob = %s", blob)
	}

	pk := capturedInput.Key[AttrPK].(*types.AttributeValueMemberS).Value
	if pk != blobPK("cart") {
		t.Errorf("GetItem PK = %s, want %s", pk, blobPK("cart"))
	}
	if capturedInput.ConsistentRead == nil || !*capturedInput.ConsistentRead {
		t.Error("Get() should use consistent reads")
	}
}

func TestDynamoDBStore_Get_Absent(t *testing.T) {
	store := NewDynamoDBStore(&mockDynamoDBClient{}, "test-table")

	blob, found, err := store.Get(context.Background(), "cart")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if found || blob != nil {
		t.Errorf("Get() = (%q, %v), want (nil, false)", blob, found)
	}
}

func TestDynamoDBStore_Get_Expired(t *testing.T) {
	client := &mockDynamoDBClient{
		getItemFunc: func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
			return &dynamodb.GetItemOutput{
				Item: map[string]types.AttributeValue{
					AttrPK:    &types.AttributeValueMemberS{Value: blobPK("cart")},
					AttrSK:    &types.AttributeValueMemberS{Value: blobSK()},
					AttrValue: &types.AttributeValueMemberB{Value: []byte(`[]`)},
					AttrTTL:   &types.AttributeValueMemberN{Value: strconv.FormatInt(time.Now().Add(-time.Minute).Unix(), 10)},
				},
			}, nil
		},
	}

	store := NewDynamoDBStore(client, "test-table")

	_, found, err := store.Get(context.Background(), "cart")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if found {
		t.Error("expired item reported as found")
	}
}

func TestDynamoDBStore_Get_Error(t *testing.T) {
	client := &mockDynamoDBClient{
		getItemFunc: func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
			return nil, errors.New("dynamodb error")
		},
	}

	store := NewDynamoDBStore(client, "test-table")

	if _, _, err := store.Get(context.Background(), "cart"); err == nil {
		t.Error("Get() should have failed with DynamoDB error")
	}
}

func TestDynamoDBStore_Delete(t *testing.T) {
	var capturedInput *dynamodb.DeleteItemInput

	client := &mockDynamoDBClient{
		deleteItemFunc: func(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
			capturedInput = params
			return &dynamodb.DeleteItemOutput{}, nil
		},
	}

	store := NewDynamoDBStore(client, "test-table")

	if err := store.Delete(context.Background(), "currentUser"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}

	if capturedInput == nil {
		t.Fatal("DeleteItem was not called")
	}
	pk := capturedInput.Key[AttrPK].(*types.AttributeValueMemberS).Value
	if pk != blobPK("currentUser") {
		t.Errorf("DeleteItem PK = %s, want %s", pk, blobPK("currentUser"))
	}
}

func TestDynamoDBStore_Delete_Error(t *testing.T) {
	client := &mockDynamoDBClient{
		deleteItemFunc: func(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
			return nil, errors.New("dynamodb error")
		},
	}

	store := NewDynamoDBStore(client, "test-table")

	if err := store.Delete(context.Background(), "cart"); err == nil {
		t.Error("Delete() should have failed with DynamoDB error")
	}
}
