package store

import "fmt"

// DynamoDB schema constants
const (
	// Table attributes
	AttrPK         = "PK"
	AttrSK         = "SK"
	AttrEntityType = "entity_type"
	AttrValue      = "value"
	AttrUpdatedAt  = "updated_at"
	AttrTTL        = "ttl"

	// Entity types
	EntityTypeBlob = "Blob"
)

// Blob keys: PK=BLOB#{key}, SK=META
func blobPK(key string) string {
	return fmt.Sprintf("BLOB#%s", key)
}

func blobSK() string {
	return "META"
}
