package foodcart

import "context"

// BlobStore defines the persistence interface for the storefront.
// Values are opaque serialized blobs stored under flat string keys.
type BlobStore interface {
	// Get returns the blob stored under key. found is false when the key is absent,
	// which is not an error.
	Get(ctx context.Context, key string) (blob []byte, found bool, err error)

	// Set overwrites the blob stored under key.
	Set(ctx context.Context, key string, blob []byte) error

	// Delete removes key. Deleting an absent key succeeds.
	Delete(ctx context.Context, key string) error
}

// Keys names the fixed storage keys used by the storefront.
type Keys struct {
	// Namespace is prepended to every key so the storefront can share a backend
	// with unrelated data.
	Namespace string
}

// Cart returns the key holding the serialized cart line items.
func (k Keys) Cart() string {
	return k.Namespace + "cart"
}

// CurrentUser returns the key marking the active session.
func (k Keys) CurrentUser() string {
	return k.Namespace + "currentUser"
}

// Account returns the key holding the account registered under email.
func (k Keys) Account(email string) string {
	return k.Namespace + email
}
