package storage

import "context"

// ObjectStore abstracts the upload target for project photos and achievement images.
// Keys are opaque slash-separated paths, e.g. "achievements/alice-1719223344.png".
type ObjectStore interface {
	// Put stores the bytes under key and returns a publicly usable URL.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// Get returns the stored bytes for key.
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete removes the object if present.
	Delete(ctx context.Context, key string) error
	// URL returns a usable URL for an already stored key.
	URL(key string) string
}
