package storage

import (
	"context"
	"io"
)

// ObjectStore is the object-storage collaborator: durable storage for
// uploaded bytes with a publicly resolvable address per key.
type ObjectStore interface {
	Upload(ctx context.Context, key string, body io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) bool
	Delete(ctx context.Context, key string) error

	// PublicURL resolves the public address of a previously uploaded key.
	// Pure and synchronous, always succeeds.
	PublicURL(key string) string
}
