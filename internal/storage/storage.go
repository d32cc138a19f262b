package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key does not exist in the store
var ErrNotFound = errors.New("storage: key not found")

// Storage is the blob store contract the worker depends on.
// Keys are opaque; the worker composes them as "pdf/<user>/<job>.pdf" and
// "audio/<user>/<job>.mp3" but the store does not interpret them.
type Storage interface {
	// Download returns the full contents stored under key
	Download(ctx context.Context, key string) ([]byte, error)

	// Upload stores data under key and returns a URL clients can fetch it from
	Upload(ctx context.Context, data []byte, key string, contentType string) (string, error)

	// Delete removes the object stored under key
	Delete(ctx context.Context, key string) error
}
