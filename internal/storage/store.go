// Package storage puts processed listing images somewhere a browser can load
// them from.
package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("object not found")

// Object is a stored image. Key is what Delete takes; it is empty for
// backends with nothing to clean up.
type Object struct {
	Key string
	URL string
}

type ImageStore interface {
	Put(ctx context.Context, data []byte, contentType string) (Object, error)
	Delete(ctx context.Context, key string) error
}

// Reader is implemented by stores whose objects are served through the API
// rather than by a public URL.
type Reader interface {
	Open(ctx context.Context, key string) ([]byte, string, error)
}
