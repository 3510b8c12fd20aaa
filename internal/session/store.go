// Package session tracks signed-out tokens until they would have expired.
package session

import (
	"context"
	"time"
)

// RevocationStore remembers revoked token ids.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
