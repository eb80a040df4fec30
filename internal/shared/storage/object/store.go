package object

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a storage key has no object behind it.
var ErrNotFound = errors.New("object not found")

// Store defines the contract for keeping uploaded binary objects.
type Store interface {
	Put(ctx context.Context, owner, fileName, contentType string, data []byte) (storageKey string, err error)
	Get(ctx context.Context, storageKey string) ([]byte, error)
	Delete(ctx context.Context, storageKey string) error
}
