package storage

import (
	"context"
	"errors"
)

// Storage is a byte-blob key-value store. Keys are scoped by the caller.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

var ErrNotFound = errors.New("storage: key not found")
