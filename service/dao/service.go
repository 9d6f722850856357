package dao

import (
	"context"
)

// Service is a generic keyed registry of entities of type *T.
type Service[K comparable, T any] interface {
	Save(ctx context.Context, t *T) error

	Load(ctx context.Context, id K) (*T, error)

	Delete(ctx context.Context, id K) error

	// Take atomically loads and deletes a record. At most one caller can
	// take a given key; every other caller observes ErrNotFound.
	Take(ctx context.Context, id K) (*T, error)

	List(ctx context.Context) ([]*T, error)
}
