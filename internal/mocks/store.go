package mocks

import (
	"context"
	"errors"

	"github.com/pageza/gomp-client/internal/storage"
)

// ErrStoreDown is returned by every FailingStore write
var ErrStoreDown = errors.New("store unavailable")

// FailingStore reads from an in-memory store but rejects every write
type FailingStore struct {
	*storage.MemoryStore
	Writes int
}

// NewFailingStore creates a store whose writes always fail
func NewFailingStore() *FailingStore {
	return &FailingStore{MemoryStore: storage.NewMemoryStore()}
}

func (f *FailingStore) Set(ctx context.Context, key string, value []byte) error {
	f.Writes++
	return ErrStoreDown
}

func (f *FailingStore) Delete(ctx context.Context, keys ...string) error {
	f.Writes++
	return ErrStoreDown
}

func (f *FailingStore) Clear(ctx context.Context) error {
	f.Writes++
	return ErrStoreDown
}
