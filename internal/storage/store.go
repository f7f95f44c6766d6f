// Package storage provides the key/value persistence port behind the
// client's "local" (token) and "session" (list state) storage.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when a key holds no value
var ErrNotFound = errors.New("storage: key not found")

// Store is a string-keyed byte store. Implementations must be safe for
// concurrent use.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	Clear(ctx context.Context) error
}

// GetJSON reads key and decodes its JSON value into out
func GetJSON(ctx context.Context, s Store, key string, out interface{}) error {
	data, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %q: %w", key, err)
	}
	return nil
}

// SetJSON encodes value as JSON and stores it under key
func SetJSON(ctx context.Context, s Store, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}
	return s.Set(ctx, key, data)
}
