// Package credentials supplies the bearer token the API client attaches to
// every request.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pageza/gomp-client/internal/storage"
	"github.com/pageza/gomp-client/internal/types"
)

// TokenKey is the well-known local storage key holding the bearer token
const TokenKey = "token"

// ErrNoToken is returned when no token has been stored yet
var ErrNoToken = errors.New("no token stored")

// Provider yields the current bearer token
type Provider interface {
	Token(ctx context.Context) (string, error)
}

// Saver is a Provider that can also record a newly issued token
type Saver interface {
	Provider
	SaveToken(ctx context.Context, token string) error
}

// StoreProvider reads the token from a store on every call so a token
// written by another process is picked up without restarting
type StoreProvider struct {
	store storage.Store
}

// NewStoreProvider creates a provider over the given local store
func NewStoreProvider(store storage.Store) *StoreProvider {
	return &StoreProvider{store: store}
}

func (p *StoreProvider) Token(ctx context.Context) (string, error) {
	var token string
	err := storage.GetJSON(ctx, p.store, TokenKey, &token)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && token == "") {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return token, nil
}

// SaveToken replaces the stored token
func (p *StoreProvider) SaveToken(ctx context.Context, token string) error {
	if err := storage.SetJSON(ctx, p.store, TokenKey, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// ClearToken forgets the stored token
func (p *StoreProvider) ClearToken(ctx context.Context) error {
	return p.store.Delete(ctx, TokenKey)
}

// Static always returns the same token
type Static string

func (s Static) Token(ctx context.Context) (string, error) {
	if s == "" {
		return "", ErrNoToken
	}
	return string(s), nil
}

// Claims decodes the token's claims without verifying its signature. The
// client has no key to verify with; it only needs to read exp.
func Claims(token string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}
	return claims, nil
}

// Expired reports whether token carries an exp claim at or before now.
// Tokens that are not JWTs or have no exp are treated as unexpired.
func Expired(token string, now time.Time) bool {
	claims, err := Claims(token)
	if err != nil || claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}
