// Package mocks holds test doubles shared by the client packages' tests
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/gomp-client/internal/types"
)

// MockRecipeSource is a mock implementation of liststate.RecipeSource
type MockRecipeSource struct {
	mock.Mock
}

func (m *MockRecipeSource) ListRecipes(ctx context.Context, f types.SearchFilter) (*types.RecipeList, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeList), args.Error(1)
}

func (m *MockRecipeSource) ListTags(ctx context.Context, sort, dir string, count int) ([]string, error) {
	args := m.Called(ctx, sort, dir, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
