package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/gomp-client/internal/credentials"
	"github.com/pageza/gomp-client/internal/storage"
	"github.com/pageza/gomp-client/internal/stubapi"
	"github.com/pageza/gomp-client/internal/types"
)

func setupStubAPI(t *testing.T) (*Client, *credentials.StoreProvider) {
	gin.SetMode(gin.TestMode)

	auth := stubapi.NewAuthService("test-secret", time.Hour)
	require.NoError(t, auth.AddUser("admin", "password"))
	data := stubapi.NewData()
	stubapi.Seed(data)

	srv := httptest.NewServer(stubapi.NewRouter(stubapi.NewHandler(data, auth)))
	t.Cleanup(srv.Close)

	provider := credentials.NewStoreProvider(storage.NewMemoryStore())
	return New(srv.URL+stubapi.APIPrefix, provider, srv.Client()), provider
}

func TestAgainstStubAPI(t *testing.T) {
	c, provider := setupStubAPI(t)
	ctx := context.Background()

	// Writes fail before logging in
	_, err := c.CreateRecipe(ctx, &types.Recipe{Name: "Chili"})
	assert.True(t, IsStatus(err, http.StatusUnauthorized))

	_, err = c.Authenticate(ctx, "admin", "wrong")
	assert.True(t, IsStatus(err, http.StatusUnauthorized))

	token, err := c.Authenticate(ctx, "admin", "password")
	require.NoError(t, err)
	stored, err := provider.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, token, stored)

	text, err := c.CreateRecipe(ctx, &types.Recipe{Name: "Chili", Tags: []string{"beef", "spicy"}})
	require.NoError(t, err)
	id, err := strconv.ParseInt(text, 10, 64)
	require.NoError(t, err)

	recipe, err := c.GetRecipe(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Chili", recipe.Name)

	_, err = c.UploadImage(ctx, id, "chili.jpg", strings.NewReader("img"))
	require.NoError(t, err)
	img, err := c.GetMainImage(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "chili.jpg", img.Name)

	_, err = c.SetRating(ctx, id, 5)
	require.NoError(t, err)
	_, err = c.CreateNote(ctx, &types.Note{RecipeID: id, Text: "Use chipotle"})
	require.NoError(t, err)
	notes, err := c.ListNotes(ctx, id)
	require.NoError(t, err)
	require.Len(t, notes, 1)

	list, err := c.ListRecipes(ctx, types.SearchFilter{
		Tags:     []string{"beef"},
		Sort:     types.SortByRating,
		Dir:      types.SortDesc,
		Page:     1,
		PageSize: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), list.Total)
	require.Len(t, list.Recipes, 2)
	assert.Equal(t, "Chili", list.Recipes[0].Name)
	assert.Equal(t, img.ThumbnailURL, list.Recipes[0].ThumbnailURL)

	tags, err := c.ListTags(ctx, "tag", "asc", 0)
	require.NoError(t, err)
	assert.Contains(t, tags, "spicy")

	_, err = c.DeleteRecipe(ctx, id)
	require.NoError(t, err)
	_, err = c.GetRecipe(ctx, id)
	assert.True(t, IsStatus(err, http.StatusNotFound))
}
