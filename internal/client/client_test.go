package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/gomp-client/internal/credentials"
	"github.com/pageza/gomp-client/internal/storage"
	"github.com/pageza/gomp-client/internal/types"
)

type capturedRequest struct {
	Method      string
	Path        string
	RawQuery    string
	Auth        string
	ContentType string
	Body        []byte
}

// captureServer records every request and answers with status and body
func captureServer(t *testing.T, status int, body string) (*httptest.Server, func() []capturedRequest) {
	var (
		mu   sync.Mutex
		seen []capturedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, capturedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			RawQuery:    r.URL.RawQuery,
			Auth:        r.Header.Get("Authorization"),
			ContentType: r.Header.Get("Content-Type"),
			Body:        data,
		})
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, func() []capturedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]capturedRequest(nil), seen...)
	}
}

func TestListRecipesRequest(t *testing.T) {
	srv, seen := captureServer(t, http.StatusOK, `{"recipes":[{"id":3,"name":"Steak Salad","tags":["beef","steak"],"thumbnailUrl":"/t.jpg"}],"total":1}`)
	c := New(srv.URL+"/api/v1", credentials.Static("tok"), nil)

	list, err := c.ListRecipes(context.Background(), types.SearchFilter{
		Query:    "",
		Tags:     []string{"beef", "steak"},
		Sort:     types.SortByRandom,
		Dir:      types.SortAsc,
		Page:     1,
		PageSize: 6,
	})
	require.NoError(t, err)
	require.Len(t, seen(), 1)

	req := seen()[0]
	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, "/api/v1/recipes", req.Path)
	assert.Contains(t, req.RawQuery, "tags=beef&tags=steak&sort=random&dir=asc&page=1&count=6")
	assert.Equal(t, "Bearer tok", req.Auth)

	assert.Equal(t, int64(1), list.Total)
	require.Len(t, list.Recipes, 1)
	assert.Equal(t, "Steak Salad", list.Recipes[0].Name)
	assert.Equal(t, "/t.jpg", list.Recipes[0].ThumbnailURL)
}

func TestTokenReadOnEveryCall(t *testing.T) {
	srv, seen := captureServer(t, http.StatusOK, `[]`)
	ctx := context.Background()
	provider := credentials.NewStoreProvider(storage.NewMemoryStore())
	c := New(srv.URL, provider, nil)

	_, err := c.ListTags(ctx, "tag", "asc", 0)
	require.NoError(t, err)

	require.NoError(t, provider.SaveToken(ctx, "one"))
	_, err = c.ListTags(ctx, "tag", "asc", 0)
	require.NoError(t, err)

	require.NoError(t, provider.SaveToken(ctx, "two"))
	_, err = c.ListImages(ctx, 1)
	require.NoError(t, err)

	require.Len(t, seen(), 3)
	assert.Equal(t, "", seen()[0].Auth)
	assert.Equal(t, "Bearer one", seen()[1].Auth)
	assert.Equal(t, "Bearer two", seen()[2].Auth)
	assert.Equal(t, "dir=asc&sort=tag", seen()[0].RawQuery)
}

func TestMutationsReturnRawText(t *testing.T) {
	srv, seen := captureServer(t, http.StatusCreated, "42")
	c := New(srv.URL, credentials.Static("tok"), nil)
	ctx := context.Background()

	text, err := c.CreateRecipe(ctx, &types.Recipe{Name: "Soup", Tags: []string{"soup"}})
	require.NoError(t, err)
	assert.Equal(t, "42", text)

	req := seen()[0]
	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "/recipes", req.Path)
	assert.Equal(t, "application/json", req.ContentType)
	assert.Equal(t, "Bearer tok", req.Auth)

	var body types.Recipe
	require.NoError(t, json.Unmarshal(req.Body, &body))
	assert.Equal(t, "Soup", body.Name)
}

func TestEndpointRouting(t *testing.T) {
	srv, seen := captureServer(t, http.StatusOK, "")
	c := New(srv.URL+"/api/v1/", credentials.Static("tok"), nil)
	ctx := context.Background()

	calls := []struct {
		call   func() error
		method string
		path   string
	}{
		{func() error { _, err := c.UpdateRecipe(ctx, &types.Recipe{ID: 5}); return err }, "PUT", "/api/v1/recipes/5"},
		{func() error { _, err := c.DeleteRecipe(ctx, 5); return err }, "DELETE", "/api/v1/recipes/5"},
		{func() error { _, err := c.SetMainImage(ctx, 5, 9); return err }, "PUT", "/api/v1/recipes/5/image"},
		{func() error { _, err := c.DeleteImage(ctx, 9); return err }, "DELETE", "/api/v1/images/9"},
		{func() error { _, err := c.CreateNote(ctx, &types.Note{RecipeID: 5, Text: "n"}); return err }, "POST", "/api/v1/notes"},
		{func() error { _, err := c.UpdateNote(ctx, &types.Note{ID: 8, Text: "n"}); return err }, "PUT", "/api/v1/notes/8"},
		{func() error { _, err := c.DeleteNote(ctx, 8); return err }, "DELETE", "/api/v1/notes/8"},
		{func() error { _, err := c.SetRating(ctx, 5, 3.5); return err }, "PUT", "/api/v1/recipes/5/rating"},
	}

	for i, tc := range calls {
		require.NoError(t, tc.call())
		got := seen()[i]
		assert.Equal(t, tc.method, got.Method, tc.path)
		assert.Equal(t, tc.path, got.Path)
		assert.Equal(t, "Bearer tok", got.Auth)
	}

	assert.Equal(t, "9", string(seen()[2].Body))
	assert.Equal(t, "3.5", string(seen()[7].Body))
	assert.Empty(t, seen()[1].Body)
}

func TestSendRejectsUnknownMethod(t *testing.T) {
	c := New("http://localhost", nil, nil)

	for _, method := range []string{http.MethodGet, http.MethodPatch, "post", ""} {
		assert.Panics(t, func() {
			_, _ = c.send(context.Background(), method, "/recipes", nil)
		}, method)
	}
}

func TestHTTPErrorPropagates(t *testing.T) {
	srv, seen := captureServer(t, http.StatusNotFound, `{"error":"recipe not found"}`)
	c := New(srv.URL, credentials.Static("tok"), nil)

	_, err := c.GetRecipe(context.Background(), 77)
	require.Error(t, err)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.Equal(t, `{"error":"recipe not found"}`, httpErr.Body)
	assert.True(t, IsStatus(err, http.StatusNotFound))
	assert.Contains(t, err.Error(), "GET /recipes/77: 404 Not Found")

	// No retries
	assert.Len(t, seen(), 1)
}

func TestNetworkErrorPropagates(t *testing.T) {
	srv, _ := captureServer(t, http.StatusOK, "")
	srv.Close()

	c := New(srv.URL, credentials.Static("tok"), nil)
	_, err := c.DeleteRecipe(context.Background(), 1)
	require.Error(t, err)
	assert.False(t, IsStatus(err, http.StatusOK))
}

func TestUploadImageIsMultipart(t *testing.T) {
	type upload struct{ name, content, auth string }
	got := make(chan upload, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile(UploadField)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		got <- upload{name: header.Filename, content: string(data), auth: r.Header.Get("Authorization")}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("/uploads/recipes/4/images/pie.jpg"))
	}))
	defer srv.Close()

	c := New(srv.URL, credentials.Static("tok"), nil)
	text, err := c.UploadImage(context.Background(), 4, "pie.jpg", strings.NewReader("image-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/recipes/4/images/pie.jpg", text)

	u := <-got
	assert.Equal(t, "pie.jpg", u.name)
	assert.Equal(t, "image-bytes", u.content)
	assert.Equal(t, "Bearer tok", u.auth)
}

func TestAuthenticateStoresToken(t *testing.T) {
	srv, seen := captureServer(t, http.StatusOK, `{"token":"fresh"}`)
	ctx := context.Background()
	provider := credentials.NewStoreProvider(storage.NewMemoryStore())
	c := New(srv.URL, provider, nil)

	token, err := c.Authenticate(ctx, "admin", "password")
	require.NoError(t, err)
	assert.Equal(t, "fresh", token)

	stored, err := provider.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "fresh", stored)

	var body types.AuthRequest
	require.NoError(t, json.Unmarshal(seen()[0].Body, &body))
	assert.Equal(t, types.AuthRequest{Username: "admin", Password: "password"}, body)
}

func TestAuthenticateRejectsMissingToken(t *testing.T) {
	srv, _ := captureServer(t, http.StatusOK, `{}`)
	c := New(srv.URL, credentials.Static(""), nil)

	_, err := c.Authenticate(context.Background(), "admin", "password")
	assert.Error(t, err)
}
