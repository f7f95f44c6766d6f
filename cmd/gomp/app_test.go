package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/gomp-client/internal/client"
	"github.com/pageza/gomp-client/internal/credentials"
	"github.com/pageza/gomp-client/internal/liststate"
	"github.com/pageza/gomp-client/internal/render"
	"github.com/pageza/gomp-client/internal/storage"
	"github.com/pageza/gomp-client/internal/stubapi"
)

func setupApp(t *testing.T) (*app, *bytes.Buffer, *storage.MemoryStore) {
	gin.SetMode(gin.TestMode)

	auth := stubapi.NewAuthService("test-secret", time.Hour)
	require.NoError(t, auth.AddUser("admin", "password"))
	data := stubapi.NewData()
	stubapi.Seed(data)
	srv := httptest.NewServer(stubapi.NewRouter(stubapi.NewHandler(data, auth)))
	t.Cleanup(srv.Close)

	out := &bytes.Buffer{}
	session := storage.NewMemoryStore()
	creds := credentials.NewStoreProvider(storage.NewMemoryStore())
	api := client.New(srv.URL+stubapi.APIPrefix, creds, srv.Client())
	manager := liststate.NewManager(session, api, render.NewText(out), liststate.Options{PageSize: 3, Columns: 2})
	return &app{api: api, creds: creds, manager: manager, out: out}, out, session
}

func TestAppListAndFilter(t *testing.T) {
	a, out, session := setupApp(t)
	ctx := context.Background()

	require.NoError(t, a.run(ctx, []string{"list"}))
	assert.Contains(t, out.String(), "Beef Stew")
	assert.Contains(t, out.String(), "Page 1 of 3 (7 recipes)")

	out.Reset()
	require.NoError(t, a.run(ctx, []string{"tags", "apply", "beef,steak"}))
	assert.Contains(t, out.String(), "Grilled Ribeye")
	assert.NotContains(t, out.String(), "Pancakes")
	assert.Contains(t, out.String(), "[x] steak")
	assert.Contains(t, out.String(), "[ ] breakfast")

	var tags []string
	require.NoError(t, storage.GetJSON(ctx, session, liststate.KeyTags, &tags))
	assert.Equal(t, []string{"beef", "steak"}, tags)

	out.Reset()
	require.NoError(t, a.run(ctx, []string{"link"}))
	assert.Equal(t, "/recipes?q=&tags=beef&tags=steak&sort=name&dir=asc&page=1&count=3\n", out.String())

	out.Reset()
	require.NoError(t, a.run(ctx, []string{"reset"}))
	assert.Equal(t, 0, session.Len())
	assert.Contains(t, out.String(), "Page 1 of 3 (7 recipes)")
}

func TestAppSortDefaults(t *testing.T) {
	a, _, _ := setupApp(t)
	ctx := context.Background()

	require.NoError(t, a.run(ctx, []string{"sort", "rating"}))
	assert.Equal(t, "desc", string(a.manager.State().SortDir))

	// Same field again flips direction
	require.NoError(t, a.run(ctx, []string{"sort", "rating"}))
	assert.Equal(t, "asc", string(a.manager.State().SortDir))

	require.NoError(t, a.run(ctx, []string{"sort", "name"}))
	assert.Equal(t, "asc", string(a.manager.State().SortDir))

	assert.Error(t, a.run(ctx, []string{"sort", "color"}))
}

func TestAppLogin(t *testing.T) {
	a, out, _ := setupApp(t)
	ctx := context.Background()

	err := a.run(ctx, []string{"rate", "1", "4"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")

	err = a.run(ctx, []string{"login", "-u", "admin", "-p", "wrong"})
	require.Error(t, err)
	assert.Equal(t, "login failed, check your username and password", err.Error())
	_, err = a.creds.Token(ctx)
	assert.ErrorIs(t, err, credentials.ErrNoToken)

	require.NoError(t, a.run(ctx, []string{"login", "-u", "admin", "-p", "password"}))
	assert.Contains(t, out.String(), "Logged in.")

	require.NoError(t, a.run(ctx, []string{"rate", "1", "4"}))
	require.NoError(t, a.run(ctx, []string{"note", "1", "needs", "more", "salt"}))

	out.Reset()
	require.NoError(t, a.run(ctx, []string{"show", "1"}))
	assert.Contains(t, out.String(), "Beef Stew (#1)")
	assert.Contains(t, out.String(), "Rating: 4.0")
	assert.Contains(t, out.String(), "needs more salt")

	path := filepath.Join(t.TempDir(), "stew.jpg")
	require.NoError(t, os.WriteFile(path, []byte("jpeg"), 0o600))
	out.Reset()
	require.NoError(t, a.run(ctx, []string{"upload", "1", path}))
	assert.Contains(t, out.String(), "Uploaded")

	require.NoError(t, a.run(ctx, []string{"delete", "1"}))
	assert.EqualError(t, a.run(ctx, []string{"delete", "1"}), "recipe 1 not found")

	require.NoError(t, a.run(ctx, []string{"logout"}))
	_, err = a.creds.Token(ctx)
	assert.ErrorIs(t, err, credentials.ErrNoToken)
}

func TestAppUnknownCommand(t *testing.T) {
	a, out, _ := setupApp(t)

	require.NoError(t, a.run(context.Background(), nil))
	assert.Contains(t, out.String(), "usage: gomp")
	assert.Error(t, a.run(context.Background(), []string{"bake"}))

	out.Reset()
	require.NoError(t, a.run(context.Background(), []string{"session"}))
	assert.Regexp(t, `^GOMP_SESSION_ID=[0-9a-f-]{36}\n$`, out.String())
}
