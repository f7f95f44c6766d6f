package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pageza/gomp-client/internal/credentials"
	"github.com/pageza/gomp-client/internal/types"
)

// UploadField is the multipart field carrying an uploaded image
const UploadField = "file_content"

func recipePath(id int64) string {
	return "/recipes/" + strconv.FormatInt(id, 10)
}

// ListRecipes fetches one page of recipes matching f
func (c *Client) ListRecipes(ctx context.Context, f types.SearchFilter) (*types.RecipeList, error) {
	var list types.RecipeList
	if err := c.getJSON(ctx, "/recipes", RecipeQuery(f), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetRecipe fetches a single recipe
func (c *Client) GetRecipe(ctx context.Context, id int64) (*types.Recipe, error) {
	var recipe types.Recipe
	if err := c.getJSON(ctx, recipePath(id), "", &recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

// CreateRecipe posts a new recipe
func (c *Client) CreateRecipe(ctx context.Context, recipe *types.Recipe) (string, error) {
	return c.send(ctx, http.MethodPost, "/recipes", recipe)
}

// UpdateRecipe replaces the recipe identified by recipe.ID
func (c *Client) UpdateRecipe(ctx context.Context, recipe *types.Recipe) (string, error) {
	return c.send(ctx, http.MethodPut, recipePath(recipe.ID), recipe)
}

// DeleteRecipe removes a recipe
func (c *Client) DeleteRecipe(ctx context.Context, id int64) (string, error) {
	return c.send(ctx, http.MethodDelete, recipePath(id), nil)
}

// GetMainImage fetches the image shown as the recipe's thumbnail
func (c *Client) GetMainImage(ctx context.Context, id int64) (*types.RecipeImage, error) {
	var img types.RecipeImage
	if err := c.getJSON(ctx, recipePath(id)+"/image", "", &img); err != nil {
		return nil, err
	}
	return &img, nil
}

// SetMainImage makes imageID the recipe's main image
func (c *Client) SetMainImage(ctx context.Context, id, imageID int64) (string, error) {
	return c.send(ctx, http.MethodPut, recipePath(id)+"/image", imageID)
}

// ListImages fetches every image uploaded for a recipe
func (c *Client) ListImages(ctx context.Context, id int64) ([]types.RecipeImage, error) {
	var imgs []types.RecipeImage
	if err := c.getJSON(ctx, recipePath(id)+"/images", "", &imgs); err != nil {
		return nil, err
	}
	return imgs, nil
}

// UploadImage posts an image file as multipart form data. This is the only
// request that is not JSON.
func (c *Client) UploadImage(ctx context.Context, id int64, filename string, content io.Reader) (string, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile(UploadField, filename)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("failed to finish form: %w", err)
	}

	path := recipePath(id) + "/images"
	req, err := c.newRequest(ctx, http.MethodPost, path, "", &buf, form.FormDataContentType())
	if err != nil {
		return "", err
	}
	data, err := c.do(req, path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DeleteImage removes an uploaded image
func (c *Client) DeleteImage(ctx context.Context, imageID int64) (string, error) {
	return c.send(ctx, http.MethodDelete, "/images/"+strconv.FormatInt(imageID, 10), nil)
}

// ListNotes fetches the notes attached to a recipe
func (c *Client) ListNotes(ctx context.Context, id int64) ([]types.Note, error) {
	var notes []types.Note
	if err := c.getJSON(ctx, recipePath(id)+"/notes", "", &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// CreateNote adds a note to note.RecipeID
func (c *Client) CreateNote(ctx context.Context, note *types.Note) (string, error) {
	return c.send(ctx, http.MethodPost, "/notes", note)
}

// UpdateNote replaces the note identified by note.ID
func (c *Client) UpdateNote(ctx context.Context, note *types.Note) (string, error) {
	return c.send(ctx, http.MethodPut, "/notes/"+strconv.FormatInt(note.ID, 10), note)
}

// DeleteNote removes a note
func (c *Client) DeleteNote(ctx context.Context, noteID int64) (string, error) {
	return c.send(ctx, http.MethodDelete, "/notes/"+strconv.FormatInt(noteID, 10), nil)
}

// SetRating records the user's rating for a recipe
func (c *Client) SetRating(ctx context.Context, id int64, rating float64) (string, error) {
	return c.send(ctx, http.MethodPut, recipePath(id)+"/rating", rating)
}

// ListTags fetches the tag vocabulary. A count of zero leaves the limit to
// the server.
func (c *Client) ListTags(ctx context.Context, sort, dir string, count int) ([]string, error) {
	q := url.Values{}
	if sort != "" {
		q.Set("sort", sort)
	}
	if dir != "" {
		q.Set("dir", dir)
	}
	if count > 0 {
		q.Set("count", strconv.Itoa(count))
	}
	var tags []string
	if err := c.getJSON(ctx, "/tags", q.Encode(), &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// Authenticate exchanges credentials for a bearer token. When the client's
// provider can save tokens the new token is stored there.
func (c *Client) Authenticate(ctx context.Context, username, password string) (string, error) {
	text, err := c.send(ctx, http.MethodPost, "/auth", types.AuthRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return "", err
	}

	var resp types.AuthResponse
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		return "", fmt.Errorf("failed to decode auth response: %w", err)
	}
	if resp.Token == "" {
		return "", fmt.Errorf("auth response did not include a token")
	}

	if saver, ok := c.creds.(credentials.Saver); ok {
		if err := saver.SaveToken(ctx, resp.Token); err != nil {
			return "", err
		}
	}
	return resp.Token, nil
}
