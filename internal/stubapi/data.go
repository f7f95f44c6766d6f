package stubapi

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pageza/gomp-client/internal/types"
)

// Data is the in-memory dataset behind the stub API
type Data struct {
	mu        sync.RWMutex
	nextID    int64
	recipes   map[int64]*types.Recipe
	images    map[int64]*types.RecipeImage
	mainImage map[int64]int64
	notes     map[int64]*types.Note
	ratings   map[int64]float64
}

// NewData creates an empty dataset
func NewData() *Data {
	return &Data{
		recipes:   make(map[int64]*types.Recipe),
		images:    make(map[int64]*types.RecipeImage),
		mainImage: make(map[int64]int64),
		notes:     make(map[int64]*types.Note),
		ratings:   make(map[int64]float64),
	}
}

func (d *Data) id() int64 {
	d.nextID++
	return d.nextID
}

// AddRecipe stores a copy of r under a new ID and returns that ID
func (d *Data) AddRecipe(r types.Recipe) int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	r.ID = d.id()
	r.Tags = types.UniqueTags(r.Tags)
	r.AverageRating = 0
	r.CreatedAt = time.Now().UTC()
	r.ModifiedAt = r.CreatedAt
	d.recipes[r.ID] = &r
	return r.ID
}

// UpdateRecipe replaces an existing recipe, keeping its creation time
func (d *Data) UpdateRecipe(r types.Recipe) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	existing, ok := d.recipes[r.ID]
	if !ok {
		return false
	}
	r.Tags = types.UniqueTags(r.Tags)
	r.CreatedAt = existing.CreatedAt
	r.ModifiedAt = time.Now().UTC()
	r.AverageRating = d.ratings[r.ID]
	d.recipes[r.ID] = &r
	return true
}

// DeleteRecipe removes a recipe with its images, notes and rating
func (d *Data) DeleteRecipe(id int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.recipes[id]; !ok {
		return false
	}
	delete(d.recipes, id)
	delete(d.mainImage, id)
	delete(d.ratings, id)
	for imgID, img := range d.images {
		if img.RecipeID == id {
			delete(d.images, imgID)
		}
	}
	for noteID, n := range d.notes {
		if n.RecipeID == id {
			delete(d.notes, noteID)
		}
	}
	return true
}

// Recipe returns a copy of one recipe
func (d *Data) Recipe(id int64) (types.Recipe, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	r, ok := d.recipes[id]
	if !ok {
		return types.Recipe{}, false
	}
	return *r, true
}

// Search filters, orders and pages the recipes
func (d *Data) Search(f types.SearchFilter) types.RecipeList {
	d.mu.RLock()
	defer d.mu.RUnlock()

	query := strings.ToLower(strings.TrimSpace(f.Query))
	var matches []*types.Recipe
	for _, r := range d.recipes {
		if query != "" && !strings.Contains(strings.ToLower(r.Name), query) {
			continue
		}
		if !hasAllTags(r.Tags, f.Tags) {
			continue
		}
		matches = append(matches, r)
	}

	sortRecipes(matches, f.Sort, f.Dir)

	list := types.RecipeList{Recipes: []types.RecipeSummary{}, Total: int64(len(matches))}
	// Compare in pages first so huge page numbers cannot overflow the offset
	if f.Page-1 > len(matches)/f.PageSize {
		return list
	}
	start := (f.Page - 1) * f.PageSize
	if start >= len(matches) {
		return list
	}
	end := start + f.PageSize
	if end > len(matches) {
		end = len(matches)
	}
	for _, r := range matches[start:end] {
		summary := types.RecipeSummary{
			ID:            r.ID,
			Name:          r.Name,
			Tags:          append([]string(nil), r.Tags...),
			AverageRating: d.ratings[r.ID],
		}
		if img, ok := d.images[d.mainImage[r.ID]]; ok {
			summary.ThumbnailURL = img.ThumbnailURL
		}
		list.Recipes = append(list.Recipes, summary)
	}
	return list
}

func hasAllTags(have, want []string) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if strings.EqualFold(h, w) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func sortRecipes(rs []*types.Recipe, field types.SortField, dir types.SortDir) {
	if field == types.SortByRandom {
		rand.Shuffle(len(rs), func(i, j int) { rs[i], rs[j] = rs[j], rs[i] })
		return
	}
	less := func(a, b *types.Recipe) bool {
		switch field {
		case types.SortByRating:
			if a.AverageRating != b.AverageRating {
				return a.AverageRating < b.AverageRating
			}
		case types.SortByCreated:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
		case types.SortByModified:
			if !a.ModifiedAt.Equal(b.ModifiedAt) {
				return a.ModifiedAt.Before(b.ModifiedAt)
			}
		case types.SortByID:
			return a.ID < b.ID
		default:
			an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
			if an != bn {
				return an < bn
			}
		}
		return a.ID < b.ID
	}
	sort.SliceStable(rs, func(i, j int) bool {
		if dir == types.SortDesc {
			return less(rs[j], rs[i])
		}
		return less(rs[i], rs[j])
	})
}

// Tags returns the distinct tags across all recipes
func (d *Data) Tags(dir types.SortDir, count int) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	seen := make(map[string]struct{})
	tags := []string{}
	for _, r := range d.recipes {
		for _, t := range r.Tags {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			tags = append(tags, t)
		}
	}
	sort.Strings(tags)
	if dir == types.SortDesc {
		sort.Sort(sort.Reverse(sort.StringSlice(tags)))
	}
	if count > 0 && count < len(tags) {
		tags = tags[:count]
	}
	return tags
}

// AddImage records an uploaded image. The first image of a recipe becomes
// its main image.
func (d *Data) AddImage(recipeID int64, name string) (types.RecipeImage, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.recipes[recipeID]; !ok {
		return types.RecipeImage{}, false
	}
	img := types.RecipeImage{
		ID:           d.id(),
		RecipeID:     recipeID,
		Name:         name,
		URL:          fmt.Sprintf("/uploads/recipes/%d/images/%s", recipeID, name),
		ThumbnailURL: fmt.Sprintf("/uploads/recipes/%d/thumbs/%s", recipeID, name),
		CreatedAt:    time.Now().UTC(),
	}
	img.ModifiedAt = img.CreatedAt
	d.images[img.ID] = &img
	if _, ok := d.mainImage[recipeID]; !ok {
		d.mainImage[recipeID] = img.ID
	}
	return img, true
}

// Images lists the images of a recipe in upload order
func (d *Data) Images(recipeID int64) []types.RecipeImage {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := []types.RecipeImage{}
	for _, img := range d.images {
		if img.RecipeID == recipeID {
			out = append(out, *img)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// MainImage returns the recipe's main image
func (d *Data) MainImage(recipeID int64) (types.RecipeImage, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	img, ok := d.images[d.mainImage[recipeID]]
	if !ok {
		return types.RecipeImage{}, false
	}
	return *img, true
}

// SetMainImage selects one of the recipe's own images as its main image
func (d *Data) SetMainImage(recipeID, imageID int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	img, ok := d.images[imageID]
	if !ok || img.RecipeID != recipeID {
		return false
	}
	d.mainImage[recipeID] = imageID
	return true
}

// DeleteImage removes an image, promoting the oldest remaining one to main
func (d *Data) DeleteImage(imageID int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	img, ok := d.images[imageID]
	if !ok {
		return false
	}
	delete(d.images, imageID)
	if d.mainImage[img.RecipeID] == imageID {
		delete(d.mainImage, img.RecipeID)
		var next int64
		for id, other := range d.images {
			if other.RecipeID == img.RecipeID && (next == 0 || id < next) {
				next = id
			}
		}
		if next != 0 {
			d.mainImage[img.RecipeID] = next
		}
	}
	return true
}

// AddNote stores a note on an existing recipe
func (d *Data) AddNote(n types.Note) (int64, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.recipes[n.RecipeID]; !ok {
		return 0, false
	}
	n.ID = d.id()
	n.CreatedAt = time.Now().UTC()
	n.ModifiedAt = n.CreatedAt
	d.notes[n.ID] = &n
	return n.ID, true
}

// UpdateNote replaces the text of an existing note
func (d *Data) UpdateNote(n types.Note) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	existing, ok := d.notes[n.ID]
	if !ok {
		return false
	}
	existing.Text = n.Text
	existing.ModifiedAt = time.Now().UTC()
	return true
}

// DeleteNote removes a note
func (d *Data) DeleteNote(id int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.notes[id]; !ok {
		return false
	}
	delete(d.notes, id)
	return true
}

// Notes lists a recipe's notes, newest first
func (d *Data) Notes(recipeID int64) []types.Note {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := []types.Note{}
	for _, n := range d.notes {
		if n.RecipeID == recipeID {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

// SetRating records a recipe's rating
func (d *Data) SetRating(recipeID int64, rating float64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	r, ok := d.recipes[recipeID]
	if !ok {
		return false
	}
	d.ratings[recipeID] = rating
	r.AverageRating = rating
	return true
}
