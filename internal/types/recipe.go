package types

import (
	"time"
)

// RecipeSummary represents a recipe as returned by the list endpoint
type RecipeSummary struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Tags          []string `json:"tags"`
	ThumbnailURL  string   `json:"thumbnailUrl"`
	AverageRating float64  `json:"averageRating"`
}

// RecipeList is one page of recipe summaries plus the total match count
type RecipeList struct {
	Recipes []RecipeSummary `json:"recipes"`
	Total   int64           `json:"total"`
}

// Recipe represents a full recipe in the system
type Recipe struct {
	ID            int64     `json:"id,omitempty"`
	Name          string    `json:"name"`
	ServingSize   string    `json:"servingSize"`
	NutritionInfo string    `json:"nutritionInfo"`
	Ingredients   string    `json:"ingredients"`
	Directions    string    `json:"directions"`
	SourceURL     string    `json:"sourceUrl"`
	Tags          []string  `json:"tags"`
	AverageRating float64   `json:"averageRating,omitempty"`
	CreatedAt     time.Time `json:"createdAt,omitempty"`
	ModifiedAt    time.Time `json:"modifiedAt,omitempty"`
}

// RecipeImage represents an image attached to a recipe
type RecipeImage struct {
	ID           int64     `json:"id"`
	RecipeID     int64     `json:"recipeId"`
	Name         string    `json:"name"`
	URL          string    `json:"url"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
	ModifiedAt   time.Time `json:"modifiedAt,omitempty"`
}

// Note represents a free-text note on a recipe
type Note struct {
	ID         int64     `json:"id,omitempty"`
	RecipeID   int64     `json:"recipeId"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"createdAt,omitempty"`
	ModifiedAt time.Time `json:"modifiedAt,omitempty"`
}
