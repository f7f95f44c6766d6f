package stubapi

import "github.com/pageza/gomp-client/internal/types"

// Seed fills data with a small set of sample recipes
func Seed(data *Data) {
	samples := []types.Recipe{
		{Name: "Beef Stew", ServingSize: "6", Ingredients: "beef\npotatoes\ncarrots", Directions: "Brown the beef. Simmer for two hours.", Tags: []string{"beef", "dinner", "slow"}},
		{Name: "Grilled Ribeye", ServingSize: "2", Ingredients: "ribeye steaks\nsalt\npepper", Directions: "Grill to medium rare.", Tags: []string{"beef", "steak", "grill"}},
		{Name: "Steak Salad", ServingSize: "4", Ingredients: "flank steak\ngreens\nvinaigrette", Directions: "Slice steak over greens.", Tags: []string{"beef", "steak", "salad"}},
		{Name: "Pancakes", ServingSize: "4", Ingredients: "flour\nmilk\neggs", Directions: "Whisk and fry.", Tags: []string{"breakfast", "quick"}},
		{Name: "Tomato Soup", ServingSize: "4", Ingredients: "tomatoes\nonion\ncream", Directions: "Simmer and blend.", Tags: []string{"soup", "vegetarian"}},
		{Name: "Chicken Curry", ServingSize: "4", Ingredients: "chicken\ncurry paste\ncoconut milk", Directions: "Simmer until cooked.", Tags: []string{"chicken", "dinner", "spicy"}},
		{Name: "Greek Salad", ServingSize: "2", Ingredients: "cucumber\ntomato\nfeta", Directions: "Chop and toss.", Tags: []string{"salad", "vegetarian", "quick"}},
	}
	for _, r := range samples {
		data.AddRecipe(r)
	}
}
