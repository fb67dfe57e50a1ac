// Package cooking runs settlement kitchens: hot meal recipes, meal quality,
// shelf life and preservation of leftovers.
package cooking

import (
	"github.com/talgya/outpost/internal/resources"
)

// Ingredient is one line of a recipe. Indexes 0–2 are required; missing
// optional ingredients cost quality.
type Ingredient struct {
	Index    int
	Resource resources.ID
	DryMass  float64 // kg per serving
}

// Recipe is a hot meal.
type Recipe struct {
	Name        string
	SideDish    bool
	Ingredients []Ingredient
	Oil         float64 // kg soybean oil
	Salt        float64 // kg table salt
}

// requiredIngredients is the number of leading ingredients a meal cannot do
// without.
const requiredIngredients = 3

// missingPenalty is the quality lost for each absent optional ingredient.
var missingPenalty = map[int]float64{
	3: 0.75,
	4: 0.5,
	5: 0.25,
	6: 0.15,
}

// Required reports whether the ingredient must be present.
func (i Ingredient) Required() bool {
	return i.Index < requiredIngredients
}

// Recipes is the menu.
var Recipes = []Recipe{
	{
		Name: "Kidney Bean Fried Rice",
		Ingredients: []Ingredient{
			{0, resources.Rice, 0.15},
			{1, resources.Soybean, 0.05},
			{2, resources.Water, 0.2},
			{3, resources.Lettuce, 0.02},
			{4, resources.Potato, 0.03},
		},
		Oil:  0.01,
		Salt: 0.005,
	},
	{
		Name: "Spirulina Flatbread",
		Ingredients: []Ingredient{
			{0, resources.WheatFlour, 0.15},
			{1, resources.Spirulina, 0.02},
			{2, resources.Water, 0.1},
			{3, resources.Soybean, 0.03},
		},
		Oil:  0.01,
		Salt: 0.005,
	},
	{
		Name: "Roast Potato Bowl",
		Ingredients: []Ingredient{
			{0, resources.Potato, 0.25},
			{1, resources.Soybean, 0.05},
			{2, resources.Water, 0.05},
			{3, resources.Lettuce, 0.03},
			{4, resources.Rice, 0.05},
			{5, resources.Spirulina, 0.01},
		},
		Oil:  0.015,
		Salt: 0.005,
	},
	{
		Name:     "Garden Salad",
		SideDish: true,
		Ingredients: []Ingredient{
			{0, resources.Lettuce, 0.08},
			{1, resources.Potato, 0.05},
			{2, resources.Water, 0.02},
			{3, resources.Soybean, 0.02},
		},
		Oil:  0.005,
		Salt: 0.002,
	},
	{
		Name:     "Soy Noodle Soup",
		SideDish: true,
		Ingredients: []Ingredient{
			{0, resources.WheatFlour, 0.08},
			{1, resources.Soybean, 0.03},
			{2, resources.Water, 0.3},
			{3, resources.Spirulina, 0.01},
			{4, resources.Lettuce, 0.01},
			{5, resources.Potato, 0.02},
			{6, resources.Rice, 0.02},
		},
		Oil:  0.005,
		Salt: 0.005,
	},
}

// MainDishNames returns the names of main dish recipes.
func MainDishNames() []string {
	return dishNames(false)
}

// SideDishNames returns the names of side dish recipes.
func SideDishNames() []string {
	return dishNames(true)
}

func dishNames(side bool) []string {
	var out []string
	for _, r := range Recipes {
		if r.SideDish == side {
			out = append(out, r.Name)
		}
	}
	return out
}

// IsMealTime reports whether msolOfSol falls within window millisols after
// breakfast, lunch, dinner or the midnight meal.
func IsMealTime(msolOfSol, window float64) bool {
	for _, start := range [...]float64{0, 250, 500, 750} {
		if msolOfSol >= start && msolOfSol < start+window {
			return true
		}
	}
	return false
}
