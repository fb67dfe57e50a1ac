package cooking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/outpost/internal/agents"
	"github.com/talgya/outpost/internal/resources"
)

type constSource float64

func (c constSource) Intn(n int) int   { return int(float64(c) * float64(n)) }
func (c constSource) Float64() float64 { return float64(c) }

func stocked() *resources.Store {
	s := resources.NewStore(1000)
	for _, id := range []resources.ID{
		resources.Rice, resources.Soybean, resources.Water, resources.Lettuce,
		resources.Potato, resources.WheatFlour, resources.Spirulina,
		resources.SoybeanOil, resources.TableSalt,
	} {
		s.Store(id, 100)
	}
	return s
}

func chef() *agents.Agent {
	a := &agents.Agent{ID: 1, Name: "Mei Tanaka", Variant: agents.Human{}}
	a.Skills[agents.SkillCooking] = 2
	return a
}

func TestCookQuality(t *testing.T) {
	k := NewKitchen("galley", stocked())
	meal, ok := k.Cook(Recipes[0], chef(), 100)
	require.True(t, ok)

	// Five ingredients, oil, skill 0.25×1×2 and a clean kitchen.
	assert.InDelta(t, 22.0/15, meal.Quality, 1e-9)
	assert.Equal(t, 100+ShelfLife, meal.Expires)
	assert.Equal(t, "Mei Tanaka", meal.Cook)
	assert.Less(t, k.Cleanliness, 1.0)
	assert.Equal(t, 1, k.Servings())
}

func TestCookMissingOptionalIngredient(t *testing.T) {
	s := stocked()
	require.True(t, s.Retrieve(resources.Lettuce, 100))
	k := NewKitchen("galley", s)

	cook := chef()
	cook.Skills[agents.SkillCooking] = 1
	meal, ok := k.Cook(Recipes[0], cook, 0)
	require.True(t, ok)
	// Four present, lettuce (index 3) missing, oil, skill 0.25.
	assert.InDelta(t, 11.0/15, meal.Quality, 1e-9)
}

func TestCookMissingRequiredIngredientConsumesNothing(t *testing.T) {
	s := stocked()
	require.True(t, s.Retrieve(resources.Soybean, 100))
	k := NewKitchen("galley", s)

	rice := s.AmountStored(resources.Rice)
	_, ok := k.Cook(Recipes[0], chef(), 0)
	assert.False(t, ok)
	assert.Equal(t, rice, s.AmountStored(resources.Rice))
	assert.Zero(t, k.Ledger().Cached(resources.Rice))
	assert.Zero(t, k.Servings())
}

func TestAddWork(t *testing.T) {
	k := NewKitchen("galley", stocked())
	src := constSource(0)

	assert.Empty(t, k.AddWork(5, chef(), 0, 4, src))
	name := k.AddWork(5, chef(), 0, 4, src)
	assert.Equal(t, Recipes[0].Name, name)

	// Full: no more servings.
	k.Meals = make([]CookedMeal, 4)
	assert.Empty(t, k.AddWork(20, chef(), 0, 4, src))
}

func TestChooseMeal(t *testing.T) {
	tests := []struct {
		name     string
		favorite agents.Favorite
		want     string
	}{
		{"favorite main dish", agents.Favorite{MainDish: "B"}, "B"},
		{"favorite side dish", agents.Favorite{SideDish: "C"}, "C"},
		{"no favorite takes best quality", agents.Favorite{MainDish: "Z"}, "A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := NewKitchen("galley", stocked())
			k.Meals = []CookedMeal{
				{Name: "A", Quality: 2},
				{Name: "B", Quality: 0.5},
				{Name: "C", Quality: 1},
			}
			a := &agents.Agent{Favorite: tt.favorite}

			got, ok := k.ChooseMeal(a)
			require.True(t, ok)
			assert.Equal(t, tt.want, got.Name)
			assert.Equal(t, 2, k.Servings())
		})
	}

	k := NewKitchen("empty", stocked())
	_, ok := k.ChooseMeal(&agents.Agent{})
	assert.False(t, ok)
}

func TestExpireMeals(t *testing.T) {
	s := stocked()
	k := NewKitchen("galley", s)
	k.Meals = []CookedMeal{
		{Name: "old", Quality: 1, Expires: 10},
		{Name: "fresh", Quality: 1, Expires: 500},
	}

	// A high draw preserves.
	preserved, discarded := k.ExpireMeals(100, constSource(0.99))
	assert.Equal(t, 1, preserved)
	assert.Zero(t, discarded)
	assert.Equal(t, DryMassPerServing, s.AmountStored(resources.Food))
	require.Len(t, k.Meals, 1)
	assert.Equal(t, "fresh", k.Meals[0].Name)

	// A zero draw discards.
	preserved, discarded = k.ExpireMeals(1000, constSource(0))
	assert.Zero(t, preserved)
	assert.Equal(t, 1, discarded)
	assert.Equal(t, DryMassPerServing, s.AmountStored(resources.FoodWaste))
	assert.Empty(t, k.Meals)
}

func TestIsMealTime(t *testing.T) {
	assert.True(t, IsMealTime(260, 50))
	assert.False(t, IsMealTime(320, 50))
	assert.True(t, IsMealTime(10, 50))
}
