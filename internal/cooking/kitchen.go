package cooking

import (
	"log/slog"
	"math"

	"github.com/talgya/outpost/internal/agents"
	"github.com/talgya/outpost/internal/entropy"
	"github.com/talgya/outpost/internal/resources"
)

// Kitchen constants.
const (
	MealWorkRequired   = 8.0   // msol of cooking per meal
	ShelfLife          = 400.0 // msol a cooked meal keeps
	DryMassPerServing  = 0.5   // kg
	SaltToPreserve     = 0.005 // kg per preserved serving
	cleanlinessPerMeal = 0.0075
)

// CookedMeal is a serving waiting to be eaten.
type CookedMeal struct {
	Name    string  `json:"name"`
	Quality float64 `json:"quality"`
	Created float64 `json:"created"`
	Expires float64 `json:"expires"`
	Cook    string  `json:"cook"`
}

// Expired reports whether the meal is past its shelf life at now.
func (m CookedMeal) Expired(now float64) bool {
	return now > m.Expires
}

// Kitchen cooks meals from a settlement's stores. Ingredients are drawn
// through a ledger so most servings do not touch the settlement inventory.
type Kitchen struct {
	Name        string
	Meals       []CookedMeal
	Cleanliness float64

	store  resources.Inventory
	ledger *resources.Ledger
	work   float64
	best   float64
}

// NewKitchen creates a clean kitchen over store.
func NewKitchen(name string, store resources.Inventory) *Kitchen {
	return &Kitchen{
		Name:        name,
		Cleanliness: 1,
		store:       store,
		ledger:      resources.NewLedger(store),
	}
}

// Ledger exposes the ingredient cache.
func (k *Kitchen) Ledger() *resources.Ledger {
	return k.ledger
}

// Servings returns the number of cooked meals on hand.
func (k *Kitchen) Servings() int {
	return len(k.Meals)
}

// BestQuality returns the best quality cooked so far.
func (k *Kitchen) BestQuality() float64 {
	return k.best
}

// CanCook reports whether all required ingredients of r are available.
func (k *Kitchen) CanCook(r Recipe) bool {
	for _, ing := range r.Ingredients {
		if !ing.Required() {
			continue
		}
		if k.ledger.Cached(ing.Resource) < ing.DryMass && k.store.AmountStored(ing.Resource) < ing.DryMass {
			return false
		}
	}
	return true
}

// Cookable returns the recipes whose required ingredients are on hand.
func (k *Kitchen) Cookable() []Recipe {
	var out []Recipe
	for _, r := range Recipes {
		if k.CanCook(r) {
			out = append(out, r)
		}
	}
	return out
}

// AddWork credits dt msol of cooking by cook. Once enough work is in and
// fewer than maxServings meals wait, a random cookable recipe is cooked.
// Returns the meal name, or "" when nothing was cooked.
func (k *Kitchen) AddWork(dt float64, cook *agents.Agent, now float64, maxServings int, src entropy.Source) string {
	k.work += dt
	if k.work < MealWorkRequired || len(k.Meals) >= maxServings {
		return ""
	}

	menu := k.Cookable()
	if len(menu) == 0 {
		return ""
	}
	r := menu[src.Intn(len(menu))]
	meal, ok := k.Cook(r, cook, now)
	if !ok {
		return ""
	}
	k.work -= MealWorkRequired
	return meal.Name
}

// Cook prepares one serving of r. It fails without consuming anything when a
// required ingredient is missing.
func (k *Kitchen) Cook(r Recipe, cook *agents.Agent, now float64) (CookedMeal, bool) {
	if !k.CanCook(r) {
		return CookedMeal{}, false
	}

	quality := 0.0
	for _, ing := range r.Ingredients {
		if k.ledger.Retrieve(ing.Resource, ing.DryMass) {
			quality += 0.1
			continue
		}
		if ing.Required() {
			return CookedMeal{}, false
		}
		quality -= missingPenalty[ing.Index]
	}

	if r.Oil > 0 && k.ledger.Retrieve(resources.SoybeanOil, r.Oil) {
		quality += 0.2
	}
	quality = math.Round((quality+skillFactor(cook)+k.Cleanliness)*10) / 15

	if r.Salt > 0 {
		k.ledger.Retrieve(resources.TableSalt, r.Salt)
	}
	k.Cleanliness = math.Max(0, k.Cleanliness-cleanlinessPerMeal)

	meal := CookedMeal{
		Name:    r.Name,
		Quality: quality,
		Created: now,
		Expires: now + ShelfLife,
	}
	if cook != nil {
		meal.Cook = cook.Name
	}
	k.Meals = append(k.Meals, meal)
	k.best = math.Max(k.best, quality)

	slog.Debug("meal cooked", "kitchen", k.Name, "meal", meal.Name, "quality", meal.Quality, "cook", meal.Cook)
	return meal, true
}

func skillFactor(cook *agents.Agent) float64 {
	if cook == nil {
		return 0
	}
	weight := 0.25
	if cook.IsRobot() {
		weight = 0.1
	}
	return weight * cook.PerformanceRating() * float64(cook.Skills.Level(agents.SkillCooking))
}

// ChooseMeal removes and returns the meal a takes. A favorite main or side
// dish is taken as soon as it is found; otherwise the best quality meal.
func (k *Kitchen) ChooseMeal(a *agents.Agent) (CookedMeal, bool) {
	if len(k.Meals) == 0 {
		return CookedMeal{}, false
	}

	pick := -1
	for i, m := range k.Meals {
		if m.Name == a.Favorite.MainDish || m.Name == a.Favorite.SideDish {
			pick = i
			break
		}
		if pick < 0 || m.Quality > k.Meals[pick].Quality {
			pick = i
		}
	}

	meal := k.Meals[pick]
	k.Meals = append(k.Meals[:pick], k.Meals[pick+1:]...)
	return meal, true
}

// ExpireMeals removes meals past their shelf life. Each is either preserved
// into packaged food, using a little salt, or discarded as food waste. Better
// meals are more likely to be preserved.
func (k *Kitchen) ExpireMeals(now float64, src entropy.Source) (preserved, discarded int) {
	kept := k.Meals[:0]
	for _, m := range k.Meals {
		if !m.Expired(now) {
			kept = append(kept, m)
			continue
		}

		q := m.Quality/2 + 1
		if entropy.RandomDouble(src, 7*q+1) < 1 {
			k.store.Store(resources.FoodWaste, DryMassPerServing)
			discarded++
			slog.Debug("meal discarded", "kitchen", k.Name, "meal", m.Name)
			continue
		}

		k.ledger.Retrieve(resources.TableSalt, SaltToPreserve)
		k.store.Store(resources.Food, DryMassPerServing)
		preserved++
	}
	k.Meals = kept
	return preserved, discarded
}

// Clean restores the kitchen at the end of a sol.
func (k *Kitchen) Clean() {
	k.Cleanliness = 1
}
