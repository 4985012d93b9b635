package types

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ServingTypeGrams is the literal unit that bypasses the serving table.
const ServingTypeGrams = "grams"

// LegacyPortionGrams is the weight assumed for foods submitted as bare identifiers.
const LegacyPortionGrams = 100.0

// FoodPortion is a quantified reference to a catalog food. GramsEquivalent is
// derived and recomputed on every resolution; it is never trusted as input.
type FoodPortion struct {
	FoodID          string  `json:"foodId"`
	Amount          float64 `json:"amount"`
	ServingType     string  `json:"servingType"`
	ServingName     string  `json:"servingName,omitempty"`
	GramsEquivalent float64 `json:"gramsEquivalent"`
}

// Map renders the portion using the wire keys.
func (p FoodPortion) Map() map[string]any {
	out := map[string]any{
		"foodId":          p.FoodID,
		"amount":          p.Amount,
		"servingType":     p.ServingType,
		"gramsEquivalent": p.GramsEquivalent,
	}
	if p.ServingName != "" {
		out["servingName"] = p.ServingName
	}
	return out
}

// LegacyPortion builds the portion assumed for a bare food identifier.
func LegacyPortion(foodID string) FoodPortion {
	return FoodPortion{
		FoodID:          foodID,
		Amount:          LegacyPortionGrams,
		ServingType:     ServingTypeGrams,
		GramsEquivalent: LegacyPortionGrams,
	}
}

// Serving is a named portion size declared on a food.
type Serving struct {
	Name            string  `json:"name"`
	GramsEquivalent float64 `json:"gramsEquivalent"`
}

// Nutrient keys. The first four are required on every catalog entry; the
// rest are optional and live in Nutrition.Extra.
const (
	NutrientCalories      = "calories"
	NutrientProtein       = "protein"
	NutrientCarbohydrates = "carbohydrates"
	NutrientFat           = "fat"

	NutrientFiber        = "fiber"
	NutrientSugar        = "sugar"
	NutrientSaturatedFat = "saturated_fat"
	NutrientSodium       = "sodium"
	NutrientSalt         = "salt"
	NutrientCholesterol  = "cholesterol"
	NutrientPotassium    = "potassium"
)

// Nutrition carries the required macro set plus optional nutrients. Values
// are expressed per 100 g on catalog entries and as absolute amounts once scaled.
type Nutrition struct {
	Calories      float64            `json:"calories"`
	Protein       float64            `json:"protein"`
	Carbohydrates float64            `json:"carbohydrates"`
	Fat           float64            `json:"fat"`
	Extra         map[string]float64 `json:"extra,omitempty"`
}

// Scale multiplies every nutrient by factor.
func (n Nutrition) Scale(factor float64) Nutrition {
	out := Nutrition{
		Calories:      n.Calories * factor,
		Protein:       n.Protein * factor,
		Carbohydrates: n.Carbohydrates * factor,
		Fat:           n.Fat * factor,
	}
	if len(n.Extra) > 0 {
		out.Extra = make(map[string]float64, len(n.Extra))
		for k, v := range n.Extra {
			out.Extra[k] = v * factor
		}
	}
	return out
}

// Add sums two nutrition records.
func (n Nutrition) Add(other Nutrition) Nutrition {
	out := Nutrition{
		Calories:      n.Calories + other.Calories,
		Protein:       n.Protein + other.Protein,
		Carbohydrates: n.Carbohydrates + other.Carbohydrates,
		Fat:           n.Fat + other.Fat,
	}
	if len(n.Extra) > 0 || len(other.Extra) > 0 {
		out.Extra = make(map[string]float64, len(n.Extra)+len(other.Extra))
		for k, v := range n.Extra {
			out.Extra[k] += v
		}
		for k, v := range other.Extra {
			out.Extra[k] += v
		}
	}
	return out
}

// Food is a catalog entry.
type Food struct {
	ID               uuid.UUID
	OwnerID          uuid.UUID
	Name             string
	Brand            string
	Source           string
	NutritionPer100g Nutrition
	CommonServings   []Serving
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Serving returns the named serving declared on the food (exact match).
func (f Food) Serving(name string) (Serving, bool) {
	for _, s := range f.CommonServings {
		if s.Name == name {
			return s, true
		}
	}
	return Serving{}, false
}

// FoodLookup is the optional result of a catalog lookup. A missing food is a
// normal outcome reported through Found, never through an error.
type FoodLookup struct {
	Found            bool
	NutritionPer100g Nutrition
	CommonServings   []Serving
}

// NotFound is the empty lookup result.
func NotFound() FoodLookup { return FoodLookup{} }

// Found wraps a catalog entry in a lookup result.
func Found(food Food) FoodLookup {
	return FoodLookup{
		Found:            true,
		NutritionPer100g: food.NutritionPer100g,
		CommonServings:   append([]Serving(nil), food.CommonServings...),
	}
}

// Serving returns the named serving from the lookup.
func (l FoodLookup) Serving(name string) (Serving, bool) {
	for _, s := range l.CommonServings {
		if s.Name == name {
			return s, true
		}
	}
	return Serving{}, false
}

// FoodCatalog is the narrow read gateway the engine resolves portions against.
// Implementations report transient failures as NotFound.
type FoodCatalog interface {
	LookupFood(ctx context.Context, foodID string) FoodLookup
}

// FoodCatalogFunc adapts a function into a FoodCatalog.
type FoodCatalogFunc func(ctx context.Context, foodID string) FoodLookup

// LookupFood implements FoodCatalog.
func (f FoodCatalogFunc) LookupFood(ctx context.Context, foodID string) FoodLookup {
	if f == nil {
		return NotFound()
	}
	return f(ctx, foodID)
}

// FoodRepository persists catalog entries.
type FoodRepository interface {
	FoodCatalog
	GetFood(ctx context.Context, id uuid.UUID) (*Food, error)
	SaveFood(ctx context.Context, food Food) (*Food, error)
}
