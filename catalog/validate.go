package catalog

import (
	"fmt"
	"math"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-tracking/fields"
	"github.com/goliatone/go-tracking/pkg/types"
)

// TextCodeInvalidFood tags food payloads that fail validation.
const TextCodeInvalidFood = "INVALID_FOOD"

const (
	maxMacroGramsPer100g = 100.0
	maxCaloriesPer100g   = 900.0
)

// RequiredNutrients lists the keys every catalog entry must carry.
var RequiredNutrients = []string{
	types.NutrientCalories,
	types.NutrientProtein,
	types.NutrientCarbohydrates,
	types.NutrientFat,
}

// Problem names one invalid property of a food payload.
type Problem struct {
	Field   string
	Message string
}

// Problems is the full list found in one payload.
type Problems []Problem

func (p Problems) Error() string {
	parts := make([]string, 0, len(p))
	for _, problem := range p {
		parts = append(parts, problem.Field+": "+problem.Message)
	}
	return "catalog: invalid food: " + strings.Join(parts, "; ")
}

func (p Problems) metadata() []map[string]any {
	out := make([]map[string]any, 0, len(p))
	for _, problem := range p {
		out = append(out, map[string]any{"field": problem.Field, "message": problem.Message})
	}
	return out
}

// ParseNutrition reads a loosely typed per 100 g nutrition payload, such as
// the answer of a suggestion service. The required nutrients must be present;
// every other numeric key lands in Extra.
func ParseNutrition(raw map[string]any) (types.Nutrition, error) {
	var problems Problems
	values := make(map[string]float64, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for key, value := range raw {
		name := strings.ToLower(strings.TrimSpace(key))
		seen[name] = struct{}{}
		normalized, err := fields.Normalize(types.FieldKindNumber, value)
		if err != nil || normalized == nil {
			problems = append(problems, Problem{Field: name, Message: "must be a number"})
			continue
		}
		values[name] = float64(normalized.(types.NumberValue))
	}
	for _, key := range RequiredNutrients {
		if _, ok := seen[key]; !ok {
			problems = append(problems, Problem{Field: key, Message: "required"})
		}
	}
	if len(problems) > 0 {
		return types.Nutrition{}, invalidFood(problems)
	}

	n := types.Nutrition{
		Calories:      values[types.NutrientCalories],
		Protein:       values[types.NutrientProtein],
		Carbohydrates: values[types.NutrientCarbohydrates],
		Fat:           values[types.NutrientFat],
	}
	for key, value := range values {
		switch key {
		case types.NutrientCalories, types.NutrientProtein, types.NutrientCarbohydrates, types.NutrientFat:
			continue
		}
		if n.Extra == nil {
			n.Extra = make(map[string]float64)
		}
		n.Extra[key] = value
	}
	return n, nil
}

// ValidateFood checks a catalog entry before it is stored. Every problem is
// reported together as a go-errors validation error.
func ValidateFood(food types.Food) error {
	var problems Problems
	if strings.TrimSpace(food.Name) == "" {
		problems = append(problems, Problem{Field: "name", Message: "required"})
	}

	n := food.NutritionPer100g
	nutrients := map[string]float64{
		types.NutrientCalories:      n.Calories,
		types.NutrientProtein:       n.Protein,
		types.NutrientCarbohydrates: n.Carbohydrates,
		types.NutrientFat:           n.Fat,
	}
	for _, key := range RequiredNutrients {
		if bad(nutrients[key]) {
			problems = append(problems, Problem{Field: key, Message: "must be a finite, non-negative number"})
		}
	}
	for key, value := range n.Extra {
		if bad(value) {
			problems = append(problems, Problem{Field: key, Message: "must be a finite, non-negative number"})
		}
	}
	if macros := n.Protein + n.Carbohydrates + n.Fat; macros > maxMacroGramsPer100g {
		problems = append(problems, Problem{
			Field:   "macros",
			Message: fmt.Sprintf("protein, carbohydrates and fat add up to %.1f g per 100 g", macros),
		})
	}
	if n.Calories > maxCaloriesPer100g {
		problems = append(problems, Problem{
			Field:   types.NutrientCalories,
			Message: fmt.Sprintf("%.0f kcal per 100 g exceeds %.0f", n.Calories, maxCaloriesPer100g),
		})
	}

	seen := make(map[string]struct{}, len(food.CommonServings))
	for i, serving := range food.CommonServings {
		field := fmt.Sprintf("servings[%d]", i)
		name := serving.Name
		switch {
		case strings.TrimSpace(name) == "":
			problems = append(problems, Problem{Field: field, Message: "name required"})
		case name == types.ServingTypeGrams:
			problems = append(problems, Problem{Field: field, Message: "name \"grams\" is reserved"})
		default:
			if _, dup := seen[name]; dup {
				problems = append(problems, Problem{Field: field, Message: fmt.Sprintf("duplicate serving %q", name)})
			}
			seen[name] = struct{}{}
		}
		if !(serving.GramsEquivalent > 0) || math.IsInf(serving.GramsEquivalent, 0) {
			problems = append(problems, Problem{Field: field, Message: "grams equivalent must be positive"})
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return invalidFood(problems)
}

func invalidFood(problems Problems) error {
	return goerrors.New(problems.Error(), goerrors.CategoryValidation).
		WithCode(goerrors.CodeBadRequest).
		WithTextCode(TextCodeInvalidFood).
		WithMetadata(map[string]any{
			"problems": problems.metadata(),
		})
}

func bad(v float64) bool {
	return v < 0 || math.IsNaN(v) || math.IsInf(v, 0)
}
