package portion

import (
	"context"

	"github.com/goliatone/go-tracking/fields"
	"github.com/goliatone/go-tracking/pkg/types"
)

// Contribution scales per 100 g nutrition to the given gram weight.
func Contribution(per100g types.Nutrition, grams float64) types.Nutrition {
	if grams <= 0 {
		return types.Nutrition{}
	}
	return per100g.Scale(grams / 100)
}

// Totals sums the nutrition of every resolved portion.
func Totals(resolved []Resolved) types.Nutrition {
	var total types.Nutrition
	for _, r := range resolved {
		total = total.Add(r.Nutrition)
	}
	return total
}

// Breakdown is the nutrition view of one Foods value.
type Breakdown struct {
	Portions []Resolved
	Total    types.Nutrition
	Failures []fields.PortionFailure
}

// ResolveNutrition re-resolves portions against the current catalog and
// returns per-portion contributions plus the total of the resolvable ones.
// Unresolvable portions contribute nothing and are listed as failures.
func (r *Resolver) ResolveNutrition(ctx context.Context, portions []types.FoodPortion) Breakdown {
	resolved, failures := r.ResolveAll(ctx, portions)
	return Breakdown{
		Portions: resolved,
		Total:    Totals(resolved),
		Failures: failures,
	}
}
