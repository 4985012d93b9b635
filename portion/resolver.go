package portion

import (
	"context"
	"fmt"
	"math"

	"github.com/goliatone/go-tracking/fields"
	"github.com/goliatone/go-tracking/pkg/types"
	"golang.org/x/sync/errgroup"
)

const (
	// MessageFoodNotFound is reported when the catalog has no entry for the id.
	MessageFoodNotFound = "food not found"
	// MessageUnknownServing is reported when the serving type is neither grams
	// nor a serving declared on the food.
	MessageUnknownServing = "unknown serving"
	// MessageNonPositiveAmount is reported when the amount is zero, negative or not finite.
	MessageNonPositiveAmount = "amount must be positive"
	// MessageInvalidServing is reported when the catalog serving has no positive gram weight.
	MessageInvalidServing = "serving has no positive gram weight"

	defaultConcurrency = 8
)

// Resolved is a portion with its authoritative gram weight and the scaled
// nutrition contribution of the referenced food.
type Resolved struct {
	Portion   types.FoodPortion
	Nutrition types.Nutrition
}

// Option customizes the resolver.
type Option func(*Resolver)

// WithConcurrency bounds the number of parallel catalog lookups per batch.
// Values below 1 force sequential resolution.
func WithConcurrency(n int) Option {
	return func(r *Resolver) {
		if n < 1 {
			n = 1
		}
		r.concurrency = n
	}
}

// Resolver turns food portions into gram quantities using the catalog gateway.
type Resolver struct {
	catalog     types.FoodCatalog
	concurrency int
}

// NewResolver constructs a resolver over the supplied catalog.
func NewResolver(catalog types.FoodCatalog, opts ...Option) *Resolver {
	r := &Resolver{
		catalog:     catalog,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

var _ fields.PortionResolver = (*Resolver)(nil)

// Resolve computes the gram weight and nutrition of one portion. Data
// problems, including a missing food, come back as *Failure.
func (r *Resolver) Resolve(ctx context.Context, p types.FoodPortion) (Resolved, error) {
	lookup := r.lookup(ctx, p.FoodID)
	if !lookup.Found {
		return Resolved{}, &Failure{Message: MessageFoodNotFound}
	}
	return resolveAgainst(p, lookup)
}

// ResolvePortions resolves a Foods value. Lookups run in parallel, bounded by
// the configured concurrency; results keep the input order and failures are
// reported for every failing element, ordered by index.
func (r *Resolver) ResolvePortions(ctx context.Context, portions []types.FoodPortion) ([]types.FoodPortion, []fields.PortionFailure) {
	resolved, failures := r.ResolveAll(ctx, portions)
	out := make([]types.FoodPortion, len(resolved))
	for i, res := range resolved {
		out[i] = res.Portion
	}
	return out, failures
}

// ResolveAll is ResolvePortions plus the scaled nutrition of every element.
func (r *Resolver) ResolveAll(ctx context.Context, portions []types.FoodPortion) ([]Resolved, []fields.PortionFailure) {
	results := make([]Resolved, len(portions))
	errs := make([]error, len(portions))

	g := new(errgroup.Group)
	g.SetLimit(r.concurrency)
	for i := range portions {
		g.Go(func() error {
			results[i], errs[i] = r.Resolve(ctx, portions[i])
			return nil
		})
	}
	_ = g.Wait()

	var failures []fields.PortionFailure
	for i, err := range errs {
		if err == nil {
			continue
		}
		failures = append(failures, fields.PortionFailure{Index: i, Message: err.Error()})
		results[i] = Resolved{Portion: portions[i]}
	}
	return results, failures
}

func (r *Resolver) lookup(ctx context.Context, foodID string) types.FoodLookup {
	if r == nil || r.catalog == nil || foodID == "" {
		return types.NotFound()
	}
	if ctx.Err() != nil {
		return types.NotFound()
	}
	return r.catalog.LookupFood(ctx, foodID)
}

func resolveAgainst(p types.FoodPortion, food types.FoodLookup) (Resolved, error) {
	if !(p.Amount > 0) || math.IsInf(p.Amount, 0) {
		return Resolved{}, &Failure{Message: MessageNonPositiveAmount}
	}
	out := p
	if p.ServingType == types.ServingTypeGrams {
		out.GramsEquivalent = p.Amount
		out.ServingName = ""
	} else {
		serving, ok := food.Serving(p.ServingType)
		if !ok {
			return Resolved{}, &Failure{Message: fmt.Sprintf("%s %q", MessageUnknownServing, p.ServingType)}
		}
		if !(serving.GramsEquivalent > 0) || math.IsInf(serving.GramsEquivalent, 0) {
			return Resolved{}, &Failure{Message: fmt.Sprintf("%s %q", MessageInvalidServing, serving.Name)}
		}
		out.GramsEquivalent = p.Amount * serving.GramsEquivalent
		if out.ServingName == "" {
			out.ServingName = serving.Name
		}
	}
	return Resolved{
		Portion:   out,
		Nutrition: Contribution(food.NutritionPer100g, out.GramsEquivalent),
	}, nil
}

// Failure describes why a portion could not be resolved.
type Failure struct {
	Message string
}

func (f *Failure) Error() string {
	return f.Message
}
