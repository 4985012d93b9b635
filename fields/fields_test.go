package fields

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-tracking/pkg/types"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	grams    map[string]float64
	calls    int
	failures []PortionFailure
}

func (s *stubResolver) ResolvePortions(_ context.Context, portions []types.FoodPortion) ([]types.FoodPortion, []PortionFailure) {
	s.calls++
	out := make([]types.FoodPortion, len(portions))
	var failures []PortionFailure
	for i, p := range portions {
		grams, ok := s.grams[p.FoodID]
		if !ok {
			failures = append(failures, PortionFailure{Index: i, Message: "food not found"})
			out[i] = p
			continue
		}
		p.GramsEquivalent = grams * p.Amount
		out[i] = p
	}
	return out, append(failures, s.failures...)
}

func TestCheckSchema_RejectsInvalidDeclarations(t *testing.T) {
	cases := map[string][]types.FieldSchema{
		"options without options": {{Name: "mood", Kind: types.FieldKindOptions}},
		"options on number":       {{Name: "reps", Kind: types.FieldKindNumber, Options: []string{"a"}}},
		"empty name":              {{Name: " ", Kind: types.FieldKindText}},
		"unknown kind":            {{Name: "x", Kind: "color"}},
		"duplicate names":         {{Name: "x", Kind: types.FieldKindText}, {Name: "x", Kind: types.FieldKindNumber}},
		"repeated option":         {{Name: "mood", Kind: types.FieldKindOptions, Options: []string{"a", "a"}}},
	}
	for name, schema := range cases {
		t.Run(name, func(t *testing.T) {
			err := CheckSchema(schema)
			require.Error(t, err)
			require.ErrorIs(t, err, ErrInvalidSchema)
		})
	}
}

func TestCheckSchema_NamesAreCaseSensitive(t *testing.T) {
	err := CheckSchema([]types.FieldSchema{
		{Name: "Mood", Kind: types.FieldKindText},
		{Name: "mood", Kind: types.FieldKindOptions, Options: []string{"good", "bad"}},
	})
	require.NoError(t, err)
}

func TestNormalize_LegacyFoodsBecomeHundredGramPortions(t *testing.T) {
	value, err := Normalize(types.FieldKindFoods, []any{"food-A", "food-B"})
	require.NoError(t, err)

	foods, ok := value.(types.FoodsValue)
	require.True(t, ok)
	require.Len(t, foods, 2)
	for i, id := range []string{"food-A", "food-B"} {
		require.Equal(t, id, foods[i].FoodID)
		require.Equal(t, 100.0, foods[i].Amount)
		require.Equal(t, types.ServingTypeGrams, foods[i].ServingType)
		require.Equal(t, 100.0, foods[i].GramsEquivalent)
	}

	typed, err := Normalize(types.FieldKindFoods, []string{"food-A"})
	require.NoError(t, err)
	require.Equal(t, types.FoodsValue{types.LegacyPortion("food-A")}, typed)
}

func TestNormalize_CanonicalFoodsAreIdentity(t *testing.T) {
	canonical := types.FoodsValue{
		{FoodID: "F1", Amount: 2, ServingType: "slice", ServingName: "Slice", GramsEquivalent: 56},
		{FoodID: "F2", Amount: 30, ServingType: types.ServingTypeGrams, GramsEquivalent: 30},
	}
	value, err := Normalize(types.FieldKindFoods, canonical)
	require.NoError(t, err)
	require.Equal(t, canonical, value)

	again, err := Normalize(types.FieldKindFoods, value.Raw())
	require.NoError(t, err)
	require.Equal(t, canonical, again)
}

func TestNormalize_FoodsFromJSONDocument(t *testing.T) {
	var raw any
	require.NoError(t, json.Unmarshal([]byte(`["F0", {"foodId":"F1","amount":2,"servingType":"slice"}]`), &raw))

	value, err := Normalize(types.FieldKindFoods, raw)
	require.NoError(t, err)
	foods := value.(types.FoodsValue)
	require.Equal(t, types.LegacyPortion("F0"), foods[0])
	require.Equal(t, types.FoodPortion{FoodID: "F1", Amount: 2, ServingType: "slice"}, foods[1])
}

func TestNormalize_FoodsElementErrorsCarryIndex(t *testing.T) {
	_, err := Normalize(types.FieldKindFoods, []any{"F0", 12, map[string]any{"amount": 1}})
	require.Error(t, err)

	var verrs ValueErrors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 2)
	require.Equal(t, 1, verrs[0].Index)
	require.Equal(t, 2, verrs[1].Index)
	require.Equal(t, types.ReasonWrongType, verrs[0].Reason)
}

func TestValidator_PartialErrorsKeepSubmittedIndexes(t *testing.T) {
	_, err := Normalize(types.FieldKindFoods, []any{
		map[string]any{"foodId": "F1", "amount": "abc"},
		map[string]any{"foodId": "missing", "amount": 1},
		map[string]any{"foodId": "F1", "amount": 2},
	})
	var partial *PartialFoods
	require.True(t, errors.As(err, &partial))
	require.Len(t, partial.Errors, 1)
	require.Equal(t, []int{1, 2}, partial.Indexes)

	resolver := &stubResolver{grams: map[string]float64{"F1": 1}}
	errs := NewValidator(resolver).PartialErrors(context.Background(), types.FieldSchema{Name: "meal", Kind: types.FieldKindFoods}, partial)
	require.Len(t, errs, 1)
	require.Equal(t, 1, errs[0].Index)
	require.Equal(t, types.ReasonInvalidPortion, errs[0].Reason)
	require.Equal(t, "meal", errs[0].Field)
}

func TestNormalize_Boolean(t *testing.T) {
	value, err := Normalize(types.FieldKindBoolean, nil)
	require.NoError(t, err)
	require.Equal(t, types.BoolValue(false), value)

	value, err = Normalize(types.FieldKindBoolean, "")
	require.NoError(t, err)
	require.Equal(t, types.BoolValue(false), value)

	value, err = Normalize(types.FieldKindBoolean, true)
	require.NoError(t, err)
	require.Equal(t, types.BoolValue(true), value)

	_, err = Normalize(types.FieldKindBoolean, "yes")
	require.Error(t, err)
	_, err = Normalize(types.FieldKindBoolean, 1)
	require.Error(t, err)
}

func TestNormalize_Number(t *testing.T) {
	value, err := Normalize(types.FieldKindNumber, "")
	require.NoError(t, err)
	require.Nil(t, value)

	value, err = Normalize(types.FieldKindNumber, "45")
	require.NoError(t, err)
	require.Equal(t, types.NumberValue(45), value)

	value, err = Normalize(types.FieldKindNumber, 0)
	require.NoError(t, err)
	require.Equal(t, types.NumberValue(0), value)

	_, err = Normalize(types.FieldKindNumber, "forty")
	require.Error(t, err)
	_, err = Normalize(types.FieldKindNumber, "NaN")
	require.Error(t, err)
}

func TestNormalize_UnknownKindIsSchemaError(t *testing.T) {
	_, err := Normalize("color", "red")
	require.ErrorIs(t, err, ErrInvalidSchema)
}

func TestValidate_RequiredBooleanAcceptsFalse(t *testing.T) {
	v := NewValidator(nil)
	field := types.FieldSchema{Name: "fasted", Kind: types.FieldKindBoolean, Required: true}

	outcome := v.Validate(context.Background(), field, types.BoolValue(false))
	require.True(t, outcome.Valid())
	require.True(t, outcome.Present)
	require.Equal(t, types.BoolValue(false), outcome.Tracked.Value)
}

func TestValidate_RequiredFoodsRejectsEmptyList(t *testing.T) {
	resolver := &stubResolver{}
	v := NewValidator(resolver)
	field := types.FieldSchema{Name: "meal", Kind: types.FieldKindFoods, Required: true}

	outcome := v.Validate(context.Background(), field, types.FoodsValue{})
	require.False(t, outcome.Valid())
	require.Equal(t, types.ReasonMissingRequired, outcome.Errors[0].Reason)
	require.Zero(t, resolver.calls)
}

func TestValidate_OptionalEmptyIsAbsent(t *testing.T) {
	v := NewValidator(nil)
	outcome := v.Validate(context.Background(), types.FieldSchema{Name: "note", Kind: types.FieldKindText}, types.TextValue("  "))
	require.True(t, outcome.Valid())
	require.False(t, outcome.Present)

	outcome = v.Validate(context.Background(), types.FieldSchema{Name: "reps", Kind: types.FieldKindNumber}, nil)
	require.True(t, outcome.Valid())
	require.False(t, outcome.Present)
}

func TestValidate_OptionsAreCaseSensitive(t *testing.T) {
	v := NewValidator(nil)
	field := types.FieldSchema{Name: "mood", Kind: types.FieldKindOptions, Options: []string{"good", "bad"}}

	for _, opt := range field.Options {
		require.True(t, v.Validate(context.Background(), field, types.OptionValue(opt)).Valid())
	}
	outcome := v.Validate(context.Background(), field, types.OptionValue("Good"))
	require.False(t, outcome.Valid())
	require.Equal(t, types.ReasonInvalidOption, outcome.Errors[0].Reason)
}

func TestValidate_DateAndTime(t *testing.T) {
	v := NewValidator(nil)
	date := types.FieldSchema{Name: "day", Kind: types.FieldKindDate}
	clock := types.FieldSchema{Name: "at", Kind: types.FieldKindTime}

	require.True(t, v.Validate(context.Background(), date, types.DateValue("2024-03-01")).Valid())
	require.True(t, v.Validate(context.Background(), clock, types.TimeValue("07:30")).Valid())

	outcome := v.Validate(context.Background(), date, types.DateValue("yesterday"))
	require.Equal(t, types.ReasonWrongType, outcome.Errors[0].Reason)
	outcome = v.Validate(context.Background(), clock, types.TimeValue("25:99"))
	require.Equal(t, types.ReasonWrongType, outcome.Errors[0].Reason)
}

func TestValidate_FoodsReportsEveryFailingElement(t *testing.T) {
	resolver := &stubResolver{grams: map[string]float64{"F1": 1}}
	v := NewValidator(resolver)
	field := types.FieldSchema{Name: "meal", Kind: types.FieldKindFoods}

	outcome := v.Validate(context.Background(), field, types.FoodsValue{
		{FoodID: "missing-1", Amount: 1, ServingType: types.ServingTypeGrams},
		{FoodID: "F1", Amount: 20, ServingType: types.ServingTypeGrams},
		{FoodID: "missing-2", Amount: 1, ServingType: types.ServingTypeGrams},
	})
	require.False(t, outcome.Valid())
	require.Len(t, outcome.Errors, 2)
	require.Equal(t, 0, outcome.Errors[0].Index)
	require.Equal(t, 2, outcome.Errors[1].Index)
	for _, fe := range outcome.Errors {
		require.Equal(t, types.ReasonInvalidPortion, fe.Reason)
		require.Equal(t, "meal", fe.Field)
	}
}

func TestValidate_FoodsUsesResolvedGrams(t *testing.T) {
	resolver := &stubResolver{grams: map[string]float64{"F1": 28}}
	v := NewValidator(resolver)
	field := types.FieldSchema{Name: "meal", Kind: types.FieldKindFoods, Required: true}

	outcome := v.Validate(context.Background(), field, types.FoodsValue{
		{FoodID: "F1", Amount: 2, ServingType: "slice", GramsEquivalent: 999},
	})
	require.True(t, outcome.Valid())
	foods := outcome.Tracked.Value.(types.FoodsValue)
	require.Equal(t, 56.0, foods[0].GramsEquivalent)
}

func TestValidate_FoodsWithoutCatalogFails(t *testing.T) {
	v := NewValidator(nil)
	outcome := v.Validate(context.Background(), types.FieldSchema{Name: "meal", Kind: types.FieldKindFoods},
		types.FoodsValue{types.LegacyPortion("F1")})
	require.False(t, outcome.Valid())
	require.Equal(t, types.ReasonInvalidPortion, outcome.Errors[0].Reason)
}

func TestValidate_KindMismatchIsWrongType(t *testing.T) {
	v := NewValidator(nil)
	outcome := v.Validate(context.Background(), types.FieldSchema{Name: "reps", Kind: types.FieldKindNumber}, types.TextValue("12"))
	require.Equal(t, types.ReasonWrongType, outcome.Errors[0].Reason)
}

func TestRejectionError_CarriesEveryFailure(t *testing.T) {
	errs := FieldErrors{
		{Field: "duration", Reason: types.ReasonMissingRequired, Index: -1},
		{Field: "meal", Reason: types.ReasonInvalidPortion, Message: "food not found", Index: 1},
	}
	err := RejectionError(errs)
	require.Error(t, err)

	var richErr *goerrors.Error
	require.True(t, errors.As(err, &richErr))
	require.Equal(t, goerrors.CategoryValidation, richErr.Category)
	require.Equal(t, TextCodeSubmissionRejected, richErr.TextCode)
	payload, ok := richErr.Metadata["errors"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, payload, 2)
	require.Equal(t, "meal", payload[1]["field"])
	require.Equal(t, 1, payload[1]["index"])

	require.Nil(t, RejectionError(nil))
}

func TestSchemaError_Category(t *testing.T) {
	err := SchemaError(CheckField(types.FieldSchema{Name: "mood", Kind: types.FieldKindOptions}), true)
	var richErr *goerrors.Error
	require.True(t, errors.As(err, &richErr))
	require.Equal(t, goerrors.CategoryValidation, richErr.Category)
	require.Equal(t, TextCodeInvalidSchema, richErr.TextCode)

	err = SchemaError(CheckField(types.FieldSchema{Name: "mood", Kind: types.FieldKindOptions}), false)
	require.True(t, errors.As(err, &richErr))
	require.Equal(t, goerrors.CategoryInternal, richErr.Category)
}

func TestEmptyDefault(t *testing.T) {
	require.Equal(t, false, EmptyDefault(types.FieldKindBoolean))
	require.Equal(t, []any{}, EmptyDefault(types.FieldKindFoods))
	require.Equal(t, "", EmptyDefault(types.FieldKindNumber))
	require.Equal(t, "", EmptyDefault(types.FieldKindOptions))
}
