package command

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-tracking/assembler"
	"github.com/goliatone/go-tracking/audit"
	"github.com/goliatone/go-tracking/catalog"
	"github.com/goliatone/go-tracking/fields"
	"github.com/goliatone/go-tracking/pkg/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func runType(owner uuid.UUID) types.ActivityType {
	return types.ActivityType{
		ID:      uuid.New(),
		OwnerID: owner,
		Name:    "Run",
		Fields: []types.FieldSchema{
			{Name: "duration", Kind: types.FieldKindNumber, Required: true},
			{Name: "mood", Kind: types.FieldKindOptions, Options: []string{"good", "bad"}},
		},
	}
}

func mealType(owner uuid.UUID) types.ActivityType {
	return types.ActivityType{
		ID:      uuid.New(),
		OwnerID: owner,
		Name:    "Breakfast",
		Fields: []types.FieldSchema{
			{Name: "duration", Kind: types.FieldKindNumber, Required: true},
			{Name: "fasted", Kind: types.FieldKindBoolean, Required: true},
			{Name: "meal", Kind: types.FieldKindFoods, Required: true},
		},
	}
}

func TestActivityTrackCommand_RejectsInvalidOptionOnly(t *testing.T) {
	userID := uuid.New()
	at := runType(userID)
	activities := newFakeTrackedRepo()
	sink := &recordingAuditSink{}
	cmd := NewActivityTrackCommand(ActivityCommandConfig{
		ActivityTypes: newFakeTypeRepo(at),
		Activities:    activities,
		Audit:         sink,
		Clock:         fixedClock{},
	})

	var submission assembler.Result
	err := cmd.Execute(context.Background(), ActivityTrackInput{
		UserID:         userID,
		ActivityTypeID: at.ID,
		Values: []types.RawValue{
			{Field: "duration", Value: "45"},
			{Field: "mood", Value: "ok"},
		},
		Submission: &submission,
	})

	require.Error(t, err)
	var richErr *goerrors.Error
	require.True(t, errors.As(err, &richErr))
	require.Equal(t, goerrors.CategoryValidation, richErr.Category)
	require.Equal(t, fields.TextCodeSubmissionRejected, richErr.TextCode)

	require.Equal(t, assembler.StateRejected, submission.State)
	require.Len(t, submission.Errors, 1)
	require.Equal(t, "mood", submission.Errors[0].Field)
	require.Equal(t, types.ReasonInvalidOption, submission.Errors[0].Reason)
	require.Empty(t, activities.activities)
	require.Equal(t, []string{audit.VerbActivityRejected}, sink.verbs())
}

func TestActivityTrackCommand_StoresResolvedPortionsAndReportsDroppedFields(t *testing.T) {
	userID := uuid.New()
	at := mealType(userID)
	activities := newFakeTrackedRepo()
	sink := &recordingAuditSink{}
	var hooked []types.TrackedActivity
	cmd := NewActivityTrackCommand(ActivityCommandConfig{
		ActivityTypes: newFakeTypeRepo(at),
		Activities:    activities,
		Catalog:       breadCatalog,
		Audit:         sink,
		Clock:         fixedClock{},
		Hooks: types.Hooks{
			AfterActivityTracked: func(_ context.Context, activity types.TrackedActivity) {
				hooked = append(hooked, activity)
			},
		},
	})

	var result types.TrackedActivity
	err := cmd.Execute(context.Background(), ActivityTrackInput{
		UserID:         userID,
		ActivityTypeID: at.ID,
		Values: []types.RawValue{
			{Field: "duration", Value: 15.0},
			{Field: "fasted", Value: false},
			{Field: "meal", Value: []any{map[string]any{"foodId": "F1", "amount": 2, "servingType": "slice"}}},
			{Field: "cadence", Value: 170},
		},
		Timestamp: "2024-05-01T07:30:00Z",
		Notes:     "easy",
		Result:    &result,
	})
	require.NoError(t, err)

	require.NotEqual(t, uuid.Nil, result.ID)
	require.True(t, time.Date(2024, 5, 1, 7, 30, 0, 0, time.UTC).Equal(result.Timestamp))
	fasted, ok := result.Values.Get("fasted")
	require.True(t, ok)
	require.Equal(t, types.BoolValue(false), fasted)
	meal, ok := result.Values.Get("meal")
	require.True(t, ok)
	portions := meal.(types.FoodsValue)
	require.Len(t, portions, 1)
	require.Equal(t, 56.0, portions[0].GramsEquivalent)

	require.Equal(t, []string{audit.VerbFieldDropped, audit.VerbActivityTracked}, sink.verbs())
	dropped, _ := sink.find(audit.VerbFieldDropped)
	require.Equal(t, []string{"cadence"}, dropped.Data["fields"])
	require.Len(t, hooked, 1)
	require.Equal(t, result.ID, hooked[0].ID)
}

func TestActivityTrackCommand_TypeVisibility(t *testing.T) {
	userID := uuid.New()
	foreign := runType(uuid.New())
	system := runType(uuid.Nil)
	archived := runType(userID)
	archived.Archived = true
	cmd := NewActivityTrackCommand(ActivityCommandConfig{
		ActivityTypes: newFakeTypeRepo(foreign, system, archived),
		Activities:    newFakeTrackedRepo(),
	})
	values := []types.RawValue{{Field: "duration", Value: 30}}

	err := cmd.Execute(context.Background(), ActivityTrackInput{UserID: userID, ActivityTypeID: foreign.ID, Values: values})
	require.ErrorIs(t, err, types.ErrActivityTypeNotFound)

	err = cmd.Execute(context.Background(), ActivityTrackInput{UserID: userID, ActivityTypeID: archived.ID, Values: values})
	require.ErrorIs(t, err, ErrActivityTypeArchived)

	err = cmd.Execute(context.Background(), ActivityTrackInput{UserID: userID, ActivityTypeID: system.ID, Values: values})
	require.NoError(t, err)

	err = cmd.Execute(context.Background(), ActivityTrackInput{ActivityTypeID: system.ID, Values: values})
	require.ErrorIs(t, err, ErrUserIDRequired)
}

func TestActivityUpdateCommand_KeepsTimestampWhenOmitted(t *testing.T) {
	userID := uuid.New()
	at := runType(userID)
	activities := newFakeTrackedRepo()
	stored, err := activities.CreateTrackedActivity(context.Background(), types.TrackedActivity{
		UserID:         userID,
		ActivityTypeID: at.ID,
		Values:         types.TrackedValues{{Field: "duration", Value: types.NumberValue(45)}},
		Timestamp:      time.Date(2024, 4, 30, 6, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	sink := &recordingAuditSink{}
	cmd := NewActivityUpdateCommand(ActivityCommandConfig{
		ActivityTypes: newFakeTypeRepo(at),
		Activities:    activities,
		Audit:         sink,
	})

	var result types.TrackedActivity
	err = cmd.Execute(context.Background(), ActivityUpdateInput{
		UserID:     userID,
		ActivityID: stored.ID,
		Values: []types.RawValue{
			{Field: "duration", Value: "50"},
			{Field: "mood", Value: "good"},
		},
		Notes:  "negative split",
		Result: &result,
	})
	require.NoError(t, err)
	require.True(t, stored.Timestamp.Equal(result.Timestamp))
	require.Equal(t, "negative split", result.Notes)
	duration, _ := result.Values.Get("duration")
	require.Equal(t, types.NumberValue(50), duration)
	require.Equal(t, []string{audit.VerbActivityUpdated}, sink.verbs())

	var submission assembler.Result
	err = cmd.Execute(context.Background(), ActivityUpdateInput{
		UserID:     userID,
		ActivityID: stored.ID,
		Values:     []types.RawValue{{Field: "mood", Value: "Good"}},
		Submission: &submission,
	})
	require.Error(t, err)
	require.Len(t, submission.Errors, 2)
	require.Equal(t, types.ReasonMissingRequired, submission.Errors[0].Reason)
	require.Equal(t, types.ReasonInvalidOption, submission.Errors[1].Reason)

	err = cmd.Execute(context.Background(), ActivityUpdateInput{UserID: uuid.New(), ActivityID: stored.ID})
	require.ErrorIs(t, err, types.ErrTrackedActivityNotFound)
}

func TestActivityDeleteCommand_RequiresOwnership(t *testing.T) {
	userID := uuid.New()
	activities := newFakeTrackedRepo()
	stored, err := activities.CreateTrackedActivity(context.Background(), types.TrackedActivity{UserID: userID, ActivityTypeID: uuid.New()})
	require.NoError(t, err)
	sink := &recordingAuditSink{}
	cmd := NewActivityDeleteCommand(ActivityCommandConfig{Activities: activities, Audit: sink})

	err = cmd.Execute(context.Background(), ActivityDeleteInput{UserID: uuid.New(), ActivityID: stored.ID})
	require.ErrorIs(t, err, types.ErrTrackedActivityNotFound)
	require.Len(t, activities.activities, 1)

	require.NoError(t, cmd.Execute(context.Background(), ActivityDeleteInput{UserID: userID, ActivityID: stored.ID}))
	require.Empty(t, activities.activities)
	require.Equal(t, []string{audit.VerbActivityDeleted}, sink.verbs())
}

func TestActivityTypeUpsertCommand_RejectsInvalidSchema(t *testing.T) {
	repo := newFakeTypeRepo()
	cmd := NewActivityTypeUpsertCommand(ActivityTypeCommandConfig{Repository: repo})
	owner := uuid.New()

	err := cmd.Execute(context.Background(), ActivityTypeUpsertInput{
		OwnerID: owner,
		Name:    "Mood",
		Fields:  []types.FieldSchema{{Name: "mood", Kind: types.FieldKindOptions}},
	})
	require.Error(t, err)
	var richErr *goerrors.Error
	require.True(t, errors.As(err, &richErr))
	require.Equal(t, goerrors.CategoryValidation, richErr.Category)
	require.Equal(t, fields.TextCodeInvalidSchema, richErr.TextCode)
	require.Empty(t, repo.items)

	err = cmd.Execute(context.Background(), ActivityTypeUpsertInput{OwnerID: owner, Fields: runType(owner).Fields})
	require.ErrorIs(t, err, ErrActivityTypeNameRequired)
}

func TestActivityTypeUpsertCommand_SavesAndGuardsOwner(t *testing.T) {
	repo := newFakeTypeRepo()
	sink := &recordingAuditSink{}
	cmd := NewActivityTypeUpsertCommand(ActivityTypeCommandConfig{Repository: repo, Audit: sink})
	owner := uuid.New()

	var saved types.ActivityType
	require.NoError(t, cmd.Execute(context.Background(), ActivityTypeUpsertInput{
		OwnerID: owner,
		Name:    " Run ",
		Fields:  runType(owner).Fields,
		Result:  &saved,
	}))
	require.Equal(t, "Run", saved.Name)
	require.Len(t, saved.Fields, 2)
	require.Equal(t, []string{audit.VerbActivityTypeSaved}, sink.verbs())

	err := cmd.Execute(context.Background(), ActivityTypeUpsertInput{
		ID:      saved.ID,
		OwnerID: uuid.New(),
		Name:    "Hijacked",
	})
	require.ErrorIs(t, err, types.ErrActivityTypeNotFound)
}

func TestPresetCreateCommand_FromTrackedActivity(t *testing.T) {
	userID := uuid.New()
	at := runType(userID)
	activities := newFakeTrackedRepo()
	source, err := activities.CreateTrackedActivity(context.Background(), types.TrackedActivity{
		UserID:         userID,
		ActivityTypeID: at.ID,
		Values: types.TrackedValues{
			{Field: "duration", Value: types.NumberValue(45)},
			{Field: "mood", Value: types.OptionValue("good")},
		},
	})
	require.NoError(t, err)
	presetRepo := newFakePresetRepo()
	var events []types.PresetEvent
	cmd := NewPresetCreateCommand(PresetCommandConfig{
		Presets:       presetRepo,
		ActivityTypes: newFakeTypeRepo(at),
		Activities:    activities,
		Hooks: types.Hooks{
			AfterPresetChange: func(_ context.Context, event types.PresetEvent) {
				events = append(events, event)
			},
		},
	})

	var preset types.Preset
	require.NoError(t, cmd.Execute(context.Background(), PresetCreateInput{
		UserID:         userID,
		Name:           "Usual run",
		FromActivityID: source.ID,
		Result:         &preset,
	}))
	require.Equal(t, at.ID, preset.ActivityTypeID)
	require.Equal(t, 45.0, preset.Fields["duration"])
	require.Equal(t, "good", preset.Fields["mood"])
	require.Len(t, events, 1)
	require.Equal(t, audit.VerbPresetCreated, events[0].Action)

	err = cmd.Execute(context.Background(), PresetCreateInput{
		UserID:         userID,
		Name:           "Both",
		Fields:         map[string]any{"duration": 10},
		FromActivityID: source.ID,
	})
	require.ErrorIs(t, err, ErrPresetSourceConflict)

	err = cmd.Execute(context.Background(), PresetCreateInput{
		UserID:         uuid.New(),
		Name:           "Stolen",
		FromActivityID: source.ID,
	})
	require.ErrorIs(t, err, types.ErrTrackedActivityNotFound)
}

func TestPresetCommands_FeatureGateDisabled(t *testing.T) {
	gate := &stubFeatureGate{enabled: false}
	presetRepo := newFakePresetRepo()
	cfg := PresetCommandConfig{
		Presets:       presetRepo,
		ActivityTypes: newFakeTypeRepo(),
		FeatureGate:   gate,
	}

	err := NewPresetCreateCommand(cfg).Execute(context.Background(), PresetCreateInput{
		UserID:         uuid.New(),
		ActivityTypeID: uuid.New(),
		Name:           "Gated",
	})
	require.ErrorIs(t, err, ErrPresetsDisabled)

	err = NewPresetApplyCommand(cfg).Execute(context.Background(), PresetApplyInput{
		UserID:   uuid.New(),
		PresetID: uuid.New(),
	})
	require.ErrorIs(t, err, ErrPresetsDisabled)
	require.Equal(t, []string{featureTrackingPresets, featureTrackingPresets}, gate.keys)
	require.Empty(t, presetRepo.presets)
}

func TestPresetApplyCommand_ProjectsAndCountsUsage(t *testing.T) {
	userID := uuid.New()
	at := runType(userID)
	presetRepo := newFakePresetRepo()
	preset, err := presetRepo.CreatePreset(context.Background(), types.Preset{
		UserID:         userID,
		ActivityTypeID: at.ID,
		Name:           "Tempo",
		Fields:         map[string]any{"duration": 30, "intensity": "hard"},
	})
	require.NoError(t, err)
	sink := &recordingAuditSink{}
	var applied []types.PresetEvent
	cmd := NewPresetApplyCommand(PresetCommandConfig{
		Presets:       presetRepo,
		ActivityTypes: newFakeTypeRepo(at),
		Audit:         sink,
		Clock:         fixedClock{},
		Hooks: types.Hooks{
			AfterPresetApplied: func(_ context.Context, event types.PresetEvent) {
				applied = append(applied, event)
			},
		},
	})

	var result PresetApplyResult
	require.NoError(t, cmd.Execute(context.Background(), PresetApplyInput{
		UserID:   userID,
		PresetID: preset.ID,
		Result:   &result,
	}))
	require.Equal(t, []string{"intensity"}, result.Projection.Dropped)
	require.Len(t, result.Projection.Values, 2)
	require.Equal(t, "duration", result.Projection.Values[0].Field)
	require.Equal(t, "mood", result.Projection.Values[1].Field)
	require.Equal(t, "", result.Projection.Values[1].Value)
	require.Nil(t, result.Submission)
	require.Equal(t, 1, result.Preset.UsageCount)
	require.NotNil(t, result.Preset.LastUsedAt)
	require.True(t, fixedNow.Equal(*result.Preset.LastUsedAt))

	require.Equal(t, []string{audit.VerbFieldDropped, audit.VerbPresetApplied}, sink.verbs())
	require.Len(t, applied, 1)
	require.Equal(t, 1, applied[0].UsageCount)
}

func TestPresetApplyCommand_TracksWithOverrides(t *testing.T) {
	userID := uuid.New()
	at := runType(userID)
	presetRepo := newFakePresetRepo()
	preset, err := presetRepo.CreatePreset(context.Background(), types.Preset{
		UserID:         userID,
		ActivityTypeID: at.ID,
		Name:           "Tempo",
		Fields:         map[string]any{"duration": 30, "mood": "bad"},
	})
	require.NoError(t, err)
	activities := newFakeTrackedRepo()
	cmd := NewPresetApplyCommand(PresetCommandConfig{
		Presets:       presetRepo,
		ActivityTypes: newFakeTypeRepo(at),
		Activities:    activities,
		Clock:         fixedClock{},
	})

	var result PresetApplyResult
	require.NoError(t, cmd.Execute(context.Background(), PresetApplyInput{
		UserID:    userID,
		PresetID:  preset.ID,
		Track:     true,
		Overrides: []types.RawValue{{Field: "mood", Value: "good"}},
		Result:    &result,
	}))
	require.NotNil(t, result.Activity)
	require.True(t, result.Submission.Accepted())
	mood, _ := result.Activity.Values.Get("mood")
	require.Equal(t, types.OptionValue("good"), mood)
	duration, _ := result.Activity.Values.Get("duration")
	require.Equal(t, types.NumberValue(30), duration)
	require.True(t, fixedNow.Equal(result.Activity.Timestamp))
	require.Len(t, activities.activities, 1)
	require.Equal(t, 1, presetRepo.usage(preset.ID))
}

type deactivatingTrackedRepo struct {
	*fakeTrackedRepo
	presets  *fakePresetRepo
	presetID uuid.UUID
}

func (r *deactivatingTrackedRepo) CreateTrackedActivity(ctx context.Context, activity types.TrackedActivity) (*types.TrackedActivity, error) {
	if err := r.presets.DeactivatePreset(ctx, r.presetID); err != nil {
		return nil, err
	}
	return r.fakeTrackedRepo.CreateTrackedActivity(ctx, activity)
}

func TestPresetApplyCommand_KeepsTrackedActivityWhenPresetDeactivatedMidway(t *testing.T) {
	userID := uuid.New()
	at := runType(userID)
	presetRepo := newFakePresetRepo()
	preset, err := presetRepo.CreatePreset(context.Background(), types.Preset{
		UserID:         userID,
		ActivityTypeID: at.ID,
		Name:           "Tempo",
		Fields:         map[string]any{"duration": 30},
	})
	require.NoError(t, err)
	activities := &deactivatingTrackedRepo{
		fakeTrackedRepo: newFakeTrackedRepo(),
		presets:         presetRepo,
		presetID:        preset.ID,
	}
	cmd := NewPresetApplyCommand(PresetCommandConfig{
		Presets:       presetRepo,
		ActivityTypes: newFakeTypeRepo(at),
		Activities:    activities,
		Clock:         fixedClock{},
	})

	var result PresetApplyResult
	require.NoError(t, cmd.Execute(context.Background(), PresetApplyInput{
		UserID:   userID,
		PresetID: preset.ID,
		Track:    true,
		Result:   &result,
	}))
	require.NotNil(t, result.Activity)
	require.Len(t, activities.activities, 1)
	require.Equal(t, preset.ID, result.Preset.ID)
	require.Zero(t, presetRepo.usage(preset.ID))
}

func TestPresetApplyCommand_RejectedSubmissionLeavesUsage(t *testing.T) {
	userID := uuid.New()
	at := runType(userID)
	presetRepo := newFakePresetRepo()
	preset, err := presetRepo.CreatePreset(context.Background(), types.Preset{
		UserID:         userID,
		ActivityTypeID: at.ID,
		Name:           "Broken",
		Fields:         map[string]any{"duration": "soon"},
	})
	require.NoError(t, err)
	activities := newFakeTrackedRepo()
	cmd := NewPresetApplyCommand(PresetCommandConfig{
		Presets:       presetRepo,
		ActivityTypes: newFakeTypeRepo(at),
		Activities:    activities,
	})

	var result PresetApplyResult
	err = cmd.Execute(context.Background(), PresetApplyInput{
		UserID:   userID,
		PresetID: preset.ID,
		Track:    true,
		Result:   &result,
	})
	require.Error(t, err)
	require.NotNil(t, result.Submission)
	require.Len(t, result.Submission.Errors, 1)
	require.Equal(t, types.ReasonWrongType, result.Submission.Errors[0].Reason)
	require.Empty(t, activities.activities)
	require.Equal(t, 0, presetRepo.usage(preset.ID))
}

func TestPresetApplyCommand_ConcurrentApplicationsAreCounted(t *testing.T) {
	userID := uuid.New()
	at := runType(userID)
	presetRepo := newFakePresetRepo()
	preset, err := presetRepo.CreatePreset(context.Background(), types.Preset{
		UserID:         userID,
		ActivityTypeID: at.ID,
		Name:           "Tempo",
		Fields:         map[string]any{"duration": 30},
	})
	require.NoError(t, err)
	cmd := NewPresetApplyCommand(PresetCommandConfig{
		Presets:       presetRepo,
		ActivityTypes: newFakeTypeRepo(at),
	})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = cmd.Execute(context.Background(), PresetApplyInput{UserID: userID, PresetID: preset.ID})
		}(i)
	}
	wg.Wait()
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	require.Equal(t, 2, presetRepo.usage(preset.ID))
}

func TestPresetDeleteCommand_DeactivatesAndBlocksApply(t *testing.T) {
	userID := uuid.New()
	at := runType(userID)
	presetRepo := newFakePresetRepo()
	preset, err := presetRepo.CreatePreset(context.Background(), types.Preset{
		UserID:         userID,
		ActivityTypeID: at.ID,
		Name:           "Old",
		Fields:         map[string]any{},
	})
	require.NoError(t, err)
	cfg := PresetCommandConfig{Presets: presetRepo, ActivityTypes: newFakeTypeRepo(at)}

	err = NewPresetDeleteCommand(cfg).Execute(context.Background(), PresetDeleteInput{UserID: uuid.New(), PresetID: preset.ID})
	require.ErrorIs(t, err, types.ErrPresetNotFound)

	require.NoError(t, NewPresetDeleteCommand(cfg).Execute(context.Background(), PresetDeleteInput{UserID: userID, PresetID: preset.ID}))

	err = NewPresetApplyCommand(cfg).Execute(context.Background(), PresetApplyInput{UserID: userID, PresetID: preset.ID})
	require.ErrorIs(t, err, types.ErrPresetNotFound)
	require.Equal(t, 0, presetRepo.usage(preset.ID))
}

func TestPresetUpdateCommand_KeepsUsage(t *testing.T) {
	userID := uuid.New()
	presetRepo := newFakePresetRepo()
	preset, err := presetRepo.CreatePreset(context.Background(), types.Preset{
		UserID:         userID,
		ActivityTypeID: uuid.New(),
		Name:           "Old",
		Fields:         map[string]any{"duration": 20},
		UsageCount:     3,
	})
	require.NoError(t, err)
	cmd := NewPresetUpdateCommand(PresetCommandConfig{Presets: presetRepo})

	var result types.Preset
	require.NoError(t, cmd.Execute(context.Background(), PresetUpdateInput{
		UserID:   userID,
		PresetID: preset.ID,
		Name:     "New",
		Result:   &result,
	}))
	require.Equal(t, "New", result.Name)
	require.Equal(t, 20, result.Fields["duration"])
	require.Equal(t, 3, result.UsageCount)
}

func TestFoodSaveCommand_SuggestedFoodsAreGated(t *testing.T) {
	repo := &fakeFoodRepo{}
	gate := &stubFeatureGate{enabled: false}
	cmd := NewFoodSaveCommand(FoodCommandConfig{Repository: repo, FeatureGate: gate})

	err := cmd.Execute(context.Background(), FoodSaveInput{
		UserID: uuid.New(),
		Food:   types.Food{Name: "Olive oil", Source: catalog.SourceSuggested},
	})
	require.ErrorIs(t, err, ErrFoodSuggestionsDisabled)
	require.Equal(t, []string{featureTrackingFoodSuggestions}, gate.keys)
	require.Empty(t, repo.saved)
}

func TestFoodSaveCommand_ParsesAndValidatesNutrition(t *testing.T) {
	repo := &fakeFoodRepo{}
	sink := &recordingAuditSink{}
	cmd := NewFoodSaveCommand(FoodCommandConfig{
		Repository:  repo,
		Audit:       sink,
		FeatureGate: &stubFeatureGate{enabled: true},
	})
	userID := uuid.New()

	var saved types.Food
	require.NoError(t, cmd.Execute(context.Background(), FoodSaveInput{
		UserID: userID,
		Food: types.Food{
			Name:           "Oat milk",
			Source:         catalog.SourceSuggested,
			CommonServings: []types.Serving{{Name: "cup", GramsEquivalent: 240}},
		},
		Nutrition: map[string]any{"calories": "46", "protein": 1, "carbohydrates": 6.7, "fat": 1.5, "sugar": 4},
		Result:    &saved,
	}))
	require.Equal(t, userID, saved.OwnerID)
	require.Equal(t, 46.0, saved.NutritionPer100g.Calories)
	require.Equal(t, 4.0, saved.NutritionPer100g.Extra[types.NutrientSugar])
	require.Equal(t, []string{audit.VerbFoodSaved}, sink.verbs())

	err := cmd.Execute(context.Background(), FoodSaveInput{
		UserID:    userID,
		Food:      types.Food{Name: "Impossible"},
		Nutrition: map[string]any{"calories": 950, "protein": 60, "carbohydrates": 50, "fat": 10},
	})
	var richErr *goerrors.Error
	require.True(t, errors.As(err, &richErr))
	require.Equal(t, catalog.TextCodeInvalidFood, richErr.TextCode)
	require.Len(t, repo.saved, 1)
}
