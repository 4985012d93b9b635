package command

import (
	"context"
	"sync"
	"time"

	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-tracking/pkg/types"
	"github.com/google/uuid"
)

var fixedNow = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

type fixedClock struct{}

func (fixedClock) Now() time.Time { return fixedNow }

type fakeTypeRepo struct {
	items map[uuid.UUID]types.ActivityType
}

func newFakeTypeRepo(seed ...types.ActivityType) *fakeTypeRepo {
	repo := &fakeTypeRepo{items: map[uuid.UUID]types.ActivityType{}}
	for _, at := range seed {
		repo.items[at.ID] = at
	}
	return repo
}

func (f *fakeTypeRepo) FieldSchemas(ctx context.Context, id uuid.UUID) ([]types.FieldSchema, error) {
	at, err := f.GetActivityType(ctx, id)
	if err != nil {
		return nil, err
	}
	return at.Fields, nil
}

func (f *fakeTypeRepo) GetActivityType(_ context.Context, id uuid.UUID) (*types.ActivityType, error) {
	at, ok := f.items[id]
	if !ok {
		return nil, types.ErrActivityTypeNotFound
	}
	at.Fields = types.CloneSchema(at.Fields)
	return &at, nil
}

func (f *fakeTypeRepo) ListActivityTypes(context.Context, types.ActivityTypeFilter) ([]types.ActivityType, error) {
	out := make([]types.ActivityType, 0, len(f.items))
	for _, at := range f.items {
		out = append(out, at)
	}
	return out, nil
}

func (f *fakeTypeRepo) UpsertActivityType(_ context.Context, at types.ActivityType) (*types.ActivityType, error) {
	if at.ID == uuid.Nil {
		at.ID = uuid.New()
	}
	f.items[at.ID] = at
	return &at, nil
}

type fakeTrackedRepo struct {
	activities map[uuid.UUID]types.TrackedActivity
}

func newFakeTrackedRepo() *fakeTrackedRepo {
	return &fakeTrackedRepo{activities: map[uuid.UUID]types.TrackedActivity{}}
}

func (f *fakeTrackedRepo) CreateTrackedActivity(_ context.Context, activity types.TrackedActivity) (*types.TrackedActivity, error) {
	activity.ID = uuid.New()
	activity.CreatedAt = fixedNow
	activity.UpdatedAt = fixedNow
	f.activities[activity.ID] = activity
	return &activity, nil
}

func (f *fakeTrackedRepo) UpdateTrackedActivity(_ context.Context, activity types.TrackedActivity) (*types.TrackedActivity, error) {
	existing, ok := f.activities[activity.ID]
	if !ok {
		return nil, types.ErrTrackedActivityNotFound
	}
	existing.Values = activity.Values
	existing.Timestamp = activity.Timestamp
	existing.Notes = activity.Notes
	existing.UpdatedAt = fixedNow
	f.activities[activity.ID] = existing
	return &existing, nil
}

func (f *fakeTrackedRepo) GetTrackedActivity(_ context.Context, id uuid.UUID) (*types.TrackedActivity, error) {
	activity, ok := f.activities[id]
	if !ok {
		return nil, types.ErrTrackedActivityNotFound
	}
	return &activity, nil
}

func (f *fakeTrackedRepo) DeleteTrackedActivity(_ context.Context, id uuid.UUID) error {
	delete(f.activities, id)
	return nil
}

func (f *fakeTrackedRepo) ListTrackedActivities(context.Context, types.TrackedActivityFilter) (types.TrackedActivityPage, error) {
	return types.TrackedActivityPage{}, nil
}

type fakePresetRepo struct {
	mu      sync.Mutex
	presets map[uuid.UUID]types.Preset
}

func newFakePresetRepo() *fakePresetRepo {
	return &fakePresetRepo{presets: map[uuid.UUID]types.Preset{}}
}

func (f *fakePresetRepo) CreatePreset(_ context.Context, preset types.Preset) (*types.Preset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	preset.ID = uuid.New()
	preset.IsActive = true
	f.presets[preset.ID] = preset
	return &preset, nil
}

func (f *fakePresetRepo) UpdatePreset(_ context.Context, preset types.Preset) (*types.Preset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.presets[preset.ID]
	if !ok || !existing.IsActive {
		return nil, types.ErrPresetNotFound
	}
	if preset.Name != "" {
		existing.Name = preset.Name
	}
	if preset.Fields != nil {
		existing.Fields = preset.Fields
	}
	f.presets[preset.ID] = existing
	return &existing, nil
}

func (f *fakePresetRepo) GetPreset(_ context.Context, id uuid.UUID) (*types.Preset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	preset, ok := f.presets[id]
	if !ok || !preset.IsActive {
		return nil, types.ErrPresetNotFound
	}
	return &preset, nil
}

func (f *fakePresetRepo) ListPresets(context.Context, types.PresetFilter) ([]types.Preset, error) {
	return nil, nil
}

func (f *fakePresetRepo) DeactivatePreset(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	preset, ok := f.presets[id]
	if !ok || !preset.IsActive {
		return types.ErrPresetNotFound
	}
	preset.IsActive = false
	f.presets[id] = preset
	return nil
}

func (f *fakePresetRepo) IncrementUsage(_ context.Context, id uuid.UUID, usedAt time.Time) (*types.Preset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	preset, ok := f.presets[id]
	if !ok || !preset.IsActive {
		return nil, types.ErrPresetNotFound
	}
	preset.UsageCount++
	preset.LastUsedAt = &usedAt
	f.presets[id] = preset
	return &preset, nil
}

func (f *fakePresetRepo) usage(id uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.presets[id].UsageCount
}

type fakeFoodRepo struct {
	saved []types.Food
}

func (f *fakeFoodRepo) LookupFood(context.Context, string) types.FoodLookup {
	return types.NotFound()
}

func (f *fakeFoodRepo) GetFood(context.Context, uuid.UUID) (*types.Food, error) {
	return nil, types.ErrFoodNotFound
}

func (f *fakeFoodRepo) SaveFood(_ context.Context, food types.Food) (*types.Food, error) {
	food.ID = uuid.New()
	f.saved = append(f.saved, food)
	return &food, nil
}

type recordingAuditSink struct {
	mu      sync.Mutex
	records []types.AuditRecord
}

func (r *recordingAuditSink) Log(_ context.Context, record types.AuditRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	return nil
}

func (r *recordingAuditSink) verbs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec.Verb)
	}
	return out
}

func (r *recordingAuditSink) find(verb string) (types.AuditRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.Verb == verb {
			return rec, true
		}
	}
	return types.AuditRecord{}, false
}

type stubFeatureGate struct {
	enabled bool
	err     error
	keys    []string
}

func (s *stubFeatureGate) Enabled(_ context.Context, key string, _ ...featuregate.ResolveOption) (bool, error) {
	s.keys = append(s.keys, key)
	if s.err != nil {
		return false, s.err
	}
	return s.enabled, nil
}

// breadCatalog knows F1, a bread with a 28 g slice.
var breadCatalog = types.FoodCatalogFunc(func(_ context.Context, foodID string) types.FoodLookup {
	if foodID != "F1" {
		return types.NotFound()
	}
	return types.Found(types.Food{
		NutritionPer100g: types.Nutrition{Calories: 250, Protein: 9, Carbohydrates: 49, Fat: 3},
		CommonServings:   []types.Serving{{Name: "slice", GramsEquivalent: 28}},
	})
})
