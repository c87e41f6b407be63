package workout

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/myrjola/liftplan/internal/testhelpers"
)

func TestStrategies_Registry(t *testing.T) {
	strategies := NewStrategies(testhelpers.NewRand(1))

	if diff := cmp.Diff([]string{"cruise_mode", "endurance", "strength"}, strategies.IDs()); diff != "" {
		t.Errorf("strategy ids mismatch (-want +got):\n%s", diff)
	}
	if _, err := strategies.Get("yoga"); !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("Expected %v, got %v", ErrUnknownStrategy, err)
	}
	for _, id := range strategies.IDs() {
		st, err := strategies.Get(id)
		if err != nil {
			t.Fatalf("Failed to get strategy %s: %v", id, err)
		}
		if st.ID() != id || st.Name() == "" || st.Description() == "" {
			t.Errorf("Expected strategy %s to describe itself, got %q %q", id, st.Name(), st.Description())
		}
	}
}

func TestCruiseMode_FullBodyEndToEnd(t *testing.T) {
	ctx := t.Context()
	plans, err := DefaultPlans()
	if err != nil {
		t.Fatalf("Failed to parse default plans: %v", err)
	}
	store := &memoryRotationStore{}
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	strategy := NewStrategies(testhelpers.NewRand(1))[StrategyIDCruiseMode]

	plan, err := strategy.Generate(ctx, GenerateRequest{
		Catalog:           testCatalog(),
		ActiveExerciseIDs: nil,
		History:           nil,
		SubType:           "",
		Progression:       NewProgressionService(plans, ProgressionSettings{}, true),
		Rotation:          NewAccessoryRotation(store, logger),
	})
	if err != nil {
		t.Fatalf("Failed to generate plan: %v", err)
	}

	want := []string{"squat", "deadlift", "bench", "pullup", "plank", "curl", "legcurl"}
	if diff := cmp.Diff(want, ids(plan.Exercises)); diff != "" {
		t.Errorf("exercises mismatch (-want +got):\n%s", diff)
	}
	wantMetadata := &PlanMetadata{
		MainExerciseCount: 4,
		Accessories: []AccessoryInfo{
			{ExerciseID: "plank", Category: "Core"},
			{ExerciseID: "curl", Category: "Upper (Biceps)"},
			{ExerciseID: "legcurl", Category: "Lower (Hamstring)"},
		},
	}
	if diff := cmp.Diff(wantMetadata, plan.Metadata); diff != "" {
		t.Errorf("metadata mismatch (-want +got):\n%s", diff)
	}
	if len(plan.Progression) != len(plan.Exercises) {
		t.Errorf("Expected %d progression entries, got %d", len(plan.Exercises), len(plan.Progression))
	}
	for _, e := range plan.Exercises {
		if _, ok := plan.Progression[e.ID]; !ok {
			t.Errorf("Expected progression data for %s", e.ID)
		}
	}
	if plan.SubType != SubTypeFullBody || plan.RestDays != 1 || plan.Intensity != IntensityLow {
		t.Errorf("Expected full body low intensity plan with 1 rest day, got %s %s %d", plan.SubType,
			plan.Intensity, plan.RestDays)
	}
	if store.saves != 1 {
		t.Errorf("Expected rotation state to be saved once, got %d", store.saves)
	}
}

func TestCruiseMode_SubTypes(t *testing.T) {
	catalog := testCatalog()
	recent := historyOf(t, catalog,
		performed{date: "2024-01-10", ids: []string{"squat", "bench", "pullup"}},
	)

	tests := []struct {
		name    string
		subType SubType
		active  []string
		history History
		want    []string
	}{
		{
			name:    "full body picks least recently used per category",
			subType: SubTypeFullBody,
			history: recent,
			want:    []string{"legpress", "deadlift", "pushup", "row"},
		},
		{
			name:    "upper body picks two push and two pull",
			subType: SubTypeUpperBody,
			want:    []string{"bench", "pushup", "pullup", "row"},
		},
		{
			name:    "upper body with history",
			subType: SubTypeUpperBody,
			history: recent,
			want:    []string{"pushup", "bench", "row", "pullup"},
		},
		{
			name:    "lower body picks two knee and two hip dominant",
			subType: SubTypeLowerBody,
			want:    []string{"squat", "legpress", "deadlift", "hipthrust"},
		},
		{
			name:    "empty categories shrink the plan",
			subType: SubTypeFullBody,
			active:  []string{"squat", "bench"},
			want:    []string{"squat", "bench"},
		},
		{
			name:    "single exercise categories",
			subType: SubTypeLowerBody,
			active:  []string{"squat", "deadlift"},
			want:    []string{"squat", "deadlift"},
		},
		{
			name:    "no active exercises",
			subType: SubTypeUpperBody,
			active:  []string{},
			want:    nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memoryRotationStore{}
			strategy := NewStrategies(testhelpers.NewRand(3))[StrategyIDCruiseMode]
			plan, err := strategy.Generate(t.Context(), GenerateRequest{
				Catalog:           catalog,
				ActiveExerciseIDs: tt.active,
				History:           tt.history,
				SubType:           tt.subType,
				Progression:       nil,
				Rotation:          nil,
			})
			if err != nil {
				t.Fatalf("Failed to generate plan: %v", err)
			}
			got := ids(plan.Exercises)
			if len(got) == 0 {
				got = nil
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("exercises mismatch (-want +got):\n%s", diff)
			}
			if plan.Progression != nil || plan.Metadata != nil {
				t.Error("Expected no progression data or metadata")
			}
			if store.saves != 0 {
				t.Errorf("Expected no rotation saves, got %d", store.saves)
			}
		})
	}
}

func TestCruiseMode_AccessoriesOnlyOnFullBody(t *testing.T) {
	store := &memoryRotationStore{}
	rotation := NewAccessoryRotation(store, testhelpers.NewLogger(testhelpers.NewWriter(t)))
	strategy := NewStrategies(testhelpers.NewRand(3))[StrategyIDCruiseMode]

	for _, subType := range []SubType{SubTypeUpperBody, SubTypeLowerBody} {
		plan, err := strategy.Generate(t.Context(), GenerateRequest{
			Catalog:           testCatalog(),
			ActiveExerciseIDs: nil,
			History:           nil,
			SubType:           subType,
			Progression:       nil,
			Rotation:          rotation,
		})
		if err != nil {
			t.Fatalf("Failed to generate plan: %v", err)
		}
		if len(plan.Exercises) != 4 || plan.Metadata != nil {
			t.Errorf("Expected 4 main exercises without accessories, got %v", ids(plan.Exercises))
		}
	}
	if store.saves != 0 {
		t.Errorf("Expected rotation state untouched, got %d saves", store.saves)
	}
}

func TestCruiseMode_SkipsAccessoryAlreadyInPlan(t *testing.T) {
	legRaise := newTestExercise("legraise", "Hanging Leg Raise", CategoryHipDominant,
		[]MuscleGroup{MuscleGroupCore}, EquipmentBodyweight, TagCore)
	strategy := NewStrategies(testhelpers.NewRand(3))[StrategyIDCruiseMode]
	store := &memoryRotationStore{}

	plan, err := strategy.Generate(t.Context(), GenerateRequest{
		Catalog:           []Exercise{legRaise},
		ActiveExerciseIDs: nil,
		History:           nil,
		SubType:           SubTypeFullBody,
		Progression:       nil,
		Rotation:          NewAccessoryRotation(store, testhelpers.NewLogger(testhelpers.NewWriter(t))),
	})
	if err != nil {
		t.Fatalf("Failed to generate plan: %v", err)
	}
	if diff := cmp.Diff([]string{"legraise"}, ids(plan.Exercises)); diff != "" {
		t.Errorf("exercises mismatch (-want +got):\n%s", diff)
	}
	if plan.Metadata != nil {
		t.Errorf("Expected no metadata, got %+v", plan.Metadata)
	}
	if store.saves != 1 {
		t.Errorf("Expected rotation to advance, got %d saves", store.saves)
	}
}

func TestCruiseMode_RotationFailure(t *testing.T) {
	errLoad := errors.New("store down")
	strategy := NewStrategies(testhelpers.NewRand(3))[StrategyIDCruiseMode]
	_, err := strategy.Generate(t.Context(), GenerateRequest{
		Catalog:           testCatalog(),
		ActiveExerciseIDs: nil,
		History:           nil,
		SubType:           SubTypeFullBody,
		Progression:       nil,
		Rotation: NewAccessoryRotation(&memoryRotationStore{loadErr: errLoad},
			testhelpers.NewLogger(testhelpers.NewWriter(t))),
	})
	if !errors.Is(err, errLoad) {
		t.Errorf("Expected %v, got %v", errLoad, err)
	}
}

func TestStrengthStrategy(t *testing.T) {
	strategy := NewStrategies(testhelpers.NewRand(3))[StrategyIDStrength]

	tests := []struct {
		subType SubType
		want    []string
	}{
		{SubTypeFullBody, []string{"bench", "pushup", "deadlift", "pullup", "row"}},
		{SubTypeUpperBody, []string{"deadlift", "bench", "pushup", "pullup", "row"}},
		{SubTypeLowerBody, []string{"squat", "legpress", "deadlift", "hipthrust"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.subType), func(t *testing.T) {
			plan, err := strategy.Generate(t.Context(), GenerateRequest{
				Catalog:           testCatalog(),
				ActiveExerciseIDs: nil,
				History:           nil,
				SubType:           tt.subType,
				Progression:       nil,
				Rotation:          nil,
			})
			if err != nil {
				t.Fatalf("Failed to generate plan: %v", err)
			}
			if diff := cmp.Diff(tt.want, ids(plan.Exercises)); diff != "" {
				t.Errorf("exercises mismatch (-want +got):\n%s", diff)
			}
			if plan.RestDays != 2 || plan.Intensity != IntensityHigh || plan.Kind != KindStrength {
				t.Errorf("Expected high intensity strength plan with 2 rest days, got %+v", plan)
			}
		})
	}
}

func TestEnduranceStrategy(t *testing.T) {
	strategy := NewStrategies(testhelpers.NewRand(3))[StrategyIDEndurance]
	catalog := testCatalog()
	history := historyOf(t, catalog, performed{date: "2024-02-01", ids: []string{"legpress"}})

	tests := []struct {
		subType SubType
		want    []string
	}{
		{SubTypeFullBody, []string{"pushup", "pullup", "plank", "deadbug", "legcurl", "legext", "calf", "legpress"}},
		{SubTypeLowerBody, []string{"plank", "deadbug", "legcurl", "legext", "calf", "legpress"}},
		{SubTypeUpperBody, []string{"pushup", "pullup"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.subType), func(t *testing.T) {
			plan, err := strategy.Generate(t.Context(), GenerateRequest{
				Catalog:           catalog,
				ActiveExerciseIDs: nil,
				History:           history,
				SubType:           tt.subType,
				Progression:       nil,
				Rotation:          nil,
			})
			if err != nil {
				t.Fatalf("Failed to generate plan: %v", err)
			}
			if diff := cmp.Diff(tt.want, ids(plan.Exercises)); diff != "" {
				t.Errorf("exercises mismatch (-want +got):\n%s", diff)
			}
			if plan.Kind != KindEndurance || plan.Intensity != IntensityMedium {
				t.Errorf("Expected medium intensity endurance plan, got %s %s", plan.Kind, plan.Intensity)
			}
		})
	}
}

func TestStrategy_InteractiveOperations(t *testing.T) {
	catalog := testCatalog()
	strategy := NewStrategies(&sequenceRand{values: []int{1}, next: 0})[StrategyIDCruiseMode]
	pool := filterByCategory(catalog, CategoryKneeDominant)
	pool = append(pool, newTestExercise("gobletsquat", "Goblet Squat", CategoryKneeDominant, nil, EquipmentDumbbell))
	squat := exerciseByID(t, catalog, "squat")
	history := historyOf(t, catalog, performed{date: "2024-01-01", ids: []string{"legpress"}})

	t.Run("switch alternates between the two least recently used", func(t *testing.T) {
		current := squat
		var got []string
		for range 4 {
			current = strategy.Switch(current, pool, history)
			got = append(got, current.ID)
		}
		if diff := cmp.Diff([]string{"gobletsquat", "squat", "gobletsquat", "squat"}, got); diff != "" {
			t.Errorf("switch sequence mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("repropose ignores history", func(t *testing.T) {
		got, ok := strategy.Repropose(squat, pool)
		if !ok {
			t.Fatal("Expected a replacement")
		}
		// Candidates are legpress and gobletsquat.
		if got.ID != "gobletsquat" {
			t.Errorf("Expected gobletsquat, got %s", got.ID)
		}
		if _, ok = strategy.Repropose(squat, []Exercise{squat}); ok {
			t.Error("Expected no replacement without alternatives")
		}
	})

	t.Run("alternatives", func(t *testing.T) {
		got := strategy.Alternatives(squat, filterOutExercise(pool, squat.ID), history)
		if diff := cmp.Diff([]string{"gobletsquat", "legpress"}, ids(got)); diff != "" {
			t.Errorf("alternatives mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestTargetMuscleGroups(t *testing.T) {
	want := map[SubType][]MuscleGroup{
		SubTypeFullBody:  {MuscleGroupLegs, MuscleGroupChest, MuscleGroupBack, MuscleGroupShoulders},
		SubTypeUpperBody: {MuscleGroupChest, MuscleGroupBack, MuscleGroupShoulders, MuscleGroupArms},
		SubTypeLowerBody: {MuscleGroupLegs, MuscleGroupCore},
	}
	for subType, groups := range want {
		if diff := cmp.Diff(groups, TargetMuscleGroups(subType)); diff != "" {
			t.Errorf("%s target groups mismatch (-want +got):\n%s", subType, diff)
		}
	}
}
