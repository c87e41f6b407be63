package workout

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/myrjola/liftplan/internal/contexthelpers"
	"github.com/myrjola/liftplan/internal/sqlite"
	"github.com/myrjola/liftplan/internal/testhelpers"
)

func newTestRepository(t *testing.T) *repository {
	t.Helper()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	db, err := sqlite.NewDatabase(t.Context(), ":memory:", logger)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err = db.Close(); err != nil {
			t.Errorf("Failed to close database: %v", err)
		}
	})
	return newSQLiteRepository(db, logger)
}

func TestExerciseRepository(t *testing.T) {
	ctx := t.Context()
	repo := newTestRepository(t)
	cached := newCachedExerciseRepository(repo.exercises, 1, time.Minute,
		testhelpers.NewLogger(testhelpers.NewWriter(t)))

	for name, exercises := range map[string]exerciseRepository{"sqlite": repo.exercises, "cached": cached} {
		t.Run(name, func(t *testing.T) {
			bench, err := exercises.Get(ctx, "benchpress")
			if err != nil {
				t.Fatalf("Failed to get exercise: %v", err)
			}
			want := Exercise{
				ID:                  "benchpress",
				Name:                "Bench Press",
				DescriptionMarkdown: "Lower the bar to the mid chest and press it back over the shoulders.",
				Categories:          []Category{CategoryUpperBodyPush},
				Tags:                []string{TagCompound, TagUpperBody},
				MuscleGroups:        []MuscleGroup{MuscleGroupChest},
				Equipment:           []Equipment{EquipmentBarbell},
			}
			if diff := cmp.Diff(want, bench); diff != "" {
				t.Errorf("exercise mismatch (-want +got):\n%s", diff)
			}

			if _, err = exercises.Get(ctx, "nonexistent"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Expected %v, got %v", ErrNotFound, err)
			}

			all, err := exercises.List(ctx)
			if err != nil {
				t.Fatalf("Failed to list exercises: %v", err)
			}
			if len(all) != 22 {
				t.Errorf("Expected 22 exercises, got %d", len(all))
			}
			for i := 1; i < len(all); i++ {
				if all[i-1].Name > all[i].Name {
					t.Errorf("Expected exercises ordered by name, got %s before %s", all[i-1].Name, all[i].Name)
				}
			}

			shoulders, err := exercises.ByMuscleGroups(ctx, []MuscleGroup{MuscleGroupShoulders})
			if err != nil {
				t.Fatalf("Failed to list exercises by muscle group: %v", err)
			}
			if diff := cmp.Diff([]string{"lateralraise", "overheadpress"}, ids(shoulders)); diff != "" {
				t.Errorf("muscle group mismatch (-want +got):\n%s", diff)
			}

			searches := []struct {
				term string
				want []string
			}{
				{"curl", []string{"barbellcurl", "hammercurl", "lyinglegcurl"}},
				{"  CURL ", []string{"barbellcurl", "hammercurl", "lyinglegcurl"}},
				{"hip_dominant", []string{"conventionaldeadlift", "hipthrust", "rumaniandead"}},
				{"%", []string{}},
			}
			for _, s := range searches {
				got, searchErr := exercises.Search(ctx, s.term)
				if searchErr != nil {
					t.Fatalf("Failed to search %q: %v", s.term, searchErr)
				}
				if diff := cmp.Diff(s.want, ids(got)); diff != "" {
					t.Errorf("search %q mismatch (-want +got):\n%s", s.term, diff)
				}
			}
		})
	}
}

func TestCachedExerciseRepository_ServesFromCache(t *testing.T) {
	ctx := t.Context()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	db, err := sqlite.NewDatabase(ctx, ":memory:", logger)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	cached := newCachedExerciseRepository(&sqliteExerciseRepository{baseRepository: newBaseRepository(db, logger)},
		1, time.Minute, logger)

	before, err := cached.List(ctx)
	if err != nil {
		t.Fatalf("Failed to list exercises: %v", err)
	}
	if _, err = db.ReadWrite.ExecContext(ctx, "DELETE FROM exercises"); err != nil {
		t.Fatalf("Failed to delete exercises: %v", err)
	}
	after, err := cached.List(ctx)
	if err != nil {
		t.Fatalf("Failed to list exercises: %v", err)
	}
	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("cached catalog mismatch (-want +got):\n%s", diff)
	}
	if _, err = cached.Get(ctx, "plank"); err != nil {
		t.Errorf("Expected plank from cache, got %v", err)
	}
}

func TestWorkoutRepository(t *testing.T) {
	ctx := contexthelpers.WithUserID(t.Context(), 1)
	repo := newTestRepository(t)

	squat, err := repo.exercises.Get(ctx, "backsquat")
	if err != nil {
		t.Fatalf("Failed to get exercise: %v", err)
	}
	bench, err := repo.exercises.Get(ctx, "benchpress")
	if err != nil {
		t.Fatalf("Failed to get exercise: %v", err)
	}

	older := Workout{
		ID:         uuid.NewString(),
		Date:       testhelpers.Date(t, "2024-03-01"),
		Completed:  true,
		SubType:    SubTypeFullBody,
		StrategyID: StrategyIDCruiseMode,
		ExerciseSets: []ExerciseSet{
			{Exercise: squat, Sets: []Set{{WeightKg: 80, Reps: 5, Completed: true}, {WeightKg: 80, Reps: 4}}},
			{Exercise: bench, Sets: []Set{{WeightKg: 60, Reps: 5, Completed: true}}},
		},
	}
	newer := Workout{
		ID:           uuid.NewString(),
		Date:         time.Date(2024, 3, 3, 17, 30, 0, 123e6, time.UTC),
		Completed:    false,
		SubType:      SubTypeUpperBody,
		StrategyID:   StrategyIDStrength,
		ExerciseSets: []ExerciseSet{{Exercise: bench, Sets: []Set{{WeightKg: 62.5, Reps: 5}}}},
	}
	for _, w := range []Workout{older, newer} {
		if err = repo.workouts.Create(ctx, w); err != nil {
			t.Fatalf("Failed to create workout: %v", err)
		}
	}

	t.Run("get round trip", func(t *testing.T) {
		got, getErr := repo.workouts.Get(ctx, older.ID)
		if getErr != nil {
			t.Fatalf("Failed to get workout: %v", getErr)
		}
		if diff := cmp.Diff(older, got); diff != "" {
			t.Errorf("workout mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("list newest first", func(t *testing.T) {
		got, listErr := repo.workouts.List(ctx)
		if listErr != nil {
			t.Fatalf("Failed to list workouts: %v", listErr)
		}
		if diff := cmp.Diff([]Workout{newer, older}, got); diff != "" {
			t.Errorf("workouts mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("other users see nothing", func(t *testing.T) {
		otherCtx := contexthelpers.WithUserID(t.Context(), 2)
		got, listErr := repo.workouts.List(otherCtx)
		if listErr != nil {
			t.Fatalf("Failed to list workouts: %v", listErr)
		}
		if len(got) != 0 {
			t.Errorf("Expected no workouts, got %d", len(got))
		}
		if _, listErr = repo.workouts.Get(otherCtx, older.ID); !errors.Is(listErr, ErrNotFound) {
			t.Errorf("Expected %v, got %v", ErrNotFound, listErr)
		}
	})

	t.Run("update replaces sets", func(t *testing.T) {
		if err = repo.workouts.Update(ctx, newer.ID, func(w *Workout) (bool, error) {
			w.ExerciseSets[0].Sets[0].Completed = true
			w.ExerciseSets = append(w.ExerciseSets, ExerciseSet{Exercise: squat, Sets: []Set{{WeightKg: 85, Reps: 3}}})
			return true, nil
		}); err != nil {
			t.Fatalf("Failed to update workout: %v", err)
		}
		got, getErr := repo.workouts.Get(ctx, newer.ID)
		if getErr != nil {
			t.Fatalf("Failed to get workout: %v", getErr)
		}
		want := []ExerciseSet{
			{Exercise: bench, Sets: []Set{{WeightKg: 62.5, Reps: 5, Completed: true}}},
			{Exercise: squat, Sets: []Set{{WeightKg: 85, Reps: 3}}},
		}
		if diff := cmp.Diff(want, got.ExerciseSets); diff != "" {
			t.Errorf("exercise sets mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("update without changes", func(t *testing.T) {
		if err = repo.workouts.Update(ctx, older.ID, func(w *Workout) (bool, error) {
			w.Completed = false
			return false, nil
		}); err != nil {
			t.Fatalf("Failed to update workout: %v", err)
		}
		got, getErr := repo.workouts.Get(ctx, older.ID)
		if getErr != nil {
			t.Fatalf("Failed to get workout: %v", getErr)
		}
		if !got.Completed {
			t.Error("Expected unchanged workout to stay completed")
		}
	})

	t.Run("update error rolls back", func(t *testing.T) {
		errAbort := errors.New("abort")
		if err = repo.workouts.Update(ctx, older.ID, func(*Workout) (bool, error) {
			return false, errAbort
		}); !errors.Is(err, errAbort) {
			t.Errorf("Expected %v, got %v", errAbort, err)
		}
		if err = repo.workouts.Update(ctx, "missing", func(*Workout) (bool, error) {
			return true, nil
		}); !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected %v, got %v", ErrNotFound, err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err = repo.workouts.Delete(ctx, older.ID); err != nil {
			t.Fatalf("Failed to delete workout: %v", err)
		}
		if err = repo.workouts.Delete(ctx, older.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected %v, got %v", ErrNotFound, err)
		}
		var sets int
		if err = repo.workouts.(*sqliteWorkoutRepository).db.ReadOnly.QueryRowContext(ctx,
			"SELECT count(*) FROM workout_exercise_sets WHERE workout_id = ?", older.ID).Scan(&sets); err != nil {
			t.Fatalf("Failed to count exercise sets: %v", err)
		}
		if sets != 0 {
			t.Errorf("Expected exercise sets to be deleted with the workout, got %d", sets)
		}
	})
}

func TestWorkoutRepository_Complete(t *testing.T) {
	ctx := contexthelpers.WithUserID(t.Context(), 1)
	repo := newTestRepository(t)
	db := repo.workouts.(*sqliteWorkoutRepository).db //nolint:forcetypeassert // always sqlite here

	squat, err := repo.exercises.Get(ctx, "backsquat")
	if err != nil {
		t.Fatalf("Failed to get exercise: %v", err)
	}
	w := Workout{
		ID:           uuid.NewString(),
		Date:         testhelpers.Date(t, "2024-03-01"),
		Completed:    false,
		SubType:      SubTypeLowerBody,
		StrategyID:   StrategyIDCruiseMode,
		ExerciseSets: []ExerciseSet{{Exercise: squat, Sets: []Set{{WeightKg: 80, Reps: 5, Completed: true}}}},
	}
	if err = repo.workouts.Create(ctx, w); err != nil {
		t.Fatalf("Failed to create workout: %v", err)
	}

	t.Run("failed push leaves the workout unfinished", func(t *testing.T) {
		// Valid JSON of the wrong shape makes reading the recent types fail.
		if _, err = db.ReadWrite.ExecContext(ctx,
			`INSERT INTO user_preferences (user_id, recent_workout_types) VALUES (1, '{"broken": true}')`); err != nil {
			t.Fatalf("Failed to insert preferences: %v", err)
		}
		if _, err = repo.workouts.Complete(ctx, w.ID); err == nil {
			t.Fatal("Expected completing to fail")
		}
		got, getErr := repo.workouts.Get(ctx, w.ID)
		if getErr != nil {
			t.Fatalf("Failed to get workout: %v", getErr)
		}
		if got.Completed {
			t.Error("Expected workout to stay unfinished after a failed push")
		}
	})

	t.Run("retry completes and pushes once", func(t *testing.T) {
		if _, err = db.ReadWrite.ExecContext(ctx,
			`UPDATE user_preferences SET recent_workout_types = '[]' WHERE user_id = 1`); err != nil {
			t.Fatalf("Failed to repair preferences: %v", err)
		}
		completed, completeErr := repo.workouts.Complete(ctx, w.ID)
		if completeErr != nil {
			t.Fatalf("Failed to complete workout: %v", completeErr)
		}
		if !completed.Completed {
			t.Error("Expected returned workout to be completed")
		}
		if _, completeErr = repo.workouts.Complete(ctx, w.ID); !errors.Is(completeErr, ErrWorkoutCompleted) {
			t.Errorf("Expected %v, got %v", ErrWorkoutCompleted, completeErr)
		}

		prefs, prefsErr := repo.preferences.Get(ctx)
		if prefsErr != nil {
			t.Fatalf("Failed to get preferences: %v", prefsErr)
		}
		if diff := cmp.Diff(RecentTypes{SubTypeLowerBody}, prefs.RecentTypes); diff != "" {
			t.Errorf("recent types mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestPreferencesRepository(t *testing.T) {
	ctx := contexthelpers.WithUserID(t.Context(), 1)
	repo := newTestRepository(t)

	defaults := Preferences{
		ActiveExerciseIDs: nil,
		RecentTypes:       nil,
		Progression:       ProgressionSettings{ActivePlanID: DefaultProgressionPlanID, Premium: false},
	}
	got, err := repo.preferences.Get(ctx)
	if err != nil {
		t.Fatalf("Failed to get preferences: %v", err)
	}
	if diff := cmp.Diff(defaults, got); diff != "" {
		t.Errorf("default preferences mismatch (-want +got):\n%s", diff)
	}

	updated := Preferences{
		ActiveExerciseIDs: []string{},
		RecentTypes:       RecentTypes{SubTypeUpperBody, SubTypeFullBody},
		Progression:       ProgressionSettings{ActivePlanID: "advanced_linear", Premium: true},
	}
	if err = repo.preferences.Update(ctx, func(p *Preferences) (bool, error) {
		*p = updated
		return true, nil
	}); err != nil {
		t.Fatalf("Failed to update preferences: %v", err)
	}
	if got, err = repo.preferences.Get(ctx); err != nil {
		t.Fatalf("Failed to get preferences: %v", err)
	}
	if diff := cmp.Diff(updated, got); diff != "" {
		t.Errorf("preferences mismatch (-want +got):\n%s", diff)
	}
	if got.ActiveExerciseIDs == nil {
		t.Error("Expected an explicitly empty active exercise set to survive the round trip")
	}

	other, err := repo.preferences.Get(contexthelpers.WithUserID(t.Context(), 2))
	if err != nil {
		t.Fatalf("Failed to get preferences: %v", err)
	}
	if diff := cmp.Diff(defaults, other); diff != "" {
		t.Errorf("other user preferences mismatch (-want +got):\n%s", diff)
	}
}

func TestRotationRepository(t *testing.T) {
	ctx := contexthelpers.WithUserID(t.Context(), 1)
	repo := newTestRepository(t)

	state, err := repo.rotation.LoadRotationState(ctx)
	if err != nil {
		t.Fatalf("Failed to load rotation state: %v", err)
	}
	if state != (RotationState{}) {
		t.Errorf("Expected zero rotation state, got %+v", state)
	}

	rotation := NewAccessoryRotation(repo.rotation, testhelpers.NewLogger(testhelpers.NewWriter(t)))
	catalog, err := repo.exercises.List(ctx)
	if err != nil {
		t.Fatalf("Failed to list exercises: %v", err)
	}
	for range 2 {
		if _, err = rotation.SelectAccessories(ctx, catalog); err != nil {
			t.Fatalf("Failed to select accessories: %v", err)
		}
	}

	want := RotationState{CoreIndex: 0, UpperIndex: 0, UpperTypeIndex: 2, LowerIndex: 0, LowerTypeIndex: 2}
	if state, err = repo.rotation.LoadRotationState(ctx); err != nil {
		t.Fatalf("Failed to load rotation state: %v", err)
	}
	if diff := cmp.Diff(want, state); diff != "" {
		t.Errorf("rotation state mismatch (-want +got):\n%s", diff)
	}
	if other, _ := repo.rotation.LoadRotationState(contexthelpers.WithUserID(t.Context(), 2)); other != (RotationState{}) {
		t.Errorf("Expected other user to keep the zero state, got %+v", other)
	}
}
