package workout

import (
	"context"
	"fmt"
	"testing"

	"github.com/myrjola/liftplan/internal/testhelpers"
)

func newTestExercise(
	id, name string,
	category Category,
	groups []MuscleGroup,
	equipment Equipment,
	tags ...string,
) Exercise {
	var categories []Category
	if category != "" {
		categories = []Category{category}
	}
	return Exercise{
		ID:                  id,
		Name:                name,
		DescriptionMarkdown: "",
		Categories:          categories,
		Tags:                tags,
		MuscleGroups:        groups,
		Equipment:           []Equipment{equipment},
	}
}

// testCatalog has two main movements per category and at least two accessories per rotation pool.
func testCatalog() []Exercise {
	legs := []MuscleGroup{MuscleGroupLegs}
	return []Exercise{
		newTestExercise("squat", "Squat", CategoryKneeDominant, legs, EquipmentBarbell,
			TagCompound, TagLowerBody),
		newTestExercise("legpress", "Leg Press", CategoryKneeDominant, legs, EquipmentMachine,
			TagCompound, TagLowerBody),
		newTestExercise("deadlift", "Deadlift", CategoryHipDominant, []MuscleGroup{MuscleGroupBack, MuscleGroupLegs},
			EquipmentBarbell, TagCompound, TagLowerBody),
		newTestExercise("hipthrust", "Hip Thrust", CategoryHipDominant, legs, EquipmentBarbell,
			TagCompound, TagLowerBody),
		newTestExercise("bench", "Bench Press", CategoryUpperBodyPush, []MuscleGroup{MuscleGroupChest},
			EquipmentBarbell, TagCompound, TagUpperBody),
		newTestExercise("pushup", "Push-up", CategoryUpperBodyPush, []MuscleGroup{MuscleGroupChest},
			EquipmentBodyweight, TagCompound, TagUpperBody),
		newTestExercise("pullup", "Pull-up", CategoryUpperBodyPull, []MuscleGroup{MuscleGroupBack},
			EquipmentBodyweight, TagCompound, TagUpperBody),
		newTestExercise("row", "Barbell Row", CategoryUpperBodyPull, []MuscleGroup{MuscleGroupBack},
			EquipmentBarbell, TagCompound, TagUpperBody),
		newTestExercise("plank", "Plank", "", []MuscleGroup{MuscleGroupCore}, EquipmentBodyweight, TagCore),
		newTestExercise("deadbug", "Dead Bug", "", []MuscleGroup{MuscleGroupCore}, EquipmentBodyweight, TagCore),
		newTestExercise("curl", "Barbell Curl", "", []MuscleGroup{MuscleGroupArms}, EquipmentBarbell,
			TagIsolation, TagUpperBody),
		newTestExercise("hammercurl", "Hammer Curl", "", []MuscleGroup{MuscleGroupArms}, EquipmentDumbbell,
			TagIsolation, TagUpperBody),
		newTestExercise("pushdown", "Tricep Pushdown", "", []MuscleGroup{MuscleGroupArms}, EquipmentCable,
			TagIsolation, TagUpperBody),
		newTestExercise("lateral", "Lateral Raise", "", []MuscleGroup{MuscleGroupShoulders}, EquipmentDumbbell,
			TagIsolation, TagUpperBody),
		newTestExercise("legcurl", "Lying Leg Curl", "", legs, EquipmentMachine, TagIsolation, TagLowerBody),
		newTestExercise("legext", "Leg Extension", "", legs, EquipmentMachine, TagIsolation, TagLowerBody),
		newTestExercise("calf", "Standing Calf Raise", "", legs, EquipmentMachine, TagIsolation, TagLowerBody),
	}
}

func exerciseByID(t *testing.T, catalog []Exercise, id string) Exercise {
	t.Helper()
	for _, e := range catalog {
		if e.ID == id {
			return e
		}
	}
	t.Fatalf("exercise %s not in catalog", id)
	return Exercise{}
}

// performed lists the exercises of one workout.
type performed struct {
	date string
	ids  []string
}

// historyOf builds a history with one completed set per performed exercise.
func historyOf(t *testing.T, catalog []Exercise, workouts ...performed) History {
	t.Helper()
	h := make(History, len(workouts))
	for i, p := range workouts {
		w := Workout{
			ID:           fmt.Sprintf("w%d", i),
			Date:         testhelpers.Date(t, p.date),
			Completed:    true,
			SubType:      "",
			StrategyID:   "",
			ExerciseSets: nil,
		}
		for _, id := range p.ids {
			w.ExerciseSets = append(w.ExerciseSets, ExerciseSet{
				Exercise: exerciseByID(t, catalog, id),
				Sets:     []Set{{WeightKg: 20, Reps: 5, Completed: true}},
			})
		}
		h[w.ID] = w
	}
	return h
}

func ids(exercises []Exercise) []string {
	result := make([]string, len(exercises))
	for i, e := range exercises {
		result[i] = e.ID
	}
	return result
}

// sequenceRand returns the given values in order, each reduced modulo n.
type sequenceRand struct {
	values []int
	next   int
}

func (r *sequenceRand) IntN(n int) int {
	v := r.values[r.next%len(r.values)]
	r.next++
	return v % n
}

// memoryRotationStore keeps the rotation state in memory.
type memoryRotationStore struct {
	state   RotationState
	saves   int
	loadErr error
	saveErr error
}

func (s *memoryRotationStore) LoadRotationState(context.Context) (RotationState, error) {
	if s.loadErr != nil {
		return RotationState{}, s.loadErr
	}
	return s.state, nil
}

func (s *memoryRotationStore) SaveRotationState(_ context.Context, state RotationState) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.state = state
	s.saves++
	return nil
}
