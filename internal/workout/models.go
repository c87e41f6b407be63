package workout

import (
	"slices"
	"time"
)

// Category is a movement-pattern tag used to pick main movements.
type Category string

const (
	CategoryKneeDominant  Category = "knee_dominant"
	CategoryHipDominant   Category = "hip_dominant"
	CategoryUpperBodyPush Category = "upper_body_push"
	CategoryUpperBodyPull Category = "upper_body_pull"
)

// SubType is the body-region focus of a workout.
type SubType string

const (
	SubTypeFullBody  SubType = "full_body"
	SubTypeUpperBody SubType = "upper_body"
	SubTypeLowerBody SubType = "lower_body"
)

// ParseSubType returns the sub-type matching s. An empty string defaults to full body.
func ParseSubType(s string) (SubType, bool) {
	switch SubType(s) {
	case "", SubTypeFullBody:
		return SubTypeFullBody, true
	case SubTypeUpperBody:
		return SubTypeUpperBody, true
	case SubTypeLowerBody:
		return SubTypeLowerBody, true
	default:
		return "", false
	}
}

// Label is the human-readable form, e.g. "upper body".
func (s SubType) Label() string {
	switch s {
	case SubTypeFullBody:
		return "full body"
	case SubTypeUpperBody:
		return "upper body"
	case SubTypeLowerBody:
		return "lower body"
	default:
		return string(s)
	}
}

type MuscleGroup string

const (
	MuscleGroupChest     MuscleGroup = "chest"
	MuscleGroupBack      MuscleGroup = "back"
	MuscleGroupLegs      MuscleGroup = "legs"
	MuscleGroupShoulders MuscleGroup = "shoulders"
	MuscleGroupArms      MuscleGroup = "arms"
	MuscleGroupCore      MuscleGroup = "core"
	MuscleGroupFullBody  MuscleGroup = "full_body"
)

type Equipment string

const (
	EquipmentBarbell        Equipment = "barbell"
	EquipmentDumbbell       Equipment = "dumbbell"
	EquipmentBodyweight     Equipment = "bodyweight"
	EquipmentMachine        Equipment = "machine"
	EquipmentCable          Equipment = "cable"
	EquipmentKettlebell     Equipment = "kettlebell"
	EquipmentResistanceBand Equipment = "resistance_band"
)

// Kind describes the training goal of a generated plan.
type Kind string

const (
	KindStrength    Kind = "strength"
	KindHypertrophy Kind = "hypertrophy"
	KindEndurance   Kind = "endurance"
	KindPower       Kind = "power"
	KindRecovery    Kind = "recovery"
)

type Intensity string

const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

// Free-form tags the selection logic relies on.
const (
	TagCompound  = "compound"
	TagIsolation = "isolation"
	TagCore      = "core"
	TagUpperBody = "upper_body"
	TagLowerBody = "lower_body"
)

// Exercise is immutable reference data from the exercise catalog, e.g. Squat, Bench Press, etc.
type Exercise struct {
	ID                  string        `json:"exercise_id"`
	Name                string        `json:"name"`
	DescriptionMarkdown string        `json:"description"`
	Categories          []Category    `json:"categories"`
	Tags                []string      `json:"tags"`
	MuscleGroups        []MuscleGroup `json:"muscle_groups"`
	Equipment           []Equipment   `json:"equipment"`
}

func (e Exercise) HasTag(tag string) bool {
	return slices.Contains(e.Tags, tag)
}

func (e Exercise) HasCategory(category Category) bool {
	return slices.Contains(e.Categories, category)
}

// TrainsAny reports whether the exercise works at least one of the muscle groups.
func (e Exercise) TrainsAny(groups []MuscleGroup) bool {
	for _, g := range e.MuscleGroups {
		if slices.Contains(groups, g) {
			return true
		}
	}
	return false
}

// UsesAny reports whether the exercise can be done with at least one of the equipment types.
func (e Exercise) UsesAny(equipment []Equipment) bool {
	for _, eq := range e.Equipment {
		if slices.Contains(equipment, eq) {
			return true
		}
	}
	return false
}

// Set is a single performed set.
type Set struct {
	WeightKg  float64 `json:"weight_kg"`
	Reps      int     `json:"reps"`
	Completed bool    `json:"completed"`
}

// ExerciseSet groups the sets performed for one exercise within a workout.
type ExerciseSet struct {
	Exercise Exercise `json:"exercise"`
	Sets     []Set    `json:"sets"`
}

// AllCompleted reports whether there is at least one set and every set was completed.
func (es ExerciseSet) AllCompleted() bool {
	if len(es.Sets) == 0 {
		return false
	}
	for _, s := range es.Sets {
		if !s.Completed {
			return false
		}
	}
	return true
}

// Workout is a performed or in-progress training session.
type Workout struct {
	ID           string        `json:"id"`
	Date         time.Time     `json:"date"`
	Completed    bool          `json:"completed"`
	SubType      SubType       `json:"sub_type,omitempty"`
	StrategyID   string        `json:"strategy_id,omitempty"`
	ExerciseSets []ExerciseSet `json:"exercise_sets"`
}

// History maps workout id to workout. It is the sole input of all recency and progression computations.
type History map[string]Workout

// Recommendation is the suggested load for the next session of an exercise.
type Recommendation struct {
	WeightKg   float64 `json:"weight_kg"`
	Reps       int     `json:"reps"`
	Sets       *int    `json:"sets,omitempty"`
	Note       string  `json:"note,omitempty"`
	Confidence float64 `json:"confidence"`
}

// ExerciseSession is one workout's worth of sets for a single exercise.
type ExerciseSession struct {
	WorkoutID string    `json:"workout_id"`
	Date      time.Time `json:"date"`
	Sets      []Set     `json:"sets"`
}

// AllCompleted reports whether the session has sets and all of them were completed.
func (s ExerciseSession) AllCompleted() bool {
	return ExerciseSet{Exercise: Exercise{}, Sets: s.Sets}.AllCompleted() //nolint:exhaustruct // only sets matter
}

// MaxWeightKg returns the heaviest weight lifted in the session or 0.
func (s ExerciseSession) MaxWeightKg() float64 {
	var maxWeight float64
	for _, set := range s.Sets {
		maxWeight = max(maxWeight, set.WeightKg)
	}
	return maxWeight
}

// PersonalRecord is the heaviest weight ever logged for an exercise.
type PersonalRecord struct {
	WeightKg float64   `json:"weight_kg"`
	Reps     int       `json:"reps"`
	Date     time.Time `json:"date"`
}

// ExerciseHistory is the chronological record of one exercise across the workout history.
type ExerciseHistory struct {
	ExerciseID     string            `json:"exercise_id"`
	Sessions       []ExerciseSession `json:"sessions"`
	PersonalRecord *PersonalRecord   `json:"personal_record,omitempty"`
}

// LastSession returns the most recent session.
func (h ExerciseHistory) LastSession() (ExerciseSession, bool) {
	if len(h.Sessions) == 0 {
		return ExerciseSession{}, false
	}
	return h.Sessions[len(h.Sessions)-1], true
}

// Plan is the output of a generation strategy.
type Plan struct {
	StrategyID         string                    `json:"strategy_id"`
	Exercises          []Exercise                `json:"exercises"`
	TargetMuscleGroups []MuscleGroup             `json:"target_muscle_groups"`
	RestDays           int                       `json:"rest_days"`
	Kind               Kind                      `json:"kind"`
	Intensity          Intensity                 `json:"intensity"`
	SubType            SubType                   `json:"sub_type,omitempty"`
	Progression        map[string]Recommendation `json:"progression,omitempty"`
	Metadata           *PlanMetadata             `json:"metadata,omitempty"`
}

// PlanMetadata distinguishes main movements from accessories appended after them.
type PlanMetadata struct {
	MainExerciseCount int             `json:"main_exercise_count"`
	Accessories       []AccessoryInfo `json:"accessories"`
}

type AccessoryInfo struct {
	ExerciseID string `json:"exercise_id"`
	Category   string `json:"category"`
}
