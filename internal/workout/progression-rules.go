package workout

import (
	"fmt"
	"math"
	"strings"

	"github.com/myrjola/liftplan/internal/ptr"
)

// Rule converts the history of one exercise into a recommendation for its next session.
type Rule interface {
	// ID identifies the rule implementation in the rule registry.
	ID() string
	Calculate(exercise Exercise, history ExerciseHistory) Recommendation
}

const (
	RuleIDMemory = "memory"
	RuleIDLinear = "linear"
)

const (
	defaultSets = 3

	// StandardWeightIncrementKg is the default load increase of the linear rule.
	StandardWeightIncrementKg = 2.5
	defaultMinSuccessfulSessions = 1
	defaultStartingWeightKg      = 20.0
	compoundTargetReps           = 5
	isolationTargetReps          = 8
)

// RuleParams configures a rule built by [NewRule]. Zero values select the rule defaults.
type RuleParams struct {
	WeightIncrementKg     float64 `yaml:"weight_increment_kg"`
	MinSuccessfulSessions int     `yaml:"min_successful_sessions"`
}

type ruleFactory func(RuleParams) (Rule, error)

//nolint:gochecknoglobals // registry of built-in rules.
var ruleRegistry = map[string]ruleFactory{
	RuleIDMemory: func(RuleParams) (Rule, error) {
		return MemoryRule{}, nil
	},
	RuleIDLinear: func(p RuleParams) (Rule, error) {
		return NewLinearRule(p.WeightIncrementKg, p.MinSuccessfulSessions)
	},
}

// NewRule looks up the rule id in the registry and builds it with params.
func NewRule(id string, params RuleParams) (Rule, error) {
	factory, ok := ruleRegistry[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRule, id)
	}
	rule, err := factory(params)
	if err != nil {
		return nil, fmt.Errorf("build rule %s: %w", id, err)
	}
	return rule, nil
}

// neutralRecommendation is returned when there is nothing to base a recommendation on.
func neutralRecommendation(note string) Recommendation {
	return Recommendation{
		WeightKg:   0,
		Reps:       0,
		Sets:       ptr.Ref(defaultSets),
		Note:       note,
		Confidence: 0,
	}
}

// MemoryRule repeats what was done in the last session. It never suggests progression.
type MemoryRule struct{}

func (MemoryRule) ID() string {
	return RuleIDMemory
}

func (MemoryRule) Calculate(_ Exercise, history ExerciseHistory) Recommendation {
	last, ok := history.LastSession()
	if !ok {
		return neutralRecommendation("No previous data - enter your preferred weight and reps")
	}

	var (
		weight  float64
		repsSum int
		repsN   int
	)
	for _, s := range last.Sets {
		if s.WeightKg > 0 {
			weight = max(weight, s.WeightKg)
		}
		if s.Reps > 0 {
			repsSum += s.Reps
			repsN++
		}
	}
	var reps int
	if repsN > 0 {
		reps = roundHalfUp(float64(repsSum) / float64(repsN))
	}
	if weight == 0 && reps == 0 {
		return neutralRecommendation("No previous data - enter your preferred weight and reps")
	}

	return Recommendation{
		WeightKg:   weight,
		Reps:       reps,
		Sets:       ptr.Ref(len(last.Sets)),
		Note:       fmt.Sprintf("Last time: %gkg × %d reps × %d sets", weight, reps, len(last.Sets)),
		Confidence: 1,
	}
}

// roundHalfUp rounds to the nearest integer with halves rounded towards positive infinity.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5)) //nolint:mnd // half
}

// LinearRule adds a fixed increment after enough successful sessions.
type LinearRule struct {
	WeightIncrementKg     float64
	MinSuccessfulSessions int
}

// NewLinearRule builds a linear rule. Zero arguments select the defaults of 2.5 kg and one session.
func NewLinearRule(weightIncrementKg float64, minSuccessfulSessions int) (LinearRule, error) {
	if weightIncrementKg == 0 {
		weightIncrementKg = StandardWeightIncrementKg
	}
	if minSuccessfulSessions == 0 {
		minSuccessfulSessions = defaultMinSuccessfulSessions
	}
	if weightIncrementKg < 0 || minSuccessfulSessions < 0 {
		return LinearRule{}, fmt.Errorf("%w: increment %g, min successful sessions %d",
			ErrInvalidRuleParams, weightIncrementKg, minSuccessfulSessions)
	}
	return LinearRule{
		WeightIncrementKg:     weightIncrementKg,
		MinSuccessfulSessions: minSuccessfulSessions,
	}, nil
}

func (LinearRule) ID() string {
	return RuleIDLinear
}

//nolint:gochecknoglobals // starting weights keyed by normalised exercise name.
var startingWeightsKg = map[string]float64{
	"squat":          40,
	"deadlift":       50,
	"bench_press":    30,
	"overhead_press": 20,
}

func (r LinearRule) Calculate(exercise Exercise, history ExerciseHistory) Recommendation {
	reps := targetReps(exercise)

	last, ok := history.LastSession()
	if !ok {
		return Recommendation{
			WeightKg:   startingWeight(exercise),
			Reps:       reps,
			Sets:       ptr.Ref(defaultSets),
			Note:       "Starting weight for new exercise.",
			Confidence: 0.7, //nolint:mnd // no evidence yet
		}
	}

	lastWeight := last.MaxWeightKg()
	if len(r.successfulSessions(history)) >= r.MinSuccessfulSessions {
		return Recommendation{
			WeightKg:   lastWeight + r.WeightIncrementKg,
			Reps:       reps,
			Sets:       ptr.Ref(defaultSets),
			Note:       fmt.Sprintf("Previous weight completed successfully. Increase by %gkg.", r.WeightIncrementKg),
			Confidence: 0.8, //nolint:mnd // progression is a prediction
		}
	}
	return Recommendation{
		WeightKg:   lastWeight,
		Reps:       reps,
		Sets:       ptr.Ref(defaultSets),
		Note:       "Focus on completing all sets before increasing weight.",
		Confidence: 0.9, //nolint:mnd // holding is safe
	}
}

// successfulSessions looks at the latest MinSuccessfulSessions*2 sessions, keeps those with every set completed
// and returns the latest MinSuccessfulSessions of them.
func (r LinearRule) successfulSessions(history ExerciseHistory) []ExerciseSession {
	window := r.MinSuccessfulSessions * 2 //nolint:mnd // literal window size
	recent := history.Sessions[max(0, len(history.Sessions)-window):]

	var completed []ExerciseSession
	for _, s := range recent {
		if s.AllCompleted() {
			completed = append(completed, s)
		}
	}
	return completed[max(0, len(completed)-r.MinSuccessfulSessions):]
}

func targetReps(exercise Exercise) int {
	if exercise.HasTag(TagCompound) {
		return compoundTargetReps
	}
	return isolationTargetReps
}

func startingWeight(exercise Exercise) float64 {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(exercise.Name)), " ", "_")
	if w, ok := startingWeightsKg[key]; ok {
		return w
	}
	return defaultStartingWeightKg
}
