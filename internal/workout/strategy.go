package workout

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
)

// GenerateRequest is the input of a generation strategy.
type GenerateRequest struct {
	// Catalog is the full exercise catalog.
	Catalog []Exercise
	// ActiveExerciseIDs restricts the catalog to the exercises the user opted into. Nil means the whole catalog.
	ActiveExerciseIDs []string
	History           History
	// SubType defaults to full body.
	SubType SubType
	// Progression attaches a recommendation per selected exercise when set.
	Progression *ProgressionService
	// Rotation adds accessories to full body plans when set.
	Rotation *AccessoryRotation
}

func (r GenerateRequest) activeExercises() []Exercise {
	if r.ActiveExerciseIDs == nil {
		return r.Catalog
	}
	return filterByIDs(r.Catalog, r.ActiveExerciseIDs)
}

func (r GenerateRequest) subType() SubType {
	if r.SubType == "" {
		return SubTypeFullBody
	}
	return r.SubType
}

// Strategy builds workout plans and answers the interactive replacement operations.
type Strategy interface {
	ID() string
	Name() string
	Description() string
	Generate(ctx context.Context, req GenerateRequest) (Plan, error)
	// Switch toggles between the two least recently used exercises of the pool.
	Switch(current Exercise, pool []Exercise, history History) Exercise
	// Repropose picks a random replacement without looking at history or rotation state.
	Repropose(current Exercise, pool []Exercise) (Exercise, bool)
	// Alternatives offers the two least recently used exercises of the pool.
	Alternatives(current Exercise, available []Exercise, history History) []Exercise
}

const (
	StrategyIDCruiseMode = "cruise_mode"
	StrategyIDStrength   = "strength"
	StrategyIDEndurance  = "endurance"
)

// Strategies is the registry of generation strategies keyed by id.
type Strategies map[string]Strategy

// NewStrategies registers the built-in strategies, all drawing from rng.
func NewStrategies(rng Rand) Strategies {
	base := baseStrategy{rng: rng}
	strategies := Strategies{}
	strategies.Register(&CruiseModeStrategy{baseStrategy: base})
	strategies.Register(&StrengthStrategy{baseStrategy: base})
	strategies.Register(&EnduranceStrategy{baseStrategy: base})
	return strategies
}

func (s Strategies) Register(strategy Strategy) {
	s[strategy.ID()] = strategy
}

// Get looks up a strategy by id.
func (s Strategies) Get(id string) (Strategy, error) {
	strategy, ok := s[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, id)
	}
	return strategy, nil
}

// IDs returns the registered strategy ids in sorted order.
func (s Strategies) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// GlobalRand draws from the goroutine-safe top-level source of math/rand/v2.
type GlobalRand struct{}

func (GlobalRand) IntN(n int) int {
	return rand.IntN(n) //nolint:gosec // selection randomness is not security sensitive
}

// baseStrategy implements the interactive operations shared by all strategies.
type baseStrategy struct {
	rng Rand
}

func (b baseStrategy) Switch(current Exercise, pool []Exercise, history History) Exercise {
	return SwitchBetweenTwoLeastRecent(b.rng, current, pool, history)
}

func (b baseStrategy) Repropose(current Exercise, pool []Exercise) (Exercise, bool) {
	return RandomExcluding(b.rng, pool, current.ID)
}

func (b baseStrategy) Alternatives(_ Exercise, available []Exercise, history History) []Exercise {
	return TwoLeastRecentlyUsed(available, history)
}

// pickPair selects an exercise and a second, different one from the same pool.
func (b baseStrategy) pickPair(pool []Exercise, history History) []Exercise {
	var picked []Exercise
	first, ok := SelectWithFallback(b.rng, pool, history, FallbackRandom)
	if !ok {
		return nil
	}
	picked = append(picked, first)
	if second, ok := SelectWithFallback(b.rng, filterOutExercise(pool, first.ID), history, FallbackRandom); ok {
		picked = append(picked, second)
	}
	return picked
}

func attachProgression(plan *Plan, progression *ProgressionService, history History) {
	if progression == nil {
		return
	}
	plan.Progression = make(map[string]Recommendation, len(plan.Exercises))
	for _, e := range plan.Exercises {
		plan.Progression[e.ID] = progression.CalculateProgression(e, history)
	}
}

// TargetMuscleGroups returns the muscle groups a sub-type focuses on.
func TargetMuscleGroups(subType SubType) []MuscleGroup {
	switch subType {
	case SubTypeUpperBody:
		return []MuscleGroup{MuscleGroupChest, MuscleGroupBack, MuscleGroupShoulders, MuscleGroupArms}
	case SubTypeLowerBody:
		return []MuscleGroup{MuscleGroupLegs, MuscleGroupCore}
	case SubTypeFullBody:
		return []MuscleGroup{MuscleGroupLegs, MuscleGroupChest, MuscleGroupBack, MuscleGroupShoulders}
	default:
		return nil
	}
}

// CruiseModeStrategy covers the movement-pattern categories and rotates accessories on full body days.
type CruiseModeStrategy struct {
	baseStrategy
}

func (*CruiseModeStrategy) ID() string {
	return StrategyIDCruiseMode
}

func (*CruiseModeStrategy) Name() string {
	return "Cruise Mode"
}

func (*CruiseModeStrategy) Description() string {
	return "Balanced main movements with rotating accessories and least recently used selection"
}

func (s *CruiseModeStrategy) Generate(ctx context.Context, req GenerateRequest) (Plan, error) {
	active := req.activeExercises()
	subType := req.subType()

	var exercises []Exercise
	switch subType {
	case SubTypeUpperBody:
		exercises = append(exercises, s.pickPair(filterByCategory(active, CategoryUpperBodyPush), req.History)...)
		exercises = append(exercises, s.pickPair(filterByCategory(active, CategoryUpperBodyPull), req.History)...)
	case SubTypeLowerBody:
		exercises = append(exercises, s.pickPair(filterByCategory(active, CategoryKneeDominant), req.History)...)
		exercises = append(exercises, s.pickPair(filterByCategory(active, CategoryHipDominant), req.History)...)
	case SubTypeFullBody:
		for _, c := range []Category{
			CategoryKneeDominant, CategoryHipDominant, CategoryUpperBodyPush, CategoryUpperBodyPull,
		} {
			if e, ok := SelectWithFallback(s.rng, filterByCategory(active, c), req.History, FallbackRandom); ok {
				exercises = append(exercises, e)
			}
		}
	}

	plan := Plan{
		StrategyID:         s.ID(),
		Exercises:          exercises,
		TargetMuscleGroups: TargetMuscleGroups(subType),
		RestDays:           1,
		Kind:               KindStrength,
		Intensity:          IntensityLow,
		SubType:            subType,
		Progression:        nil,
		Metadata:           nil,
	}

	if subType == SubTypeFullBody && req.Rotation != nil {
		accessories, err := req.Rotation.SelectAccessories(ctx, active)
		if err != nil {
			return Plan{}, fmt.Errorf("select accessories: %w", err)
		}
		metadata := PlanMetadata{MainExerciseCount: len(exercises), Accessories: nil}
		for _, a := range accessories {
			if containsExercise(plan.Exercises, a.Exercise.ID) {
				continue
			}
			plan.Exercises = append(plan.Exercises, a.Exercise)
			metadata.Accessories = append(metadata.Accessories, AccessoryInfo{
				ExerciseID: a.Exercise.ID,
				Category:   a.Group.Label(),
			})
		}
		if len(metadata.Accessories) > 0 {
			plan.Metadata = &metadata
		}
	}

	attachProgression(&plan, req.Progression, req.History)
	return plan, nil
}

const (
	strengthPerSideLimit = 3
	strengthLimit        = 6
	enduranceLimit       = 8
)

// StrengthStrategy builds heavy compound sessions split into push and pull movements.
type StrengthStrategy struct {
	baseStrategy
}

func (*StrengthStrategy) ID() string {
	return StrategyIDStrength
}

func (*StrengthStrategy) Name() string {
	return "Strength"
}

func (*StrengthStrategy) Description() string {
	return "Compound movements focused on strength building with smart exercise rotation"
}

func (s *StrengthStrategy) Generate(_ context.Context, req GenerateRequest) (Plan, error) {
	var compound []Exercise
	for _, e := range req.activeExercises() {
		if e.HasTag(TagCompound) {
			compound = append(compound, e)
		}
	}
	subType := req.subType()

	var exercises []Exercise
	if subType == SubTypeFullBody {
		push := byRecency(filterByMuscleGroups(compound, []MuscleGroup{MuscleGroupChest, MuscleGroupShoulders}),
			req.History)
		pull := byRecency(filterByMuscleGroups(compound, []MuscleGroup{MuscleGroupBack, MuscleGroupArms}),
			req.History)
		exercises = appendUnique(exercises, push[:min(len(push), strengthPerSideLimit)]...)
		exercises = appendUnique(exercises, pull[:min(len(pull), strengthPerSideLimit)]...)
	} else {
		exercises = byRecency(filterByMuscleGroups(compound, TargetMuscleGroups(subType)), req.History)
	}

	plan := Plan{
		StrategyID:         s.ID(),
		Exercises:          exercises[:min(len(exercises), strengthLimit)],
		TargetMuscleGroups: TargetMuscleGroups(subType),
		RestDays:           2, //nolint:mnd // heavy sessions need more recovery
		Kind:               KindStrength,
		Intensity:          IntensityHigh,
		SubType:            subType,
		Progression:        nil,
		Metadata:           nil,
	}
	attachProgression(&plan, req.Progression, req.History)
	return plan, nil
}

// EnduranceStrategy builds high-rep circuits from bodyweight and machine exercises.
type EnduranceStrategy struct {
	baseStrategy
}

func (*EnduranceStrategy) ID() string {
	return StrategyIDEndurance
}

func (*EnduranceStrategy) Name() string {
	return "Endurance"
}

func (*EnduranceStrategy) Description() string {
	return "High-rep circuits focusing on muscular endurance with smart exercise rotation"
}

func (s *EnduranceStrategy) Generate(_ context.Context, req GenerateRequest) (Plan, error) {
	subType := req.subType()
	groups := TargetMuscleGroups(subType)
	if subType == SubTypeFullBody {
		groups = []MuscleGroup{
			MuscleGroupChest, MuscleGroupBack, MuscleGroupLegs, MuscleGroupShoulders,
			MuscleGroupArms, MuscleGroupCore, MuscleGroupFullBody,
		}
	}

	var circuit []Exercise
	for _, e := range req.activeExercises() {
		if e.UsesAny([]Equipment{EquipmentBodyweight, EquipmentMachine}) && e.TrainsAny(groups) {
			circuit = append(circuit, e)
		}
	}
	circuit = byRecency(circuit, req.History)

	plan := Plan{
		StrategyID:         s.ID(),
		Exercises:          circuit[:min(len(circuit), enduranceLimit)],
		TargetMuscleGroups: TargetMuscleGroups(subType),
		RestDays:           1,
		Kind:               KindEndurance,
		Intensity:          IntensityMedium,
		SubType:            subType,
		Progression:        nil,
		Metadata:           nil,
	}
	attachProgression(&plan, req.Progression, req.History)
	return plan, nil
}

func filterByMuscleGroups(pool []Exercise, groups []MuscleGroup) []Exercise {
	var filtered []Exercise
	for _, e := range pool {
		if e.TrainsAny(groups) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

func appendUnique(exercises []Exercise, more ...Exercise) []Exercise {
	for _, e := range more {
		if !containsExercise(exercises, e.ID) {
			exercises = append(exercises, e)
		}
	}
	return exercises
}
