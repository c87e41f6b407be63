package workout

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/myrjola/liftplan/internal/ptr"
	"github.com/myrjola/liftplan/internal/sqlite"
)

// DefaultActiveExerciseIDs is the active exercise set of users who have not picked their own.
//
//nolint:gochecknoglobals // default exercise selection.
var DefaultActiveExerciseIDs = []string{
	"backsquat",
	"frontsquat",
	"conventionaldeadlift",
	"rumaniandead",
	"benchpress",
	"overheadpress",
	"pullup",
	"barbellbentoverrow",
	"plank",
	"barbellcurl",
	"lyinglegcurl",
}

// Recorder receives domain events, typically to update metrics.
type Recorder interface {
	PlanGenerated(strategyID string, subType SubType)
	AccessorySelected(label string)
	GenerationVetoed(subType SubType)
	RotationStoreFailed(operation string)
	WorkoutCompleted(strategyID string)
}

type nopRecorder struct{}

func (nopRecorder) PlanGenerated(string, SubType) {}
func (nopRecorder) AccessorySelected(string) {}
func (nopRecorder) GenerationVetoed(SubType) {}
func (nopRecorder) RotationStoreFailed(string) {}
func (nopRecorder) WorkoutCompleted(string) {}

// recordingRotationStore reports store failures to the recorder.
type recordingRotationStore struct {
	next     RotationStore
	recorder Recorder
}

func (s recordingRotationStore) LoadRotationState(ctx context.Context) (RotationState, error) {
	state, err := s.next.LoadRotationState(ctx)
	if err != nil {
		s.recorder.RotationStoreFailed("load")
	}
	return state, err //nolint:wrapcheck // wrapped by the rotation policy
}

func (s recordingRotationStore) SaveRotationState(ctx context.Context, state RotationState) error {
	err := s.next.SaveRotationState(ctx, state)
	if err != nil {
		s.recorder.RotationStoreFailed("save")
	}
	return err //nolint:wrapcheck // wrapped by the rotation policy
}

// Service handles the business logic for workout generation and tracking.
type Service struct {
	repo               *repository
	logger             *slog.Logger
	strategies         Strategies
	rotation           *AccessoryRotation
	plans              []ProgressionPlan
	progressionEnabled bool
	defaultStrategyID  string
	recorder           Recorder
	now                func() time.Time
}

type serviceConfig struct {
	rotationStore      RotationStore
	cacheSizeMegabytes int
	cacheTTL           time.Duration
	rng                Rand
	recorder           Recorder
	plans              []ProgressionPlan
	progressionEnabled bool
	defaultStrategyID  string
	now                func() time.Time
}

// Option configures a Service.
type Option func(*serviceConfig)

// WithRotationStore stores the accessory rotation state somewhere other than sqlite.
func WithRotationStore(store RotationStore) Option {
	return func(c *serviceConfig) {
		c.rotationStore = store
	}
}

// WithCatalogCache keeps the exercise catalog in memory for ttl.
func WithCatalogCache(sizeMegabytes int, ttl time.Duration) Option {
	return func(c *serviceConfig) {
		c.cacheSizeMegabytes = sizeMegabytes
		c.cacheTTL = ttl
	}
}

// WithRand sets the random source of the strategies.
func WithRand(rng Rand) Option {
	return func(c *serviceConfig) {
		c.rng = rng
	}
}

func WithRecorder(recorder Recorder) Option {
	return func(c *serviceConfig) {
		c.recorder = recorder
	}
}

// WithPlans replaces the built-in progression plan catalog.
func WithPlans(plans []ProgressionPlan) Option {
	return func(c *serviceConfig) {
		c.plans = plans
	}
}

func WithProgressionEnabled(enabled bool) Option {
	return func(c *serviceConfig) {
		c.progressionEnabled = enabled
	}
}

// WithDefaultStrategy selects the strategy used when a request does not name one.
func WithDefaultStrategy(id string) Option {
	return func(c *serviceConfig) {
		c.defaultStrategyID = id
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *serviceConfig) {
		c.now = now
	}
}

// NewService creates a new workout service.
func NewService(db *sqlite.Database, logger *slog.Logger, opts ...Option) (*Service, error) {
	cfg := serviceConfig{
		rotationStore:      nil,
		cacheSizeMegabytes: 0,
		cacheTTL:           0,
		rng:                GlobalRand{},
		recorder:           nopRecorder{},
		plans:              nil,
		progressionEnabled: true,
		defaultStrategyID:  StrategyIDCruiseMode,
		now:                time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.plans == nil {
		plans, err := DefaultPlans()
		if err != nil {
			return nil, fmt.Errorf("default progression plans: %w", err)
		}
		cfg.plans = plans
	}

	repo := newSQLiteRepository(db, logger)
	if cfg.rotationStore != nil {
		repo.rotation = cfg.rotationStore
	}
	if cfg.cacheSizeMegabytes > 0 && cfg.cacheTTL > 0 {
		repo.exercises = newCachedExerciseRepository(repo.exercises, cfg.cacheSizeMegabytes, cfg.cacheTTL, logger)
	}

	strategies := NewStrategies(cfg.rng)
	if _, err := strategies.Get(cfg.defaultStrategyID); err != nil {
		return nil, fmt.Errorf("default strategy: %w", err)
	}

	rotation := NewAccessoryRotation(recordingRotationStore{next: repo.rotation, recorder: cfg.recorder}, logger)

	return &Service{
		repo:               repo,
		logger:             logger,
		rotation:           rotation,
		strategies:         strategies,
		plans:              cfg.plans,
		progressionEnabled: cfg.progressionEnabled,
		defaultStrategyID:  cfg.defaultStrategyID,
		recorder:           cfg.recorder,
		now:                cfg.now,
	}, nil
}

// StrategyInfo describes a registered strategy.
type StrategyInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Default     bool   `json:"default"`
}

// Strategies lists the registered generation strategies.
func (s *Service) Strategies() []StrategyInfo {
	infos := make([]StrategyInfo, 0, len(s.strategies))
	for _, id := range s.strategies.IDs() {
		st := s.strategies[id]
		infos = append(infos, StrategyInfo{
			ID:          st.ID(),
			Name:        st.Name(),
			Description: st.Description(),
			Default:     st.ID() == s.defaultStrategyID,
		})
	}
	return infos
}

// userState is everything a generation or replacement reads about the user.
type userState struct {
	catalog  []Exercise
	prefs    Preferences
	workouts []Workout
}

// loadUserState reads the catalog, the preferences and the workouts of the user concurrently.
func (s *Service) loadUserState(ctx context.Context) (userState, error) {
	var state userState
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if state.catalog, err = s.repo.exercises.List(gctx); err != nil {
			return fmt.Errorf("list exercises: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if state.prefs, err = s.repo.preferences.Get(gctx); err != nil {
			return fmt.Errorf("get preferences: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if state.workouts, err = s.repo.workouts.List(gctx); err != nil {
			return fmt.Errorf("list workouts: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return userState{}, err //nolint:wrapcheck // wrapped in the goroutines
	}
	return state, nil
}

// history returns the completed workouts. Workouts in progress do not count as performed.
func (u userState) history() History {
	h := make(History, len(u.workouts))
	for _, w := range u.workouts {
		if w.Completed {
			h[w.ID] = w
		}
	}
	return h
}

func (u userState) activeExerciseIDs() []string {
	if u.prefs.ActiveExerciseIDs == nil {
		return slices.Clone(DefaultActiveExerciseIDs)
	}
	return u.prefs.ActiveExerciseIDs
}

func (u userState) activeExercises() []Exercise {
	return filterByIDs(u.catalog, u.activeExerciseIDs())
}

func (s *Service) progression(prefs Preferences) *ProgressionService {
	return NewProgressionService(s.plans, prefs.Progression, s.progressionEnabled)
}

func (s *Service) strategy(id string) Strategy {
	if st, err := s.strategies.Get(id); err == nil {
		return st
	}
	return s.strategies[s.defaultStrategyID]
}

// GeneratePlan builds a plan of the given sub-type with the named strategy, or the default strategy when
// strategyID is empty. A third consecutive upper or lower body workout is refused with a *ConsecutiveTypeError.
func (s *Service) GeneratePlan(ctx context.Context, subType SubType, strategyID string) (Plan, error) {
	if strategyID == "" {
		strategyID = s.defaultStrategyID
	}
	strategy, err := s.strategies.Get(strategyID)
	if err != nil {
		return Plan{}, fmt.Errorf("get strategy: %w", err)
	}
	if subType == "" {
		subType = SubTypeFullBody
	}

	state, err := s.loadUserState(ctx)
	if err != nil {
		return Plan{}, err
	}

	if !state.prefs.RecentTypes.CanGenerate(subType) {
		s.recorder.GenerationVetoed(subType)
		s.logger.LogAttrs(ctx, slog.LevelInfo, "refused consecutive workout type",
			slog.String("sub_type", string(subType)))
		return Plan{}, &ConsecutiveTypeError{SubType: subType}
	}

	plan, err := strategy.Generate(ctx, GenerateRequest{
		Catalog:           state.catalog,
		ActiveExerciseIDs: state.activeExerciseIDs(),
		History:           state.history(),
		SubType:           subType,
		Progression:       s.progression(state.prefs),
		Rotation:          s.rotation,
	})
	if err != nil {
		return Plan{}, fmt.Errorf("generate %s plan: %w", strategyID, err)
	}

	s.recorder.PlanGenerated(strategyID, subType)
	if plan.Metadata != nil {
		for _, a := range plan.Metadata.Accessories {
			s.recorder.AccessorySelected(a.Category)
		}
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "generated plan",
		slog.String("strategy_id", strategyID),
		slog.String("sub_type", string(subType)),
		slog.Int("exercises", len(plan.Exercises)))
	return plan, nil
}

// StartWorkoutRequest names the exercises of a plan the user decided to do.
type StartWorkoutRequest struct {
	StrategyID  string   `json:"strategy_id"`
	SubType     SubType  `json:"sub_type"`
	ExerciseIDs []string `json:"exercise_ids"`
}

// StartWorkout stores a new workout with its sets prefilled from the progression recommendations.
func (s *Service) StartWorkout(ctx context.Context, req StartWorkoutRequest) (Workout, error) {
	state, err := s.loadUserState(ctx)
	if err != nil {
		return Workout{}, err
	}
	progression := s.progression(state.prefs)
	history := state.history()

	w := Workout{
		ID:           uuid.NewString(),
		Date:         s.now().UTC().Truncate(time.Millisecond),
		Completed:    false,
		SubType:      req.SubType,
		StrategyID:   req.StrategyID,
		ExerciseSets: make([]ExerciseSet, 0, len(req.ExerciseIDs)),
	}
	for _, id := range req.ExerciseIDs {
		idx := slices.IndexFunc(state.catalog, func(e Exercise) bool { return e.ID == id })
		if idx < 0 {
			return Workout{}, fmt.Errorf("exercise %s: %w", id, ErrNotFound)
		}
		if exerciseSetIndex(w, id) >= 0 {
			continue
		}
		e := state.catalog[idx]
		w.ExerciseSets = append(w.ExerciseSets, prefilledExerciseSet(e, progression.CalculateProgression(e, history)))
	}

	if err = s.repo.workouts.Create(ctx, w); err != nil {
		return Workout{}, fmt.Errorf("create workout: %w", err)
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "started workout",
		slog.String("workout_id", w.ID),
		slog.Int("exercises", len(w.ExerciseSets)))
	return w, nil
}

func prefilledExerciseSet(e Exercise, rec Recommendation) ExerciseSet {
	n := ptr.Deref(rec.Sets, defaultSets)
	if n <= 0 {
		n = defaultSets
	}
	sets := make([]Set, n)
	for i := range sets {
		sets[i] = Set{
			WeightKg:  rec.WeightKg,
			Reps:      rec.Reps,
			Completed: false,
		}
	}
	return ExerciseSet{
		Exercise: e,
		Sets:     sets,
	}
}

func exerciseSetIndex(w Workout, exerciseID string) int {
	return slices.IndexFunc(w.ExerciseSets, func(es ExerciseSet) bool {
		return es.Exercise.ID == exerciseID
	})
}

func (s *Service) GetWorkout(ctx context.Context, id string) (Workout, error) {
	w, err := s.repo.workouts.Get(ctx, id)
	if err != nil {
		return Workout{}, fmt.Errorf("get workout: %w", err)
	}
	return w, nil
}

// ListWorkouts returns the workout history, newest first.
func (s *Service) ListWorkouts(ctx context.Context) ([]Workout, error) {
	workouts, err := s.repo.workouts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	return workouts, nil
}

func (s *Service) DeleteWorkout(ctx context.Context, id string) error {
	if err := s.repo.workouts.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}
	return nil
}

// UpdateSet records the outcome of one set of an unfinished workout.
func (s *Service) UpdateSet(ctx context.Context, workoutID, exerciseID string, setIndex int, set Set) (Workout, error) {
	if set.WeightKg < 0 || set.Reps < 0 {
		return Workout{}, fmt.Errorf("%w: weight %g, reps %d", ErrInvalidSet, set.WeightKg, set.Reps)
	}
	var updated Workout
	if err := s.repo.workouts.Update(ctx, workoutID, func(w *Workout) (bool, error) {
		if w.Completed {
			return false, ErrWorkoutCompleted
		}
		i := exerciseSetIndex(*w, exerciseID)
		if i < 0 || setIndex < 0 || setIndex >= len(w.ExerciseSets[i].Sets) {
			return false, fmt.Errorf("set %d of exercise %s: %w", setIndex, exerciseID, ErrNotFound)
		}
		w.ExerciseSets[i].Sets[setIndex] = set
		updated = *w
		return true, nil
	}); err != nil {
		return Workout{}, fmt.Errorf("update workout %s: %w", workoutID, err)
	}
	return updated, nil
}

// CompleteWorkout marks the workout completed and pushes its sub-type into the recent workout types.
func (s *Service) CompleteWorkout(ctx context.Context, id string) (Workout, error) {
	completed, err := s.repo.workouts.Complete(ctx, id)
	if err != nil {
		return Workout{}, fmt.Errorf("complete workout %s: %w", id, err)
	}
	s.recorder.WorkoutCompleted(completed.StrategyID)
	s.logger.LogAttrs(ctx, slog.LevelInfo, "completed workout",
		slog.String("workout_id", id),
		slog.String("sub_type", string(completed.SubType)))
	return completed, nil
}

// replacer picks a replacement for current from pool.
type replacer func(strategy Strategy, current Exercise, pool []Exercise, history History) (Exercise, bool)

// SwitchExercise replaces an exercise of an unfinished workout, alternating between the two least recently used
// exercises of its category.
func (s *Service) SwitchExercise(ctx context.Context, workoutID, exerciseID string) (Workout, error) {
	return s.replaceExercise(ctx, workoutID, exerciseID,
		func(strategy Strategy, current Exercise, pool []Exercise, history History) (Exercise, bool) {
			return strategy.Switch(current, pool, history), true
		})
}

// ReproposeExercise replaces an exercise of an unfinished workout with a random exercise of its category.
func (s *Service) ReproposeExercise(ctx context.Context, workoutID, exerciseID string) (Workout, error) {
	return s.replaceExercise(ctx, workoutID, exerciseID,
		func(strategy Strategy, current Exercise, pool []Exercise, _ History) (Exercise, bool) {
			return strategy.Repropose(current, pool)
		})
}

func (s *Service) replaceExercise(ctx context.Context, workoutID, exerciseID string, replace replacer) (
	Workout, error,
) {
	state, err := s.loadUserState(ctx)
	if err != nil {
		return Workout{}, err
	}
	history := state.history()
	active := state.activeExercises()
	progression := s.progression(state.prefs)

	var updated Workout
	if err = s.repo.workouts.Update(ctx, workoutID, func(w *Workout) (bool, error) {
		if w.Completed {
			return false, ErrWorkoutCompleted
		}
		i := exerciseSetIndex(*w, exerciseID)
		if i < 0 {
			return false, fmt.Errorf("exercise %s in workout: %w", exerciseID, ErrNotFound)
		}
		current := w.ExerciseSets[i].Exercise
		pool := replacementPool(current, active, *w)

		replacement, ok := replace(s.strategy(w.StrategyID), current, pool, history)
		updated = *w
		if !ok || replacement.ID == current.ID {
			return false, nil
		}
		w.ExerciseSets[i] = prefilledExerciseSet(replacement, progression.CalculateProgression(replacement, history))
		updated = *w
		return true, nil
	}); err != nil {
		return Workout{}, fmt.Errorf("update workout %s: %w", workoutID, err)
	}
	return updated, nil
}

// Alternatives offers the two least recently used exercises that could replace an exercise of the workout.
func (s *Service) Alternatives(ctx context.Context, workoutID, exerciseID string) ([]Exercise, error) {
	state, err := s.loadUserState(ctx)
	if err != nil {
		return nil, err
	}
	w, err := s.repo.workouts.Get(ctx, workoutID)
	if err != nil {
		return nil, fmt.Errorf("get workout: %w", err)
	}
	i := exerciseSetIndex(w, exerciseID)
	if i < 0 {
		return nil, fmt.Errorf("exercise %s in workout: %w", exerciseID, ErrNotFound)
	}
	current := w.ExerciseSets[i].Exercise
	pool := filterOutExercise(replacementPool(current, state.activeExercises(), w), current.ID)
	return s.strategy(w.StrategyID).Alternatives(current, pool, state.history()), nil
}

// replacementPool is the category pool of current: active exercises sharing its main movement category, or its
// accessory group when it is an accessory. Exercises already in the workout are left out, except current.
func replacementPool(current Exercise, active []Exercise, w Workout) []Exercise {
	inWorkout := func(id string) bool {
		return id != current.ID && exerciseSetIndex(w, id) >= 0
	}
	category, isMain := mainCategory(current)
	group, isAccessory := accessoryGroupOf(current)

	var pool []Exercise
	for _, e := range active {
		if inWorkout(e.ID) {
			continue
		}
		switch {
		case isMain:
			if e.HasCategory(category) {
				pool = append(pool, e)
			}
		case isAccessory:
			if g, ok := accessoryGroupOf(e); ok && g == group {
				pool = append(pool, e)
			}
		default:
			if e.TrainsAny(current.MuscleGroups) {
				pool = append(pool, e)
			}
		}
	}
	return pool
}

func mainCategory(e Exercise) (Category, bool) {
	for _, c := range e.Categories {
		switch c {
		case CategoryKneeDominant, CategoryHipDominant, CategoryUpperBodyPush, CategoryUpperBodyPull:
			return c, true
		}
	}
	return "", false
}

// ActiveExercises returns the exercises the generator draws from.
func (s *Service) ActiveExercises(ctx context.Context) ([]Exercise, error) {
	prefs, err := s.repo.preferences.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	catalog, err := s.repo.exercises.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	return userState{catalog: catalog, prefs: prefs, workouts: nil}.activeExercises(), nil
}

// SetActiveExercises replaces the active exercise set. Every id must exist in the catalog. A nil ids resets the user
// to DefaultActiveExerciseIDs, while an empty slice is an explicitly empty set.
func (s *Service) SetActiveExercises(ctx context.Context, ids []string) error {
	if ids == nil {
		if err := s.repo.preferences.Update(ctx, func(p *Preferences) (bool, error) {
			p.ActiveExerciseIDs = nil
			return true, nil
		}); err != nil {
			return fmt.Errorf("reset active exercises: %w", err)
		}
		return nil
	}

	catalog, err := s.repo.exercises.List(ctx)
	if err != nil {
		return fmt.Errorf("list exercises: %w", err)
	}
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if !containsExercise(catalog, id) {
			return fmt.Errorf("exercise %s: %w", id, ErrNotFound)
		}
		if !slices.Contains(unique, id) {
			unique = append(unique, id)
		}
	}

	if err = s.repo.preferences.Update(ctx, func(p *Preferences) (bool, error) {
		p.ActiveExerciseIDs = unique
		return true, nil
	}); err != nil {
		return fmt.Errorf("update preferences: %w", err)
	}
	return nil
}

// RecentTypes returns the sub-types of the latest completed workouts, newest first.
func (s *Service) RecentTypes(ctx context.Context) (RecentTypes, error) {
	prefs, err := s.repo.preferences.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	return prefs.RecentTypes, nil
}

// PlanSummary describes a progression plan without its rules.
type PlanSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Premium     bool   `json:"premium"`
}

type ProgressionOverview struct {
	Plans        []PlanSummary `json:"plans"`
	ActivePlanID string        `json:"active_plan_id"`
	Premium      bool          `json:"premium"`
	Enabled      bool          `json:"enabled"`
}

// ProgressionPlans lists the plans available to the user together with the active plan.
func (s *Service) ProgressionPlans(ctx context.Context) (ProgressionOverview, error) {
	prefs, err := s.repo.preferences.Get(ctx)
	if err != nil {
		return ProgressionOverview{}, fmt.Errorf("get preferences: %w", err)
	}
	ps := s.progression(prefs)
	overview := ProgressionOverview{
		Plans:        nil,
		ActivePlanID: ps.Settings().ActivePlanID,
		Premium:      ps.IsPremium(),
		Enabled:      ps.Enabled(),
	}
	for _, p := range ps.AvailablePlans() {
		overview.Plans = append(overview.Plans, PlanSummary{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Premium:     p.Premium,
		})
	}
	return overview, nil
}

// SetActivePlan activates a plan and returns the resulting active plan id. Unknown plans and premium plans of
// free users leave the active plan unchanged.
func (s *Service) SetActivePlan(ctx context.Context, planID string) (string, error) {
	var active string
	if err := s.repo.preferences.Update(ctx, func(p *Preferences) (bool, error) {
		ps := s.progression(*p)
		ps.SetActivePlan(planID)
		next := ps.Settings()
		active = next.ActivePlanID
		if next == p.Progression {
			return false, nil
		}
		p.Progression = next
		return true, nil
	}); err != nil {
		return "", fmt.Errorf("update preferences: %w", err)
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "set active progression plan",
		slog.String("requested", planID),
		slog.String("active", active))
	return active, nil
}

func (s *Service) UpgradeToPremium(ctx context.Context) error {
	if err := s.repo.preferences.Update(ctx, func(p *Preferences) (bool, error) {
		if p.Progression.Premium {
			return false, nil
		}
		p.Progression.Premium = true
		return true, nil
	}); err != nil {
		return fmt.Errorf("update preferences: %w", err)
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "upgraded to premium")
	return nil
}

// ExerciseProgress is the recommendation for the next session of an exercise with the history behind it.
type ExerciseProgress struct {
	Exercise       Exercise        `json:"exercise"`
	Recommendation Recommendation  `json:"recommendation"`
	History        ExerciseHistory `json:"history"`
}

func (s *Service) ExerciseProgress(ctx context.Context, exerciseID string) (ExerciseProgress, error) {
	state, err := s.loadUserState(ctx)
	if err != nil {
		return ExerciseProgress{}, err
	}
	idx := slices.IndexFunc(state.catalog, func(e Exercise) bool { return e.ID == exerciseID })
	if idx < 0 {
		return ExerciseProgress{}, fmt.Errorf("exercise %s: %w", exerciseID, ErrNotFound)
	}
	exercise := state.catalog[idx]
	history := state.history()
	return ExerciseProgress{
		Exercise:       exercise,
		Recommendation: s.progression(state.prefs).CalculateProgression(exercise, history),
		History:        BuildExerciseHistory(exerciseID, history),
	}, nil
}

// AccessoryFocus is the upper and lower accessory group the next full body plan draws from.
type AccessoryFocus struct {
	Upper AccessoryGroup `json:"upper"`
	Lower AccessoryGroup `json:"lower"`
}

func (s *Service) AccessoryFocus(ctx context.Context) (AccessoryFocus, error) {
	upper, lower, err := s.rotation.CurrentFocus(ctx)
	if err != nil {
		return AccessoryFocus{}, fmt.Errorf("current accessory focus: %w", err)
	}
	return AccessoryFocus{
		Upper: upper,
		Lower: lower,
	}, nil
}

// StrategyStats summarises the workout history per strategy, most recently used first.
func (s *Service) StrategyStats(ctx context.Context) ([]StrategyStats, error) {
	workouts, err := s.repo.workouts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	return ComputeStrategyStats(workouts), nil
}

// Exercise returns a single catalog exercise.
func (s *Service) Exercise(ctx context.Context, id string) (Exercise, error) {
	e, err := s.repo.exercises.Get(ctx, id)
	if err != nil {
		return Exercise{}, fmt.Errorf("get exercise: %w", err)
	}
	return e, nil
}

// Exercises searches the catalog. An empty term matches everything and empty groups do not filter.
func (s *Service) Exercises(ctx context.Context, term string, groups []MuscleGroup) ([]Exercise, error) {
	var (
		exercises []Exercise
		err       error
	)
	switch {
	case term != "":
		if exercises, err = s.repo.exercises.Search(ctx, term); err == nil && len(groups) > 0 {
			exercises = filterByMuscleGroups(exercises, groups)
		}
	case len(groups) > 0:
		exercises, err = s.repo.exercises.ByMuscleGroups(ctx, groups)
	default:
		exercises, err = s.repo.exercises.List(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("search exercises: %w", err)
	}
	return exercises, nil
}
