package workout

import (
	"cmp"
	_ "embed"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed plans/plans.yaml
var defaultPlansYAML []byte

// DefaultProgressionPlanID is active until the user picks another plan.
const DefaultProgressionPlanID = "memory"

// ProgressionPlan is a named, ordered list of rules. Only the first rule is applied.
type ProgressionPlan struct {
	ID          string
	Name        string
	Description string
	Premium     bool
	Rules       []Rule
}

type plansFile struct {
	Plans []planEntry `yaml:"plans"`
}

type planEntry struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Premium     bool        `yaml:"premium"`
	Rules       []ruleEntry `yaml:"rules"`
}

type ruleEntry struct {
	ID         string `yaml:"id"`
	RuleParams `yaml:",inline"`
}

// DefaultPlans returns the built-in plan catalog.
func DefaultPlans() ([]ProgressionPlan, error) {
	return ParsePlans(defaultPlansYAML)
}

// ParsePlans parses a YAML plan catalog and builds the rules through the rule registry.
func ParsePlans(data []byte) ([]ProgressionPlan, error) {
	var file plansFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal plans: %w", err)
	}
	if len(file.Plans) == 0 {
		return nil, fmt.Errorf("%w: no plans defined", ErrInvalidPlans)
	}

	plans := make([]ProgressionPlan, 0, len(file.Plans))
	seen := make(map[string]struct{}, len(file.Plans))
	for _, entry := range file.Plans {
		if entry.ID == "" {
			return nil, fmt.Errorf("%w: plan without id", ErrInvalidPlans)
		}
		if _, ok := seen[entry.ID]; ok {
			return nil, fmt.Errorf("%w: duplicate plan id %s", ErrInvalidPlans, entry.ID)
		}
		seen[entry.ID] = struct{}{}
		if len(entry.Rules) == 0 {
			return nil, fmt.Errorf("%w: plan %s has no rules", ErrInvalidPlans, entry.ID)
		}

		plan := ProgressionPlan{
			ID:          entry.ID,
			Name:        entry.Name,
			Description: entry.Description,
			Premium:     entry.Premium,
			Rules:       make([]Rule, 0, len(entry.Rules)),
		}
		for _, re := range entry.Rules {
			rule, err := NewRule(re.ID, re.RuleParams)
			if err != nil {
				return nil, fmt.Errorf("plan %s: %w", entry.ID, err)
			}
			plan.Rules = append(plan.Rules, rule)
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

// ProgressionSettings is the per-user state of the progression service.
type ProgressionSettings struct {
	ActivePlanID string `json:"active_plan_id"`
	Premium      bool   `json:"premium"`
}

// ProgressionService manages the plan catalog, the active plan pointer and premium gating for one user.
type ProgressionService struct {
	plans        []ProgressionPlan
	activePlanID string
	premium      bool
	enabled      bool
}

// NewProgressionService restores a service from settings. An empty or unknown active plan selects the default.
func NewProgressionService(plans []ProgressionPlan, settings ProgressionSettings, enabled bool) *ProgressionService {
	s := &ProgressionService{
		plans:        plans,
		activePlanID: DefaultProgressionPlanID,
		premium:      settings.Premium,
		enabled:      enabled,
	}
	if _, ok := s.plan(settings.ActivePlanID); ok {
		s.activePlanID = settings.ActivePlanID
	}
	return s
}

func (s *ProgressionService) plan(id string) (ProgressionPlan, bool) {
	for _, p := range s.plans {
		if p.ID == id {
			return p, true
		}
	}
	return ProgressionPlan{}, false
}

// AvailablePlans lists the plans the user may activate.
func (s *ProgressionService) AvailablePlans() []ProgressionPlan {
	var available []ProgressionPlan
	for _, p := range s.plans {
		if !p.Premium || s.premium {
			available = append(available, p)
		}
	}
	return available
}

// ActivePlan returns the active plan or false if the catalog does not contain it.
func (s *ProgressionService) ActivePlan() (ProgressionPlan, bool) {
	return s.plan(s.activePlanID)
}

// SetActivePlan activates the plan if it exists and the user is entitled to it. Otherwise it does nothing.
func (s *ProgressionService) SetActivePlan(id string) {
	p, ok := s.plan(id)
	if !ok || (p.Premium && !s.premium) {
		return
	}
	s.activePlanID = id
}

func (s *ProgressionService) UpgradeToPremium() {
	s.premium = true
}

func (s *ProgressionService) IsPremium() bool {
	return s.premium
}

func (s *ProgressionService) Enabled() bool {
	return s.enabled
}

// Settings returns the state to persist.
func (s *ProgressionService) Settings() ProgressionSettings {
	return ProgressionSettings{
		ActivePlanID: s.activePlanID,
		Premium:      s.premium,
	}
}

// CalculateProgression recommends the next load of exercise using the first rule of the active plan.
func (s *ProgressionService) CalculateProgression(exercise Exercise, history History) Recommendation {
	plan, ok := s.ActivePlan()
	if !s.enabled || !ok || len(plan.Rules) == 0 {
		return neutralRecommendation("Enter your preferred weight and reps")
	}
	return plan.Rules[0].Calculate(exercise, BuildExerciseHistory(exercise.ID, history))
}

// BuildExerciseHistory collects the sessions of one exercise in chronological order together with the personal
// record. Only the first entry of the exercise in each workout is used and entries without sets are skipped.
func BuildExerciseHistory(exerciseID string, history History) ExerciseHistory {
	workouts := make([]Workout, 0, len(history))
	for _, w := range history {
		workouts = append(workouts, w)
	}
	slices.SortFunc(workouts, func(a, b Workout) int {
		return cmp.Or(a.Date.Compare(b.Date), cmp.Compare(a.ID, b.ID))
	})

	eh := ExerciseHistory{
		ExerciseID:     exerciseID,
		Sessions:       nil,
		PersonalRecord: nil,
	}
	for _, w := range workouts {
		idx := slices.IndexFunc(w.ExerciseSets, func(es ExerciseSet) bool {
			return es.Exercise.ID == exerciseID
		})
		if idx < 0 || len(w.ExerciseSets[idx].Sets) == 0 {
			continue
		}
		session := ExerciseSession{
			WorkoutID: w.ID,
			Date:      w.Date,
			Sets:      w.ExerciseSets[idx].Sets,
		}
		eh.Sessions = append(eh.Sessions, session)

		for _, set := range session.Sets {
			if set.WeightKg <= 0 {
				continue
			}
			if eh.PersonalRecord == nil || set.WeightKg > eh.PersonalRecord.WeightKg {
				eh.PersonalRecord = &PersonalRecord{
					WeightKg: set.WeightKg,
					Reps:     set.Reps,
					Date:     w.Date,
				}
			}
		}
	}
	return eh
}
