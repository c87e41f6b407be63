package workout

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// RotationState holds the round-robin cursors of the accessory rotation.
type RotationState struct {
	CoreIndex      int `json:"core_index"`
	UpperIndex     int `json:"upper_index"`
	UpperTypeIndex int `json:"upper_type_index"`
	LowerIndex     int `json:"lower_index"`
	LowerTypeIndex int `json:"lower_type_index"`
}

// RotationStore persists the rotation state of the user in the context.
//
// Load returns the zero state when nothing has been saved yet.
type RotationStore interface {
	LoadRotationState(ctx context.Context) (RotationState, error)
	SaveRotationState(ctx context.Context, state RotationState) error
}

// AccessoryGroup is the muscle focus an accessory exercise is classified into.
type AccessoryGroup string

const (
	AccessoryGroupCore       AccessoryGroup = "core"
	AccessoryGroupBiceps     AccessoryGroup = "biceps"
	AccessoryGroupTriceps    AccessoryGroup = "triceps"
	AccessoryGroupShoulder   AccessoryGroup = "shoulder"
	AccessoryGroupHamstring  AccessoryGroup = "hamstring"
	AccessoryGroupQuadriceps AccessoryGroup = "quadriceps"
	AccessoryGroupCalves     AccessoryGroup = "calves"
)

//nolint:gochecknoglobals // rotation order of the sub-groups.
var (
	upperAccessoryGroups = []AccessoryGroup{AccessoryGroupBiceps, AccessoryGroupTriceps, AccessoryGroupShoulder}
	lowerAccessoryGroups = []AccessoryGroup{AccessoryGroupHamstring, AccessoryGroupQuadriceps, AccessoryGroupCalves}
)

// DisplayName is the capitalised group name, e.g. "Biceps".
func (g AccessoryGroup) DisplayName() string {
	if g == "" {
		return ""
	}
	return strings.ToUpper(string(g[:1])) + string(g[1:])
}

// Label is the plan metadata category, e.g. "Core" or "Upper (Biceps)".
func (g AccessoryGroup) Label() string {
	switch {
	case g == AccessoryGroupCore:
		return "Core"
	case slices.Contains(upperAccessoryGroups, g):
		return "Upper (" + g.DisplayName() + ")"
	case slices.Contains(lowerAccessoryGroups, g):
		return "Lower (" + g.DisplayName() + ")"
	default:
		return g.DisplayName()
	}
}

// accessoryRule classifies an exercise into a sub-group by tag first and name substring second.
type accessoryRule struct {
	group      AccessoryGroup
	tag        string
	substrings []string
}

//nolint:gochecknoglobals // classification tables, first matching rule wins.
var (
	upperAccessoryRules = []accessoryRule{
		{group: AccessoryGroupBiceps, tag: "biceps", substrings: []string{"bicep", "curl"}},
		{group: AccessoryGroupTriceps, tag: "triceps", substrings: []string{"tricep"}},
		{group: AccessoryGroupShoulder, tag: "shoulder", substrings: []string{"shoulder", "lateral", "front"}},
	}
	lowerAccessoryRules = []accessoryRule{
		{group: AccessoryGroupHamstring, tag: "hamstring", substrings: []string{"hamstring", "leg curl"}},
		{group: AccessoryGroupQuadriceps, tag: "quadriceps", substrings: []string{"quad", "leg extension"}},
		{group: AccessoryGroupCalves, tag: "calves", substrings: []string{"calf"}},
	}
)

func (r accessoryRule) matches(e Exercise) bool {
	if e.HasTag(r.tag) {
		return true
	}
	name := strings.ToLower(e.Name)
	for _, s := range r.substrings {
		if strings.Contains(name, s) {
			return true
		}
	}
	return false
}

func classify(e Exercise, rules []accessoryRule) (AccessoryGroup, bool) {
	for _, r := range rules {
		if r.matches(e) {
			return r.group, true
		}
	}
	return "", false
}

// accessoryPools partitions the active exercises into the rotation pools, keeping input order.
type accessoryPools struct {
	core  []Exercise
	upper map[AccessoryGroup][]Exercise
	lower map[AccessoryGroup][]Exercise
}

func partitionAccessories(active []Exercise) accessoryPools {
	pools := accessoryPools{
		core:  nil,
		upper: make(map[AccessoryGroup][]Exercise),
		lower: make(map[AccessoryGroup][]Exercise),
	}
	for _, e := range active {
		if e.HasTag(TagCore) {
			pools.core = append(pools.core, e)
		}
		if e.HasTag(TagIsolation) && e.HasTag(TagUpperBody) {
			if g, ok := classify(e, upperAccessoryRules); ok {
				pools.upper[g] = append(pools.upper[g], e)
			}
		}
		if e.HasTag(TagIsolation) && e.HasTag(TagLowerBody) {
			if g, ok := classify(e, lowerAccessoryRules); ok {
				pools.lower[g] = append(pools.lower[g], e)
			}
		}
	}
	return pools
}

// Accessory is an exercise chosen by the rotation together with the group it was chosen for.
type Accessory struct {
	Exercise Exercise
	Group    AccessoryGroup
}

// rotateAccessories picks at most one core, one upper and one lower accessory using the cursors in state and
// returns the advanced state.
//
// Every cursor advances by one step even when its pool is empty so that the rotation keeps progressing.
func rotateAccessories(state RotationState, active []Exercise) ([]Accessory, RotationState) {
	pools := partitionAccessories(active)
	var selected []Accessory

	if len(pools.core) > 0 {
		selected = append(selected, Accessory{
			Exercise: pools.core[wrap(state.CoreIndex, len(pools.core))],
			Group:    AccessoryGroupCore,
		})
	}

	upperGroup := upperAccessoryGroups[wrap(state.UpperTypeIndex, len(upperAccessoryGroups))]
	upperPool := pools.upper[upperGroup]
	if len(upperPool) > 0 {
		selected = append(selected, Accessory{
			Exercise: upperPool[wrap(state.UpperIndex, len(upperPool))],
			Group:    upperGroup,
		})
	}

	lowerGroup := lowerAccessoryGroups[wrap(state.LowerTypeIndex, len(lowerAccessoryGroups))]
	lowerPool := pools.lower[lowerGroup]
	if len(lowerPool) > 0 {
		selected = append(selected, Accessory{
			Exercise: lowerPool[wrap(state.LowerIndex, len(lowerPool))],
			Group:    lowerGroup,
		})
	}

	next := RotationState{
		CoreIndex:      wrap(state.CoreIndex+1, len(pools.core)),
		UpperIndex:     wrap(state.UpperIndex+1, len(upperPool)),
		UpperTypeIndex: wrap(state.UpperTypeIndex+1, len(upperAccessoryGroups)),
		LowerIndex:     wrap(state.LowerIndex+1, len(lowerPool)),
		LowerTypeIndex: wrap(state.LowerTypeIndex+1, len(lowerAccessoryGroups)),
	}
	return selected, next
}

// wrap normalises a cursor into [0, max(1, size)).
func wrap(cursor, size int) int {
	size = max(1, size)
	cursor %= size
	if cursor < 0 {
		cursor += size
	}
	return cursor
}

// AccessoryRotation is the accessory rotation policy. It owns the rotation state of the user.
type AccessoryRotation struct {
	store  RotationStore
	logger *slog.Logger
}

func NewAccessoryRotation(store RotationStore, logger *slog.Logger) *AccessoryRotation {
	return &AccessoryRotation{
		store:  store,
		logger: logger,
	}
}

// SelectAccessories loads the rotation state, picks up to three accessories from active and saves the advanced
// state. Load and save failures are returned so that rotation state is never silently lost.
func (a *AccessoryRotation) SelectAccessories(ctx context.Context, active []Exercise) ([]Accessory, error) {
	state, err := a.store.LoadRotationState(ctx)
	if err != nil {
		return nil, fmt.Errorf("load rotation state: %w", err)
	}

	selected, next := rotateAccessories(state, active)

	if err = a.store.SaveRotationState(ctx, next); err != nil {
		return nil, fmt.Errorf("save rotation state: %w", err)
	}
	a.logger.LogAttrs(ctx, slog.LevelDebug, "advanced accessory rotation",
		slog.Int("selected", len(selected)),
		slog.Int("upper_type_index", next.UpperTypeIndex),
		slog.Int("lower_type_index", next.LowerTypeIndex))
	return selected, nil
}

// CurrentFocus returns the upper and lower sub-groups the next selection will draw from.
func (a *AccessoryRotation) CurrentFocus(ctx context.Context) (AccessoryGroup, AccessoryGroup, error) {
	state, err := a.store.LoadRotationState(ctx)
	if err != nil {
		return "", "", fmt.Errorf("load rotation state: %w", err)
	}
	return upperAccessoryGroups[wrap(state.UpperTypeIndex, len(upperAccessoryGroups))],
		lowerAccessoryGroups[wrap(state.LowerTypeIndex, len(lowerAccessoryGroups))], nil
}

// accessoryGroupOf classifies a single exercise the way the rotation pools do.
func accessoryGroupOf(e Exercise) (AccessoryGroup, bool) {
	pools := partitionAccessories([]Exercise{e})
	switch {
	case len(pools.core) > 0:
		return AccessoryGroupCore, true
	case len(pools.upper) > 0:
		for g := range pools.upper {
			return g, true
		}
	case len(pools.lower) > 0:
		for g := range pools.lower {
			return g, true
		}
	}
	return "", false
}
