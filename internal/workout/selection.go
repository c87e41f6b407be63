package workout

// Rand is the random source used by the selection utilities. [math/rand/v2.Rand] satisfies it.
type Rand interface {
	// IntN returns a uniform random number in [0, n).
	IntN(n int) int
}

// Fallback decides what selectWithFallback does when no least recently used exercise is found.
type Fallback int

const (
	FallbackRandom Fallback = iota
	FallbackFirst
)

// LeastRecentlyUsed returns the exercise of pool whose latest appearance in history is the earliest.
func LeastRecentlyUsed(pool []Exercise, history History) (Exercise, bool) {
	if len(pool) == 0 {
		return Exercise{}, false
	}
	return byRecency(pool, history)[0], true
}

// SecondLeastRecentlyUsed returns the runner-up of [LeastRecentlyUsed].
func SecondLeastRecentlyUsed(pool []Exercise, history History) (Exercise, bool) {
	if len(pool) < 2 { //nolint:mnd // second element
		return Exercise{}, false
	}
	return byRecency(pool, history)[1], true
}

// TwoLeastRecentlyUsed returns up to two exercises, least recently used first.
func TwoLeastRecentlyUsed(pool []Exercise, history History) []Exercise {
	sorted := byRecency(pool, history)
	if len(sorted) > 2 { //nolint:mnd // two exercises
		sorted = sorted[:2]
	}
	return sorted
}

// RandomExcluding picks uniformly among the exercises of pool other than excludeID.
func RandomExcluding(rng Rand, pool []Exercise, excludeID string) (Exercise, bool) {
	candidates := filterOutExercise(pool, excludeID)
	if len(candidates) == 0 {
		return Exercise{}, false
	}
	return candidates[rng.IntN(len(candidates))], true
}

// SelectWithFallback returns the least recently used exercise of pool, falling back to the given policy.
func SelectWithFallback(rng Rand, pool []Exercise, history History, fallback Fallback) (Exercise, bool) {
	if exercise, ok := LeastRecentlyUsed(pool, history); ok {
		return exercise, true
	}
	if len(pool) == 0 {
		return Exercise{}, false
	}
	if fallback == FallbackFirst {
		return pool[0], true
	}
	return pool[rng.IntN(len(pool))], true
}

// SwitchBetweenTwoLeastRecent toggles between the two least recently used exercises of pool.
//
// With fewer than two candidates it picks a random exercise other than current, or current itself when there is
// no alternative.
func SwitchBetweenTwoLeastRecent(rng Rand, current Exercise, pool []Exercise, history History) Exercise {
	two := TwoLeastRecentlyUsed(pool, history)
	if len(two) < 2 { //nolint:mnd // two exercises
		if exercise, ok := RandomExcluding(rng, pool, current.ID); ok {
			return exercise
		}
		return current
	}
	switch current.ID {
	case two[0].ID:
		return two[1]
	case two[1].ID:
		return two[0]
	default:
		return two[0]
	}
}

func filterOutExercise(pool []Exercise, id string) []Exercise {
	filtered := make([]Exercise, 0, len(pool))
	for _, e := range pool {
		if e.ID != id {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

func filterByCategory(pool []Exercise, category Category) []Exercise {
	var filtered []Exercise
	for _, e := range pool {
		if e.HasCategory(category) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

func filterByIDs(catalog []Exercise, ids []string) []Exercise {
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	var filtered []Exercise
	for _, e := range catalog {
		if _, ok := wanted[e.ID]; ok {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

func containsExercise(exercises []Exercise, id string) bool {
	for _, e := range exercises {
		if e.ID == id {
			return true
		}
	}
	return false
}
