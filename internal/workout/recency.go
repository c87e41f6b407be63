package workout

import (
	"slices"
	"time"
)

// lastPerformed maps each exercise id to the date of the latest workout it appears in.
//
// It is recomputed from the full history on every call. Workouts without a date and exercise entries without an
// id or sets are skipped.
func lastPerformed(history History) map[string]time.Time {
	last := make(map[string]time.Time)
	for _, w := range history {
		if w.Date.IsZero() {
			continue
		}
		for _, es := range w.ExerciseSets {
			if es.Exercise.ID == "" || len(es.Sets) == 0 {
				continue
			}
			if t, ok := last[es.Exercise.ID]; !ok || w.Date.After(t) {
				last[es.Exercise.ID] = w.Date
			}
		}
	}
	return last
}

// byRecency returns a copy of pool ordered least recently performed first. Exercises absent from the history come
// first and ties keep their pool order.
func byRecency(pool []Exercise, history History) []Exercise {
	last := lastPerformed(history)
	sorted := slices.Clone(pool)
	slices.SortStableFunc(sorted, func(a, b Exercise) int {
		return last[a.ID].Compare(last[b.ID])
	})
	return sorted
}
