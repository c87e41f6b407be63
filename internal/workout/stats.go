package workout

import (
	"cmp"
	"slices"
	"time"
)

// StrategyStats summarises how the workouts of one strategy went.
type StrategyStats struct {
	StrategyID        string    `json:"strategy_id"`
	TotalWorkouts     int       `json:"total_workouts"`
	CompletedWorkouts int       `json:"completed_workouts"`
	CompletionRate    float64   `json:"completion_rate"`
	LastUsed          time.Time `json:"last_used"`
}

// ComputeStrategyStats groups workouts by strategy id. Workouts without a strategy are skipped.
func ComputeStrategyStats(workouts []Workout) []StrategyStats {
	byID := make(map[string]*StrategyStats)
	for _, w := range workouts {
		if w.StrategyID == "" {
			continue
		}
		stats, ok := byID[w.StrategyID]
		if !ok {
			stats = &StrategyStats{
				StrategyID:        w.StrategyID,
				TotalWorkouts:     0,
				CompletedWorkouts: 0,
				CompletionRate:    0,
				LastUsed:          time.Time{},
			}
			byID[w.StrategyID] = stats
		}
		stats.TotalWorkouts++
		if w.Completed {
			stats.CompletedWorkouts++
		}
		stats.CompletionRate = float64(stats.CompletedWorkouts) / float64(stats.TotalWorkouts)
		if w.Date.After(stats.LastUsed) {
			stats.LastUsed = w.Date
		}
	}

	result := make([]StrategyStats, 0, len(byID))
	for _, stats := range byID {
		result = append(result, *stats)
	}
	slices.SortFunc(result, func(a, b StrategyStats) int {
		return cmp.Or(b.LastUsed.Compare(a.LastUsed), cmp.Compare(a.StrategyID, b.StrategyID))
	})
	return result
}
