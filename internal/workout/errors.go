package workout

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrUnknownStrategy   = errors.New("unknown strategy")
	ErrUnknownRule       = errors.New("unknown progression rule")
	ErrInvalidRuleParams = errors.New("invalid progression rule parameters")
	ErrInvalidPlans      = errors.New("invalid progression plans")
	ErrWorkoutCompleted  = errors.New("workout already completed")
	ErrInvalidSet        = errors.New("invalid set")
	ErrConsecutiveType   = errors.New("too many consecutive workouts of the same type")
)
