package workout

import "fmt"

const recentTypesWindow = 3

// RecentTypes holds the sub-types of the most recently completed workouts, newest first.
type RecentTypes []SubType

// Push records a completed workout sub-type and keeps at most the three newest entries.
func (rt RecentTypes) Push(subType SubType) RecentTypes {
	next := make(RecentTypes, 0, recentTypesWindow)
	next = append(next, subType)
	for _, t := range rt {
		if len(next) == recentTypesWindow {
			break
		}
		next = append(next, t)
	}
	return next
}

// CanGenerate vetoes a third consecutive upper or lower body workout. Full body is always allowed.
func (rt RecentTypes) CanGenerate(subType SubType) bool {
	if subType == SubTypeFullBody {
		return true
	}
	if len(rt) < 2 { //nolint:mnd // two consecutive workouts
		return true
	}
	return rt[0] != subType || rt[1] != subType
}

// ConsecutiveTypeError is returned when the guard vetoes generating a workout.
type ConsecutiveTypeError struct {
	SubType SubType
}

func (e *ConsecutiveTypeError) Error() string {
	return fmt.Sprintf("You've done 2 consecutive %s workouts. Try a full body or %s workout for better balance.",
		e.SubType.Label(), e.SubType.opposite().Label())
}

func (e *ConsecutiveTypeError) Is(target error) bool {
	return target == ErrConsecutiveType
}

func (s SubType) opposite() SubType {
	switch s {
	case SubTypeUpperBody:
		return SubTypeLowerBody
	case SubTypeLowerBody:
		return SubTypeUpperBody
	case SubTypeFullBody:
		return SubTypeFullBody
	default:
		return s
	}
}
