package contexthelpers

import (
	"context"
)

// UserID returns the id of the user the request acts on behalf of, or 0 if none was set.
func UserID(ctx context.Context) int {
	userID, ok := ctx.Value(UserIDContextKey).(int)
	if !ok {
		return 0
	}

	return userID
}

func TraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDContextKey).(string)
	if !ok {
		return ""
	}

	return traceID
}
