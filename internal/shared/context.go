package shared

import "context"

type contextKey string

const userIDKey contextKey = "meridian.user_id"

// ContextWithUserID stores the authenticated user id on the context.
func ContextWithUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// UserIDFromContext returns the authenticated user id, or zero when the
// request was not authenticated.
func UserIDFromContext(ctx context.Context) int64 {
	id, _ := ctx.Value(userIDKey).(int64)
	return id
}
