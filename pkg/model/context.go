package model

import "context"

type userCtxKey int

var userKey userCtxKey

// NewContextWithUser returns a new [context.Context] carrying the authenticated
// user, so non-HTTP code and the log handler can find it.
func NewContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUserFromContext returns the user stored in ctx by the authentication
// middleware, if any.
func GetUserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userKey).(*User)
	return user, ok
}
