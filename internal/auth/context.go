package auth

import "context"

type ctxKey int

const (
	userIDKey ctxKey = iota
	tokenKey
)

// WithSession stores the authenticated identity in the request context.
func WithSession(ctx context.Context, userID int, token string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, tokenKey, token)
}

func UserIDFromContext(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(userIDKey).(int)
	return userID, ok && userID > 0
}

func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	return token, ok && token != ""
}
