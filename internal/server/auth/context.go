package auth

import "context"

type ctxKey string

const (
	rawTokenKey ctxKey = "rawToken"
	userIDKey   ctxKey = "userID"
)

// WithRawToken attaches the unverified bearer token of the request.
func WithRawToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, rawTokenKey, token)
}

// RawTokenFrom returns the token attached by WithRawToken.
func RawTokenFrom(ctx context.Context) (string, bool) {
	t, ok := ctx.Value(rawTokenKey).(string)
	return t, ok && t != ""
}

// WithUserID attaches the verified caller id.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// UserIDFrom returns the verified caller id, if any.
func UserIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}
