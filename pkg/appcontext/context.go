package appcontext

import "context"

type ContextKey string

var (
	RequestIDKey = ContextKey("X-Request-Id")
	UserIDKey    = ContextKey("X-User-Id")
	FreshReadKey = ContextKey("X-Fresh-Read")
	AnonymousKey = ContextKey("X-Anonymous")
)

func SetRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	value, ok := ctx.Value(RequestIDKey).(string)
	if !ok {
		return ""
	}
	return value
}

func SetUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

func GetUserID(ctx context.Context) string {
	value, ok := ctx.Value(UserIDKey).(string)
	if !ok {
		return ""
	}
	return value
}

// SetFreshRead marks the context so cached reads bypass the staleness window
// and always hit the network.
func SetFreshRead(ctx context.Context) context.Context {
	return context.WithValue(ctx, FreshReadKey, true)
}

func GetFreshRead(ctx context.Context) bool {
	value, ok := ctx.Value(FreshReadKey).(bool)
	if !ok {
		return false
	}
	return value
}

// SetAnonymous marks the context as not requiring an authenticated session,
// used for public wishlist reads.
func SetAnonymous(ctx context.Context) context.Context {
	return context.WithValue(ctx, AnonymousKey, true)
}

func GetAnonymous(ctx context.Context) bool {
	value, ok := ctx.Value(AnonymousKey).(bool)
	if !ok {
		return false
	}
	return value
}
