package booking

import "context"

type contextKey string

const idempotencyKey contextKey = "idempotencyKey"

// NewContextWithIdempotencyKey tags ctx with the key a submit retry is
// recognised by.
func NewContextWithIdempotencyKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, idempotencyKey, key)
}

func IdempotencyKeyFromContext(ctx context.Context) (string, bool) {
	key, ok := ctx.Value(idempotencyKey).(string)

	return key, ok
}

// RequireIdempotencyKey fails with ErrIdempotencyKey when ctx carries no
// non-empty key.
func RequireIdempotencyKey(ctx context.Context) (string, error) {
	key, ok := IdempotencyKeyFromContext(ctx)
	if !ok || key == "" {
		return "", ErrIdempotencyKey
	}

	return key, nil
}
