package jwt

import (
	"context"
	"strings"
)

type bearerKey struct{}

// ContextWithBearer attaches the caller's raw access token so outbound calls
// made on their behalf can forward it.
func ContextWithBearer(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, bearerKey{}, token)
}

func BearerFromContext(ctx context.Context) (string, bool) {
	tok, ok := ctx.Value(bearerKey{}).(string)
	tok = strings.TrimSpace(tok)
	return tok, ok && tok != ""
}
