package httpapi

import (
	"context"

	"modelrunner/internal/auth/domain"
)

type ctxKey string

const ctxKeyClient ctxKey = "client"

func contextWithClient(ctx context.Context, c domain.Client) context.Context {
	return context.WithValue(ctx, ctxKeyClient, c)
}

// ClientFromContext returns the authenticated client attached by the auth
// middleware. The second return is false on routes the middleware does not
// guard.
func ClientFromContext(ctx context.Context) (domain.Client, bool) {
	c, ok := ctx.Value(ctxKeyClient).(domain.Client)
	return c, ok
}
