package endpoint

import (
	"context"
	"net/http"
)

// contextKey keys context values by their Go type, so middlewares storing
// different types never collide and no string-key registry is needed.
type contextKey[T any] struct{}

// SetValue returns a request whose context carries val, keyed by its type.
// Middleware stores derived values (tenants, locales, request IDs) this
// way; handlers read them back with GetValue. One value per type: storing
// a second value of the same type replaces the first.
func SetValue[T any](r *http.Request, val T) *http.Request {
	ctx := context.WithValue(r.Context(), contextKey[T]{}, val)
	return r.WithContext(ctx)
}

// GetValue retrieves the value of type T stored by SetValue, reporting
// whether one was present.
func GetValue[T any](ctx context.Context) (T, bool) {
	val, ok := ctx.Value(contextKey[T]{}).(T)
	return val, ok
}
