package middleware

import "net/http"

// Middleware wraps handlers to add cross-cutting functionality.
type Middleware func(next http.Handler) http.Handler

// Chain composes middlewares so the first argument is the outermost wrapper.
func Chain(mws ...Middleware) Middleware {
	return func(next http.Handler) http.Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}
