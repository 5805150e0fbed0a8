package middleware

import (
	"context"
	"net/http"

	"github.com/taskhub/webcore/pkg/clientip"
)

type clientIPKey struct{}

// ClientIP resolves the real client IP once per request and stores it in the
// request context for downstream handlers.
func ClientIP() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientip.GetIP(r)
			if ip != "" {
				r = r.WithContext(context.WithValue(r.Context(), clientIPKey{}, ip))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetClientIP returns the client IP stored by the ClientIP middleware,
// or an empty string when the middleware did not run.
func GetClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}
