package middleware

import (
	"net/http"

	"github.com/taskhub/webcore/core/secpolicy"
)

// SecurityHeadersConfig configures the security headers middleware.
type SecurityHeadersConfig struct {
	// Skip defines a function to skip middleware execution for specific requests.
	Skip func(r *http.Request) bool
	// Headers is the header set to apply to every response.
	Headers secpolicy.HeaderPolicy
}

// SecurityHeaders applies a header preset to every response.
func SecurityHeaders(headers secpolicy.HeaderPolicy) Middleware {
	return SecurityHeadersWithConfig(SecurityHeadersConfig{Headers: headers})
}

// SecurityHeadersWithConfig creates a middleware that sets security headers
// before the handler runs, so they are present even on early writes.
func SecurityHeadersWithConfig(cfg SecurityHeadersConfig) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			set := func(name, value string) {
				if value != "" {
					h.Set(name, value)
				}
			}
			set("X-Content-Type-Options", cfg.Headers.ContentTypeOptions)
			set("X-Frame-Options", cfg.Headers.FrameOptions)
			set("X-XSS-Protection", cfg.Headers.XSSProtection)
			set("Strict-Transport-Security", cfg.Headers.StrictTransportSecurity)
			set("Content-Security-Policy", cfg.Headers.ContentSecurityPolicy)
			set("Referrer-Policy", cfg.Headers.ReferrerPolicy)
			set("Permissions-Policy", cfg.Headers.PermissionsPolicy)
			set("Cross-Origin-Opener-Policy", cfg.Headers.CrossOriginOpenerPolicy)
			set("Cross-Origin-Resource-Policy", cfg.Headers.CrossOriginResourcePolicy)

			next.ServeHTTP(w, r)
		})
	}
}
