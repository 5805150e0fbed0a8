package middleware

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/taskhub/webcore/core/csrf"
	"github.com/taskhub/webcore/core/logger"
	"github.com/taskhub/webcore/core/secpolicy"
	"github.com/taskhub/webcore/pkg/clientip"
)

// Unsafe methods are the state-changing verbs that require a valid token.
func unsafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return false
	default:
		return true
	}
}

// CSRFConfig configures the CSRF protection middleware.
type CSRFConfig struct {
	// Skip defines a function to skip middleware execution for specific
	// requests (e.g. webhook endpoints with their own authentication).
	Skip func(r *http.Request) bool
	// Guard issues and validates tokens. Required.
	Guard *csrf.Guard
	// Policy supplies the redirect allow-list and fallback. Required.
	Policy *secpolicy.Policy
	// Logger receives security events (default: discard).
	Logger *slog.Logger
	// FormField is the form field carrying the token (default: csrf_token).
	FormField string
	// HeaderName is the request header carrying the token
	// (default: X-CSRF-Token).
	HeaderName string
	// FlashMessage is shown to the user after a rejected request.
	FlashMessage string
}

// CSRF creates the protection middleware with default configuration.
func CSRF(guard *csrf.Guard, policy *secpolicy.Policy) Middleware {
	return CSRFWithConfig(CSRFConfig{Guard: guard, Policy: policy})
}

// CSRFWithConfig creates the CSRF protection middleware.
//
// Safe methods lazily issue a token when the session has none, so forms
// rendered on the next page always have a value to embed. Unsafe methods
// must present that token via form field or header. A failed validation
// never reaches the wrapped handler: the request is answered with a
// redirect to an allow-list-checked target plus a one-shot flash error, and
// the failure is logged as a security event with method, path, and reason.
func CSRFWithConfig(cfg CSRFConfig) Middleware {
	if cfg.Guard == nil {
		panic("csrf middleware: guard is required")
	}
	if cfg.Policy == nil {
		panic("csrf middleware: policy is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.FormField == "" {
		cfg.FormField = "csrf_token"
	}
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-CSRF-Token"
	}
	if cfg.FlashMessage == "" {
		cfg.FlashMessage = "Your request could not be verified. Please try again."
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			sess, ok := GetSession(r.Context())
			if !ok {
				panic("csrf middleware: session middleware must run first")
			}

			if !unsafeMethod(r.Method) {
				if sess.Data.CSRFToken == "" {
					if _, err := cfg.Guard.Issue(r.Context(), sess); err != nil {
						cfg.Logger.LogAttrs(r.Context(), slog.LevelError, "csrf token issuance failed",
							logger.Error(err), logger.SessionID(sess.ID))
					}
				}
				next.ServeHTTP(w, r)
				return
			}

			submitted := r.Header.Get(cfg.HeaderName)
			if submitted == "" {
				submitted = r.PostFormValue(cfg.FormField)
			}

			if err := cfg.Guard.Validate(r.Context(), sess, submitted); err != nil {
				cfg.Logger.LogAttrs(r.Context(), slog.LevelWarn, "csrf validation failed",
					logger.Event("csrf_rejected"),
					logger.Method(r.Method),
					logger.Path(r.URL.Path),
					logger.Reason(err.Error()),
					logger.ClientIP(clientip.GetIP(r)),
					logger.SessionID(sess.ID),
				)

				sess.FlashError(cfg.FlashMessage)
				target := cfg.Policy.SafeRedirect(r.Host, r.Referer())
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
