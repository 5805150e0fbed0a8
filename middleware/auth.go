package middleware

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/taskhub/webcore/core/auth"
	"github.com/taskhub/webcore/core/logger"
	"github.com/taskhub/webcore/core/secpolicy"
	"github.com/taskhub/webcore/core/session"
)

// AuthConfig configures the authentication/authorization middlewares.
type AuthConfig struct {
	// Skip defines a function to skip middleware execution for specific requests.
	Skip func(r *http.Request) bool
	// Guard evaluates the principal. Required.
	Guard *auth.Guard
	// Policy supplies the redirect targets. Required.
	Policy *secpolicy.Policy
	// Logger receives security events (default: discard).
	Logger *slog.Logger
}

func (cfg *AuthConfig) normalize() {
	if cfg.Guard == nil {
		panic("auth middleware: guard is required")
	}
	if cfg.Policy == nil {
		panic("auth middleware: policy is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
}

// RequireAuth creates middleware that admits only authenticated, active,
// non-timed-out principals. Every failure path redirects to the login page
// with a distinct one-shot message; the denied request never reaches the
// wrapped handler.
func RequireAuth(cfg AuthConfig) Middleware {
	cfg.normalize()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			sess := MustGetSession(r.Context())
			if _, err := cfg.Guard.Authenticated(r.Context(), sess); err != nil {
				denyAuth(cfg, w, r, sess, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermission admits principals whose cached permission set contains
// the permission. Authorization failures redirect to the default page with a
// message distinct from the unauthenticated case.
func RequirePermission(cfg AuthConfig, perm string) Middleware {
	cfg.normalize()
	return requirePerms(cfg, []string{perm}, func(sess *session.Session, r *http.Request) error {
		return cfg.Guard.HasPermission(r.Context(), sess, perm)
	})
}

// RequireAnyPermission admits principals holding at least one of the
// permissions.
func RequireAnyPermission(cfg AuthConfig, perms ...string) Middleware {
	cfg.normalize()
	return requirePerms(cfg, perms, func(sess *session.Session, r *http.Request) error {
		return cfg.Guard.HasAnyPermission(r.Context(), sess, perms...)
	})
}

// RequireAllPermissions admits principals holding every one of the
// permissions.
func RequireAllPermissions(cfg AuthConfig, perms ...string) Middleware {
	cfg.normalize()
	return requirePerms(cfg, perms, func(sess *session.Session, r *http.Request) error {
		return cfg.Guard.HasAllPermissions(r.Context(), sess, perms...)
	})
}

func requirePerms(cfg AuthConfig, perms []string, check func(*session.Session, *http.Request) error) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			sess := MustGetSession(r.Context())
			err := check(sess, r)
			if err == nil {
				next.ServeHTTP(w, r)
				return
			}

			if errors.Is(err, auth.ErrPermissionDenied) {
				cfg.Logger.LogAttrs(r.Context(), slog.LevelWarn, "permission denied",
					logger.Event("authz_denied"),
					logger.Method(r.Method),
					logger.Path(r.URL.Path),
					logger.UserID(sess.UserID),
					slog.Any("required", perms),
				)
				sess.FlashError("You do not have permission to perform this action.")
				http.Redirect(w, r, cfg.Policy.DefaultPath(), http.StatusSeeOther)
				return
			}

			denyAuth(cfg, w, r, sess, err)
		})
	}
}

// denyAuth maps authentication failures onto login redirects with distinct
// one-shot messages.
func denyAuth(cfg AuthConfig, w http.ResponseWriter, r *http.Request, sess *session.Session, err error) {
	var msg, event string
	switch {
	case errors.Is(err, auth.ErrActivityTimeout):
		msg = "Your session expired due to inactivity. Please sign in again."
		event = "session_idle_timeout"
	case errors.Is(err, auth.ErrAccountInactive):
		msg = "Your account is inactive. Please contact an administrator."
		event = "account_inactive"
	default:
		msg = "Please sign in to continue."
		event = "unauthenticated"
	}

	cfg.Logger.LogAttrs(r.Context(), slog.LevelInfo, "authentication required",
		logger.Event(event),
		logger.Method(r.Method),
		logger.Path(r.URL.Path),
		logger.Reason(err.Error()),
	)

	sess.FlashError(msg)
	http.Redirect(w, r, cfg.Policy.LoginPath(), http.StatusSeeOther)
}
