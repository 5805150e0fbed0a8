package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/taskhub/webcore/core/logger"
	"github.com/taskhub/webcore/core/session"
	"github.com/taskhub/webcore/core/sessiontransport"
)

type sessionKey struct{}

// SessionConfig configures the session middleware.
type SessionConfig struct {
	// Skip defines a function to skip middleware execution for specific
	// requests (health checks, static assets).
	Skip func(r *http.Request) bool
	// Transport loads and persists session state. Required.
	Transport *sessiontransport.Cookie
	// Logger for recovered failures (default: discard).
	Logger *slog.Logger
}

// Session creates middleware that hydrates the session before the handler
// runs and persists any mutation before the response is flushed.
func Session(transport *sessiontransport.Cookie) Middleware {
	return SessionWithConfig(SessionConfig{Transport: transport})
}

// SessionWithConfig creates a session middleware with custom configuration.
//
// The middleware:
//   - hydrates via the transport (every failure degrades to anonymous)
//   - stores *session.Session in the request context for handlers and the
//     CSRF/auth middlewares to read and mutate
//   - persists the session when the handler first writes the response, so
//     Set-Cookie and the stored state are settled before headers flush
func SessionWithConfig(cfg SessionConfig) Middleware {
	if cfg.Transport == nil {
		panic("session middleware: transport is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			sess, err := cfg.Transport.Load(r)
			if err != nil {
				// Only identifier generation can fail here; continue with a
				// zero session rather than failing the request.
				cfg.Logger.LogAttrs(r.Context(), slog.LevelError, "session load failed", logger.Error(err))
			}

			ctx := context.WithValue(r.Context(), sessionKey{}, &sess)
			r = r.WithContext(ctx)

			cw := &commitWriter{ResponseWriter: w}
			cw.commit = func() {
				if err := cfg.Transport.Save(w, r, &sess); err != nil {
					cfg.Logger.LogAttrs(r.Context(), slog.LevelError, "session save failed",
						logger.Error(err), logger.SessionID(sess.ID))
				}
			}

			next.ServeHTTP(cw, r)

			// Handlers that never wrote a body still need their session
			// mutations persisted.
			cw.flush()
		})
	}
}

// GetSession retrieves the session from the request context. The pointer is
// shared for the request lifetime; mutations are persisted at response time.
func GetSession(ctx context.Context) (*session.Session, bool) {
	if ctx == nil {
		return nil, false
	}
	sess, ok := ctx.Value(sessionKey{}).(*session.Session)
	return sess, ok
}

// MustGetSession retrieves the session or panics. Use in handlers that are
// guaranteed to run inside the session middleware.
func MustGetSession(ctx context.Context) *session.Session {
	sess, ok := GetSession(ctx)
	if !ok {
		panic("session not found in context")
	}
	return sess
}

// commitWriter delays session persistence until the first response write so
// the session row and Set-Cookie header are settled before flushing.
type commitWriter struct {
	http.ResponseWriter
	commit    func()
	committed bool
}

func (w *commitWriter) WriteHeader(code int) {
	w.flush()
	w.ResponseWriter.WriteHeader(code)
}

func (w *commitWriter) Write(b []byte) (int, error) {
	w.flush()
	return w.ResponseWriter.Write(b)
}

// Unwrap supports http.ResponseController passthrough.
func (w *commitWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func (w *commitWriter) flush() {
	if !w.committed {
		w.committed = true
		if w.commit != nil {
			w.commit()
		}
	}
}
