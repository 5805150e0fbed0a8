package sessiontransport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/taskhub/webcore/core/cookie"
	"github.com/taskhub/webcore/core/logger"
	"github.com/taskhub/webcore/core/secpolicy"
	"github.com/taskhub/webcore/core/session"
	"github.com/taskhub/webcore/pkg/clientip"
)

// Cookie provides HTTP cookie-based session transport. The session id
// travels as an HMAC-signed cookie value; a cookie that fails signature
// verification is indistinguishable from an absent one.
type Cookie struct {
	manager *session.Manager
	cookies *cookie.Manager
	policy  *secpolicy.Policy
	log     *slog.Logger
}

// NewCookie creates a cookie-based session transport.
func NewCookie(manager *session.Manager, cookies *cookie.Manager, policy *secpolicy.Policy, log *slog.Logger) *Cookie {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Cookie{
		manager: manager,
		cookies: cookies,
		policy:  policy,
		log:     log,
	}
}

// Load hydrates the session referenced by the request cookie. Every failure
// path (no cookie, bad signature, unknown id, expired row, store outage)
// degrades to a fresh anonymous session, never to an error page and never to
// a stale identity.
func (c *Cookie) Load(r *http.Request) (session.Session, error) {
	id, err := c.cookies.GetSigned(r, c.policy.CookieName())
	if err != nil {
		if !errors.Is(err, cookie.ErrCookieNotFound) {
			c.log.LogAttrs(r.Context(), slog.LevelWarn, "session cookie rejected",
				logger.Event("session_cookie_invalid"), logger.Error(err), logger.ClientIP(clientip.GetIP(r)))
		}
		return c.fresh(r)
	}

	sess, err := c.manager.GetByID(r.Context(), id)
	if err != nil {
		// Hydrate-or-destroy: a dead id gets its row (if any) removed before
		// a fresh anonymous session begins.
		if errors.Is(err, session.ErrNotFound) {
			if derr := c.manager.Destroy(r.Context(), id); derr != nil {
				c.log.LogAttrs(r.Context(), slog.LevelError, "dead session cleanup failed", logger.Error(derr))
			}
		}
		return c.fresh(r)
	}

	// Advisory metadata, refreshed on the next write.
	sess.IP = clientip.GetIP(r)
	sess.UserAgent = r.UserAgent()

	return sess, nil
}

// Save persists session state and synchronizes the cookie. Must run before
// the response headers are flushed; the session middleware guarantees that
// ordering.
func (c *Cookie) Save(w http.ResponseWriter, r *http.Request, sess *session.Session) error {
	if sess.IsDestroyed() {
		if err := c.manager.Save(r.Context(), sess); err != nil {
			c.log.LogAttrs(r.Context(), slog.LevelError, "session destroy failed", logger.Error(err), logger.SessionID(sess.ID))
		}

		// A destroyed session with a pending flash (idle timeout, account
		// inactive) hands the one-shot message to its anonymous successor so
		// the redirect target can still display it.
		if flash := sess.Data.Flash; flash != (session.Flash{}) {
			successor, err := c.fresh(r)
			if err != nil {
				c.cookies.Delete(w, c.policy.CookieName())
				return err
			}
			successor.Data.Flash = flash
			*sess = successor
			return c.Save(w, r, sess)
		}

		c.cookies.Delete(w, c.policy.CookieName())
		return nil
	}

	if err := c.manager.Save(r.Context(), sess); err != nil {
		return err
	}

	maxAge := int(time.Until(sess.ExpiresAt).Seconds())
	if maxAge <= 0 {
		return nil
	}

	opts := append(c.policy.CookieOptions(r), cookie.WithMaxAge(maxAge))
	return c.cookies.SetSigned(w, r, c.policy.CookieName(), sess.ID, opts...)
}

// Destroy removes the session record and the cookie immediately, outside
// the deferred save path.
func (c *Cookie) Destroy(ctx context.Context, w http.ResponseWriter, sess *session.Session) error {
	sess.Destroy()
	if err := c.manager.Save(ctx, sess); err != nil {
		return err
	}
	c.cookies.Delete(w, c.policy.CookieName())
	return nil
}

func (c *Cookie) fresh(r *http.Request) (session.Session, error) {
	return c.manager.New(session.NewSessionParams{
		IP:        clientip.GetIP(r),
		UserAgent: r.UserAgent(),
	})
}
