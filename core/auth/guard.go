package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/taskhub/webcore/core/logger"
	"github.com/taskhub/webcore/core/session"
	"github.com/taskhub/webcore/pkg/ratelimiter"
)

// Guard evaluates whether a hydrated session represents an authenticated,
// active, non-timed-out principal and performs permission-set authorization.
type Guard struct {
	sessions        *session.Manager
	users           UserStore
	perms           PermissionStore
	activityTimeout time.Duration
	loginLimiter    *ratelimiter.Limiter
	log             guardLogger
}

// New creates an auth guard. The session manager is used for rotation on
// login and destruction on logout; users is the authoritative account store.
func New(sessions *session.Manager, users UserStore, perms PermissionStore, opts ...Option) *Guard {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return &Guard{
		sessions:        sessions,
		users:           users,
		perms:           perms,
		activityTimeout: cfg.ActivityTimeout,
		loginLimiter:    cfg.LoginLimiter,
		log:             newGuardLogger(cfg.Logger),
	}
}

// Authenticated verifies the session principal. Beyond the store-side
// sliding expiration (already enforced during hydration), it applies the
// independent idle timeout on Data.LastActivity and re-validates the account
// against the authoritative store, so privilege revocation takes effect on
// the very next request. On success the activity timestamp is refreshed.
func (g *Guard) Authenticated(ctx context.Context, sess *session.Session) (*User, error) {
	if sess == nil || !sess.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}

	if g.activityTimeout > 0 && !sess.Data.LastActivity.IsZero() &&
		time.Since(sess.Data.LastActivity) > g.activityTimeout {
		sess.Destroy()
		return nil, ErrActivityTimeout
	}

	user, err := g.users.FindUser(ctx, sess.UserID)
	if err != nil || user == nil {
		if err != nil {
			g.log.warn(ctx, "principal re-validation failed", logger.Error(err), logger.UserID(sess.UserID))
		}
		sess.Destroy()
		return nil, ErrAccountInactive
	}
	if !user.Active {
		sess.Destroy()
		return nil, ErrAccountInactive
	}

	sess.TouchActivity()
	return user, nil
}

// HasPermission authorizes a single permission against the cached set,
// requiring an authenticated principal first.
func (g *Guard) HasPermission(ctx context.Context, sess *session.Session, perm string) error {
	return g.check(ctx, sess, func(d session.Data) bool { return d.HasPermission(perm) })
}

// HasAnyPermission authorizes if the cached set contains at least one of the
// given permissions.
func (g *Guard) HasAnyPermission(ctx context.Context, sess *session.Session, perms ...string) error {
	return g.check(ctx, sess, func(d session.Data) bool { return d.HasAnyPermission(perms...) })
}

// HasAllPermissions authorizes only if the cached set is a superset of the
// given permissions.
func (g *Guard) HasAllPermissions(ctx context.Context, sess *session.Session, perms ...string) error {
	return g.check(ctx, sess, func(d session.Data) bool { return d.HasAllPermissions(perms...) })
}

func (g *Guard) check(ctx context.Context, sess *session.Session, allowed func(session.Data) bool) error {
	if _, err := g.Authenticated(ctx, sess); err != nil {
		return err
	}

	if err := g.ensurePermissions(ctx, sess); err != nil {
		return err
	}

	if !allowed(sess.Data) {
		// A failed check mutates nothing beyond the caller's flash/redirect.
		return ErrPermissionDenied
	}
	return nil
}

// ensurePermissions lazily derives and caches the permission set on the
// first check after login or after a cache clear.
func (g *Guard) ensurePermissions(ctx context.Context, sess *session.Session) error {
	if sess.Data.Permissions != nil {
		return nil
	}

	perms, err := g.perms.PermissionsFor(ctx, sess.UserID)
	if err != nil {
		return errors.Join(ErrPermissionLookup, err)
	}
	if perms == nil {
		perms = []string{}
	}

	sess.Data.Permissions = perms
	sess.MarkModified()
	return nil
}

// Login verifies credentials and, on success, upgrades the session through
// the manager (identifier rotation, then authenticated state write). A
// persistence failure during the upgrade is returned as-is and must be shown
// as a login failure; the session stays anonymous.
func (g *Guard) Login(ctx context.Context, sess *session.Session, email, password string) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	if g.loginLimiter != nil {
		res, err := g.loginLimiter.Allow(ctx, "login:"+sess.IP)
		if err != nil {
			// Advisory limiter: a broken counter must not lock users out.
			g.log.warn(ctx, "login rate limiter unavailable", logger.Error(err))
		} else if !res.Allowed {
			return nil, ErrTooManyAttempts
		}
	}

	user, err := g.users.FindUserByEmail(ctx, email)
	if err != nil || user == nil {
		// Equalize timing with the found-user path.
		comparePassword(dummyHash, password)
		return nil, ErrInvalidCredentials
	}

	if err := comparePassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.Active {
		return nil, ErrAccountInactive
	}

	perms, err := g.perms.PermissionsFor(ctx, user.ID)
	if err != nil {
		return nil, errors.Join(ErrPermissionLookup, err)
	}

	data := session.Data{
		Version: session.DataVersion,
		User: &session.UserSnapshot{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
		},
		Permissions:  perms,
		LastActivity: time.Now(),
	}

	if err := g.sessions.Authenticate(ctx, sess, user.ID, data); err != nil {
		return nil, err
	}

	return user, nil
}

// Logout destroys the current session and replaces it with a fresh
// anonymous one.
func (g *Guard) Logout(ctx context.Context, sess *session.Session) (session.Session, error) {
	return g.sessions.Logout(ctx, sess)
}
