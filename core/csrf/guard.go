package csrf

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"

	"github.com/taskhub/webcore/core/logger"
	"github.com/taskhub/webcore/core/session"
)

// Guard issues and validates CSRF tokens bound to a session id. Tokens are
// persisted with their own lifetime, independent of session expiration, and
// the single actively-relied-upon value is cached in the session data for
// the constant-time comparison.
type Guard struct {
	store     Store
	lifetime  tokenLifetime
	tokenLen  int
	sweepProb float64
	randFloat func() float64
	log       guardLogger
}

// New creates a CSRF guard backed by the given token store.
func New(store Store, opts ...Option) *Guard {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return &Guard{
		store:     store,
		lifetime:  tokenLifetime(cfg.Lifetime),
		tokenLen:  cfg.TokenLength,
		sweepProb: cfg.SweepProbability,
		randFloat: cfg.randFloat,
		log:       newGuardLogger(cfg.Logger),
	}
}

// Issue generates a random token, persists it bound to the session id, and
// caches the value in the session data. Call on safe requests when the
// session has no token yet.
func (g *Guard) Issue(ctx context.Context, sess *session.Session) (string, error) {
	raw := make([]byte, g.tokenLen)
	if _, err := rand.Read(raw); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	token := hex.EncodeToString(raw)

	rec := Token{
		Token:     token,
		SessionID: sess.ID,
		UserID:    sess.UserID,
		ExpiresAt: g.lifetime.expiry(),
	}
	if err := g.store.Insert(ctx, rec); err != nil {
		return "", errors.Join(ErrPersistToken, err)
	}

	sess.Data.CSRFToken = token
	sess.MarkModified()
	return token, nil
}

// Validate checks a submitted token against the session. Failure modes, in
// order: ErrMissingToken, ErrMalformedToken, ErrNotFoundOrExpired,
// ErrMismatch. The final comparison against the session-cached value runs in
// constant time.
func (g *Guard) Validate(ctx context.Context, sess *session.Session, submitted string) error {
	// Housekeeping lottery: bound table growth without a cron dependency.
	if g.randFloat() < g.sweepProb {
		if _, err := g.Sweep(ctx); err != nil {
			g.log.warn(ctx, "csrf token sweep failed", logger.Error(err))
		}
	}

	cached := sess.Data.CSRFToken
	if submitted == "" || cached == "" {
		return ErrMissingToken
	}

	if !g.wellFormed(submitted) {
		return ErrMalformedToken
	}

	rec, err := g.store.Lookup(ctx, submitted, sess.ID)
	if err != nil || rec == nil {
		// Stale rows are dead weight once one lookup misses; sweep now and
		// clear the cached value so a fresh token is issued on the next safe
		// request.
		if _, serr := g.Sweep(ctx); serr != nil {
			g.log.warn(ctx, "csrf token sweep failed", logger.Error(serr))
		}
		g.clearCached(sess)
		return ErrNotFoundOrExpired
	}

	if subtle.ConstantTimeCompare([]byte(submitted), []byte(cached)) != 1 {
		// Force re-issuance rather than leaving a half-trusted token behind.
		if derr := g.store.Delete(ctx, rec.Token); derr != nil {
			g.log.warn(ctx, "csrf token delete failed", logger.Error(derr))
		}
		g.clearCached(sess)
		return ErrMismatch
	}

	return nil
}

// Sweep deletes all expired token rows. Bounded cleanup, not a scheduled job.
func (g *Guard) Sweep(ctx context.Context) (int64, error) {
	return g.store.DeleteExpired(ctx)
}

// wellFormed reports whether the submitted value has the exact expected
// hexadecimal length and charset.
func (g *Guard) wellFormed(token string) bool {
	if len(token) != hex.EncodedLen(g.tokenLen) {
		return false
	}
	_, err := hex.DecodeString(token)
	return err == nil
}

func (g *Guard) clearCached(sess *session.Session) {
	if sess.Data.CSRFToken != "" {
		sess.Data.CSRFToken = ""
		sess.MarkModified()
	}
}
