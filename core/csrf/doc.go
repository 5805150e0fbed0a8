// Package csrf defends state-changing requests against cross-site request
// forgery with session-bound, independently expiring tokens.
//
// A token is 32 random bytes hex-encoded (64 characters), persisted with the
// owning session id and a configurable lifetime (default 1 hour), and cached
// in the session data as the single value the guard compares against. The
// comparison is constant time.
//
// Validation fails in a fixed order so callers can log precise reasons:
// missing, malformed, not-found-or-expired, mismatch. A miss against the
// store clears the cached value and sweeps expired rows so a fresh token is
// issued on the next safe request; independently, every validation has a
// small fixed probability (default 1%) of running the sweep, which bounds
// table growth without a scheduled job.
//
// Tokens are deliberately reusable within their lifetime rather than
// single-use: one-shot tokens would break concurrent multi-tab form
// submissions.
package csrf
