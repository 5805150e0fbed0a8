// Package session implements persisted, rotating session state for
// server-rendered web applications.
//
// A Session is identified by an opaque 256-bit random token that doubles as
// the cookie value and the primary key of the persisted record. The token is
// a correlation key only: authentication is the UserID stored server-side,
// never the token itself.
//
// # Lifecycle
//
// Sessions move through four states:
//
//	NoSession -> Hydrated(Anonymous) -> Hydrated(Authenticated) -> Destroyed
//
// A fresh anonymous session is created in memory on first request and
// persisted at request end. On a successful login the Manager rotates the
// identifier BEFORE writing any authenticated state, which makes session
// fixation impossible: an attacker who planted a pre-login id never sees the
// post-login id. Logout destroys the record and starts a fresh anonymous
// session.
//
// # Expiration
//
// Two independent timers apply. The store-side sliding expiration
// (expires_at, extended on every hydrated request, throttled by the touch
// interval) decides whether a session row exists at all. The in-data
// LastActivity timestamp drives the idle timeout enforced by the auth guard
// and decides whether an authenticated principal may keep acting. Either
// timer alone invalidates.
//
// # Failure semantics
//
// Lookups fail closed: any store failure hydrates as anonymous, never as a
// stale cached identity. Save failures on the login path surface as login
// failures; save failures elsewhere are logged and recovered.
package session
