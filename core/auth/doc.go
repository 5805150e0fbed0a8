// Package auth turns a hydrated session into a trusted principal and
// performs permission-set authorization.
//
// # Two timers
//
// The store-side sliding expiration decides whether a session row exists at
// all; it is enforced during hydration. This guard enforces the second,
// independent timer: the idle timeout on Data.LastActivity. A session whose
// row is still unexpired can therefore be rejected because its principal
// went idle. Either timer alone invalidates; neither substitutes for the
// other.
//
// # Revocation vs. caching
//
// Account status is re-validated against the authoritative user store on
// every Authenticated call, so deactivating an account takes effect on the
// next request. The permission set is the opposite trade-off: derived once
// per session lifetime and cached in the session data, so server-side role
// changes do not propagate until the next login.
//
// # Login
//
// Login verifies bcrypt credentials (with a dummy comparison on unknown
// accounts to equalize timing), applies an advisory fixed-window rate limit
// keyed by client IP, and on success upgrades the session through the
// session manager, which rotates the identifier before writing any
// authenticated state.
package auth
