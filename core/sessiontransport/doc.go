// Package sessiontransport moves session identifiers between the stateless
// HTTP layer and the persisted session store.
//
// The cookie transport signs the session id with the cookie manager's HMAC
// secrets, applies the cookie attributes dictated by the security policy
// (HttpOnly, Secure mirroring TLS, configured SameSite, host-validated
// Domain), and keeps the cookie MaxAge synchronized with the server-side
// sliding expiration.
//
// Load never fails a request: missing cookies, forged signatures, unknown
// ids, expired rows, and store outages all hydrate a fresh anonymous
// session. Save runs before response headers are flushed so no
// authenticated-state change can be lost.
package sessiontransport
