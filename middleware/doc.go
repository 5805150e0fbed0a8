// Package middleware provides HTTP middleware for the cross-cutting concerns
// of a server-rendered web application: session hydration and persistence,
// CSRF protection, authentication and permission gates, rate limiting,
// security headers, and client IP resolution.
//
// All middleware follow a consistent pattern:
//   - A plain func(http.Handler) http.Handler signature, composable with Chain
//   - Configuration structs for customization
//   - Default constructors for common use cases
//   - WithConfig constructors for advanced configuration
//   - Context helpers for retrieving stored values
//
// # Ordering
//
// Middleware are order sensitive. The canonical chain for a protected
// application is:
//
//	handler := middleware.Chain(
//		middleware.SecurityHeaders(policy.Headers()),
//		middleware.ClientIP(),
//		middleware.Session(transport),
//		middleware.CSRF(guard, policy),
//		middleware.RequireAuth(authGuard, policy),
//	)(mux)
//
// Session must run before CSRF and the auth gates, since both read the
// session from the request context. SecurityHeaders and ClientIP have no
// dependencies and can go anywhere before the handlers that use them.
//
// # Session persistence
//
// The Session middleware wraps the response writer so the session row and
// cookie are persisted immediately before the first byte of the response is
// written. Handlers mutate the session freely; no explicit save call exists.
//
//	sess := middleware.MustGetSession(r.Context())
//	sess.FlashSuccess("Project created")
package middleware
