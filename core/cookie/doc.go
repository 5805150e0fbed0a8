// Package cookie provides HMAC-signed HTTP cookie management with secret
// rotation support.
//
// The Manager signs every value written through SetSigned with HMAC-SHA256.
// Verification tries all configured secrets in order, so secrets can be
// rotated without invalidating cookies issued under the previous secret:
//
//	mgr, err := cookie.New([]string{newSecret, oldSecret})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// write
//	err = mgr.SetSigned(w, r, "app_session", token,
//		cookie.WithHTTPOnly(true),
//		cookie.WithSecure(r.TLS != nil),
//		cookie.WithMaxAge(3600),
//	)
//
//	// read
//	token, err := mgr.GetSigned(r, "app_session")
//
// A cookie with a missing, malformed, or unverifiable signature is reported
// via ErrInvalidSignature/ErrInvalidFormat and must be treated by callers the
// same as an absent cookie.
//
// The Domain attribute is validated against the request host at write time;
// a domain that does not cover the host is dropped so the cookie stays
// host-scoped instead of being silently rejected by the browser.
package cookie
