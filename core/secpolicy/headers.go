package secpolicy

import (
	"fmt"
	"strings"
)

// HeaderPolicy lists the HTTP security headers applied to every response.
// Empty values mean the header is not set.
type HeaderPolicy struct {
	ContentTypeOptions        string
	FrameOptions              string
	XSSProtection             string
	StrictTransportSecurity   string
	ContentSecurityPolicy     string
	ReferrerPolicy            string
	PermissionsPolicy         string
	CrossOriginOpenerPolicy   string
	CrossOriginResourcePolicy string
}

// Predefined header policies.
var (
	// StrictHeaders provides maximum security with strict policies.
	StrictHeaders = HeaderPolicy{
		ContentTypeOptions:        "nosniff",
		FrameOptions:              "DENY",
		XSSProtection:             "1; mode=block",
		StrictTransportSecurity:   "max-age=63072000; includeSubDomains; preload",
		ContentSecurityPolicy:     "default-src 'none'; script-src 'self'; style-src 'self'; img-src 'self'; font-src 'self'; connect-src 'self'; frame-ancestors 'none'; base-uri 'self'; form-action 'self'",
		ReferrerPolicy:            "no-referrer",
		PermissionsPolicy:         "accelerometer=(), camera=(), geolocation=(), gyroscope=(), magnetometer=(), microphone=(), payment=(), usb=()",
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginResourcePolicy: "same-origin",
	}

	// BalancedHeaders provides good security with compatibility for typical
	// server-rendered applications.
	BalancedHeaders = HeaderPolicy{
		ContentTypeOptions:        "nosniff",
		FrameOptions:              "SAMEORIGIN",
		XSSProtection:             "1; mode=block",
		StrictTransportSecurity:   "max-age=31536000; includeSubDomains",
		ContentSecurityPolicy:     "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data: https:; font-src 'self' data:",
		ReferrerPolicy:            "strict-origin-when-cross-origin",
		PermissionsPolicy:         "geolocation=(), microphone=(), camera=()",
		CrossOriginOpenerPolicy:   "same-origin-allow-popups",
		CrossOriginResourcePolicy: "cross-origin",
	}

	// RelaxedHeaders provides basic security for maximum compatibility.
	RelaxedHeaders = HeaderPolicy{
		ContentTypeOptions: "nosniff",
		XSSProtection:      "1; mode=block",
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}

	// DevelopmentHeaders omit HSTS for local development.
	// Never use in production.
	DevelopmentHeaders = HeaderPolicy{
		ContentTypeOptions: "nosniff",
		XSSProtection:      "1; mode=block",
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}
)

func headerPreset(name string) (HeaderPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "balanced":
		return BalancedHeaders, nil
	case "strict":
		return StrictHeaders, nil
	case "relaxed":
		return RelaxedHeaders, nil
	case "development":
		return DevelopmentHeaders, nil
	default:
		return HeaderPolicy{}, fmt.Errorf("%w: unknown header preset %q", ErrInvalidPolicy, name)
	}
}
