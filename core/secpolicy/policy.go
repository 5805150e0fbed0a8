package secpolicy

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/taskhub/webcore/core/cookie"
)

// Config is the environment-backed security configuration. One instance is
// the process-wide source of truth for every security-relevant knob.
type Config struct {
	// Session cookie attributes.
	CookieName     string `env:"SESSION_COOKIE_NAME" envDefault:"taskhub_session"`
	CookieDomain   string `env:"SESSION_COOKIE_DOMAIN" envDefault:""`
	CookieSameSite string `env:"SESSION_COOKIE_SAME_SITE" envDefault:"lax"`

	// Timers. SessionTTL is the persisted sliding expiration;
	// ActivityTimeout is the independent idle timeout on principal activity.
	SessionTTL      time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	ActivityTimeout time.Duration `env:"SESSION_ACTIVITY_TIMEOUT" envDefault:"15m"`
	TouchInterval   time.Duration `env:"SESSION_TOUCH_INTERVAL" envDefault:"5m"`

	// CSRF token policy.
	CSRFLifetime    time.Duration `env:"CSRF_TOKEN_LIFETIME" envDefault:"1h"`
	CSRFTokenLength int           `env:"CSRF_TOKEN_LENGTH" envDefault:"32"`

	// Redirect allow-list: hostnames beyond the request host that external
	// redirect candidates (e.g. the referrer) may point to.
	AllowedRedirectHosts []string `env:"REDIRECT_ALLOWED_HOSTS" envSeparator:","`

	// Fixed well-known paths.
	LoginPath    string `env:"AUTH_LOGIN_PATH" envDefault:"/login"`
	DefaultPath  string `env:"AUTH_DEFAULT_PATH" envDefault:"/dashboard"`
	FallbackPath string `env:"AUTH_FALLBACK_PATH" envDefault:"/"`

	// Login rate limiting thresholds (fixed window per client IP).
	LoginRateLimit  int           `env:"LOGIN_RATE_LIMIT" envDefault:"10"`
	LoginRateWindow time.Duration `env:"LOGIN_RATE_WINDOW" envDefault:"1m"`

	// Headers selects the security header preset: strict, balanced,
	// relaxed, or development.
	Headers string `env:"SECURITY_HEADERS_PRESET" envDefault:"balanced"`
}

// Policy is the compiled security policy handed to middleware and guards.
type Policy struct {
	cfg      Config
	sameSite http.SameSite
	allowed  map[string]struct{}
	headers  HeaderPolicy
}

// New validates and compiles a Config into a Policy.
func New(cfg Config) (*Policy, error) {
	sameSite, err := parseSameSite(cfg.CookieSameSite)
	if err != nil {
		return nil, err
	}

	headers, err := headerPreset(cfg.Headers)
	if err != nil {
		return nil, err
	}

	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("%w: session TTL must be positive", ErrInvalidPolicy)
	}
	if cfg.ActivityTimeout < 0 || cfg.ActivityTimeout > cfg.SessionTTL {
		return nil, fmt.Errorf("%w: activity timeout must be within the session TTL", ErrInvalidPolicy)
	}

	allowed := make(map[string]struct{}, len(cfg.AllowedRedirectHosts))
	for _, h := range cfg.AllowedRedirectHosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			allowed[h] = struct{}{}
		}
	}

	return &Policy{
		cfg:      cfg,
		sameSite: sameSite,
		allowed:  allowed,
		headers:  headers,
	}, nil
}

// CookieName returns the session cookie name.
func (p *Policy) CookieName() string { return p.cfg.CookieName }

// SessionTTL returns the persisted sliding expiration.
func (p *Policy) SessionTTL() time.Duration { return p.cfg.SessionTTL }

// ActivityTimeout returns the independent idle timeout.
func (p *Policy) ActivityTimeout() time.Duration { return p.cfg.ActivityTimeout }

// TouchInterval returns the minimum time between expiration extensions.
func (p *Policy) TouchInterval() time.Duration { return p.cfg.TouchInterval }

// CSRFLifetime returns the CSRF token lifetime.
func (p *Policy) CSRFLifetime() time.Duration { return p.cfg.CSRFLifetime }

// CSRFTokenLength returns the raw CSRF token length in bytes.
func (p *Policy) CSRFTokenLength() int { return p.cfg.CSRFTokenLength }

// LoginPath returns the login page path.
func (p *Policy) LoginPath() string { return p.cfg.LoginPath }

// DefaultPath returns the post-login default page path.
func (p *Policy) DefaultPath() string { return p.cfg.DefaultPath }

// FallbackPath returns the safe redirect fallback path.
func (p *Policy) FallbackPath() string { return p.cfg.FallbackPath }

// LoginRateLimit returns the fixed-window login rate thresholds.
func (p *Policy) LoginRateLimit() (limit int, window time.Duration) {
	return p.cfg.LoginRateLimit, p.cfg.LoginRateWindow
}

// Headers returns the configured security header policy.
func (p *Policy) Headers() HeaderPolicy { return p.headers }

// CookieOptions returns the session cookie attributes for a request.
// Secure mirrors whether the request arrived over TLS (directly or via a
// terminating proxy); the Domain attribute is validated against the request
// host by the cookie manager and dropped on mismatch.
func (p *Policy) CookieOptions(r *http.Request) []cookie.Option {
	opts := []cookie.Option{
		cookie.WithPath("/"),
		cookie.WithHTTPOnly(true),
		cookie.WithSecure(isTLS(r)),
		cookie.WithSameSite(p.sameSite),
	}
	if p.cfg.CookieDomain != "" {
		opts = append(opts, cookie.WithDomain(p.cfg.CookieDomain))
	}
	return opts
}

func isTLS(r *http.Request) bool {
	if r == nil {
		return false
	}
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

func parseSameSite(s string) (http.SameSite, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	default:
		return 0, fmt.Errorf("%w: unknown SameSite mode %q", ErrInvalidPolicy, s)
	}
}
