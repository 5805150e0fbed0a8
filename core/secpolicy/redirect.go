package secpolicy

import (
	"net"
	"net/url"
	"strings"
)

// SafeRedirect validates an externally supplied redirect candidate (e.g. the
// referrer) and returns it only if it targets the request host or an
// allow-listed host. Anything else, including protocol-relative and
// malformed URLs, falls back to the configured fallback path.
func (p *Policy) SafeRedirect(requestHost, candidate string) string {
	if target, ok := p.checkRedirect(requestHost, candidate); ok {
		return target
	}
	return p.cfg.FallbackPath
}

func (p *Policy) checkRedirect(requestHost, candidate string) (string, bool) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return "", false
	}

	// Protocol-relative URLs ("//evil.com") parse as relative but navigate
	// off-site; reject before any parsing.
	if strings.HasPrefix(candidate, "//") || strings.ContainsAny(candidate, "\r\n") {
		return "", false
	}

	u, err := url.Parse(candidate)
	if err != nil {
		return "", false
	}

	// Site-relative path: always safe.
	if u.Scheme == "" && u.Host == "" {
		if strings.HasPrefix(u.Path, "/") {
			return candidate, true
		}
		return "", false
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}

	if !p.hostAllowed(requestHost, u.Host) {
		return "", false
	}

	return candidate, true
}

func (p *Policy) hostAllowed(requestHost, candidateHost string) bool {
	normalize := func(h string) string {
		if host, _, err := net.SplitHostPort(h); err == nil {
			h = host
		}
		return strings.ToLower(h)
	}

	ch := normalize(candidateHost)
	if ch == "" {
		return false
	}
	if ch == normalize(requestHost) {
		return true
	}
	_, ok := p.allowed[ch]
	return ok
}
